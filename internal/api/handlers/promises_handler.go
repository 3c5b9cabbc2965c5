package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"cobranca-service/internal/api/responses"
	"cobranca-service/internal/core/identity"

	"github.com/gin-gonic/gin"
)

// PromiseRequest é o corpo do PUT de promessa. Date vazio grava só a observação.
type PromiseRequest struct {
	Date string `json:"date"`
	Note string `json:"note"`
}

// HandleSavePromise cria ou sobrescreve a promessa do cliente.
func (h *Handler) HandleSavePromise(c *gin.Context) {
	var req PromiseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "Requisição inválida", err.Error())
		return
	}

	var date *time.Time
	if raw := strings.TrimSpace(req.Date); raw != "" {
		d, ok := parseRequestDate(raw)
		if !ok {
			responses.Error(c, http.StatusBadRequest, fmt.Sprintf("Data da promessa inválida: %s", raw))
			return
		}
		date = &d
	}

	entry, err := h.ws.SavePromise(c.Param("id"), date, req.Note)
	message, ok := persistWarning(err, "Promessa salva")
	if !ok {
		h.fail(c, err, "Erro ao salvar promessa")
		return
	}
	responses.Success(c, entry, message)
}

// HandleDeletePromise remove a promessa pela chave.
func (h *Handler) HandleDeletePromise(c *gin.Context) {
	err := h.ws.DeletePromise(identity.Key(c.Param("key")))
	message, ok := persistWarning(err, "Promessa removida")
	if !ok {
		h.fail(c, err, "Erro ao remover promessa")
		return
	}
	responses.Success(c, nil, message)
}

// HandleListPromises lista todas as promessas gravadas.
func (h *Handler) HandleListPromises(c *gin.Context) {
	responses.Success(c, h.ws.Promises(), "")
}
