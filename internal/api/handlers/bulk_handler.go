package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"cobranca-service/internal/api/responses"
	"cobranca-service/internal/core/bulk"

	"github.com/gin-gonic/gin"
)

// HandleBulk devolve telefones e links do disparo em lote no recorte atual.
func (h *Handler) HandleBulk(c *gin.Context) {
	mode, ok := bulk.ParseMode(c.Param("mode"))
	if !ok {
		responses.Error(c, http.StatusBadRequest, fmt.Sprintf("Modo de disparo desconhecido: %s", c.Param("mode")))
		return
	}
	today, ok := h.today(c)
	if !ok {
		return
	}
	f, ok := h.filter(c)
	if !ok {
		return
	}

	phones := h.ws.BulkPhones(f, mode, today)
	targets := h.ws.BulkTargets(f, mode, c.Query("template"), today)
	responses.Success(c, gin.H{
		"mode":    mode,
		"phones":  phones,
		"joined":  strings.Join(phones, ","),
		"targets": targets,
	}, fmt.Sprintf("%d telefones selecionados", len(phones)))
}

// HandleMessageLink monta o link de conversa de um cliente.
func (h *Handler) HandleMessageLink(c *gin.Context) {
	today, ok := h.today(c)
	if !ok {
		return
	}
	link, err := h.ws.MessageLink(c.Param("id"), c.Query("template"), today)
	if err != nil {
		h.fail(c, err, "Não foi possível montar o link")
		return
	}
	responses.Success(c, gin.H{"link": link}, "")
}
