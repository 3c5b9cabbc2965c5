package handlers

import (
	"net/http"

	"cobranca-service/internal/api/responses"
	"cobranca-service/internal/core/clients"

	"github.com/gin-gonic/gin"
)

// HandleListClients devolve o recorte filtrado do conjunto de trabalho.
func (h *Handler) HandleListClients(c *gin.Context) {
	today, ok := h.today(c)
	if !ok {
		return
	}
	f, ok := h.filter(c)
	if !ok {
		return
	}
	responses.Success(c, h.ws.View(f, today), "")
}

// HandleAddClient cadastra um cliente manual.
func (h *Handler) HandleAddClient(c *gin.Context) {
	var req clients.NewClient
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "Requisição inválida", err.Error())
		return
	}

	record, err := h.ws.AddClient(req)
	message, ok := persistWarning(err, "Cliente cadastrado")
	if !ok {
		h.fail(c, err, "Erro ao cadastrar cliente")
		return
	}
	responses.Created(c, record, message)
}

// HandleDeleteAllClients remove todos os clientes manuais.
func (h *Handler) HandleDeleteAllClients(c *gin.Context) {
	n, err := h.ws.DeleteAllClients()
	message, ok := persistWarning(err, "Clientes manuais removidos")
	if !ok {
		h.fail(c, err, "Erro ao remover clientes")
		return
	}
	responses.Success(c, gin.H{"removed": n}, message)
}

// HandleSummary devolve as contagens e totais do conjunto de trabalho.
func (h *Handler) HandleSummary(c *gin.Context) {
	today, ok := h.today(c)
	if !ok {
		return
	}
	responses.Success(c, h.ws.Summary(today), "")
}
