package handlers

import (
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"cobranca-service/internal/api/responses"

	"github.com/gin-gonic/gin"
)

// HandleExportCSV exporta o recorte atual em CSV. O parâmetro "delimiter"
// substitui o delimitador configurado.
func (h *Handler) HandleExportCSV(c *gin.Context) {
	today, ok := h.today(c)
	if !ok {
		return
	}
	f, ok := h.filter(c)
	if !ok {
		return
	}

	opts := h.opts.CSV
	if d := c.Query("delimiter"); d != "" {
		if utf8.RuneCountInString(d) != 1 {
			responses.Error(c, http.StatusBadRequest, fmt.Sprintf("Delimitador inválido: %s", d))
			return
		}
		opts.Delimiter, _ = utf8.DecodeRuneInString(d)
	}

	output, err := h.ws.ExportCSV(f, today, opts)
	if err != nil {
		h.fail(c, err, "Erro ao gerar o CSV")
		return
	}
	responses.File(c, exportName("csv"), "text/csv; charset=utf-8", output)
}

// HandleExportXLSX exporta o recorte atual em planilha.
func (h *Handler) HandleExportXLSX(c *gin.Context) {
	today, ok := h.today(c)
	if !ok {
		return
	}
	f, ok := h.filter(c)
	if !ok {
		return
	}

	output, err := h.ws.ExportXLSX(f, today)
	if err != nil {
		h.fail(c, err, "Erro ao gerar a planilha")
		return
	}
	responses.File(c, exportName("xlsx"), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", output)
}

func exportName(ext string) string {
	return fmt.Sprintf("Clientes_%s.%s", time.Now().Format("20060102_150405"), ext)
}
