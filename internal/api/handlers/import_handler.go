package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"cobranca-service/internal/api/responses"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var allowedImportExt = map[string]bool{".csv": true, ".txt": true, ".xls": true, ".xlsx": true}

// readUpload lê o arquivo do campo "file" inteiro para a memória.
func (h *Handler) readUpload(c *gin.Context) ([]byte, string, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Arquivo (.csv, .xls, .xlsx) não encontrado ou inválido")
		return nil, "", false
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImportExt[ext] {
		responses.Error(c, http.StatusBadRequest, fmt.Sprintf("Extensão de arquivo não suportada: %s", ext))
		return nil, "", false
	}

	file, err := fileHeader.Open()
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Não foi possível abrir o arquivo")
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Não foi possível ler o arquivo")
		return nil, "", false
	}
	return data, fileHeader.Filename, true
}

// HandleListSheets lista as abas do arquivo enviado, sem importar.
func (h *Handler) HandleListSheets(c *gin.Context) {
	data, name, ok := h.readUpload(c)
	if !ok {
		return
	}
	sheets, err := h.ws.Sheets(data, name)
	if err != nil {
		h.fail(c, err, "Erro ao ler as abas da planilha")
		return
	}
	responses.Success(c, gin.H{"fileName": name, "sheets": sheets}, "")
}

// HandleImport importa a aba escolhida, substituindo a importação anterior.
func (h *Handler) HandleImport(c *gin.Context) {
	data, name, ok := h.readUpload(c)
	if !ok {
		return
	}
	batch, err := h.ws.Import(data, name, c.PostForm("sheet"))
	if err != nil {
		h.fail(c, err, "Erro ao importar a planilha")
		return
	}
	h.logger.Info("importação concluída", zap.String("file", name), zap.Int("rows", batch.RowCount))

	message := fmt.Sprintf("%d clientes importados", batch.RowCount)
	if batch.RowCount == 0 {
		message = "Nenhum cliente encontrado na planilha"
	}
	responses.Success(c, batch, message)
}

// HandleGetBatch devolve os metadados da última importação.
func (h *Handler) HandleGetBatch(c *gin.Context) {
	batch, ok := h.ws.Batch()
	if !ok {
		responses.Error(c, http.StatusNotFound, "Nenhuma planilha importada")
		return
	}
	responses.Success(c, batch, "")
}

// HandleClearImport descarta as linhas importadas.
func (h *Handler) HandleClearImport(c *gin.Context) {
	n := h.ws.ClearImport()
	responses.Success(c, gin.H{"removed": n}, "Importação descartada")
}
