package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cobranca-service/internal/api/responses"
	"cobranca-service/internal/core/bulk"
	"cobranca-service/internal/core/classify"
	"cobranca-service/internal/core/clients"
	"cobranca-service/internal/core/export"
	"cobranca-service/internal/core/identity"
	"cobranca-service/internal/core/importer"
	"cobranca-service/internal/core/messaging"
	"cobranca-service/internal/core/promises"
	"cobranca-service/internal/core/workspace"
	"cobranca-service/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Workspace é o conjunto de operações que a API expõe.
type Workspace interface {
	Sheets(data []byte, filename string) ([]string, error)
	Import(data []byte, filename, sheet string) (domain.ImportBatch, error)
	ClearImport() int
	Batch() (domain.ImportBatch, bool)
	AddClient(in clients.NewClient) (domain.ClientRecord, error)
	DeleteAllClients() (int, error)
	SavePromise(recordID string, date *time.Time, note string) (promises.Entry, error)
	DeletePromise(key identity.Key) error
	Promises() []promises.Entry
	View(f classify.Filter, today time.Time) []domain.ClientView
	Summary(today time.Time) domain.Summary
	BulkPhones(f classify.Filter, mode bulk.Mode, today time.Time) []string
	BulkTargets(f classify.Filter, mode bulk.Mode, template string, today time.Time) []bulk.Target
	MessageLink(recordID, template string, today time.Time) (string, error)
	ExportCSV(f classify.Filter, today time.Time, opts export.CSVOptions) ([]byte, error)
	ExportXLSX(f classify.Filter, today time.Time) ([]byte, error)
}

// Options ajusta o comportamento dos handlers.
type Options struct {
	Location *time.Location
	CSV      export.CSVOptions
	Now      func() time.Time
	Logger   *zap.Logger
}

// Handler lida com as requisições da API de cobrança.
type Handler struct {
	ws     Workspace
	opts   Options
	logger *zap.Logger
}

// NewHandler cria um novo handler.
func NewHandler(ws Workspace, opts Options) *Handler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.CSV.Delimiter == 0 {
		opts.CSV.Delimiter = ','
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{ws: ws, opts: opts, logger: logger}
}

// Register registra as rotas no grupo informado.
func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/import", h.HandleGetBatch)
	r.POST("/import/sheets", h.HandleListSheets)
	r.POST("/import", h.HandleImport)
	r.DELETE("/import", h.HandleClearImport)

	r.GET("/clients", h.HandleListClients)
	r.POST("/clients", h.HandleAddClient)
	r.DELETE("/clients", h.HandleDeleteAllClients)
	r.PUT("/clients/:id/promise", h.HandleSavePromise)
	r.GET("/clients/:id/whatsapp", h.HandleMessageLink)

	r.GET("/summary", h.HandleSummary)
	r.GET("/promises", h.HandleListPromises)
	r.DELETE("/promises/:key", h.HandleDeletePromise)

	r.GET("/bulk/:mode", h.HandleBulk)

	r.GET("/export.csv", h.HandleExportCSV)
	r.GET("/export.xlsx", h.HandleExportXLSX)
}

// today lê o parâmetro "today" (AAAA-MM-DD ou DD/MM/AAAA); ausente usa o dia atual no fuso configurado.
func (h *Handler) today(c *gin.Context) (time.Time, bool) {
	raw := strings.TrimSpace(c.Query("today"))
	if raw == "" {
		return h.opts.Now().In(h.opts.Location), true
	}
	day, ok := parseRequestDate(raw)
	if !ok {
		responses.Error(c, http.StatusBadRequest, fmt.Sprintf("Data de referência inválida: %s", raw))
		return time.Time{}, false
	}
	return day, true
}

// parseRequestDate aceita datas digitadas (AAAA-MM-DD, DD/MM/AAAA, DD.MM.AAAA).
// Números soltos como "2024" não são aceitos, pois seriam lidos como serial de planilha.
func parseRequestDate(raw string) (time.Time, bool) {
	if !strings.ContainsAny(raw, "-/.") {
		return time.Time{}, false
	}
	if _, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Time{}, false
	}
	return importer.ParseDate(raw)
}

// filter lê os parâmetros "view" e "q".
func (h *Handler) filter(c *gin.Context) (classify.Filter, bool) {
	view, ok := classify.ParseView(c.Query("view"))
	if !ok {
		responses.Error(c, http.StatusBadRequest, fmt.Sprintf("Recorte desconhecido: %s", c.Query("view")))
		return classify.Filter{}, false
	}
	return classify.Filter{View: view, Query: c.Query("q")}, true
}

// fail traduz erros do domínio em respostas HTTP.
func (h *Handler) fail(c *gin.Context, err error, message string) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, importer.ErrUnreadableWorkbook):
		code = http.StatusUnprocessableEntity
		message = "Não foi possível ler a planilha"
	case errors.Is(err, messaging.ErrInvalidPhone), errors.Is(err, clients.ErrEmptyClient):
		code = http.StatusBadRequest
	case errors.Is(err, workspace.ErrClientNotFound), errors.Is(err, workspace.ErrPromiseNotFound):
		code = http.StatusNotFound
	}
	if code == http.StatusInternalServerError {
		h.logger.Error(message, zap.Error(err))
	}
	responses.Error(c, code, message, err.Error())
}

// persistWarning devolve a mensagem de aviso quando a alteração não foi gravada.
func persistWarning(err error, ok string) (string, bool) {
	if err == nil {
		return ok, true
	}
	if errors.Is(err, workspace.ErrPersist) {
		return ok + " (atenção: não foi possível gravar em disco)", true
	}
	return "", false
}
