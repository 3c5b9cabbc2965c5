// Package workspace mantém o estado em memória do serviço: clientes manuais,
// última importação, promessas e o conjunto de trabalho derivado deles.
package workspace

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"cobranca-service/internal/core/bulk"
	"cobranca-service/internal/core/classify"
	"cobranca-service/internal/core/clients"
	"cobranca-service/internal/core/export"
	"cobranca-service/internal/core/identity"
	"cobranca-service/internal/core/importer"
	"cobranca-service/internal/core/messaging"
	"cobranca-service/internal/core/promises"
	"cobranca-service/internal/core/reconcile"
	"cobranca-service/internal/domain"

	"go.uber.org/zap"
)

var (
	ErrClientNotFound  = errors.New("cliente não encontrado")
	ErrPromiseNotFound = errors.New("promessa não encontrada")

	// ErrPersist indica que a alteração foi aplicada em memória mas não gravada.
	ErrPersist = errors.New("falha ao persistir estado")
)

type flusher interface {
	Flush() error
}

// Workspace serializa todas as operações com um único mutex; cada operação roda
// até o fim antes da próxima.
type Workspace struct {
	mu       sync.Mutex
	clients  *clients.Store
	promises *promises.Store
	importer importer.Service
	logger   *zap.Logger
	now      func() time.Time

	imported []domain.ClientRecord
	batch    *domain.ImportBatch
	working  []domain.ClientRecord
}

// Option ajusta o Workspace.
type Option func(*Workspace)

// WithClock substitui o relógio usado em createdAt, updatedAt e importedAt.
func WithClock(now func() time.Time) Option {
	return func(w *Workspace) { w.now = now }
}

// New monta o Workspace e já compõe o conjunto de trabalho inicial.
func New(cl *clients.Store, pr *promises.Store, imp importer.Service, logger *zap.Logger, opts ...Option) *Workspace {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Workspace{
		clients:  cl,
		promises: pr,
		importer: imp,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.recompose()
	return w
}

// recompose reconstrói o conjunto de trabalho do zero. Chamar com o mutex travado.
func (w *Workspace) recompose() {
	w.working = reconcile.Compose(w.clients.All(), w.imported, w.promises.Snapshot())
}

// commit grava os stores alterados e recompõe. O estado em memória permanece
// aplicado mesmo se a gravação falhar.
func (w *Workspace) commit(stores ...flusher) error {
	var errs []error
	for _, s := range stores {
		if err := s.Flush(); err != nil {
			w.logger.Error("falha ao persistir estado", zap.Error(err))
			errs = append(errs, err)
		}
	}
	w.recompose()
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrPersist, errors.Join(errs...))
	}
	return nil
}

func (w *Workspace) findLocked(recordID string) (domain.ClientRecord, bool) {
	for _, r := range w.working {
		if r.ID == recordID {
			return r, true
		}
	}
	return domain.ClientRecord{}, false
}

// Sheets lista as abas do arquivo sem alterar o estado.
func (w *Workspace) Sheets(data []byte, filename string) ([]string, error) {
	return w.importer.Sheets(data, filename)
}

// Import substitui as linhas importadas pelas do arquivo. Arquivo ilegível não
// altera nada.
func (w *Workspace) Import(data []byte, filename, sheet string) (domain.ImportBatch, error) {
	result, err := w.importer.Import(data, filename, sheet, w.now())
	if err != nil {
		return domain.ImportBatch{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.imported = result.Records
	batch := result.Batch
	w.batch = &batch
	w.recompose()
	return batch, nil
}

// ClearImport descarta as linhas importadas e devolve quantas eram.
func (w *Workspace) ClearImport() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	n := len(w.imported)
	w.imported = nil
	w.batch = nil
	w.recompose()
	return n
}

// Batch devolve os metadados da última importação, se houver.
func (w *Workspace) Batch() (domain.ImportBatch, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.batch == nil {
		return domain.ImportBatch{}, false
	}
	return *w.batch, true
}

// AddClient cadastra um cliente manual.
func (w *Workspace) AddClient(in clients.NewClient) (domain.ClientRecord, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	r, err := w.clients.Add(in, w.now())
	if err != nil {
		return domain.ClientRecord{}, err
	}
	return r, w.commit(w.clients)
}

// DeleteAllClients remove todos os clientes manuais. Promessas não são tocadas.
func (w *Workspace) DeleteAllClients() (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n := w.clients.DeleteAll()
	return n, w.commit(w.clients)
}

// SavePromise cria ou sobrescreve a promessa do cliente, guardando um retrato
// dos dados atuais dele. A chave é a identidade do registro ou, sem documento e
// telefone utilizáveis, uma chave sintética do próprio registro.
func (w *Workspace) SavePromise(recordID string, date *time.Time, note string) (promises.Entry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	r, ok := w.findLocked(recordID)
	if !ok {
		return promises.Entry{}, ErrClientNotFound
	}

	key := identity.PromiseKey(r)
	payload := domain.PromisePayload{
		PromiseDate: date,
		UpdatedAt:   w.now(),
		Note:        strings.TrimSpace(note),
		Snapshot: domain.PromiseSnapshot{
			Name:       r.Name,
			Phone:      r.Phone,
			NationalID: r.NationalID,
			Amount:     r.Amount,
		},
	}
	w.promises.Put(key, payload)

	w.logger.Info("promessa salva", zap.String("key", string(key)), zap.String("record_id", recordID))
	return promises.Entry{Key: key, PromisePayload: payload}, w.commit(w.promises)
}

// DeletePromise remove a promessa pela chave.
func (w *Workspace) DeletePromise(key identity.Key) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.promises.Delete(key) {
		return ErrPromiseNotFound
	}
	return w.commit(w.promises)
}

// Promises lista todas as promessas, inclusive as que nenhum registro atual resolve.
func (w *Workspace) Promises() []promises.Entry {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.promises.Entries()
}

// WorkingSet devolve uma cópia do conjunto de trabalho.
func (w *Workspace) WorkingSet() []domain.ClientRecord {
	w.mu.Lock()
	defer w.mu.Unlock()

	return append([]domain.ClientRecord(nil), w.working...)
}

func (w *Workspace) filteredLocked(f classify.Filter, today time.Time) []domain.ClientRecord {
	out := []domain.ClientRecord{}
	for _, r := range w.working {
		if f.Match(r, today) {
			out = append(out, r)
		}
	}
	return out
}

// View devolve o recorte filtrado com a classificação de cada registro.
func (w *Workspace) View(f classify.Filter, today time.Time) []domain.ClientView {
	w.mu.Lock()
	defer w.mu.Unlock()

	return classify.Apply(w.working, f, today)
}

// Summary agrega o conjunto de trabalho inteiro.
func (w *Workspace) Summary(today time.Time) domain.Summary {
	w.mu.Lock()
	defer w.mu.Unlock()

	return classify.Summarize(w.working, today)
}

// BulkPhones devolve os telefones do disparo dentro do recorte f.
func (w *Workspace) BulkPhones(f classify.Filter, mode bulk.Mode, today time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	return bulk.SelectPhones(w.filteredLocked(f, today), mode, today)
}

// BulkTargets devolve mensagem e link de cada destinatário do disparo.
func (w *Workspace) BulkTargets(f classify.Filter, mode bulk.Mode, template string, today time.Time) []bulk.Target {
	w.mu.Lock()
	defer w.mu.Unlock()

	return bulk.Targets(w.filteredLocked(f, today), mode, template, today)
}

// MessageLink monta o link de conversa de um único cliente.
func (w *Workspace) MessageLink(recordID, template string, today time.Time) (string, error) {
	w.mu.Lock()
	r, ok := w.findLocked(recordID)
	w.mu.Unlock()

	if !ok {
		return "", ErrClientNotFound
	}
	return messaging.Link(r.Phone, messaging.Render(template, r, today))
}

// ExportCSV serializa o recorte f em texto delimitado.
func (w *Workspace) ExportCSV(f classify.Filter, today time.Time, opts export.CSVOptions) ([]byte, error) {
	w.mu.Lock()
	view := w.filteredLocked(f, today)
	w.mu.Unlock()

	return export.CSV(view, opts)
}

// ExportXLSX serializa o recorte f em planilha.
func (w *Workspace) ExportXLSX(f classify.Filter, today time.Time) ([]byte, error) {
	w.mu.Lock()
	view := w.filteredLocked(f, today)
	w.mu.Unlock()

	return export.XLSX(view)
}
