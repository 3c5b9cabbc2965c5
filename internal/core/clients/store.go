// Package clients mantém a lista de clientes cadastrados manualmente.
package clients

import (
	"errors"
	"strings"
	"time"

	"cobranca-service/internal/core/importer"
	"cobranca-service/internal/domain"
	"cobranca-service/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RepositoryKey é a chave do documento persistido de clientes manuais.
const RepositoryKey = "cobranca.clientes.v1"

// ErrEmptyClient indica um cadastro sem documento, nome e telefone.
var ErrEmptyClient = errors.New("informe ao menos documento, nome ou telefone")

// NewClient é o formulário de cadastro manual, com valores ainda em texto.
type NewClient struct {
	NationalID      string `json:"nationalId"`
	Name            string `json:"name"`
	Amount          string `json:"amount"`
	DueDate         string `json:"dueDate"`
	Phone           string `json:"phone"`
	NegotiationType string `json:"negotiationType"`
	Status          string `json:"status"`
	Notes           string `json:"notes"`
}

// Store guarda os clientes manuais do mais novo para o mais antigo.
type Store struct {
	repo    storage.Repository[[]domain.ClientRecord]
	records []domain.ClientRecord
	logger  *zap.Logger
}

// Empty é o valor padrão do documento de clientes.
func Empty() []domain.ClientRecord { return []domain.ClientRecord{} }

// NewStore carrega os clientes persistidos. Conteúdo ausente ou corrompido
// resulta em lista vazia.
func NewStore(repo storage.Repository[[]domain.ClientRecord], logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	records, err := repo.Load()
	if err != nil {
		logger.Warn("clientes manuais não carregados", zap.Error(err))
	}
	if records == nil {
		records = Empty()
	}
	for i := range records {
		records[i].Source = domain.SourceManual
		records[i].PromiseDate = nil
	}
	return &Store{repo: repo, records: records, logger: logger}
}

// All devolve uma cópia da lista atual.
func (s *Store) All() []domain.ClientRecord {
	return append([]domain.ClientRecord(nil), s.records...)
}

// Len devolve a quantidade de clientes manuais.
func (s *Store) Len() int { return len(s.records) }

// Add valida o formulário e insere o cliente no topo da lista.
func (s *Store) Add(in NewClient, now time.Time) (domain.ClientRecord, error) {
	r := domain.ClientRecord{
		ID:              uuid.NewString(),
		NationalID:      strings.TrimSpace(in.NationalID),
		Name:            strings.TrimSpace(in.Name),
		Amount:          importer.ParseAmount(in.Amount),
		Phone:           strings.TrimSpace(in.Phone),
		NegotiationType: strings.TrimSpace(in.NegotiationType),
		Status:          strings.TrimSpace(in.Status),
		Notes:           strings.TrimSpace(in.Notes),
		Source:          domain.SourceManual,
		CreatedAt:       now,
	}
	if r.NationalID == "" && r.Name == "" && r.Phone == "" {
		return domain.ClientRecord{}, ErrEmptyClient
	}
	if due, ok := importer.ParseDate(in.DueDate); ok {
		r.DueDate = &due
	}

	s.records = append([]domain.ClientRecord{r}, s.records...)
	return r, nil
}

// DeleteAll remove todos os clientes manuais e devolve quantos foram removidos.
func (s *Store) DeleteAll() int {
	n := len(s.records)
	s.records = Empty()
	return n
}

// Flush grava a lista inteira. A data de promessa nunca é persistida aqui.
func (s *Store) Flush() error {
	out := make([]domain.ClientRecord, len(s.records))
	for i, r := range s.records {
		r.PromiseDate = nil
		out[i] = r
	}
	return s.repo.Save(out)
}
