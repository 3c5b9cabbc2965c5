// Package promises mantém as promessas de pagamento, indexadas pela chave de identidade.
package promises

import (
	"sort"

	"cobranca-service/internal/core/identity"
	"cobranca-service/internal/domain"
	"cobranca-service/internal/storage"

	"go.uber.org/zap"
)

// RepositoryKey é a chave do documento persistido de promessas.
const RepositoryKey = "cobranca.promessas.v1"

// Entry é uma promessa acompanhada da sua chave.
type Entry struct {
	Key identity.Key `json:"key"`
	domain.PromisePayload
}

// Store guarda as promessas independentemente dos registros de clientes: uma
// promessa sobrevive mesmo que nenhum cliente atual resolva para sua chave.
type Store struct {
	repo     storage.Repository[map[identity.Key]domain.PromisePayload]
	payloads map[identity.Key]domain.PromisePayload
	logger   *zap.Logger
}

// Empty é o valor padrão do documento de promessas.
func Empty() map[identity.Key]domain.PromisePayload {
	return map[identity.Key]domain.PromisePayload{}
}

// NewStore carrega as promessas persistidas, caindo em mapa vazio se necessário.
func NewStore(repo storage.Repository[map[identity.Key]domain.PromisePayload], logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	payloads, err := repo.Load()
	if err != nil {
		logger.Warn("promessas não carregadas", zap.Error(err))
	}
	if payloads == nil {
		payloads = Empty()
	}
	return &Store{repo: repo, payloads: payloads, logger: logger}
}

// Snapshot devolve uma cópia do mapa atual, para composição.
func (s *Store) Snapshot() map[identity.Key]domain.PromisePayload {
	out := make(map[identity.Key]domain.PromisePayload, len(s.payloads))
	for k, v := range s.payloads {
		out[k] = v
	}
	return out
}

// Get devolve a promessa de uma chave.
func (s *Store) Get(key identity.Key) (domain.PromisePayload, bool) {
	p, ok := s.payloads[key]
	return p, ok
}

// Put cria ou sobrescreve a promessa da chave.
func (s *Store) Put(key identity.Key, payload domain.PromisePayload) {
	s.payloads[key] = payload
}

// Delete remove a promessa e informa se ela existia.
func (s *Store) Delete(key identity.Key) bool {
	if _, ok := s.payloads[key]; !ok {
		return false
	}
	delete(s.payloads, key)
	return true
}

// Entries lista as promessas ordenadas pela data prometida e depois pela chave.
func (s *Store) Entries() []Entry {
	out := make([]Entry, 0, len(s.payloads))
	for k, p := range s.payloads {
		out = append(out, Entry{Key: k, PromisePayload: p})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].PromiseDate, out[j].PromiseDate
		switch {
		case a != nil && b != nil && !a.Equal(*b):
			return a.Before(*b)
		case a == nil && b != nil:
			return false
		case a != nil && b == nil:
			return true
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Flush grava o mapa inteiro.
func (s *Store) Flush() error {
	return s.repo.Save(s.payloads)
}
