package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Repository carrega e grava um documento JSON inteiro sob uma chave.
type Repository[T any] interface {
	Load() (T, error)
	Save(value T) error
}

type jsonRepository[T any] struct {
	kv       KV
	key      string
	fallback func() T
	logger   *zap.Logger
}

// NewJSONRepository cria um repositório para key. fallback produz o valor padrão
// devolvido quando a chave não existe ou o conteúdo está corrompido.
func NewJSONRepository[T any](kv KV, key string, fallback func() T, logger *zap.Logger) Repository[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &jsonRepository[T]{kv: kv, key: key, fallback: fallback, logger: logger}
}

// Load nunca falha por conteúdo ausente ou inválido: devolve o padrão e registra
// um aviso. O erro retornado serve apenas para o chamador saber que houve fallback.
func (r *jsonRepository[T]) Load() (T, error) {
	data, err := r.kv.Get(r.key)
	if errors.Is(err, ErrNotFound) {
		return r.fallback(), nil
	}
	if err != nil {
		r.logger.Warn("falha ao ler estado persistido, usando padrão", zap.String("key", r.key), zap.Error(err))
		return r.fallback(), fmt.Errorf("erro ao ler %s: %w", r.key, err)
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		r.logger.Warn("estado persistido corrompido, usando padrão", zap.String("key", r.key), zap.Error(err))
		return r.fallback(), fmt.Errorf("erro ao decodificar %s: %w", r.key, err)
	}
	return value, nil
}

func (r *jsonRepository[T]) Save(value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("erro ao codificar %s: %w", r.key, err)
	}
	if err := r.kv.Put(r.key, data); err != nil {
		return fmt.Errorf("erro ao gravar %s: %w", r.key, err)
	}
	return nil
}
