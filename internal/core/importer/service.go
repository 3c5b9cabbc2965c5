// Package importer lê planilhas de layout desconhecido e as converte em registros
// canônicos de clientes.
package importer

import (
	"fmt"
	"time"

	"cobranca-service/internal/domain"

	"go.uber.org/zap"
)

// Service define a interface do serviço de importação de planilhas.
type Service interface {
	Sheets(data []byte, filename string) ([]string, error)
	Import(data []byte, filename, sheet string, importedAt time.Time) (Result, error)
}

// Result é o resultado de uma importação: metadados do lote e registros normalizados.
type Result struct {
	Batch   domain.ImportBatch
	Headers []string
	Records []domain.ClientRecord
}

type service struct {
	logger *zap.Logger
	rules  []FieldRule
	fuzzy  bool
}

// Option ajusta o serviço de importação.
type Option func(*service)

// WithFuzzyHeaders liga ou desliga a busca aproximada de cabeçalhos.
func WithFuzzyHeaders(enabled bool) Option {
	return func(s *service) { s.fuzzy = enabled }
}

// WithRules substitui a tabela de regras de cabeçalho.
func WithRules(rules []FieldRule) Option {
	return func(s *service) { s.rules = rules }
}

// NewService cria uma nova instância do serviço de importação.
func NewService(logger *zap.Logger, opts ...Option) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &service{logger: logger, rules: DefaultRules}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Sheets(data []byte, filename string) ([]string, error) {
	wb, err := OpenWorkbook(data, filename)
	if err != nil {
		return nil, err
	}
	return wb.SheetNames(), nil
}

// Import lê a aba escolhida, detecta o cabeçalho, resolve as colunas e normaliza
// as linhas. Planilha sem abas ou sem colunas reconhecíveis resulta em zero linhas,
// não em erro.
func (s *service) Import(data []byte, filename, sheet string, importedAt time.Time) (Result, error) {
	wb, err := OpenWorkbook(data, filename)
	if err != nil {
		return Result{}, fmt.Errorf("erro ao abrir planilha %q: %w", filename, err)
	}

	rows, sheetName := wb.Rows(sheet)
	batch := domain.ImportBatch{
		FileName:   filename,
		SheetName:  sheetName,
		Mapping:    map[domain.Field]string{},
		ImportedAt: importedAt,
	}
	if len(rows) == 0 {
		s.logger.Warn("planilha sem linhas", zap.String("file", filename), zap.String("sheet", sheetName))
		return Result{Batch: batch}, nil
	}

	headerIdx := DetectHeaderRow(rows)
	headers, keyed := KeyRows(rows, headerIdx)
	mapping := ResolveMapping(headers, s.rules, s.fuzzy)
	records := NormalizeRows(keyed, mapping, importedAt)

	batch.HeaderRow = headerIdx
	batch.Mapping = mapping
	batch.RowCount = len(records)

	s.logger.Info("planilha importada",
		zap.String("file", filename),
		zap.String("sheet", sheetName),
		zap.Int("header_row", headerIdx),
		zap.Int("mapped_fields", len(mapping)),
		zap.Int("rows", len(records)),
	)
	return Result{Batch: batch, Headers: headers, Records: records}, nil
}
