// Package reconcile une clientes manuais, linhas importadas e promessas em um único
// conjunto de trabalho.
package reconcile

import (
	"cobranca-service/internal/core/identity"
	"cobranca-service/internal/domain"
)

// Compose reconstrói o conjunto de trabalho do zero: clientes manuais primeiro,
// depois os importados, cada origem na sua ordem interna. Quando existe promessa
// com data para a chave do registro, a data é sobreposta na cópia devolvida.
// As entradas não são alteradas; compor duas vezes as mesmas entradas produz o
// mesmo resultado.
func Compose(manual, imported []domain.ClientRecord, promises map[identity.Key]domain.PromisePayload) []domain.ClientRecord {
	out := make([]domain.ClientRecord, 0, len(manual)+len(imported))
	for _, r := range manual {
		out = append(out, overlay(r, domain.SourceManual, promises))
	}
	for _, r := range imported {
		out = append(out, overlay(r, domain.SourceImported, promises))
	}
	return out
}

func overlay(r domain.ClientRecord, source domain.Source, promises map[identity.Key]domain.PromisePayload) domain.ClientRecord {
	r.Source = source
	r.PromiseDate = nil
	if r.DueDate != nil {
		due := *r.DueDate
		r.DueDate = &due
	}

	p, ok := promises[identity.PromiseKey(r)]
	if !ok || p.PromiseDate == nil {
		return r
	}
	date := *p.PromiseDate
	r.PromiseDate = &date
	return r
}
