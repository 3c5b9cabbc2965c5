package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"cobranca-service/internal/domain"
)

// NormalizeRows converte as linhas chaveadas pelo cabeçalho original em registros
// canônicos. Linhas sem documento, nome e telefone são descartadas; as demais
// recebem ids posicionais imp-1, imp-2, ... únicos dentro do lote.
func NormalizeRows(records []map[string]any, mapping Mapping, importedAt time.Time) []domain.ClientRecord {
	out := make([]domain.ClientRecord, 0, len(records))
	for _, rec := range records {
		r, ok := NormalizeRow(rec, mapping)
		if !ok {
			continue
		}
		r.ID = fmt.Sprintf("imp-%d", len(out)+1)
		r.Source = domain.SourceImported
		r.CreatedAt = importedAt
		out = append(out, r)
	}
	return out
}

// NormalizeRow converte uma única linha. O segundo retorno é falso quando a linha
// não tem documento, nome nem telefone.
func NormalizeRow(rec map[string]any, mapping Mapping) (domain.ClientRecord, bool) {
	get := func(f domain.Field) any {
		col, ok := mapping[f]
		if !ok {
			return nil
		}
		return rec[col]
	}

	r := domain.ClientRecord{
		NationalID:      identifierText(get(domain.FieldNationalID)),
		Name:            cellText(get(domain.FieldName)),
		Amount:          ParseAmount(normalizeBlank(get(domain.FieldAmount))),
		Phone:           identifierText(get(domain.FieldPhone)),
		NegotiationType: cellText(get(domain.FieldNegotiationType)),
		Status:          cellText(get(domain.FieldStatus)),
		Notes:           cellText(get(domain.FieldNotes)),
	}
	if due, ok := ParseDate(get(domain.FieldDueDate)); ok {
		r.DueDate = &due
	}

	if r.NationalID == "" && r.Name == "" && r.Phone == "" {
		return domain.ClientRecord{}, false
	}
	return r, true
}

func normalizeBlank(v any) any {
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return nil
	}
	return v
}

// cellText devolve o conteúdo textual aparado de uma célula.
func cellText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case time.Time:
		return val.Format("02/01/2006")
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// identifierText trata CPF e telefone gravados como número na planilha, que às
// vezes chegam em notação científica ("1.1987654321E+10").
func identifierText(v any) string {
	s := cellText(v)
	if !strings.ContainsAny(s, "eE") {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return s
	}
	return strconv.FormatFloat(f, 'f', 0, 64)
}
