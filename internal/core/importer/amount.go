package importer

import (
	"regexp"
	"strings"

	"cobranca-service/internal/domain"

	"github.com/shopspring/decimal"
)

var numericBodyRegex = regexp.MustCompile(`^[0-9.,]+$`)

// ParseAmount interpreta valores monetários brasileiros ou anglo ("R$ 1.234,56",
// "1234.56", "(10,00)"). Texto que não é número fica guardado como veio.
func ParseAmount(v any) domain.Amount {
	switch val := v.(type) {
	case nil:
		return domain.Amount{}
	case float64:
		return domain.NewAmount(decimal.NewFromFloat(val).Round(2))
	case int:
		return domain.NewAmount(decimal.NewFromInt(int64(val)))
	case int64:
		return domain.NewAmount(decimal.NewFromInt(val))
	case decimal.Decimal:
		return domain.NewAmount(val)
	case string:
		return parseBRLAmount(val)
	}
	return domain.Amount{}
}

func parseBRLAmount(raw string) domain.Amount {
	s := strings.TrimSpace(raw)
	if s == "" {
		return domain.Amount{}
	}
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if s == "" {
		return domain.RawAmount(raw)
	}

	// tratar sinais/parenteses
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimPrefix(strings.TrimSuffix(s, ")"), "(")
	}
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimPrefix(s, "-")
	}
	if !numericBodyRegex.MatchString(s) {
		return domain.RawAmount(raw)
	}

	// localizar última ocorrência de . e , para decidir formato
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	if lastComma > lastDot {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else if lastDot > lastComma {
		s = strings.ReplaceAll(s, ",", "")
		if strings.Count(s, ".") > 1 {
			parts := strings.Split(s, ".")
			decimalPart := parts[len(parts)-1]
			intPart := strings.Join(parts[:len(parts)-1], "")
			s = intPart + "." + decimalPart
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return domain.RawAmount(raw)
	}
	if neg {
		d = d.Neg()
	}
	return domain.NewAmount(d.Round(2))
}
