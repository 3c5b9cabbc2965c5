package domain

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount é um valor monetário numérico ou, quando não foi possível interpretá-lo,
// o texto original da planilha.
type Amount struct {
	Value decimal.Decimal
	Valid bool
	Raw   string
}

// NewAmount cria um Amount numérico.
func NewAmount(v decimal.Decimal) Amount {
	return Amount{Value: v, Valid: true}
}

// RawAmount cria um Amount não normalizado.
func RawAmount(raw string) Amount {
	return Amount{Raw: raw}
}

// IsZero indica ausência de valor.
func (a Amount) IsZero() bool {
	return !a.Valid && strings.TrimSpace(a.Raw) == ""
}

// String formata o valor no padrão brasileiro com duas casas ("1234,50").
// Valores não numéricos retornam o texto original.
func (a Amount) String() string {
	if !a.Valid {
		return a.Raw
	}
	return strings.Replace(a.Value.StringFixed(2), ".", ",", 1)
}

// MarshalJSON emite número, texto original ou null.
func (a Amount) MarshalJSON() ([]byte, error) {
	if a.Valid {
		return []byte(a.Value.String()), nil
	}
	if a.Raw == "" {
		return []byte("null"), nil
	}
	return json.Marshal(a.Raw)
}

// UnmarshalJSON aceita número, string ou null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*a = Amount{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		a.Raw = s
		return nil
	}
	v, err := decimal.NewFromString(string(data))
	if err != nil {
		return err
	}
	a.Value = v
	a.Valid = true
	return nil
}
