package importer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		in    any
		valid bool
		want  string
		raw   string
	}{
		{"brl with symbol", "R$ 1.234,56", true, "1234.56", ""},
		{"brl plain", "350,5", true, "350.5", ""},
		{"anglo", "1,234.56", true, "1234.56", ""},
		{"raw cell number", "1500.75", true, "1500.75", ""},
		{"many thousand dots", "1.234.567,00", true, "1234567", ""},
		{"parentheses negative", "(10,00)", true, "-10", ""},
		{"minus", "-25,30", true, "-25.3", ""},
		{"rounds to cents", "10,005", true, "10.01", ""},
		{"float cell", 99.999, true, "100", ""},
		{"int cell", 42, true, "42", ""},
		{"text kept raw", "a combinar", false, "", "a combinar"},
		{"mixed kept raw", "R$ 100 + juros", false, "", "R$ 100 + juros"},
		{"empty", "", false, "", ""},
		{"nil", nil, false, "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseAmount(tc.in)
			assert.Equal(t, tc.valid, got.Valid)
			if tc.valid {
				assert.True(t, decimal.RequireFromString(tc.want).Equal(got.Value), "got %s", got.Value)
			} else {
				assert.Equal(t, tc.raw, got.Raw)
			}
		})
	}
}
