package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountJSON(t *testing.T) {
	tests := []struct {
		name string
		in   Amount
		json string
	}{
		{"numérico", NewAmount(decimal.RequireFromString("1500.5")), `1500.5`},
		{"texto original", RawAmount("a combinar"), `"a combinar"`},
		{"vazio", Amount{}, `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.json, string(out))

			var back Amount
			require.NoError(t, json.Unmarshal(out, &back))
			assert.Equal(t, tt.in.Valid, back.Valid)
			assert.Equal(t, tt.in.Raw, back.Raw)
			assert.True(t, tt.in.Value.Equal(back.Value))
		})
	}
}

func TestAmountString(t *testing.T) {
	assert.Equal(t, "1234,50", NewAmount(decimal.RequireFromString("1234.5")).String())
	assert.Equal(t, "-10,00", NewAmount(decimal.NewFromInt(-10)).String())
	assert.Equal(t, "R$ ???", RawAmount("R$ ???").String())
	assert.True(t, RawAmount("  ").IsZero())
	assert.False(t, NewAmount(decimal.Zero).IsZero())
}

func TestAmountUnmarshalInvalid(t *testing.T) {
	var a Amount
	assert.Error(t, json.Unmarshal([]byte(`true`), &a))
}
