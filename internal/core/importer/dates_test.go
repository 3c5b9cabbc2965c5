package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	sp, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		sp = time.FixedZone("BRT", -3*3600)
	}

	tests := []struct {
		name  string
		in    any
		ok    bool
		wantT time.Time
	}{
		{"native time keeps calendar day", time.Date(2024, 3, 15, 22, 30, 0, 0, sp), true, want},
		{"serial float", 45366.0, true, want},
		{"serial with time fraction", 45366.99, true, want},
		{"serial as text", "45366", true, want},
		{"serial text with fraction", "45366.25", true, want},
		{"serial int", 45366, true, want},
		{"day first", "15/03/2024", true, want},
		{"day first single digits", "5/3/2024", true, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"day first with time", "15/03/2024 10:00", true, want},
		{"iso", "2024-03-15", true, want},
		{"iso timestamp", "2024-03-15T08:00:00Z", true, want},
		{"dashes day first", "15-03-2024", true, want},
		{"dotted", "15.03.2024", true, want},
		{"impossible day", "31/02/2024", false, time.Time{}},
		{"garbage", "amanhã", false, time.Time{}},
		{"blank", "  ", false, time.Time{}},
		{"nil", nil, false, time.Time{}},
		{"zero serial", 0.0, false, time.Time{}},
		{"negative serial", "-5", false, time.Time{}},
		{"zero time", time.Time{}, false, time.Time{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseDate(tc.in)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.True(t, tc.wantT.Equal(got), "got %s", got)
			}
		})
	}
}

func TestExcelSerialEpoch(t *testing.T) {
	got, ok := excelSerialToDate(1)
	assert.True(t, ok)
	assert.Equal(t, time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC), got)

	got, ok = excelSerialToDate(61)
	assert.True(t, ok)
	assert.Equal(t, time.Date(1900, 3, 1, 0, 0, 0, 0, time.UTC), got)

	got, ok = excelSerialToDate(45292)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), got)
}
