package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"cobranca-service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func records() []domain.ClientRecord {
	due := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	promise := time.Date(2024, 3, 22, 0, 0, 0, 0, time.UTC)
	return []domain.ClientRecord{
		{
			NationalID: "123.456.789-00",
			Name:       `Silva, José "Zé"`,
			Amount:     domain.NewAmount(decimal.RequireFromString("1500.5")),
			DueDate:    &due,
			Phone:      "(11) 98765-4321",
			Status:     "Em aberto",
			Notes:      "linha 1\nlinha 2",
			Source:     domain.SourceManual,
		},
		{
			Name:        "Maria",
			Amount:      domain.RawAmount("a combinar"),
			PromiseDate: &promise,
			Source:      domain.SourceImported,
		},
	}
}

func TestCSVEscapingRoundTrip(t *testing.T) {
	out, err := CSV(records(), CSVOptions{Delimiter: ','})
	require.NoError(t, err)

	assert.Contains(t, string(out), `"Silva, José ""Zé"""`)
	assert.Contains(t, string(out), "\"linha 1\nlinha 2\"")

	parsed, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, 3)
	assert.Equal(t, Header(), parsed[0])
	assert.Equal(t, []string{"123.456.789-00", `Silva, José "Zé"`, "1500,50", "15/03/2024", "(11) 98765-4321", "", "Em aberto", "linha 1\nlinha 2", "", "Manual"}, parsed[1])
	assert.Equal(t, []string{"", "Maria", "a combinar", "", "", "", "", "", "22/03/2024", "Importado"}, parsed[2])
}

func TestCSVSemicolonAndBOM(t *testing.T) {
	out, err := CSV(records()[1:], CSVOptions{Delimiter: ';', BOM: true})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("\xef\xbb\xbf")))

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(out, []byte("\xef\xbb\xbf"))))
	r.Comma = ';'
	parsed, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "Maria", parsed[1][1])
}

func TestCSVEmpty(t *testing.T) {
	out, err := CSV(nil, CSVOptions{})
	require.NoError(t, err)
	parsed, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{Header()}, parsed)
}

func TestXLSX(t *testing.T) {
	out, err := XLSX(records())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header(), rows[0])
	assert.Equal(t, `Silva, José "Zé"`, rows[1][1])
	assert.Equal(t, "15/03/2024", rows[1][3])
	assert.Equal(t, "Importado", rows[2][9])
}
