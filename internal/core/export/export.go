// Package export gera as planilhas de saída do conjunto de trabalho.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"cobranca-service/internal/domain"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

// SheetName é o nome da única aba do arquivo xlsx.
const SheetName = "Clientes"

const dateLayoutBR = "02/01/2006"

// Row é uma linha exportada, com as colunas na ordem fixa de saída.
type Row struct {
	NationalID      string `csv:"CPF/CNPJ"`
	Name            string `csv:"Nome"`
	Amount          string `csv:"Valor"`
	DueDate         string `csv:"Vencimento"`
	Phone           string `csv:"Telefone"`
	NegotiationType string `csv:"Tipo de negociação"`
	Status          string `csv:"Status"`
	Notes           string `csv:"Observações"`
	PromiseDate     string `csv:"Data da promessa"`
	Source          string `csv:"Origem"`
}

// Header devolve os títulos das colunas na ordem de saída.
func Header() []string {
	return []string{"CPF/CNPJ", "Nome", "Valor", "Vencimento", "Telefone", "Tipo de negociação", "Status", "Observações", "Data da promessa", "Origem"}
}

func (r Row) values() []string {
	return []string{r.NationalID, r.Name, r.Amount, r.DueDate, r.Phone, r.NegotiationType, r.Status, r.Notes, r.PromiseDate, r.Source}
}

// SourceLabel traduz a origem do registro para a coluna Origem.
func SourceLabel(s domain.Source) string {
	if s == domain.SourceManual {
		return "Manual"
	}
	return "Importado"
}

// Rows converte os registros para linhas de saída.
func Rows(records []domain.ClientRecord) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		row := Row{
			NationalID:      r.NationalID,
			Name:            r.Name,
			Amount:          r.Amount.String(),
			Phone:           r.Phone,
			NegotiationType: r.NegotiationType,
			Status:          r.Status,
			Notes:           r.Notes,
			Source:          SourceLabel(r.Source),
		}
		if r.DueDate != nil {
			row.DueDate = r.DueDate.Format(dateLayoutBR)
		}
		if r.PromiseDate != nil {
			row.PromiseDate = r.PromiseDate.Format(dateLayoutBR)
		}
		rows = append(rows, row)
	}
	return rows
}

// CSVOptions controla a serialização em texto delimitado.
type CSVOptions struct {
	Delimiter rune
	// BOM prefixa o arquivo com a marca UTF-8 para o Excel reconhecer os acentos.
	BOM bool
}

// CSV serializa os registros. Campos com o delimitador, aspas ou quebra de linha
// saem entre aspas, com aspas internas duplicadas.
func CSV(records []domain.ClientRecord, opts CSVOptions) ([]byte, error) {
	var buffer bytes.Buffer
	if opts.BOM {
		buffer.WriteString("\xef\xbb\xbf")
	}

	writer := csv.NewWriter(&buffer)
	if opts.Delimiter != 0 {
		writer.Comma = opts.Delimiter
	}

	rows := Rows(records)
	if len(rows) == 0 {
		// gocsv não escreve cabeçalho para lista vazia
		if err := writer.Write(Header()); err != nil {
			return nil, err
		}
		writer.Flush()
		return buffer.Bytes(), writer.Error()
	}

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(writer)); err != nil {
		return nil, fmt.Errorf("erro ao gerar CSV: %w", err)
	}
	writer.Flush()
	return buffer.Bytes(), writer.Error()
}

// XLSX gera um arquivo xlsx com uma única aba.
func XLSX(records []domain.ClientRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}

	header := Header()
	if err := writeRow(f, 1, header); err != nil {
		return nil, err
	}
	for i, row := range Rows(records) {
		if err := writeRow(f, i+2, row.values()); err != nil {
			return nil, err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return nil, err
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(SheetName, "A1", lastCol+"1", style)
	}
	_ = f.SetColWidth(SheetName, "A", lastCol, 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return f.SetSheetRow(SheetName, cell, &row)
}
