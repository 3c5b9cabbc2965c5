package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ErrUnreadableWorkbook indica que o arquivo enviado não pôde ser lido como planilha.
var ErrUnreadableWorkbook = errors.New("arquivo de planilha ilegível")

// Workbook é uma pasta de trabalho já lida em memória, com as abas em ordem.
type Workbook struct {
	names  []string
	sheets map[string][][]string
}

// SheetNames devolve os nomes das abas na ordem do arquivo.
func (w *Workbook) SheetNames() []string {
	return append([]string(nil), w.names...)
}

// Rows devolve as linhas brutas da aba pedida. Nome vazio ou desconhecido cai na
// primeira aba; o nome efetivamente usado é retornado junto.
func (w *Workbook) Rows(name string) ([][]string, string) {
	if rows, ok := w.sheets[name]; ok {
		return rows, name
	}
	if len(w.names) == 0 {
		return nil, ""
	}
	first := w.names[0]
	return w.sheets[first], first
}

func (w *Workbook) add(name string, rows [][]string) {
	if name == "" {
		name = fmt.Sprintf("Planilha%d", len(w.names)+1)
	}
	if _, dup := w.sheets[name]; dup {
		name = fmt.Sprintf("%s (%d)", name, len(w.names)+1)
	}
	w.names = append(w.names, name)
	w.sheets[name] = rows
}

func newWorkbook() *Workbook {
	return &Workbook{sheets: make(map[string][][]string)}
}

// OpenWorkbook lê xlsx, xls ou csv a partir dos bytes enviados. A extensão do nome
// do arquivo decide a primeira tentativa.
func OpenWorkbook(data []byte, filename string) (*Workbook, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: arquivo vazio", ErrUnreadableWorkbook)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv", ".txt":
		wb, err := readCSV(data, strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
		}
		return wb, nil
	case ".xls":
		wb, err := readXLS(data)
		if err == nil {
			return wb, nil
		}
		// talvez seja xlsx com extensão errada; tentar excelize
		if wbx, errX := readXLSX(data); errX == nil {
			return wbx, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	default:
		wb, err := readXLSX(data)
		if err == nil {
			return wb, nil
		}
		if wbx, errX := readXLS(data); errX == nil {
			return wbx, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
}

func readXLSX(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	wb := newWorkbook()
	for _, name := range f.GetSheetList() {
		// valores crus: datas chegam como serial numérico em vez do texto formatado
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			continue
		}
		wb.add(name, rows)
	}
	return wb, nil
}

func readXLS(data []byte) (*Workbook, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	wb := newWorkbook()
	for i := 0; i < len(workbook.GetSheets()); i++ {
		sheet, err := workbook.GetSheet(i)
		if err != nil {
			return nil, fmt.Errorf("erro ao obter planilha do arquivo .xls: %w", err)
		}
		var allRows [][]string
		for _, row := range sheet.GetRows() {
			var csvRow []string
			for _, cell := range row.GetCols() {
				csvRow = append(csvRow, cell.GetString())
			}
			allRows = append(allRows, csvRow)
		}
		wb.add(strings.TrimSpace(sheet.GetName()), allRows)
	}
	return wb, nil
}

func readCSV(data []byte, name string) (*Workbook, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var src io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		// exportações do Excel brasileiro costumam vir em cp1252
		src = transform.NewReader(src, charmap.Windows1252.NewDecoder())
	}

	reader := csv.NewReader(src)
	reader.Comma = sniffDelimiter(data)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	wb := newWorkbook()
	if name == "" || name == "." {
		name = "CSV"
	}
	wb.add(name, records)
	return wb, nil
}

// sniffDelimiter escolhe entre ';', ',' e tab pela primeira linha não vazia.
func sniffDelimiter(data []byte) rune {
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		best, bestCount := ',', strings.Count(line, ",")
		for _, d := range []rune{';', '\t'} {
			if c := strings.Count(line, string(d)); c > bestCount {
				best, bestCount = d, c
			}
		}
		return best
	}
	return ','
}
