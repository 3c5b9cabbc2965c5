package importer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// maior serial aceito pelo Excel (31/12/9999)
	maxExcelSerial = 2958465
)

var dayFirstRegex = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})(?:\s.*)?$`)

// genericDateLayouts são tentados, em ordem, depois dos formatos específicos.
var genericDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-01-2006",
	"02.01.2006",
	"2006/01/02",
	"20060102",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// ParseDate interpreta um valor de célula como data de calendário, na prioridade:
// valor de data nativo, serial numérico de planilha, texto DD/MM/AAAA e por fim
// formatos genéricos. O resultado é a meia-noite UTC do dia de calendário.
func ParseDate(v any) (time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if val.IsZero() {
			return time.Time{}, false
		}
		return civilDay(val), true
	case *time.Time:
		if val == nil || val.IsZero() {
			return time.Time{}, false
		}
		return civilDay(*val), true
	case float64:
		return excelSerialToDate(val)
	case float32:
		return excelSerialToDate(float64(val))
	case int:
		return excelSerialToDate(float64(val))
	case int64:
		return excelSerialToDate(float64(val))
	case string:
		return parseDateString(val)
	}
	return time.Time{}, false
}

func parseDateString(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if t, ok := excelSerialToDate(f); ok {
			return t, true
		}
	}

	if m := dayFirstRegex.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		// rejeita 31/02 e afins, que time.Date normalizaria para outro mês
		if t.Day() == day && int(t.Month()) == month {
			return t, true
		}
		return time.Time{}, false
	}

	for _, layout := range genericDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return civilDay(t), true
		}
	}
	return time.Time{}, false
}

// excelSerialToDate converte um serial do sistema de datas 1900 em dia de calendário.
// A fração (hora do dia) é descartada.
func excelSerialToDate(serial float64) (time.Time, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 1 || serial > maxExcelSerial {
		return time.Time{}, false
	}
	days := int(math.Floor(serial))
	// base Excel serial -> 1899-12-30; antes do falso 29/02/1900 a base é 1899-12-31
	base := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	if days < 61 {
		base = time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)
	}
	return base.AddDate(0, 0, days), true
}

// civilDay devolve a meia-noite UTC do dia de calendário de t no fuso do próprio t.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
