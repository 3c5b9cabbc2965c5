// Package bulk seleciona os telefones de um disparo em lote.
package bulk

import (
	"strings"
	"time"

	"cobranca-service/internal/core/classify"
	"cobranca-service/internal/core/messaging"
	"cobranca-service/internal/domain"
)

// Mode é o critério de seleção do disparo.
type Mode string

// Modos de disparo.
const (
	ModeDueToday Mode = "DUE_TODAY"
	ModeBreach   Mode = "BREACH"
	ModeLate1To5 Mode = "LATE_1_5"
)

// ParseMode aceita o nome do modo sem diferenciar maiúsculas.
func ParseMode(s string) (Mode, bool) {
	switch m := Mode(strings.ToUpper(strings.TrimSpace(s))); m {
	case ModeDueToday, ModeBreach, ModeLate1To5:
		return m, true
	}
	return "", false
}

// Matches aplica o critério do modo ao registro.
func (m Mode) Matches(r domain.ClientRecord, today time.Time) bool {
	switch m {
	case ModeDueToday:
		return classify.IsDueToday(r, today)
	case ModeBreach:
		return classify.IsBreach(r, today)
	case ModeLate1To5:
		return classify.IsLate1To5(r, today)
	}
	return false
}

// Select devolve os registros do recorte que atendem ao modo e têm telefone válido,
// na ordem do recorte.
func Select(view []domain.ClientRecord, mode Mode, today time.Time) []domain.ClientRecord {
	var out []domain.ClientRecord
	for _, r := range view {
		if !mode.Matches(r, today) {
			continue
		}
		if _, ok := messaging.NormalizePhone(r.Phone); !ok {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SelectPhones devolve os telefones (só dígitos, com 55) do disparo, na ordem do
// recorte e sem remover repetidos.
func SelectPhones(view []domain.ClientRecord, mode Mode, today time.Time) []string {
	phones := []string{}
	for _, r := range Select(view, mode, today) {
		p, _ := messaging.NormalizePhone(r.Phone)
		phones = append(phones, p)
	}
	return phones
}

// Target é um destinatário do disparo com o link pronto.
type Target struct {
	RecordID string `json:"recordId"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Link     string `json:"link"`
	Message  string `json:"message"`
}

// Targets monta mensagem e link para cada destinatário. Telefones que não
// produzem link válido ficam de fora.
func Targets(view []domain.ClientRecord, mode Mode, template string, today time.Time) []Target {
	targets := []Target{}
	for _, r := range Select(view, mode, today) {
		msg := messaging.Render(template, r, today)
		link, err := messaging.Link(r.Phone, msg)
		if err != nil {
			continue
		}
		p, _ := messaging.NormalizePhone(r.Phone)
		targets = append(targets, Target{RecordID: r.ID, Name: r.Name, Phone: p, Link: link, Message: msg})
	}
	return targets
}
