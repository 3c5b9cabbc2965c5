// Package classify calcula a situação de vencimento dos clientes em relação a uma
// data de referência explícita. Toda comparação é por dia de calendário.
package classify

import (
	"math"
	"strings"
	"time"

	"cobranca-service/internal/core/textnorm"
	"cobranca-service/internal/domain"
)

// paidMarker é procurado como substring no status normalizado. "não pago" também
// casa; o comportamento literal é mantido de propósito.
const paidMarker = "pago"

// DueStatus é a situação de vencimento de um registro.
type DueStatus string

// Situações possíveis. Pago prevalece sobre qualquer data.
const (
	StatusPaid      DueStatus = "paid"
	StatusOverdue   DueStatus = "overdue"
	StatusDueToday  DueStatus = "due_today"
	StatusUpcoming  DueStatus = "upcoming"
	StatusNoDueDate DueStatus = "no_due_date"
)

// Day devolve a meia-noite UTC do dia de calendário de t, lido no fuso do próprio t.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsPaid indica se o status contém o marcador de pago.
func IsPaid(r domain.ClientRecord) bool {
	return strings.Contains(textnorm.Normalize(r.Status), paidMarker)
}

// IsDueToday indica vencimento no mesmo dia de today, sem pagamento.
func IsDueToday(r domain.ClientRecord, today time.Time) bool {
	if r.DueDate == nil || IsPaid(r) {
		return false
	}
	return Day(*r.DueDate).Equal(Day(today))
}

// IsOverdue indica vencimento estritamente anterior a today, sem pagamento.
func IsOverdue(r domain.ClientRecord, today time.Time) bool {
	if r.DueDate == nil || IsPaid(r) {
		return false
	}
	return Day(*r.DueDate).Before(Day(today))
}

// DaysLate conta os dias de calendário entre o vencimento e today. É zero sem
// vencimento e negativo para datas futuras; use junto com IsOverdue.
func DaysLate(r domain.ClientRecord, today time.Time) int {
	if r.DueDate == nil {
		return 0
	}
	diff := Day(today).Sub(Day(*r.DueDate))
	return int(math.Floor(diff.Hours() / 24))
}

// StatusOf resume a situação do registro.
func StatusOf(r domain.ClientRecord, today time.Time) DueStatus {
	switch {
	case IsPaid(r):
		return StatusPaid
	case r.DueDate == nil:
		return StatusNoDueDate
	case IsOverdue(r, today):
		return StatusOverdue
	case IsDueToday(r, today):
		return StatusDueToday
	}
	return StatusUpcoming
}

// IsLate1To5 indica atraso entre 1 e 5 dias, sem pagamento.
func IsLate1To5(r domain.ClientRecord, today time.Time) bool {
	if !IsOverdue(r, today) {
		return false
	}
	d := DaysLate(r, today)
	return d >= 1 && d <= 5
}

// IsBreach indica quebra de acordo: atraso acima de 5 dias, sem pagamento.
func IsBreach(r domain.ClientRecord, today time.Time) bool {
	return IsOverdue(r, today) && DaysLate(r, today) > 5
}
