package classify

import (
	"strings"
	"time"

	"cobranca-service/internal/core/identity"
	"cobranca-service/internal/core/textnorm"
	"cobranca-service/internal/domain"

	"github.com/shopspring/decimal"
)

// View é um recorte nomeado do conjunto de trabalho.
type View string

// Recortes disponíveis.
const (
	ViewAll      View = "all"
	ViewDueToday View = "due_today"
	ViewOverdue  View = "overdue"
	ViewLate1To5 View = "late_1_5"
	ViewBreach   View = "breach"
	ViewPaid     View = "paid"
	ViewUpcoming View = "upcoming"
	ViewPromises View = "promises"
)

// ParseView aceita o nome do recorte; vazio significa todos.
func ParseView(s string) (View, bool) {
	switch v := View(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return ViewAll, true
	case ViewAll, ViewDueToday, ViewOverdue, ViewLate1To5, ViewBreach, ViewPaid, ViewUpcoming, ViewPromises:
		return v, true
	}
	return "", false
}

// Filter combina um recorte com busca textual por nome, documento ou telefone.
type Filter struct {
	View  View
	Query string
}

// Match informa se o registro pertence ao recorte e casa com a busca.
func (f Filter) Match(r domain.ClientRecord, today time.Time) bool {
	if !matchView(f.View, r, today) {
		return false
	}
	return matchQuery(f.Query, r)
}

func matchView(v View, r domain.ClientRecord, today time.Time) bool {
	switch v {
	case ViewDueToday:
		return IsDueToday(r, today)
	case ViewOverdue:
		return IsOverdue(r, today)
	case ViewLate1To5:
		return IsLate1To5(r, today)
	case ViewBreach:
		return IsBreach(r, today)
	case ViewPaid:
		return IsPaid(r)
	case ViewUpcoming:
		return StatusOf(r, today) == StatusUpcoming
	case ViewPromises:
		return r.PromiseDate != nil
	}
	return true
}

func matchQuery(q string, r domain.ClientRecord) bool {
	q = strings.TrimSpace(q)
	if q == "" {
		return true
	}
	if nq := textnorm.Normalize(q); nq != "" && strings.Contains(textnorm.Normalize(r.Name), nq) {
		return true
	}
	if dq := textnorm.Digits(q); len(dq) >= 3 {
		return strings.Contains(textnorm.Digits(r.NationalID), dq) || strings.Contains(textnorm.Digits(r.Phone), dq)
	}
	return false
}

// Apply filtra o conjunto preservando a ordem e anexando a classificação.
func Apply(records []domain.ClientRecord, f Filter, today time.Time) []domain.ClientView {
	out := make([]domain.ClientView, 0, len(records))
	for _, r := range records {
		if !f.Match(r, today) {
			continue
		}
		out = append(out, Describe(r, today))
	}
	return out
}

// Describe anexa ao registro a chave de identidade e a classificação.
func Describe(r domain.ClientRecord, today time.Time) domain.ClientView {
	return domain.ClientView{
		ClientRecord: r,
		IdentityKey:  string(identity.Resolve(r)),
		DueStatus:    string(StatusOf(r, today)),
		DaysLate:     DaysLate(r, today),
	}
}

// Summarize conta os registros por situação e soma os valores numéricos.
func Summarize(records []domain.ClientRecord, today time.Time) domain.Summary {
	s := domain.Summary{ReferenceDay: Day(today).Format("2006-01-02")}
	total, open, late := decimal.Zero, decimal.Zero, decimal.Zero

	for _, r := range records {
		s.Total++
		if r.Source == domain.SourceManual {
			s.Manual++
		} else {
			s.Imported++
		}
		if r.PromiseDate != nil {
			s.WithPromise++
		}

		switch StatusOf(r, today) {
		case StatusPaid:
			s.Paid++
		case StatusOverdue:
			s.Overdue++
			if IsBreach(r, today) {
				s.Breach++
			} else if IsLate1To5(r, today) {
				s.Late1To5++
			}
		case StatusDueToday:
			s.DueToday++
		case StatusUpcoming:
			s.Upcoming++
		case StatusNoDueDate:
			s.NoDueDate++
		}

		if !r.Amount.Valid {
			continue
		}
		total = total.Add(r.Amount.Value)
		if !IsPaid(r) {
			open = open.Add(r.Amount.Value)
		}
		if IsOverdue(r, today) {
			late = late.Add(r.Amount.Value)
		}
	}

	s.AmountTotal = domain.NewAmount(total)
	s.AmountOpen = domain.NewAmount(open)
	s.AmountLate = domain.NewAmount(late)
	return s
}
