package messaging

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cobranca-service/internal/core/classify"
	"cobranca-service/internal/domain"
)

// ErrInvalidPhone indica telefone insuficiente para abrir a conversa.
var ErrInvalidPhone = errors.New("telefone inválido: informe DDD e número")

const (
	linkBase      = "https://wa.me/"
	minLinkDigits = 12
	dateLayoutBR  = "02/01/2006"
)

// DefaultMessage é o modelo usado quando nenhum outro é informado.
const DefaultMessage = "Olá {nome}, tudo bem? Identificamos uma pendência de R$ {valor} com vencimento em {vencimento}. Podemos conversar sobre o pagamento?"

// Link monta o link de conversa. Só aceita telefones que, com o prefixo do país,
// tenham ao menos 12 dígitos.
func Link(phone, text string) (string, error) {
	d, ok := NormalizePhone(phone)
	if !ok || len(d) < minLinkDigits {
		return "", ErrInvalidPhone
	}
	link := linkBase + d
	if text != "" {
		// espaço como %20, igual ao encodeURIComponent esperado pelo wa.me
		link += "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	}
	return link, nil
}

// Render preenche os marcadores {nome}, {valor}, {vencimento}, {dias} e {promessa}
// do modelo com os dados do registro. Modelo vazio usa DefaultMessage.
func Render(template string, r domain.ClientRecord, today time.Time) string {
	if strings.TrimSpace(template) == "" {
		template = DefaultMessage
	}
	due, promise, days := "", "", ""
	if r.DueDate != nil {
		due = r.DueDate.Format(dateLayoutBR)
		if classify.IsOverdue(r, today) {
			days = strconv.Itoa(classify.DaysLate(r, today))
		}
	}
	if r.PromiseDate != nil {
		promise = r.PromiseDate.Format(dateLayoutBR)
	}
	return strings.NewReplacer(
		"{nome}", firstName(r.Name),
		"{nome_completo}", r.Name,
		"{valor}", r.Amount.String(),
		"{vencimento}", due,
		"{dias}", days,
		"{promessa}", promise,
	).Replace(template)
}

func firstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
