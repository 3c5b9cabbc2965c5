// Package messaging monta links de conversa do WhatsApp e mensagens de cobrança.
package messaging

import (
	"strings"

	"cobranca-service/internal/core/textnorm"
)

// CountryPrefix é o código de país forçado nos telefones.
const CountryPrefix = "55"

const minLocalDigits = 10

// NormalizePhone devolve só os dígitos do telefone com o prefixo do país. Números
// com menos de 10 dígitos são rejeitados; quem já começa com 55 fica como está.
func NormalizePhone(phone string) (string, bool) {
	d := textnorm.Digits(phone)
	if len(d) < minLocalDigits {
		return "", false
	}
	if strings.HasPrefix(d, CountryPrefix) {
		return d, true
	}
	return CountryPrefix + d, true
}
