// Package identity deriva a chave que liga um cliente às suas promessas de pagamento.
package identity

import (
	"cobranca-service/internal/core/textnorm"
	"cobranca-service/internal/domain"
)

// Key é a chave de vínculo entre ClientRecord e PromisePayload.
// Não identifica o registro: dois clientes com a mesma chave continuam separados.
type Key string

const (
	nationalIDPrefix = "id-digits:"
	phonePrefix      = "phone-digits:"
	recordPrefix     = "record:"

	minNationalIDDigits = 8
	minPhoneDigits      = 10
)

// Resolve retorna a chave baseada no documento (>= 8 dígitos) ou, na falta dele,
// no telefone (>= 10 dígitos). Sem nenhum dos dois a chave é vazia.
func Resolve(r domain.ClientRecord) Key {
	return FromFields(r.NationalID, r.Phone)
}

// FromFields aplica a mesma regra de Resolve sobre os campos brutos.
func FromFields(nationalID, phone string) Key {
	if d := textnorm.Digits(nationalID); len(d) >= minNationalIDDigits {
		return Key(nationalIDPrefix + d)
	}
	if d := textnorm.Digits(phone); len(d) >= minPhoneDigits {
		return Key(phonePrefix + d)
	}
	return ""
}

// PromiseKey é a chave usada para gravar uma promessa. Quando nem documento nem
// telefone servem, usa uma chave sintética presa ao id do registro.
func PromiseKey(r domain.ClientRecord) Key {
	if k := Resolve(r); k != "" {
		return k
	}
	return Key(recordPrefix + r.ID)
}

// IsSynthetic indica se a chave foi gerada a partir do id do registro.
func (k Key) IsSynthetic() bool {
	return len(k) > len(recordPrefix) && string(k[:len(recordPrefix)]) == recordPrefix
}
