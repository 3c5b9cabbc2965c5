// Package textnorm concentra a normalização de texto usada para comparar rótulos
// de colunas e status digitados por pessoas.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize remove acentos, converte para minúsculas e colapsa tudo que não é
// letra ou dígito em um único espaço.
func Normalize(str string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}), norm.NFC)
	result, _, err := transform.String(t, str)
	if err != nil {
		result = str
	}
	result = strings.ToLower(result)
	result = nonAlphanumericRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// Digits mantém apenas os dígitos ASCII de s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// HasWord indica se a palavra aparece isolada no texto já normalizado.
func HasWord(normalized, word string) bool {
	for _, w := range strings.Fields(normalized) {
		if w == word {
			return true
		}
	}
	return false
}
