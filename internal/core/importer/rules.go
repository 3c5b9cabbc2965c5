package importer

import (
	"strings"

	"cobranca-service/internal/core/textnorm"
	"cobranca-service/internal/domain"
)

// matcher descreve, em dados, quando um rótulo de coluna normalizado pertence a um campo.
// Exact tem precedência: uma coluna com o rótulo exato vence colunas anteriores que só
// contêm um gatilho. Whole casa o rótulo inteiro sem essa precedência.
type matcher struct {
	Exact        []string
	Whole        []string
	Contains     []string
	Words        []string
	Excludes     []string
	ExcludeWords []string
}

func (m matcher) excluded(normalized string) bool {
	for _, ex := range m.Excludes {
		if strings.Contains(normalized, ex) {
			return true
		}
	}
	for _, ex := range m.ExcludeWords {
		if textnorm.HasWord(normalized, ex) {
			return true
		}
	}
	return false
}

func (m matcher) matchExact(normalized string) bool {
	if normalized == "" || m.excluded(normalized) {
		return false
	}
	for _, e := range m.Exact {
		if normalized == e {
			return true
		}
	}
	return false
}

func (m matcher) match(normalized string) bool {
	if normalized == "" || m.excluded(normalized) {
		return false
	}
	if m.matchExact(normalized) {
		return true
	}
	for _, e := range m.Whole {
		if normalized == e {
			return true
		}
	}
	for _, c := range m.Contains {
		if strings.Contains(normalized, c) {
			return true
		}
	}
	for _, w := range m.Words {
		if textnorm.HasWord(normalized, w) {
			return true
		}
	}
	return false
}

// FieldRule liga um campo canônico aos gatilhos de rótulo que o identificam.
// Label é o rótulo de referência usado na busca aproximada.
type FieldRule struct {
	Field   domain.Field
	Label   string
	Matcher matcher
}

// Matches informa se o rótulo bruto de uma coluna satisfaz a regra.
func (r FieldRule) Matches(header string) bool {
	return r.Matcher.match(textnorm.Normalize(header))
}

// MatchesExact informa se o rótulo bruto é um dos rótulos exatos da regra.
func (r FieldRule) MatchesExact(header string) bool {
	return r.Matcher.matchExact(textnorm.Normalize(header))
}

// fuzzyTargets são os gatilhos longos o bastante para comparação aproximada.
func (r FieldRule) fuzzyTargets() []string {
	targets := []string{r.Label}
	for _, list := range [][]string{r.Matcher.Exact, r.Matcher.Contains} {
		for _, t := range list {
			if len(t) >= minFuzzyTarget && t != r.Label {
				targets = append(targets, t)
			}
		}
	}
	return targets
}

var (
	nationalIDMatcher = matcher{
		Contains: []string{"cpf", "cnpj", "documento"},
		Words:    []string{"doc"},
	}
	nameMatcher = matcher{
		Contains:     []string{"nome", "cliente", "devedor", "razao social"},
		Excludes:     []string{"cpf", "cnpj", "documento", "telefone", "fone", "celular", "whatsapp", "codigo"},
		ExcludeWords: []string{"doc", "tel", "cod"},
	}
)

// DefaultRules é a tabela de regras pt-BR, avaliada na ordem dos campos canônicos.
var DefaultRules = []FieldRule{
	{Field: domain.FieldNationalID, Label: "cpf", Matcher: nationalIDMatcher},
	{Field: domain.FieldName, Label: "nome", Matcher: nameMatcher},
	{Field: domain.FieldAmount, Label: "valor", Matcher: matcher{
		Exact:        []string{"valor"},
		Contains:     []string{"valor", "vlr", "parcela", "acordo"},
		Excludes:     []string{"data", "venc", "tipo", "quantidade", "numero"},
		ExcludeWords: []string{"dt", "qtd", "n", "no"},
	}},
	{Field: domain.FieldDueDate, Label: "vencimento", Matcher: matcher{
		Whole:    []string{"data", "dt"},
		Contains: []string{"venc", "vcto"},
		Excludes: []string{"promessa", "pagamento", "pgto", "cadastro", "valor", "vlr"},
	}},
	{Field: domain.FieldPhone, Label: "telefone", Matcher: matcher{
		Contains: []string{"telefone", "fone", "celular", "whatsapp", "contato"},
		Words:    []string{"tel", "cel", "whats", "zap"},
		Excludes: []string{"nome", "email"},
	}},
	{Field: domain.FieldNegotiationType, Label: "negociacao", Matcher: matcher{
		Contains: []string{"negociacao", "modalidade", "tipo"},
		Excludes: []string{"documento"},
	}},
	{Field: domain.FieldStatus, Label: "situacao", Matcher: matcher{
		Exact:    []string{"sit"},
		Contains: []string{"status", "situacao"},
	}},
	{Field: domain.FieldNotes, Label: "observacao", Matcher: matcher{
		Contains: []string{"obs", "anotac", "nota", "coment"},
	}},
}

// IsNationalIDLabel indica se o rótulo parece uma coluna de CPF/CNPJ.
func IsNationalIDLabel(header string) bool {
	return nationalIDMatcher.match(textnorm.Normalize(header))
}

// IsNameLabel indica se o rótulo parece uma coluna de nome.
func IsNameLabel(header string) bool {
	return nameMatcher.match(textnorm.Normalize(header))
}
