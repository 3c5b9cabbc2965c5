package importer

import (
	"fmt"
	"strings"

	"cobranca-service/internal/core/textnorm"
	"cobranca-service/internal/domain"

	"github.com/schollz/closestmatch"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// headerScanLimit limita quantas linhas do topo da planilha são inspecionadas.
const headerScanLimit = 25

// Mapping associa cada campo canônico à coluna original (texto do cabeçalho) escolhida.
type Mapping map[domain.Field]string

// DetectHeaderRow localiza a linha de cabeçalho. Exportações reais trazem títulos,
// faixas mescladas e linhas em branco antes do cabeçalho verdadeiro, por isso a
// linha só é aceita quando tem ao mesmo tempo uma coluna de documento e uma de nome.
func DetectHeaderRow(rows [][]string) int {
	limit := headerScanLimit
	if len(rows) < limit {
		limit = len(rows)
	}

	for i := 0; i < limit; i++ {
		hasID, hasName := false, false
		for _, cell := range rows[i] {
			if !hasID && IsNationalIDLabel(cell) {
				hasID = true
			}
			if !hasName && IsNameLabel(cell) {
				hasName = true
			}
		}
		if hasID && hasName {
			return i
		}
	}

	for i := 0; i < limit; i++ {
		filled := 0
		for _, cell := range rows[i] {
			if strings.TrimSpace(cell) != "" {
				filled++
			}
		}
		if filled >= 3 {
			return i
		}
	}
	return 0
}

// KeyRows transforma as linhas abaixo do cabeçalho em mapas chaveados pelo texto
// do cabeçalho. Colunas sem título recebem __EMPTY, __EMPTY_1, ... e títulos
// repetidos ganham sufixo _1, _2, ... Linhas totalmente vazias são ignoradas.
func KeyRows(rows [][]string, headerIdx int) ([]string, []map[string]any) {
	if headerIdx < 0 || headerIdx >= len(rows) {
		return nil, nil
	}

	width := len(rows[headerIdx])
	for _, row := range rows[headerIdx+1:] {
		if len(row) > width {
			width = len(row)
		}
	}

	headers := make([]string, width)
	seen := make(map[string]int)
	for i := 0; i < width; i++ {
		base := ""
		if i < len(rows[headerIdx]) {
			base = strings.TrimSpace(rows[headerIdx][i])
		}
		if base == "" {
			base = "__EMPTY"
		}
		name := base
		if n, ok := seen[base]; ok {
			name = fmt.Sprintf("%s_%d", base, n+1)
			seen[base] = n + 1
		} else {
			seen[base] = 0
		}
		headers[i] = name
	}

	var records []map[string]any
	for _, row := range rows[headerIdx+1:] {
		blank := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				blank = false
				break
			}
		}
		if blank {
			continue
		}
		rec := make(map[string]any, width)
		for i, cell := range row {
			rec[headers[i]] = cell
		}
		records = append(records, rec)
	}
	return headers, records
}

// ResolveMapping aplica a tabela de regras sobre os cabeçalhos na ordem da planilha.
// Para cada campo, uma coluna com rótulo exato vence; sem ela, vence a primeira
// coluna que casar com algum gatilho. Cada coluna serve a um único campo. Com fuzzy
// ligado, campos sem correspondência aceitam uma coluna livre que esteja a uma ou
// duas letras de distância de um gatilho (erros de digitação).
func ResolveMapping(headers []string, rules []FieldRule, fuzzy bool) Mapping {
	mapping := make(Mapping)
	claimed := make(map[string]bool)

	claim := func(rule FieldRule, match func(string) bool) bool {
		for _, h := range headers {
			if !claimed[h] && match(h) {
				mapping[rule.Field] = h
				claimed[h] = true
				return true
			}
		}
		return false
	}

	for _, rule := range rules {
		if !claim(rule, rule.MatchesExact) {
			claim(rule, rule.Matches)
		}
	}

	if !fuzzy {
		return mapping
	}

	for _, rule := range rules {
		if _, ok := mapping[rule.Field]; ok {
			continue
		}
		if h, ok := closestHeader(rule, headers, claimed); ok {
			mapping[rule.Field] = h
			claimed[h] = true
		}
	}
	return mapping
}

// closestHeader procura, entre as colunas ainda livres, a mais próxima de algum
// gatilho da regra. closestmatch pré-seleciona candidatas e a distância de edição
// decide: a coluna (ou uma palavra dela) precisa estar a no máximo maxEdits do gatilho.
func closestHeader(rule FieldRule, headers []string, claimed map[string]bool) (string, bool) {
	byNorm := make(map[string]string)
	var candidates []string
	for _, h := range headers {
		if claimed[h] || strings.HasPrefix(h, "__EMPTY") {
			continue
		}
		n := textnorm.Normalize(h)
		if n == "" || rule.Matcher.excluded(n) {
			continue
		}
		if _, dup := byNorm[n]; dup {
			continue
		}
		byNorm[n] = h
		candidates = append(candidates, n)
	}
	if len(candidates) == 0 {
		return "", false
	}

	cm := closestmatch.New(candidates, []int{2, 3})
	best, bestDist := "", -1
	for _, target := range rule.fuzzyTargets() {
		limit := maxEdits(target)
		if limit == 0 {
			continue
		}
		for _, c := range cm.ClosestN(target, fuzzyShortlist) {
			d := wordDistance(c, target)
			if d <= limit && (bestDist < 0 || d < bestDist) {
				best, bestDist = c, d
			}
		}
	}
	if best == "" {
		return "", false
	}
	return byNorm[best], true
}

const (
	minFuzzyTarget = 5
	fuzzyShortlist = 3
)

var editCosts = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 1,
	Matches: levenshtein.IdenticalRunes,
}

// maxEdits é a tolerância de erros para um gatilho; gatilhos curtos não entram.
func maxEdits(target string) int {
	switch n := len([]rune(target)); {
	case n < minFuzzyTarget:
		return 0
	case n <= 7:
		return 1
	}
	return 2
}

// wordDistance é a menor distância de edição entre target e o rótulo inteiro ou
// qualquer palavra dele.
func wordDistance(label, target string) int {
	best := levenshtein.DistanceForStrings([]rune(label), []rune(target), editCosts)
	for _, w := range strings.Fields(label) {
		if d := levenshtein.DistanceForStrings([]rune(w), []rune(target), editCosts); d < best {
			best = d
		}
	}
	return best
}
