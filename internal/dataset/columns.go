package dataset

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Column keyword sets for the DANE census export. Headers drift across
// versions of the workbook, so detection is by normalized substring rather
// than exact name.
var (
	departmentKeywords   = []string{"departamento"}
	municipalityKeywords = []string{"municipio"}
	peopleCodeKeywords   = []string{"pa11codetnia", "codetnia", "cod_pueblo"}
	populationKeywords   = []string{"poblacion", "total", "cnt"}
	peopleNameKeywords   = []string{"pueblo", "nombre", "etnia"}
	catalogCodeKeywords  = []string{"pa11codetnia", "codetnia", "codigo"}
)

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeHeader lowercases a header, strips diacritics, and removes
// whitespace and underscores so "Código Étnia" and "codigo_etnia" compare equal.
func normalizeHeader(s string) string {
	flat, _, err := transform.String(deaccent, s)
	if err != nil {
		flat = s
	}
	flat = strings.ToLower(flat)
	var b strings.Builder
	b.Grow(len(flat))
	for _, r := range flat {
		if unicode.IsSpace(r) || r == '_' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ResolveColumn returns the first header whose normalized form contains a
// normalized keyword, trying keywords in the given priority order and headers
// in their original order. It returns the empty string when nothing matches;
// absence is the caller's decision to treat as fatal or not.
func ResolveColumn(headers []string, keywords []string) string {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}
	for _, kw := range keywords {
		want := normalizeHeader(kw)
		for i, norm := range normalized {
			if strings.Contains(norm, want) {
				return headers[i]
			}
		}
	}
	return ""
}

// columnIndex returns the position of name within headers, or -1.
func columnIndex(headers []string, name string) int {
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	return -1
}
