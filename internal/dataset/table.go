package dataset

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// KeySeparator joins department and cleaned municipality into the composite
// municipality key.
const KeySeparator = "|"

// Record is one row of the canonical municipality by people table.
type Record struct {
	Department   string `json:"department" parquet:"department"`
	Municipality string `json:"municipality_clean" parquet:"municipality_clean"`
	Key          string `json:"municipality_key" parquet:"municipality_key"`
	PeopleCode   string `json:"people_code" parquet:"people_code"`
	PeopleName   string `json:"people_name" parquet:"people_name"`
	Population   int    `json:"population_2018" parquet:"population_2018"`
}

// Columns lists the canonical column order used by every tabular encoding.
var Columns = []string{
	"department",
	"municipality_clean",
	"municipality_key",
	"people_code",
	"people_name",
	"population_2018",
}

// Table is the canonical dataset. It is built once and treated as read-only
// by every downstream consumer.
type Table struct {
	Rows []Record
}

// MunicipalityKey builds the composite key for a department and a cleaned
// municipality name.
func MunicipalityKey(department, municipality string) string {
	return strings.TrimSpace(department) + KeySeparator + municipality
}

// SplitKey recovers (department, municipality) from a composite key by
// splitting on the first separator.
func SplitKey(key string) (string, string) {
	dep, mun, _ := strings.Cut(key, KeySeparator)
	return dep, mun
}

var trailingParen = regexp.MustCompile(`\s*\(.*\)$`)

// CleanMunicipality strips a trailing parenthetical qualifier and surrounding
// whitespace: "Puerto López (META)" becomes "Puerto López".
func CleanMunicipality(name string) string {
	return strings.TrimSpace(trailingParen.ReplaceAllString(name, ""))
}

// CoercePopulation converts a raw cell to a non-negative integer. Thousands
// separators are tolerated, fractional values are truncated, and anything
// unparseable or negative resolves to 0 rather than an error.
func CoercePopulation(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return int(f)
}

// Options are the distinct sorted values present in the table, used to
// populate filter controls.
type Options struct {
	Peoples        []string `json:"peoples"`
	Departments    []string `json:"departments"`
	Municipalities []string `json:"municipalities"`
}

// Options returns the distinct non-empty people names, departments, and
// cleaned municipality names, each sorted ascending.
func (t *Table) Options() Options {
	return Options{
		Peoples:        distinctSorted(t.Rows, func(r Record) string { return r.PeopleName }),
		Departments:    distinctSorted(t.Rows, func(r Record) string { return r.Department }),
		Municipalities: distinctSorted(t.Rows, func(r Record) string { return r.Municipality }),
	}
}

func distinctSorted(rows []Record, field func(Record) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range rows {
		v := field(r)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
