// Package analysis computes filtered subsets, concentration and diversity
// indicators, and the wide municipality by people matrix over the canonical
// table.
package analysis

import (
	"strings"

	"github.com/camilodvr/censopueblos/internal/dataset"
)

// Selection holds the optional inclusion filters. A nil or empty slice means
// no constraint on that dimension; the three dimensions combine with AND.
type Selection struct {
	Peoples        []string
	Departments    []string
	Municipalities []string
}

// Empty reports whether no filter dimension is constrained.
func (s Selection) Empty() bool {
	return len(s.Peoples) == 0 && len(s.Departments) == 0 && len(s.Municipalities) == 0
}

// Filter returns a fresh table holding the rows matching the selection, in
// the original row order. Matching is case-insensitive. The peoples filter
// matches when either the people code or the people name is in the set, so
// callers can filter by codes and display names interchangeably.
func Filter(t *dataset.Table, sel Selection) *dataset.Table {
	peoples := upperSet(sel.Peoples)
	departments := upperSet(sel.Departments)
	municipalities := upperSet(sel.Municipalities)

	out := &dataset.Table{Rows: make([]dataset.Record, 0, len(t.Rows))}
	for _, r := range t.Rows {
		if len(peoples) > 0 && !inSet(peoples, r.PeopleCode) && !inSet(peoples, r.PeopleName) {
			continue
		}
		if len(departments) > 0 && !inSet(departments, r.Department) {
			continue
		}
		if len(municipalities) > 0 && !inSet(municipalities, r.Municipality) {
			continue
		}
		out.Rows = append(out.Rows, r)
	}
	return out
}

func upperSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToUpper(strings.TrimSpace(v))] = struct{}{}
	}
	return set
}

func inSet(set map[string]struct{}, v string) bool {
	_, ok := set[strings.ToUpper(v)]
	return ok
}
