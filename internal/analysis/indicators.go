package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/camilodvr/censopueblos/internal/dataset"
)

// UnmatchedLabel is the group label used for rows whose catalog join failed.
// Such rows count as one group of their own in every indicator, so an
// incomplete catalog lowers concentration values instead of silently
// shrinking the population.
const UnmatchedLabel = "(unmatched)"

// GroupCount is one people sub-group inside an aggregation group.
type GroupCount struct {
	Name       string
	Population int
}

// MunicipalityIndicators aggregates one municipality of the filtered table.
type MunicipalityIndicators struct {
	Department      string   `json:"department"`
	Municipality    string   `json:"municipality_clean"`
	Key             string   `json:"municipality_key"`
	TotalPopulation int      `json:"total_population"`
	PeopleCount     int      `json:"people_count"`
	Breakdown       string   `json:"people_breakdown"`
	HHI             *float64 `json:"hhi"`
	Simpson         *float64 `json:"simpson"`
	Shannon         *float64 `json:"shannon"`
}

// DepartmentIndicators aggregates one department of the filtered table.
type DepartmentIndicators struct {
	Department        string `json:"department"`
	TotalPopulation   int    `json:"total_population"`
	PeopleCount       int    `json:"people_count"`
	MunicipalityCount int    `json:"municipality_count"`
}

// GlobalIndicators aggregates the whole filtered table.
type GlobalIndicators struct {
	TotalPopulation int      `json:"total_population"`
	PeopleCount     int      `json:"people_count"`
	HHI             *float64 `json:"hhi"`
	Simpson         *float64 `json:"simpson"`
	Shannon         *float64 `json:"shannon"`
}

// PeopleShare is one row of the by-people breakdown.
type PeopleShare struct {
	PeopleName string  `json:"people_name"`
	Population int     `json:"population"`
	Share      float64 `json:"share"`
}

// MunicipalityLevel computes indicators per municipality, ordered by
// (department, municipality).
func MunicipalityLevel(t *dataset.Table) []MunicipalityIndicators {
	type groupKey struct {
		department   string
		municipality string
		key          string
	}
	groups := make(map[groupKey][]dataset.Record)
	var order []groupKey
	for _, r := range t.Rows {
		k := groupKey{r.Department, r.Municipality, r.Key}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].department != order[j].department {
			return order[i].department < order[j].department
		}
		if order[i].municipality != order[j].municipality {
			return order[i].municipality < order[j].municipality
		}
		return order[i].key < order[j].key
	})

	out := make([]MunicipalityIndicators, 0, len(order))
	for _, k := range order {
		rows := groups[k]
		sub := peopleGroups(rows)
		total := totalPopulation(rows)
		hhi, simpson, shannon := diversityIndices(sub, total)
		out = append(out, MunicipalityIndicators{
			Department:      k.department,
			Municipality:    k.municipality,
			Key:             k.key,
			TotalPopulation: total,
			PeopleCount:     positiveGroups(sub),
			Breakdown:       breakdown(sub),
			HHI:             hhi,
			Simpson:         simpson,
			Shannon:         shannon,
		})
	}
	return out
}

// DepartmentLevel computes indicators per department, ordered by department.
// PeopleCount is the number of distinct people codes present, and
// MunicipalityCount the number of distinct municipality keys.
func DepartmentLevel(t *dataset.Table) []DepartmentIndicators {
	groups := make(map[string][]dataset.Record)
	var order []string
	for _, r := range t.Rows {
		if _, ok := groups[r.Department]; !ok {
			order = append(order, r.Department)
		}
		groups[r.Department] = append(groups[r.Department], r)
	}
	sort.Strings(order)

	out := make([]DepartmentIndicators, 0, len(order))
	for _, dep := range order {
		rows := groups[dep]
		codes := make(map[string]struct{})
		keys := make(map[string]struct{})
		for _, r := range rows {
			codes[r.PeopleCode] = struct{}{}
			keys[r.Key] = struct{}{}
		}
		out = append(out, DepartmentIndicators{
			Department:        dep,
			TotalPopulation:   totalPopulation(rows),
			PeopleCount:       len(codes),
			MunicipalityCount: len(keys),
		})
	}
	return out
}

// Global computes the unscoped indicators over the whole filtered table,
// reusing the same diversity formulas as the per-municipality aggregation.
func Global(t *dataset.Table) GlobalIndicators {
	codes := make(map[string]struct{})
	for _, r := range t.Rows {
		codes[r.PeopleCode] = struct{}{}
	}
	sub := peopleGroups(t.Rows)
	total := totalPopulation(t.Rows)
	hhi, simpson, shannon := diversityIndices(sub, total)
	return GlobalIndicators{
		TotalPopulation: total,
		PeopleCount:     len(codes),
		HHI:             hhi,
		Simpson:         simpson,
		Shannon:         shannon,
	}
}

// ByPeople sums population per people group over the filtered table and
// returns descending-population shares.
func ByPeople(t *dataset.Table) []PeopleShare {
	sub := peopleGroups(t.Rows)
	total := totalPopulation(t.Rows)
	out := make([]PeopleShare, 0, len(sub))
	for _, g := range sub {
		share := 0.0
		if total > 0 {
			share = float64(g.Population) / float64(total)
		}
		out = append(out, PeopleShare{PeopleName: g.Name, Population: g.Population, Share: share})
	}
	return out
}

// peopleGroups sums population per people name, ordered by population
// descending with ties broken by name ascending. The tie-break is a pinned
// policy so output ordering is reproducible across runs.
func peopleGroups(rows []dataset.Record) []GroupCount {
	acc := make(map[string]int)
	for _, r := range rows {
		name := r.PeopleName
		if name == "" {
			name = UnmatchedLabel
		}
		acc[name] += r.Population
	}
	out := make([]GroupCount, 0, len(acc))
	for name, pop := range acc {
		out = append(out, GroupCount{Name: name, Population: pop})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Population != out[j].Population {
			return out[i].Population > out[j].Population
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func totalPopulation(rows []dataset.Record) int {
	var total int
	for _, r := range rows {
		total += r.Population
	}
	return total
}

func positiveGroups(groups []GroupCount) int {
	n := 0
	for _, g := range groups {
		if g.Population > 0 {
			n++
		}
	}
	return n
}

// breakdown renders "name:count" pairs joined by "; " in the same descending
// order used by the indices.
func breakdown(groups []GroupCount) string {
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		parts = append(parts, fmt.Sprintf("%s:%d", g.Name, g.Population))
	}
	return strings.Join(parts, "; ")
}

// diversityIndices computes HHI, Simpson and Shannon over the sub-groups.
// All three are nil when the total is zero: shares would divide by zero and
// the indices are undefined, not 0 or NaN. Shannon sums only strictly
// positive shares; zero shares are excluded outright rather than treated as
// a 0*ln(0) limit.
func diversityIndices(groups []GroupCount, total int) (hhi, simpson, shannon *float64) {
	if total <= 0 || len(groups) == 0 {
		return nil, nil, nil
	}
	var h, s float64
	for _, g := range groups {
		share := float64(g.Population) / float64(total)
		h += share * share
		if share > 0 {
			s += -share * math.Log(share)
		}
	}
	inv := 1 - h
	return &h, &inv, &s
}
