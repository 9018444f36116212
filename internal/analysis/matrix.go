package analysis

import (
	"github.com/camilodvr/censopueblos/internal/dataset"
)

// Matrix is the wide municipality by people pivot. Cells hold summed
// population; combinations absent from the input are exactly 0. The index
// columns (department, municipality) are regular columns, not a nested row
// label.
type Matrix struct {
	// PeopleColumns in first-encounter order over the input rows.
	PeopleColumns []string
	Rows          []MatrixRow
}

// MatrixRow is one municipality of the pivot. Cells align with
// Matrix.PeopleColumns.
type MatrixRow struct {
	Department   string
	Municipality string
	Cells        []int
}

// Pivot builds the municipality by people population matrix from the
// filtered table. Row order follows the first encounter of each
// (department, municipality) pair; column order the first encounter of each
// people name.
func Pivot(t *dataset.Table) *Matrix {
	type rowKey struct {
		department   string
		municipality string
	}
	colIdx := make(map[string]int)
	rowIdx := make(map[rowKey]int)
	m := &Matrix{}

	for _, r := range t.Rows {
		name := r.PeopleName
		if name == "" {
			name = UnmatchedLabel
		}
		if _, ok := colIdx[name]; !ok {
			colIdx[name] = len(m.PeopleColumns)
			m.PeopleColumns = append(m.PeopleColumns, name)
		}
	}

	for _, r := range t.Rows {
		k := rowKey{r.Department, r.Municipality}
		i, ok := rowIdx[k]
		if !ok {
			i = len(m.Rows)
			rowIdx[k] = i
			m.Rows = append(m.Rows, MatrixRow{
				Department:   k.department,
				Municipality: k.municipality,
				Cells:        make([]int, len(m.PeopleColumns)),
			})
		}
		name := r.PeopleName
		if name == "" {
			name = UnmatchedLabel
		}
		m.Rows[i].Cells[colIdx[name]] += r.Population
	}
	return m
}

// Cell returns the population for a municipality and people name, 0 when the
// combination is absent.
func (m *Matrix) Cell(department, municipality, people string) int {
	col := -1
	for i, p := range m.PeopleColumns {
		if p == people {
			col = i
			break
		}
	}
	if col < 0 {
		return 0
	}
	for _, r := range m.Rows {
		if r.Department == department && r.Municipality == municipality {
			return r.Cells[col]
		}
	}
	return 0
}
