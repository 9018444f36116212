package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/camilodvr/censopueblos/internal/dataset"
)

func TestPivot_SingleMunicipality(t *testing.T) {
	tbl := Filter(sampleTable(), Selection{Municipalities: []string{"Puerto López"}})

	m := Pivot(tbl)
	require.Equal(t, []string{"Sikuani", "Piapoco"}, m.PeopleColumns)
	require.Len(t, m.Rows, 1)
	require.Equal(t, "META", m.Rows[0].Department)
	require.Equal(t, "Puerto López", m.Rows[0].Municipality)
	require.Equal(t, []int{100, 50}, m.Rows[0].Cells)
}

func TestPivot_AbsentCombinationsAreZero(t *testing.T) {
	m := Pivot(sampleTable())

	require.Equal(t, []string{"Sikuani", "Piapoco", UnmatchedLabel}, m.PeopleColumns)
	require.Len(t, m.Rows, 2)

	require.Equal(t, 0, m.Cell("VICHADA", "Cumaribo", "Piapoco"))
	require.Equal(t, 0, m.Cell("META", "Puerto López", UnmatchedLabel))
	require.Equal(t, 7, m.Cell("VICHADA", "Cumaribo", "Sikuani"))
	require.Equal(t, 3, m.Cell("VICHADA", "Cumaribo", UnmatchedLabel))
}

func TestPivot_SumsRepeatedCombinations(t *testing.T) {
	tbl := &dataset.Table{Rows: []dataset.Record{
		{Department: "META", Municipality: "Puerto López", PeopleName: "Sikuani", Population: 100},
		{Department: "META", Municipality: "Puerto López", PeopleName: "Sikuani", Population: 40},
	}}

	m := Pivot(tbl)
	require.Equal(t, 140, m.Cell("META", "Puerto López", "Sikuani"))
}

func TestPivot_RowOrderFollowsFirstEncounter(t *testing.T) {
	tbl := &dataset.Table{Rows: []dataset.Record{
		{Department: "VICHADA", Municipality: "Cumaribo", PeopleName: "Sikuani", Population: 7},
		{Department: "META", Municipality: "Puerto López", PeopleName: "Piapoco", Population: 50},
		{Department: "VICHADA", Municipality: "Cumaribo", PeopleName: "Piapoco", Population: 2},
	}}

	m := Pivot(tbl)
	require.Equal(t, "Cumaribo", m.Rows[0].Municipality)
	require.Equal(t, "Puerto López", m.Rows[1].Municipality)
	require.Equal(t, []string{"Sikuani", "Piapoco"}, m.PeopleColumns)
}

func TestMatrix_CellUnknownNames(t *testing.T) {
	m := Pivot(sampleTable())
	require.Equal(t, 0, m.Cell("META", "Puerto López", "Wayuu"))
	require.Equal(t, 0, m.Cell("CHOCO", "Quibdó", "Sikuani"))
}

func TestPivot_EmptyTable(t *testing.T) {
	m := Pivot(&dataset.Table{})
	require.Empty(t, m.PeopleColumns)
	require.Empty(t, m.Rows)
}
