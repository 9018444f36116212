package dataset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanMunicipality(t *testing.T) {
	cases := map[string]string{
		"Puerto López (META)":    "Puerto López",
		"  Cumaribo (VICHADA)  ": "Cumaribo",
		"Leticia":                "Leticia",
		// The pattern is greedy from the first parenthesis when the name
		// ends with one.
		"San José (del) Guaviare (GUAVIARE)": "San José",
	}
	for in, want := range cases {
		require.Equal(t, want, CleanMunicipality(in), "input %q", in)
	}
}

func TestMunicipalityKey_RoundTrip(t *testing.T) {
	key := MunicipalityKey("META", "Puerto López")
	require.Equal(t, "META|Puerto López", key)

	dep, mun := SplitKey(key)
	require.Equal(t, "META", dep)
	require.Equal(t, "Puerto López", mun)
}

func TestCoercePopulation(t *testing.T) {
	cases := map[string]int{
		"100":     100,
		"1,234":   1234,
		"57.0":    57,
		"57.9":    57,
		"":        0,
		"n/a":     0,
		"-5":      0,
		"  42  ":  42,
		"3811234": 3811234,
	}
	for in, want := range cases {
		require.Equal(t, want, CoercePopulation(in), "input %q", in)
	}
}

func TestOptions_DistinctSorted(t *testing.T) {
	table := &Table{Rows: []Record{
		{Department: "VICHADA", Municipality: "Cumaribo", PeopleName: "Sikuani"},
		{Department: "META", Municipality: "Puerto López", PeopleName: "Piapoco"},
		{Department: "META", Municipality: "Puerto López", PeopleName: "Sikuani"},
		{Department: "META", Municipality: "Puerto Gaitán", PeopleName: ""},
	}}

	opts := table.Options()
	require.Equal(t, []string{"Piapoco", "Sikuani"}, opts.Peoples)
	require.Equal(t, []string{"META", "VICHADA"}, opts.Departments)
	require.Equal(t, []string{"Cumaribo", "Puerto Gaitán", "Puerto López"}, opts.Municipalities)
}
