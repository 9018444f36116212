package dataset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveColumn_NormalizesAccentsAndSeparators(t *testing.T) {
	headers := []string{"Código Étnia", "POBLACIÓN_2018", "Municipio "}

	require.Equal(t, "Código Étnia", ResolveColumn(headers, []string{"codigoetnia"}))
	require.Equal(t, "POBLACIÓN_2018", ResolveColumn(headers, []string{"poblacion"}))
	require.Equal(t, "Municipio ", ResolveColumn(headers, []string{"municipio"}))
}

func TestResolveColumn_KeywordPriorityWins(t *testing.T) {
	headers := []string{"Total Personas", "PA11_COD_ETNIA"}

	// "pa11codetnia" is tried before "total", so the code column wins even
	// though "total" also matches a header.
	got := ResolveColumn(headers, []string{"pa11codetnia", "total"})
	require.Equal(t, "PA11_COD_ETNIA", got)
}

func TestResolveColumn_FirstHeaderWinsWithinKeyword(t *testing.T) {
	headers := []string{"poblacion_aj", "poblacion_2018"}

	// Left-to-right scan per keyword: ties go to the earlier header.
	require.Equal(t, "poblacion_aj", ResolveColumn(headers, []string{"poblacion"}))
}

func TestResolveColumn_NoMatchReturnsEmpty(t *testing.T) {
	headers := []string{"a", "b"}
	require.Equal(t, "", ResolveColumn(headers, []string{"departamento"}))
}

func TestResolveColumn_Deterministic(t *testing.T) {
	headers := []string{"Departamento", "Municipio", "PA11_COD_ETNIA", "POBLACION_2018"}
	keywords := []string{"poblacion", "total", "cnt"}

	first := ResolveColumn(headers, keywords)
	for i := 0; i < 50; i++ {
		require.Equal(t, first, ResolveColumn(headers, keywords))
	}
}

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"  Departamento ":  "departamento",
		"PA11_COD_ETNIA":   "pa11codetnia",
		"Población  2018":  "poblacion2018",
		"Rango de Edad":    "rangodeedad",
		"CLASE_TERRITORIO": "claseterritorio",
	}
	for in, want := range cases {
		require.Equal(t, want, normalizeHeader(in), "input %q", in)
	}
}
