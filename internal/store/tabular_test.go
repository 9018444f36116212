package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/camilodvr/censopueblos/internal/dataset"
	"github.com/camilodvr/censopueblos/pkg/errs"
)

func storeTable() *dataset.Table {
	return &dataset.Table{Rows: []dataset.Record{
		{Department: "META", Municipality: "Puerto López", Key: "META|Puerto López", PeopleCode: "570", PeopleName: "Sikuani", Population: 100},
		{Department: "META", Municipality: "Puerto López", Key: "META|Puerto López", PeopleCode: "571", PeopleName: "Piapoco", Population: 50},
		{Department: "VICHADA", Municipality: "Cumaribo", Key: "VICHADA|Cumaribo", PeopleCode: "999", PeopleName: "", Population: 7},
	}}
}

func TestTable_CSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "base.csv")
	tbl := storeTable()

	require.NoError(t, SaveTable(tbl, path))
	got, err := LoadTable(path)
	require.NoError(t, err)
	require.Equal(t, tbl.Rows, got.Rows)
}

func TestTable_ParquetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "base.parquet")
	tbl := storeTable()

	require.NoError(t, SaveTable(tbl, path))
	got, err := LoadTable(path)
	require.NoError(t, err)
	require.Equal(t, tbl.Rows, got.Rows)
}

func TestTable_EmptyCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	require.NoError(t, SaveTable(&dataset.Table{}, path))
	got, err := LoadTable(path)
	require.NoError(t, err)
	require.Empty(t, got.Rows)
}

func TestTable_UnsupportedExtension(t *testing.T) {
	var formatErr *errs.UnsupportedFormatError

	err := SaveTable(storeTable(), filepath.Join(t.TempDir(), "base.json"))
	require.ErrorAs(t, err, &formatErr)

	_, err = LoadTable("base.xlsx")
	require.ErrorAs(t, err, &formatErr)
}

func TestTable_ExtensionCaseInsensitive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "base.CSV")

	require.NoError(t, SaveTable(storeTable(), path))
	got, err := LoadTable(path)
	require.NoError(t, err)
	require.Len(t, got.Rows, 3)
}
