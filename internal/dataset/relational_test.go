package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/camilodvr/censopueblos/pkg/errs"
)

// createRelationalWorkbook writes a workbook with the geographic and catalog
// sheets plus, optionally, the class/territory and age/sex companions.
func createRelationalWorkbook(t *testing.T, withOptional bool) string {
	t.Helper()
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", "3")
	require.NoError(t, f.SetSheetRow("3", "A1", &[]string{
		"COD_DPTO", "Departamento", "COD_MPIO", "Municipio", "PA11_COD_ETNIA", "POBLACION_2018",
	}))
	require.NoError(t, f.SetSheetRow("3", "A2", &[]string{"50", "META", "50573", "Puerto López (META)", "570", "100"}))
	require.NoError(t, f.SetSheetRow("3", "A3", &[]string{"50", "META", "50573", "Puerto López (META)", "571", "50"}))
	require.NoError(t, f.SetSheetRow("3", "A4", &[]string{"99", "VICHADA", "99773", "Cumaribo (VICHADA)", "570", "7"}))

	_, err := f.NewSheet("1")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("1", "A1", &[]string{"PA11_COD_ETNIA", "Pueblo", "POBLACION_2015", "POBLACION_2018"}))
	require.NoError(t, f.SetSheetRow("1", "A2", &[]string{"570", "Sikuani", "90", "107"}))
	require.NoError(t, f.SetSheetRow("1", "A3", &[]string{"571", "Piapoco", "", "50"}))

	if withOptional {
		_, err = f.NewSheet("2")
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("2", "A1", &[]string{"PA11_COD_ETNIA", "Clase", "Territorio", "POBLACION"}))
		require.NoError(t, f.SetSheetRow("2", "A2", &[]string{"570", "Resguardo", "Rural", "80"}))

		_, err = f.NewSheet("4")
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("4", "A1", &[]string{"PA11_COD_ETNIA", "Sexo", "Rango Edad", "POBLACION"}))
		require.NoError(t, f.SetSheetRow("4", "A2", &[]string{"570", "Hombre", "0-14", "30"}))
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "relational.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestBuildRelational_AllSheets(t *testing.T) {
	path := createRelationalWorkbook(t, true)

	data, err := testBuilder().BuildRelational(path)
	require.NoError(t, err)

	require.Equal(t, []DepartmentRow{{Code: "50", Name: "META"}, {Code: "99", Name: "VICHADA"}}, data.Departments)
	require.Len(t, data.Municipalities, 2)
	require.Equal(t, "Puerto López", data.Municipalities[0].Name)
	require.Equal(t, "50", data.Municipalities[0].DepartmentCode)

	require.Equal(t, []PeopleRow{{Code: "570", Name: "Sikuani"}, {Code: "571", Name: "Piapoco"}}, data.Peoples)
	require.Equal(t, 157, data.TotalPopulation())

	// Series melts to long form; the empty 2015 cell for 571 drops out.
	require.Equal(t, []SeriesRow{
		{PeopleCode: "570", Year: 2015, Population: 90},
		{PeopleCode: "570", Year: 2018, Population: 107},
		{PeopleCode: "571", Year: 2018, Population: 50},
	}, data.Series)

	require.Equal(t, []ClassTerritoryRow{
		{PeopleCode: "570", Class: "Resguardo", Territory: "Rural", Population: 80},
	}, data.ClassTerritory)
	require.Equal(t, []AgeSexRow{
		{PeopleCode: "570", Sex: "Hombre", AgeRange: "0-14", Population: 30},
	}, data.AgeSex)
}

func TestBuildRelational_OptionalSheetsAbsent(t *testing.T) {
	path := createRelationalWorkbook(t, false)

	data, err := testBuilder().BuildRelational(path)
	require.NoError(t, err)
	require.Empty(t, data.ClassTerritory)
	require.Empty(t, data.AgeSex)
	require.NotEmpty(t, data.PopulationGeo)
}

func TestRelationalData_ValidateRejectsWrongTotals(t *testing.T) {
	path := createRelationalWorkbook(t, false)

	data, err := testBuilder().BuildRelational(path)
	require.NoError(t, err)

	err = data.Validate()
	var checkErr *errs.ConsistencyValidationError
	require.ErrorAs(t, err, &checkErr)
	require.Equal(t, "total_population", checkErr.Check)
	require.Equal(t, 157, checkErr.Got)
}
