// Package report assembles the filtered dataset, its indicators, the pivot
// matrix, and a data dictionary into a single Excel workbook.
package report

import (
	"bytes"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/camilodvr/censopueblos/internal/analysis"
	"github.com/camilodvr/censopueblos/internal/dataset"
)

// Sheet names in their fixed workbook order. Downstream tooling addresses
// sheets by name or index, so both must stay stable.
const (
	SheetBase         = "base_municipality_people"
	SheetMunicipality = "municipality_indicators"
	SheetDepartment   = "department_indicators"
	SheetMatrix       = "matrix_municipality_people"
	SheetDictionary   = "dictionary"
)

// MIMEType is the content type of the generated workbook.
const MIMEType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Filename is the suggested download name for the generated workbook.
const Filename = "censopueblos_report.xlsx"

// Assemble builds the five-sheet workbook from the filtered rows and returns
// its bytes. When path is non-empty the workbook is also written there.
func Assemble(filtered *dataset.Table, path string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeBase(f, filtered); err != nil {
		return nil, err
	}
	if err := writeMunicipalityIndicators(f, analysis.MunicipalityLevel(filtered)); err != nil {
		return nil, err
	}
	if err := writeDepartmentIndicators(f, analysis.DepartmentLevel(filtered)); err != nil {
		return nil, err
	}
	if err := writeMatrix(f, analysis.Pivot(filtered)); err != nil {
		return nil, err
	}
	if err := writeDictionary(f); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	if path != "" {
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return nil, fmt.Errorf("write workbook %s: %w", path, err)
		}
	}
	return buf.Bytes(), nil
}

func writeBase(f *excelize.File, t *dataset.Table) error {
	if err := addSheet(f, SheetBase); err != nil {
		return err
	}
	header := make([]interface{}, len(dataset.Columns))
	for i, c := range dataset.Columns {
		header[i] = c
	}
	if err := setRow(f, SheetBase, 1, header); err != nil {
		return err
	}
	for i, r := range t.Rows {
		row := []interface{}{r.Department, r.Municipality, r.Key, r.PeopleCode, r.PeopleName, r.Population}
		if err := setRow(f, SheetBase, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeMunicipalityIndicators(f *excelize.File, rows []analysis.MunicipalityIndicators) error {
	if err := addSheet(f, SheetMunicipality); err != nil {
		return err
	}
	header := []interface{}{
		"department", "municipality_clean", "total_population",
		"people_count", "people_breakdown", "hhi", "simpson", "shannon",
	}
	if err := setRow(f, SheetMunicipality, 1, header); err != nil {
		return err
	}
	for i, r := range rows {
		row := []interface{}{
			r.Department, r.Municipality, r.TotalPopulation,
			r.PeopleCount, r.Breakdown, floatCell(r.HHI), floatCell(r.Simpson), floatCell(r.Shannon),
		}
		if err := setRow(f, SheetMunicipality, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeDepartmentIndicators(f *excelize.File, rows []analysis.DepartmentIndicators) error {
	if err := addSheet(f, SheetDepartment); err != nil {
		return err
	}
	header := []interface{}{"department", "total_population", "people_count", "municipality_count"}
	if err := setRow(f, SheetDepartment, 1, header); err != nil {
		return err
	}
	for i, r := range rows {
		row := []interface{}{r.Department, r.TotalPopulation, r.PeopleCount, r.MunicipalityCount}
		if err := setRow(f, SheetDepartment, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeMatrix(f *excelize.File, m *analysis.Matrix) error {
	if err := addSheet(f, SheetMatrix); err != nil {
		return err
	}
	header := []interface{}{"department", "municipality_clean"}
	for _, p := range m.PeopleColumns {
		header = append(header, p)
	}
	if err := setRow(f, SheetMatrix, 1, header); err != nil {
		return err
	}
	for i, r := range m.Rows {
		row := []interface{}{r.Department, r.Municipality}
		for _, c := range r.Cells {
			row = append(row, c)
		}
		if err := setRow(f, SheetMatrix, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

// dictionary is the static field reference included as the last sheet.
var dictionary = [][2]string{
	{"department", "Department name"},
	{"municipality_clean", "Municipality name without the trailing department qualifier"},
	{"municipality_key", "Composite key department|municipality"},
	{"people_code", "People code from the CNPV-2018 microdata (PA11_COD_ETNIA)"},
	{"people_name", "Indigenous people name"},
	{"population_2018", "Population counted in 2018 for that people in that municipality"},
	{"total_population", "Total indigenous population in the municipality or department"},
	{"people_count", "Number of distinct peoples present"},
	{"people_breakdown", "Each people and its population in the municipality"},
	{"hhi", "Herfindahl-Hirschman concentration index (1 = single people)"},
	{"simpson", "Simpson diversity index (1 - HHI)"},
	{"shannon", "Shannon entropy diversity index"},
	{"municipality_count", "Number of municipalities with indigenous presence in the department"},
}

func writeDictionary(f *excelize.File) error {
	if err := addSheet(f, SheetDictionary); err != nil {
		return err
	}
	if err := setRow(f, SheetDictionary, 1, []interface{}{"variable", "description"}); err != nil {
		return err
	}
	for i, entry := range dictionary {
		if err := setRow(f, SheetDictionary, i+2, []interface{}{entry[0], entry[1]}); err != nil {
			return err
		}
	}
	return nil
}

// addSheet renames the default sheet on first use and appends afterwards, so
// the workbook holds exactly the five report sheets in order.
func addSheet(f *excelize.File, name string) error {
	if f.SheetCount == 1 && f.GetSheetName(0) == "Sheet1" {
		return f.SetSheetName("Sheet1", name)
	}
	_, err := f.NewSheet(name)
	return err
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// floatCell leaves undefined indices blank instead of writing 0.
func floatCell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
