package dataset

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/camilodvr/censopueblos/config"
	"github.com/camilodvr/censopueblos/pkg/errs"
)

// Column keyword sets used only by the relational build.
var (
	departmentCodeKeywords   = []string{"coddepto", "cod_dpto", "coddepartamento"}
	municipalityCodeKeywords = []string{"codmpio", "cod_mpio", "codmunicipio"}
	classKeywords            = []string{"clase"}
	territoryKeywords        = []string{"territorio"}
	sexKeywords              = []string{"sexo", "genero"}
	ageRangeKeywords         = []string{"rango", "edad"}
	series2015Keywords       = []string{"2015", "poblacion2015", "pob2015"}
	series2018Keywords       = []string{"2018", "poblacion2018", "pob2018"}
)

type DepartmentRow struct {
	Code string
	Name string
}

type MunicipalityRow struct {
	Code           string
	Name           string
	DepartmentCode string
}

type PeopleRow struct {
	Code string
	Name string
}

type PopulationGeoRow struct {
	MunicipalityCode string
	PeopleCode       string
	Population       int
}

type AgeSexRow struct {
	PeopleCode string
	Sex        string
	AgeRange   string
	Population int
}

type SeriesRow struct {
	PeopleCode string
	Year       int
	Population int
}

type ClassTerritoryRow struct {
	PeopleCode string
	Class      string
	Territory  string
	Population int
}

// RelationalData is the normalized form of up to five workbook sheets, ready
// for bulk insertion into the relational store.
type RelationalData struct {
	Departments    []DepartmentRow
	Municipalities []MunicipalityRow
	Peoples        []PeopleRow
	PopulationGeo  []PopulationGeoRow
	AgeSex         []AgeSexRow
	Series         []SeriesRow
	ClassTerritory []ClassTerritoryRow
}

// TotalPopulation sums the geographic population rows.
func (d *RelationalData) TotalPopulation() int {
	var total int
	for _, r := range d.PopulationGeo {
		total += r.Population
	}
	return total
}

// Validate compares the snapshot against the known CNPV-2018 reference
// totals. A mismatch means the input is a different or corrupted export and
// must abort the materialization.
func (d *RelationalData) Validate() error {
	if got := d.TotalPopulation(); got != config.ExpectedTotalPopulation {
		return &errs.ConsistencyValidationError{
			Check: "total_population", Expected: config.ExpectedTotalPopulation, Got: got,
		}
	}
	if got := len(d.Departments); got != config.ExpectedDepartments {
		return &errs.ConsistencyValidationError{
			Check: "department_count", Expected: config.ExpectedDepartments, Got: got,
		}
	}
	if got := len(d.Municipalities); got != config.ExpectedMunicipalities {
		return &errs.ConsistencyValidationError{
			Check: "municipality_count", Expected: config.ExpectedMunicipalities, Got: got,
		}
	}
	return nil
}

// BuildRelational opens the workbook at path and extracts the relational
// snapshot. Sheets "2", "4" and "5" are optional; their absence degrades to
// empty tables. The geographic and catalog sheets are required.
func (b *Builder) BuildRelational(path string) (*RelationalData, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()
	return b.BuildRelationalFromFile(f)
}

// BuildRelationalFromFile extracts the relational snapshot from an
// already-open workbook.
func (b *Builder) BuildRelationalFromFile(f *excelize.File) (*RelationalData, error) {
	data := &RelationalData{}

	if err := b.extractGeo(f, data); err != nil {
		return nil, err
	}
	if err := b.extractCatalog(f, data); err != nil {
		return nil, err
	}
	b.extractClassTerritory(f, data)
	b.extractAgeSex(f, data)

	b.Log.Info().
		Int("departments", len(data.Departments)).
		Int("municipalities", len(data.Municipalities)).
		Int("peoples", len(data.Peoples)).
		Int("population_geo_rows", len(data.PopulationGeo)).
		Msg("relational snapshot extracted")
	return data, nil
}

func (b *Builder) extractGeo(f *excelize.File, data *RelationalData) error {
	headers, rows, err := readSheet(f, config.GeoSheet)
	if err != nil {
		return fmt.Errorf("read sheet %q: %w", config.GeoSheet, err)
	}
	cols := map[string]string{
		"department_code":   ResolveColumn(headers, departmentCodeKeywords),
		"department":        ResolveColumn(headers, departmentKeywords),
		"municipality_code": ResolveColumn(headers, municipalityCodeKeywords),
		"municipality":      ResolveColumn(headers, municipalityKeywords),
		"people_code":       ResolveColumn(headers, peopleCodeKeywords),
		"population":        ResolveColumn(headers, populationKeywords),
	}
	var missing []string
	for _, field := range []string{
		"department_code", "department", "municipality_code",
		"municipality", "people_code", "population",
	} {
		if cols[field] == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return &errs.SchemaDetectionError{Sheet: config.GeoSheet, Missing: missing}
	}

	deptCodeIdx := columnIndex(headers, cols["department_code"])
	deptIdx := columnIndex(headers, cols["department"])
	muniCodeIdx := columnIndex(headers, cols["municipality_code"])
	muniIdx := columnIndex(headers, cols["municipality"])
	codeIdx := columnIndex(headers, cols["people_code"])
	popIdx := columnIndex(headers, cols["population"])

	seenDept := make(map[string]struct{})
	seenMuni := make(map[string]struct{})
	for _, row := range rows {
		deptCode := normalizeCode(cell(row, deptCodeIdx))
		dept := strings.TrimSpace(cell(row, deptIdx))
		muniCode := normalizeCode(cell(row, muniCodeIdx))
		muni := CleanMunicipality(cell(row, muniIdx))
		peopleCode := normalizeCode(cell(row, codeIdx))

		if _, ok := seenDept[deptCode]; !ok && deptCode != "" {
			seenDept[deptCode] = struct{}{}
			data.Departments = append(data.Departments, DepartmentRow{Code: deptCode, Name: dept})
		}
		if _, ok := seenMuni[muniCode]; !ok && muniCode != "" {
			seenMuni[muniCode] = struct{}{}
			data.Municipalities = append(data.Municipalities, MunicipalityRow{
				Code: muniCode, Name: muni, DepartmentCode: deptCode,
			})
		}
		data.PopulationGeo = append(data.PopulationGeo, PopulationGeoRow{
			MunicipalityCode: muniCode,
			PeopleCode:       peopleCode,
			Population:       CoercePopulation(cell(row, popIdx)),
		})
	}
	return nil
}

var yearPattern = regexp.MustCompile(`\d{4}`)

func (b *Builder) extractCatalog(f *excelize.File, data *RelationalData) error {
	headers, rows, err := readSheet(f, config.CatalogSheet)
	if err != nil {
		return fmt.Errorf("read sheet %q: %w", config.CatalogSheet, err)
	}
	codeCol := ResolveColumn(headers, catalogCodeKeywords)
	nameCol := ResolveColumn(headers, peopleNameKeywords)
	if codeCol == "" || nameCol == "" {
		missing := []string{}
		if codeCol == "" {
			missing = append(missing, "people_code")
		}
		if nameCol == "" {
			missing = append(missing, "people_name")
		}
		return &errs.SchemaDetectionError{Sheet: config.CatalogSheet, Missing: missing}
	}

	// Population series columns are optional; a missing year simply drops out
	// of the long-form series.
	type seriesCol struct {
		idx  int
		year int
	}
	var seriesCols []seriesCol
	for _, kws := range [][]string{series2015Keywords, series2018Keywords} {
		col := ResolveColumn(headers, kws)
		if col == "" {
			continue
		}
		m := yearPattern.FindString(col)
		if m == "" {
			m = yearPattern.FindString(kws[0])
		}
		if m == "" {
			continue
		}
		year, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		seriesCols = append(seriesCols, seriesCol{idx: columnIndex(headers, col), year: year})
	}

	codeIdx := columnIndex(headers, codeCol)
	nameIdx := columnIndex(headers, nameCol)
	seen := make(map[string]struct{})
	for _, row := range rows {
		code := normalizeCode(cell(row, codeIdx))
		if code == "" {
			continue
		}
		if _, ok := seen[code]; !ok {
			seen[code] = struct{}{}
			data.Peoples = append(data.Peoples, PeopleRow{
				Code: code, Name: strings.TrimSpace(cell(row, nameIdx)),
			})
		}
		for _, sc := range seriesCols {
			raw := strings.TrimSpace(cell(row, sc.idx))
			if raw == "" {
				continue
			}
			data.Series = append(data.Series, SeriesRow{
				PeopleCode: code, Year: sc.year, Population: CoercePopulation(raw),
			})
		}
	}
	return nil
}

func (b *Builder) extractClassTerritory(f *excelize.File, data *RelationalData) {
	headers, rows, err := readSheet(f, config.ClassTerritorySheet)
	if err != nil {
		b.Log.Warn().Err(err).Str("sheet", config.ClassTerritorySheet).
			Msg("class/territory sheet unavailable; table left empty")
		return
	}
	codeIdx := columnIndex(headers, ResolveColumn(headers, catalogCodeKeywords))
	classIdx := columnIndex(headers, ResolveColumn(headers, classKeywords))
	terrIdx := columnIndex(headers, ResolveColumn(headers, territoryKeywords))
	popIdx := columnIndex(headers, ResolveColumn(headers, populationKeywords))
	if codeIdx < 0 || classIdx < 0 || terrIdx < 0 || popIdx < 0 {
		b.Log.Warn().Str("sheet", config.ClassTerritorySheet).
			Msg("class/territory columns not detected; table left empty")
		return
	}
	for _, row := range rows {
		data.ClassTerritory = append(data.ClassTerritory, ClassTerritoryRow{
			PeopleCode: normalizeCode(cell(row, codeIdx)),
			Class:      strings.TrimSpace(cell(row, classIdx)),
			Territory:  strings.TrimSpace(cell(row, terrIdx)),
			Population: CoercePopulation(cell(row, popIdx)),
		})
	}
}

func (b *Builder) extractAgeSex(f *excelize.File, data *RelationalData) {
	for _, sheet := range []string{config.AgeSexSheetA, config.AgeSexSheetB} {
		headers, rows, err := readSheet(f, sheet)
		if err != nil {
			b.Log.Warn().Err(err).Str("sheet", sheet).
				Msg("age/sex sheet unavailable; skipped")
			continue
		}
		codeIdx := columnIndex(headers, ResolveColumn(headers, catalogCodeKeywords))
		sexIdx := columnIndex(headers, ResolveColumn(headers, sexKeywords))
		ageIdx := columnIndex(headers, ResolveColumn(headers, ageRangeKeywords))
		popIdx := columnIndex(headers, ResolveColumn(headers, populationKeywords))
		if codeIdx < 0 || sexIdx < 0 || ageIdx < 0 || popIdx < 0 {
			b.Log.Warn().Str("sheet", sheet).
				Msg("age/sex columns not detected; sheet skipped")
			continue
		}
		for _, row := range rows {
			data.AgeSex = append(data.AgeSex, AgeSexRow{
				PeopleCode: normalizeCode(cell(row, codeIdx)),
				Sex:        strings.TrimSpace(cell(row, sexIdx)),
				AgeRange:   strings.TrimSpace(cell(row, ageIdx)),
				Population: CoercePopulation(cell(row, popIdx)),
			})
		}
	}
}
