package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/camilodvr/censopueblos/config"
	"github.com/camilodvr/censopueblos/pkg/errs"
)

// Builder constructs the canonical table from the census workbook.
type Builder struct {
	Log zerolog.Logger
}

// Build opens the workbook at path and constructs the canonical
// municipality by people table.
func (b *Builder) Build(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()
	return b.BuildFromFile(f)
}

// BuildFromFile constructs the canonical table from an already-open workbook.
//
// The primary geographic sheet is authoritative: unresolved columns there
// abort the build. The peoples catalog is best-effort enrichment; when it
// cannot be read or its columns cannot be detected, rows keep an empty
// people name instead of failing the build.
func (b *Builder) BuildFromFile(f *excelize.File) (*Table, error) {
	headers, rows, err := readSheet(f, config.GeoSheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", config.GeoSheet, err)
	}

	deptCol := ResolveColumn(headers, departmentKeywords)
	muniCol := ResolveColumn(headers, municipalityKeywords)
	codeCol := ResolveColumn(headers, peopleCodeKeywords)
	popCol := ResolveColumn(headers, populationKeywords)

	var missing []string
	for _, c := range []struct{ field, col string }{
		{"department", deptCol},
		{"municipality", muniCol},
		{"people_code", codeCol},
		{"population", popCol},
	} {
		if c.col == "" {
			missing = append(missing, c.field)
		}
	}
	if len(missing) > 0 {
		return nil, &errs.SchemaDetectionError{Sheet: config.GeoSheet, Missing: missing}
	}

	catalog := b.loadCatalog(f)

	deptIdx := columnIndex(headers, deptCol)
	muniIdx := columnIndex(headers, muniCol)
	codeIdx := columnIndex(headers, codeCol)
	popIdx := columnIndex(headers, popCol)

	table := &Table{Rows: make([]Record, 0, len(rows))}
	for _, row := range rows {
		dept := strings.TrimSpace(cell(row, deptIdx))
		muni := CleanMunicipality(cell(row, muniIdx))
		code := normalizeCode(cell(row, codeIdx))
		table.Rows = append(table.Rows, Record{
			Department:   dept,
			Municipality: muni,
			Key:          MunicipalityKey(dept, muni),
			PeopleCode:   code,
			PeopleName:   catalog[code],
			Population:   CoercePopulation(cell(row, popIdx)),
		})
	}

	b.Log.Info().
		Int("rows", len(table.Rows)).
		Int("catalog_entries", len(catalog)).
		Msg("canonical table built")
	return table, nil
}

// loadCatalog reads the peoples catalog sheet and returns a code-to-name
// lookup deduplicated to the first name seen per code. Any failure yields an
// empty lookup so the primary pipeline proceeds without enrichment.
func (b *Builder) loadCatalog(f *excelize.File) map[string]string {
	headers, rows, err := readSheet(f, config.CatalogSheet)
	if err != nil {
		b.Log.Warn().Err(err).Str("sheet", config.CatalogSheet).
			Msg("catalog sheet unreadable; building without people names")
		return map[string]string{}
	}
	codeCol := ResolveColumn(headers, catalogCodeKeywords)
	nameCol := ResolveColumn(headers, peopleNameKeywords)
	if codeCol == "" || nameCol == "" {
		b.Log.Warn().Str("sheet", config.CatalogSheet).
			Msg("catalog columns not detected; building without people names")
		return map[string]string{}
	}
	codeIdx := columnIndex(headers, codeCol)
	nameIdx := columnIndex(headers, nameCol)

	catalog := make(map[string]string, len(rows))
	for _, row := range rows {
		code := normalizeCode(cell(row, codeIdx))
		if code == "" {
			continue
		}
		if _, ok := catalog[code]; ok {
			continue // keep-first dedup policy
		}
		catalog[code] = strings.TrimSpace(cell(row, nameIdx))
	}
	return catalog
}

// readSheet returns the first row as headers and the remaining rows with
// entirely-empty rows dropped.
func readSheet(f *excelize.File, sheet string) ([]string, [][]string, error) {
	it, err := f.Rows(sheet)
	if err != nil {
		return nil, nil, err
	}
	defer it.Close()

	var headers []string
	var rows [][]string
	for it.Next() {
		vals, err := it.Columns()
		if err != nil {
			return nil, nil, err
		}
		if headers == nil {
			headers = vals
			continue
		}
		if emptyRow(vals) {
			continue
		}
		rows = append(rows, vals)
	}
	return headers, rows, it.Error()
}

func emptyRow(vals []string) bool {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// normalizeCode canonicalizes a people code cell. Excel frequently surfaces
// integer codes as floats ("570.0"); those collapse to their integer form so
// the catalog join and code filters line up.
func normalizeCode(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return s
}
