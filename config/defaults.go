package config

import "time"

// Workbook layout of the DANE "visor pueblos indigenas" export. Sheet "3"
// carries the municipality-level base, sheet "1" the peoples catalog. Sheets
// "2", "4" and "5" are optional companions used only by the relational build.
const (
	GeoSheet            = "3"
	CatalogSheet        = "1"
	ClassTerritorySheet = "2"
	AgeSexSheetA        = "4"
	AgeSexSheetB        = "5"
)

// Reference totals of the CNPV-2018 snapshot. The relational build refuses to
// materialize a database whose totals differ, since that would mean the input
// is not the expected census export.
const (
	ExpectedTotalPopulation = 3_811_234
	ExpectedDepartments     = 34
	ExpectedMunicipalities  = 970
)

// Default runtime limits for the HTTP and MCP surfaces.
const (
	DefaultMaxConcurrentRequests = 10
	DefaultHTTPAddr              = ":8080"
	DefaultDatasetPath           = "data/base_municipality_people.csv"
)

const (
	DefaultOperationTimeout      = 30 * time.Second
	DefaultAcquireRequestTimeout = 2 * time.Second
	DefaultShutdownTimeout       = 5 * time.Second
)
