// Package store persists the canonical table: delimited text and columnar
// binary files for the pipeline, and a relational SQLite database for query
// consumers.
package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/camilodvr/censopueblos/internal/dataset"
	"github.com/camilodvr/censopueblos/pkg/errs"
)

// SaveTable writes the canonical table to path, choosing the codec from the
// file extension (.csv or .parquet). Content is equivalent across formats
// modulo format-specific type coercion.
func SaveTable(t *dataset.Table, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return saveCSV(t, path)
	case ".parquet":
		return saveParquet(t, path)
	default:
		return &errs.UnsupportedFormatError{Path: path}
	}
}

// LoadTable reads a canonical table previously written by SaveTable.
func LoadTable(path string) (*dataset.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	case ".parquet":
		return loadParquet(path)
	default:
		return nil, &errs.UnsupportedFormatError{Path: path}
	}
}

func saveCSV(t *dataset.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(dataset.Columns); err != nil {
		return err
	}
	for _, r := range t.Rows {
		rec := []string{
			r.Department, r.Municipality, r.Key,
			r.PeopleCode, r.PeopleName, strconv.Itoa(r.Population),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func loadCSV(path string) (*dataset.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(dataset.Columns)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return &dataset.Table{}, nil
	}

	t := &dataset.Table{Rows: make([]dataset.Record, 0, len(records)-1)}
	for _, rec := range records[1:] {
		t.Rows = append(t.Rows, dataset.Record{
			Department:   rec[0],
			Municipality: rec[1],
			Key:          rec[2],
			PeopleCode:   rec[3],
			PeopleName:   rec[4],
			Population:   dataset.CoercePopulation(rec[5]),
		})
	}
	return t, nil
}

func saveParquet(t *dataset.Table, path string) error {
	if err := parquet.WriteFile(path, t.Rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func loadParquet(path string) (*dataset.Table, error) {
	rows, err := parquet.ReadFile[dataset.Record](path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &dataset.Table{Rows: rows}, nil
}
