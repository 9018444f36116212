// Package service exposes the filter, indicator, and report operations over
// a process-wide cached canonical table. The table is loaded once on first
// access and read-only afterwards, so concurrent callers need no locking
// beyond the initialization barrier.
package service

import (
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/camilodvr/censopueblos/internal/analysis"
	"github.com/camilodvr/censopueblos/internal/dataset"
	"github.com/camilodvr/censopueblos/internal/report"
	"github.com/camilodvr/censopueblos/internal/store"
	"github.com/camilodvr/censopueblos/pkg/errs"
)

// Service answers option, aggregate, by-people, and report queries over the
// canonical dataset at Path. A fresh process is required to pick up changed
// source data; there is no invalidation.
type Service struct {
	Path string
	Log  zerolog.Logger

	group singleflight.Group
	mu    sync.RWMutex
	table *dataset.Table
}

// New returns a Service bound to the dataset at path.
func New(path string, log zerolog.Logger) *Service {
	return &Service{Path: path, Log: log}
}

// Table returns the cached canonical table, loading it on first use.
// Concurrent first calls collapse into a single load.
func (s *Service) Table() (*dataset.Table, error) {
	s.mu.RLock()
	t := s.table
	s.mu.RUnlock()
	if t != nil {
		return t, nil
	}

	v, err, _ := s.group.Do("load", func() (interface{}, error) {
		loaded, err := store.LoadTable(s.Path)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.table = loaded
		s.mu.Unlock()
		s.Log.Info().Str("path", s.Path).Int("rows", len(loaded.Rows)).Msg("dataset cached")
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*dataset.Table), nil
}

// Options returns the distinct sorted filter values of the full table.
func (s *Service) Options() (dataset.Options, error) {
	t, err := s.Table()
	if err != nil {
		return dataset.Options{}, err
	}
	return t.Options(), nil
}

// Aggregate computes the global indicators over the selection. An empty
// selection returns errs.ErrEmptySelection, distinct from a valid
// zero-population result.
func (s *Service) Aggregate(sel analysis.Selection) (analysis.GlobalIndicators, error) {
	filtered, err := s.filtered(sel)
	if err != nil {
		return analysis.GlobalIndicators{}, err
	}
	return analysis.Global(filtered), nil
}

// ByPeople returns descending-population shares per people for the selection.
func (s *Service) ByPeople(sel analysis.Selection) ([]analysis.PeopleShare, error) {
	filtered, err := s.filtered(sel)
	if err != nil {
		return nil, err
	}
	return analysis.ByPeople(filtered), nil
}

// Report assembles the five-sheet workbook for the selection and returns its
// bytes.
func (s *Service) Report(sel analysis.Selection) ([]byte, error) {
	filtered, err := s.filtered(sel)
	if err != nil {
		return nil, err
	}
	return report.Assemble(filtered, "")
}

func (s *Service) filtered(sel analysis.Selection) (*dataset.Table, error) {
	t, err := s.Table()
	if err != nil {
		return nil, err
	}
	filtered := analysis.Filter(t, sel)
	if len(filtered.Rows) == 0 {
		return nil, errs.ErrEmptySelection
	}
	return filtered, nil
}
