// Package jsonfile is the default Portfolio persistence backend: a
// single JSON document at a configurable path, written atomically via
// write-then-rename.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/portfolio"
	"github.com/OFUZORCHUKWUEMEKE/Sniper/internal/swap"
)

// Store implements portfolio.Store against a single JSON file.
type Store struct {
	path string
}

// NewStore returns a Store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

var _ portfolio.Store = (*Store)(nil)

// document is the on-disk shape of the persisted portfolio, matching
// the external-interface contract field-for-field.
type document struct {
	Positions        map[swap.Address]portfolio.Position `json:"positions"`
	ClosedPositions  []portfolio.ClosedPosition          `json:"closed_positions"`
	TotalRealizedPnL int64                               `json:"total_realized_pnl"`
}

// Load reads the JSON document. If the file does not exist it returns
// an empty portfolio rather than an error.
func (s *Store) Load() (*portfolio.Portfolio, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return portfolio.NewPortfolio(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read portfolio file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal portfolio file: %w", err)
	}

	p := portfolio.NewPortfolio()
	if doc.Positions != nil {
		p.Active = doc.Positions
	}
	p.History = doc.ClosedPositions
	p.TotalRealizedPnL = doc.TotalRealizedPnL
	return p, nil
}

// Save serializes the portfolio as JSON and writes it atomically:
// write to a temp file in the same directory, then rename over the
// destination path.
func (s *Store) Save(p *portfolio.Portfolio) error {
	doc := document{
		Positions:        p.Active,
		ClosedPositions:  p.History,
		TotalRealizedPnL: p.TotalRealizedPnL,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal portfolio: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".portfolio-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp portfolio file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp portfolio file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp portfolio file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp portfolio file: %w", err)
	}

	return nil
}
