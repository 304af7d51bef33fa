package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrSourceNotFound means the backing table file does not exist.
	ErrSourceNotFound = errors.New("source not found")
	// ErrSourceEmpty means the backing table file exists but is zero-length.
	ErrSourceEmpty = errors.New("source empty")
)

// SourceError identifies which table failed so callers can halt only the
// dependent view. It wraps ErrSourceNotFound or ErrSourceEmpty.
type SourceError struct {
	Table string
	Path  string
	Err   error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("dataset %s: %v (%s)", e.Table, e.Err, e.Path)
}

func (e *SourceError) Unwrap() error { return e.Err }

// readTable reads a delimited UTF-8 table from r. A structurally malformed
// row (wrong field count, bad quoting) is skipped and counted, never fatal.
func readTable(r io.Reader) (rows [][]string, skipped int) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	return rows, skipped
}

// LoadTable loads and normalizes one table from disk.
func LoadTable(path string, schema Schema, layouts map[int]Layout) ([]Record, Stats, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, Stats{}, &SourceError{Table: schema.Name, Path: path, Err: ErrSourceNotFound}
	}
	if info.Size() == 0 {
		return nil, Stats{}, &SourceError{Table: schema.Name, Path: path, Err: ErrSourceEmpty}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, &SourceError{Table: schema.Name, Path: path, Err: ErrSourceNotFound}
	}
	defer f.Close()

	rows, skipped := readTable(f)
	records, stats := Normalize(rows, schema, layouts)
	stats.Skipped += skipped
	return records, stats, nil
}
