// Package ingest decodes delimited-text, spreadsheet and JSON files into an
// analysis.Dataset. The first decoded row is the header; every later row is
// data. Cells are passed through as decoded, without trimming.
package ingest

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/KaramelBytes/tabclean-cli/internal/analysis"
)

// Options tunes decoding for formats that need it.
type Options struct {
	// Delimiter for CSV. If 0, '\t' for .tsv files and ',' otherwise.
	Delimiter rune
	// SheetName selects an XLSX sheet by name (case-insensitive).
	SheetName string
	// SheetIndex selects an XLSX sheet by 1-based position when SheetName is empty.
	SheetIndex int
}

// Reader decodes one file format.
type Reader interface {
	CanRead(path string) bool
	Read(path string, opt Options) (analysis.Dataset, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

// ReadFile selects a reader based on the file name and decodes the file.
func ReadFile(path string, opt Options) (analysis.Dataset, error) {
	for _, r := range registry {
		if !r.CanRead(path) {
			continue
		}
		ds, err := r.Read(path, opt)
		if err != nil {
			return analysis.Dataset{}, err
		}
		slog.Debug("dataset decoded",
			slog.String("file", filepath.Base(path)),
			slog.Int("columns", ds.Columns()),
			slog.Int("rows", len(ds.Rows)))
		return ds, nil
	}
	return analysis.Dataset{}, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
}

// fromRecords treats records[0] as the header and the rest as data rows.
func fromRecords(records [][]string) analysis.Dataset {
	if len(records) == 0 {
		return analysis.Dataset{}
	}
	ds := analysis.Dataset{
		Header: append([]string(nil), records[0]...),
		Rows:   make([]analysis.Row, 0, len(records)-1),
	}
	for _, rec := range records[1:] {
		row := make(analysis.Row, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds
}

func init() {
	Register(csvReader{})
	Register(xlsxReader{})
	Register(jsonReader{})
}

var (
	// ErrUnsupported indicates a file format is not supported.
	ErrUnsupported = errors.New("unsupported file format")
	// ErrSheetNotFound indicates the requested XLSX sheet does not exist.
	ErrSheetNotFound = errors.New("sheet not found")
)
