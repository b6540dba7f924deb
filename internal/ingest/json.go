package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/KaramelBytes/tabclean-cli/internal/analysis"
)

type jsonReader struct{}

func (jsonReader) CanRead(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".json")
}

func (jsonReader) Read(path string, _ Options) (analysis.Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return analysis.Dataset{}, fmt.Errorf("read json: %w", err)
	}
	return ReadJSON(bytes.NewReader(b))
}

// ReadJSON decodes an array of arrays. The first array is the header; later
// arrays are rows whose numbers decode as float64 and nulls as absent cells.
// Nested arrays or objects are rejected.
func ReadJSON(r io.Reader) (analysis.Dataset, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw [][]any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return analysis.Dataset{}, nil
		}
		return analysis.Dataset{}, fmt.Errorf("decode json: %w", err)
	}
	if len(raw) == 0 {
		return analysis.Dataset{}, nil
	}
	ds := analysis.Dataset{
		Header: make([]string, len(raw[0])),
		Rows:   make([]analysis.Row, 0, len(raw)-1),
	}
	for j, v := range raw[0] {
		c, err := jsonCell(v)
		if err != nil {
			return analysis.Dataset{}, fmt.Errorf("header column %d: %w", j+1, err)
		}
		ds.Header[j] = analysis.CellText(c)
	}
	for i, rec := range raw[1:] {
		row := make(analysis.Row, len(rec))
		for j, v := range rec {
			c, err := jsonCell(v)
			if err != nil {
				return analysis.Dataset{}, fmt.Errorf("row %d column %d: %w", i+1, j+1, err)
			}
			row[j] = c
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

func jsonCell(v any) (analysis.Cell, error) {
	switch x := v.(type) {
	case nil, string, bool:
		return x, nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return nil, fmt.Errorf("number %s: %w", x, err)
		}
		return f, nil
	}
	return nil, fmt.Errorf("unsupported cell type %T", v)
}
