package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/tabclean-cli/internal/analysis"
)

type xlsxReader struct{}

func (xlsxReader) CanRead(path string) bool {
	name := strings.ToLower(path)
	return strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xlsm")
}

// Read decodes the selected sheet. If SheetName is empty and SheetIndex <= 0,
// it defaults to the first sheet.
func (xlsxReader) Read(path string, opt Options) (analysis.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return analysis.Dataset{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet, err := resolveSheet(f.GetSheetList(), opt)
	if err != nil {
		return analysis.Dataset{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return analysis.Dataset{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return fromRecords(rows), nil
}

func resolveSheet(sheets []string, opt Options) (string, error) {
	if opt.SheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, opt.SheetName) {
				return s, nil
			}
		}
		return "", fmt.Errorf("%w: %q (available: %s)", ErrSheetNotFound, opt.SheetName, strings.Join(sheets, ", "))
	}
	idx := opt.SheetIndex
	if idx <= 0 {
		idx = 1
	}
	if idx > len(sheets) {
		return "", fmt.Errorf("%w: index %d (workbook has %d sheets)", ErrSheetNotFound, idx, len(sheets))
	}
	return sheets[idx-1], nil
}
