// file: xlsx_source.go
package launchdash

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

type XLSXSource struct {
	path  string
	sheet string
}

func newXLSXSource(cfg SourceConfig) *XLSXSource {
	return &XLSXSource{path: strings.TrimSpace(cfg.Path), sheet: strings.TrimSpace(cfg.Sheet)}
}

func (s *XLSXSource) Load(ctx context.Context) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.path == "" {
		return nil, errors.New("xlsx path is required")
	}
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()
	t, err := readWorkbook(f, s.sheet)
	if err != nil {
		return nil, fmt.Errorf("read xlsx %s: %w", s.path, err)
	}
	return t, nil
}

func (s *XLSXSource) Close() error {
	return nil
}

// readWorkbook reads the named sheet, or the first sheet when name is empty.
func readWorkbook(f *excelize.File, name string) (*Table, error) {
	if name == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		name = sheets[0]
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyTable
	}
	return tableFromRows(rows[0], rows[1:], fileColumns)
}
