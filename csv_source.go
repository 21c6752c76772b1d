// file: csv_source.go
package launchdash

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

type CSVSource struct {
	path string
}

func newCSVSource(cfg SourceConfig) *CSVSource {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		path = DefaultCSVPath
	}
	return &CSVSource{path: path}
}

func (s *CSVSource) Load(ctx context.Context) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	t, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", s.path, err)
	}
	return t, nil
}

func (s *CSVSource) Close() error {
	return nil
}

// ReadCSV parses a launch table from CSV with a header row. Columns other
// than the four launch fields are ignored.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyTable
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	return tableFromRows(header, rows, fileColumns)
}
