// file: sql_source.go
package launchdash

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

type baseSource struct {
	cfg     SourceConfig
	columns ColumnMapping
	db      *sql.DB
}

func newBaseSource(cfg SourceConfig, db *sql.DB) baseSource {
	return baseSource{cfg: cfg, columns: normalizeColumnMapping(cfg.Columns), db: db}
}

func (b *baseSource) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}

func (b *baseSource) table() (string, error) {
	table := strings.TrimSpace(b.cfg.Table)
	if table == "" {
		return "", errors.New("source table is required")
	}
	return table, nil
}

// loadTable selects the mapped columns from an already quoted table name.
func (b *baseSource) loadTable(ctx context.Context, dialect, quotedTable string, quote func(string) string) (*Table, error) {
	selectClause, err := quoteList(b.columns.names(), quote)
	if err != nil {
		return nil, fmt.Errorf("invalid %s column list: %w", dialect, err)
	}
	query := fmt.Sprintf("SELECT %s FROM %s", selectClause, quotedTable)
	rows, err := b.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s launches: %w", dialect, err)
	}
	defer rows.Close()
	maps, err := scanRowsToMaps(rows)
	if err != nil {
		return nil, fmt.Errorf("scan %s launches: %w", dialect, err)
	}
	records := make([]Record, 0, len(maps))
	for i, row := range maps {
		rec, err := recordFromValues(row, b.columns)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", dialect, i+1, err)
		}
		records = append(records, rec)
	}
	return NewTable(records)
}
