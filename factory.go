// file: factory.go
package launchdash

import (
	"database/sql"
	"fmt"
	"strings"
)

func NewSource(cfg SourceConfig) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case "", "csv":
		return newCSVSource(cfg), nil
	case "xlsx", "excel":
		return newXLSXSource(cfg), nil
	case "mysql":
		return newMySQLSource(cfg)
	case "postgres", "postgresql":
		return newPostgresSource(cfg)
	case "mssql", "sqlserver":
		return newMSSQLSource(cfg)
	default:
		return nil, fmt.Errorf("unsupported source type %q", cfg.Type)
	}
}

func openDatabase(driverName, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// fileColumns maps fields to the header names used by CSV and XLSX exports.
var fileColumns = ColumnMapping{
	LaunchSite:             ColumnLaunchSite,
	PayloadMassKg:          ColumnPayloadMassKg,
	BoosterVersionCategory: ColumnBoosterVersionCategory,
	Class:                  ColumnClass,
}

// tableFromRows converts header-keyed string rows into a table. Row numbers
// in errors are 1-based and count the header line.
func tableFromRows(header []string, rows [][]string, m ColumnMapping) (*Table, error) {
	index := map[string]int{}
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	for _, col := range m.names() {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	records := make([]Record, 0, len(rows))
	for n, fields := range rows {
		row := make(map[string]any, 4)
		for _, col := range m.names() {
			i := index[col]
			if i < len(fields) {
				row[col] = fields[i]
			} else {
				row[col] = ""
			}
		}
		rec, err := recordFromValues(row, m)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+2, err)
		}
		records = append(records, rec)
	}
	return NewTable(records)
}
