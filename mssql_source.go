// file: mssql_source.go
package launchdash

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/microsoft/go-mssqldb"
)

type MSSQLSource struct {
	baseSource
}

func newMSSQLSource(cfg SourceConfig) (*MSSQLSource, error) {
	if cfg.Port == 0 {
		cfg.Port = 1433
	}
	user := url.QueryEscape(cfg.User)
	pass := url.QueryEscape(cfg.Password)
	sslMode := strings.ToLower(strings.TrimSpace(cfg.SSLMode))
	encrypt := "true"
	if sslMode == "disable" {
		encrypt = "disable"
	}
	dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%d?database=%s&encrypt=%s", user, pass, cfg.Host, cfg.Port, cfg.Database, encrypt)
	db, err := openDatabase("sqlserver", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mssql connection: %w", err)
	}
	return &MSSQLSource{newBaseSource(cfg, db)}, nil
}

func (s *MSSQLSource) TestConnection(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping mssql: %w", err)
	}
	return nil
}

func (s *MSSQLSource) Load(ctx context.Context) (*Table, error) {
	table, err := s.table()
	if err != nil {
		return nil, err
	}
	quoted, err := quoteMSSQLTable(table)
	if err != nil {
		return nil, err
	}
	return s.loadTable(ctx, "mssql", quoted, quoteMSSQL)
}

func quoteMSSQL(s string) string {
	return "[" + s + "]"
}

func parseMSSQLTable(table string) (string, string, error) {
	_, parts, err := quoteQualified(table, 2, quoteMSSQL)
	if err != nil {
		return "", "", fmt.Errorf("invalid mssql table: %w", err)
	}
	if len(parts) == 1 {
		return "dbo", parts[0], nil
	}
	return parts[0], parts[1], nil
}

// quoteMSSQLTable qualifies a bare table name with the dbo schema.
func quoteMSSQLTable(table string) (string, error) {
	schema, name, err := parseMSSQLTable(table)
	if err != nil {
		return "", err
	}
	return quoteMSSQL(schema) + "." + quoteMSSQL(name), nil
}
