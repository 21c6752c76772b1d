// file: postgres_source.go
package launchdash

import (
	"context"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
)

type PostgresSource struct {
	baseSource
}

func newPostgresSource(cfg SourceConfig) (*PostgresSource, error) {
	if cfg.Port == 0 {
		cfg.Port = 5432
	}
	sslMode := strings.ToLower(strings.TrimSpace(cfg.SSLMode))
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, sslMode)
	db, err := openDatabase("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}
	return &PostgresSource{newBaseSource(cfg, db)}, nil
}

func (s *PostgresSource) TestConnection(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

func (s *PostgresSource) Load(ctx context.Context) (*Table, error) {
	table, err := s.table()
	if err != nil {
		return nil, err
	}
	quoted, _, err := quoteQualified(table, 2, quotePostgres)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres table: %w", err)
	}
	return s.loadTable(ctx, "postgres", quoted, quotePostgres)
}

func quotePostgres(s string) string {
	return "\"" + s + "\""
}
