// file: mysql_source.go
package launchdash

import (
	"context"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

type MySQLSource struct {
	baseSource
}

func newMySQLSource(cfg SourceConfig) (*MySQLSource, error) {
	if cfg.Port == 0 {
		cfg.Port = 3306
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)
	sslMode := strings.ToLower(strings.TrimSpace(cfg.SSLMode))
	if sslMode == "disable" {
		dsn += "&tls=false"
	} else if sslMode != "" {
		dsn += "&tls=true"
	}
	db, err := openDatabase("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql connection: %w", err)
	}
	return &MySQLSource{newBaseSource(cfg, db)}, nil
}

func (s *MySQLSource) TestConnection(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping mysql: %w", err)
	}
	return nil
}

func (s *MySQLSource) Load(ctx context.Context) (*Table, error) {
	table, err := s.table()
	if err != nil {
		return nil, err
	}
	quoted, _, err := quoteQualified(table, 1, quoteMySQL)
	if err != nil {
		return nil, fmt.Errorf("invalid mysql table: %w", err)
	}
	return s.loadTable(ctx, "mysql", quoted, quoteMySQL)
}

func quoteMySQL(s string) string {
	return "`" + s + "`"
}
