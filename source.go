// file: source.go
package launchdash

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const DefaultCSVPath = "spacex_launch_dash.csv"

var (
	ErrMissingColumn = errors.New("required column missing")
	ErrInvalidValue  = errors.New("invalid value")
)

// Source loads the launch table once at startup.
type Source interface {
	Load(ctx context.Context) (*Table, error)

	Close() error
}

// ConnectionTester is implemented by sources backed by a database server.
type ConnectionTester interface {
	TestConnection(ctx context.Context) error
}

type SourceConfig struct {
	Type     string        `json:"type" mapstructure:"type"` // csv | xlsx | mysql | postgres | mssql
	Path     string        `json:"path" mapstructure:"path"`
	Sheet    string        `json:"sheet" mapstructure:"sheet"`
	Host     string        `json:"host" mapstructure:"host"`
	Port     int           `json:"port" mapstructure:"port"`
	User     string        `json:"user" mapstructure:"user"`
	Password string        `json:"password" mapstructure:"password"`
	Database string        `json:"database" mapstructure:"database"`
	SSLMode  string        `json:"sslMode" mapstructure:"sslmode"`
	Table    string        `json:"table" mapstructure:"table"`
	Columns  ColumnMapping `json:"columns" mapstructure:"columns"`
}

// ColumnMapping names the SQL columns holding each launch field.
type ColumnMapping struct {
	LaunchSite             string `json:"launchSite" mapstructure:"launch_site"`
	PayloadMassKg          string `json:"payloadMassKg" mapstructure:"payload_mass_kg"`
	BoosterVersionCategory string `json:"boosterVersionCategory" mapstructure:"booster_version_category"`
	Class                  string `json:"class" mapstructure:"class"`
}

func DefaultColumnMapping() ColumnMapping {
	return ColumnMapping{
		LaunchSite:             "launch_site",
		PayloadMassKg:          "payload_mass_kg",
		BoosterVersionCategory: "booster_version_category",
		Class:                  "class",
	}
}

func normalizeColumnMapping(m ColumnMapping) ColumnMapping {
	def := DefaultColumnMapping()
	if strings.TrimSpace(m.LaunchSite) == "" {
		m.LaunchSite = def.LaunchSite
	}
	if strings.TrimSpace(m.PayloadMassKg) == "" {
		m.PayloadMassKg = def.PayloadMassKg
	}
	if strings.TrimSpace(m.BoosterVersionCategory) == "" {
		m.BoosterVersionCategory = def.BoosterVersionCategory
	}
	if strings.TrimSpace(m.Class) == "" {
		m.Class = def.Class
	}
	return m
}

func (m ColumnMapping) names() []string {
	return []string{m.LaunchSite, m.PayloadMassKg, m.BoosterVersionCategory, m.Class}
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)

func splitIdentifier(ident string) ([]string, error) {
	trimmed := strings.TrimSpace(ident)
	if trimmed == "" {
		return nil, errors.New("identifier is empty")
	}
	parts := strings.Split(trimmed, ".")
	for _, part := range parts {
		if part == "" {
			return nil, errors.New("identifier contains empty segment")
		}
		if !identPattern.MatchString(part) {
			return nil, fmt.Errorf("identifier segment %q is invalid", part)
		}
	}
	return parts, nil
}

func quoteQualified(ident string, maxSegments int, quote func(string) string) (string, []string, error) {
	parts, err := splitIdentifier(ident)
	if err != nil {
		return "", nil, err
	}
	if maxSegments > 0 && len(parts) > maxSegments {
		return "", nil, fmt.Errorf("identifier %q has too many segments", ident)
	}
	quoted := make([]string, len(parts))
	for i, part := range parts {
		quoted[i] = quote(part)
	}
	return strings.Join(quoted, "."), parts, nil
}

func quoteList(names []string, quote func(string) string) (string, error) {
	if len(names) == 0 {
		return "", errors.New("no columns provided")
	}
	quoted := make([]string, len(names))
	for i, name := range names {
		if name == "" {
			return "", errors.New("column name is empty")
		}
		parts, err := splitIdentifier(name)
		if err != nil || len(parts) != 1 {
			return "", fmt.Errorf("invalid column name %q", name)
		}
		quoted[i] = quote(name)
	}
	return strings.Join(quoted, ", "), nil
}

func scanRowsToMaps(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	results := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		for i := range values {
			var v any
			values[i] = &v
		}
		if err := rows.Scan(values...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			v := *(values[i].(*any))
			row[col] = normalizeValue(v)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(t)
	default:
		return t
	}
}

// recordFromValues builds a record from one row keyed by column name.
func recordFromValues(row map[string]any, m ColumnMapping) (Record, error) {
	var rec Record
	site, err := stringValue(row, m.LaunchSite)
	if err != nil {
		return rec, err
	}
	booster, err := stringValue(row, m.BoosterVersionCategory)
	if err != nil {
		return rec, err
	}
	payload, err := floatValue(row, m.PayloadMassKg)
	if err != nil {
		return rec, err
	}
	class, err := floatValue(row, m.Class)
	if err != nil {
		return rec, err
	}
	if class != math.Trunc(class) {
		return rec, fmt.Errorf("%w: %s=%v is not an integer", ErrInvalidValue, m.Class, class)
	}
	rec.LaunchSite = site
	rec.BoosterVersionCategory = booster
	rec.PayloadMassKg = payload
	rec.Class = int(class)
	return rec, nil
}

func stringValue(row map[string]any, col string) (string, error) {
	v, ok := row[col]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingColumn, col)
	}
	if v == nil {
		return "", nil
	}
	return fmt.Sprint(v), nil
}

func floatValue(row map[string]any, col string) (float64, error) {
	v, ok := row[col]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingColumn, col)
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, fmt.Errorf("%w: %s=%v", ErrInvalidValue, col, v)
	}
	return f, nil
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(t)), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
