// file: table.go
package launchdash

import (
	"errors"
	"fmt"
	"math"
)

const (
	ColumnLaunchSite             = "Launch Site"
	ColumnPayloadMassKg          = "Payload Mass (kg)"
	ColumnBoosterVersionCategory = "Booster Version Category"
	ColumnClass                  = "class"

	AllSites = "ALL"
)

var (
	ErrEmptyTable      = errors.New("launch table is empty")
	ErrNegativePayload = errors.New("payload mass is negative")
	ErrInvalidClass    = errors.New("class must be 0 or 1")
)

type Record struct {
	LaunchSite             string  `json:"launchSite"`
	PayloadMassKg          float64 `json:"payloadMassKg"`
	BoosterVersionCategory string  `json:"boosterVersionCategory"`
	Class                  int     `json:"class"`
}

func (r Record) Success() bool {
	return r.Class == 1
}

// Table is the launch dataset. It is never mutated after NewTable returns,
// so it can be shared freely between request goroutines.
type Table struct {
	records    []Record
	sites      []string
	minPayload float64
	maxPayload float64
}

func NewTable(records []Record) (*Table, error) {
	if len(records) == 0 {
		return nil, ErrEmptyTable
	}
	t := &Table{
		records:    make([]Record, len(records)),
		minPayload: math.Inf(1),
		maxPayload: math.Inf(-1),
	}
	seen := map[string]struct{}{}
	for i, rec := range records {
		if rec.PayloadMassKg < 0 || math.IsNaN(rec.PayloadMassKg) {
			return nil, fmt.Errorf("row %d: %w", i, ErrNegativePayload)
		}
		if rec.Class != 0 && rec.Class != 1 {
			return nil, fmt.Errorf("row %d: %w", i, ErrInvalidClass)
		}
		t.records[i] = rec
		if _, ok := seen[rec.LaunchSite]; !ok {
			seen[rec.LaunchSite] = struct{}{}
			t.sites = append(t.sites, rec.LaunchSite)
		}
		t.minPayload = math.Min(t.minPayload, rec.PayloadMassKg)
		t.maxPayload = math.Max(t.maxPayload, rec.PayloadMassKg)
	}
	return t, nil
}

func (t *Table) Len() int {
	return len(t.records)
}

func (t *Table) Records() []Record {
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// Sites returns the distinct launch sites in order of first appearance.
func (t *Table) Sites() []string {
	out := make([]string, len(t.sites))
	copy(out, t.sites)
	return out
}

func (t *Table) MinPayload() float64 {
	return t.minPayload
}

func (t *Table) MaxPayload() float64 {
	return t.maxPayload
}

func (t *Table) Filter(keep func(Record) bool) []Record {
	out := make([]Record, 0)
	for _, rec := range t.records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func (t *Table) SuccessCount() int {
	n := 0
	for _, rec := range t.records {
		if rec.Success() {
			n++
		}
	}
	return n
}

func (t *Table) SiteCount(site string) int {
	n := 0
	for _, rec := range t.records {
		if rec.LaunchSite == site {
			n++
		}
	}
	return n
}
