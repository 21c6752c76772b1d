// file: profile.go
package launchdash

import "fmt"

const maxProfileExamples = 3

type ColumnProfile struct {
	Column   string   `json:"column"`
	Type     string   `json:"type"`
	Count    int      `json:"count"`
	Distinct int      `json:"distinct"`
	Min      any      `json:"min,omitempty"`
	Max      any      `json:"max,omitempty"`
	Examples []string `json:"examples"`
}

type TableProfile struct {
	RowCount     int             `json:"rowCount"`
	SuccessCount int             `json:"successCount"`
	Columns      []ColumnProfile `json:"columns"`
}

// Profile summarizes each launch column: distinct values, numeric range and
// a few examples.
func Profile(t *Table) TableProfile {
	records := t.Records()
	columns := []struct {
		name  string
		typ   string
		value func(Record) any
	}{
		{ColumnLaunchSite, "string", func(r Record) any { return r.LaunchSite }},
		{ColumnPayloadMassKg, "float", func(r Record) any { return r.PayloadMassKg }},
		{ColumnBoosterVersionCategory, "string", func(r Record) any { return r.BoosterVersionCategory }},
		{ColumnClass, "integer", func(r Record) any { return r.Class }},
	}
	profiles := make([]ColumnProfile, 0, len(columns))
	for _, col := range columns {
		profile := ColumnProfile{
			Column:   col.name,
			Type:     col.typ,
			Count:    len(records),
			Examples: []string{},
		}
		distinct := map[string]struct{}{}
		var minVal, maxVal any
		for _, rec := range records {
			v := col.value(rec)
			text := fmt.Sprint(v)
			if _, seen := distinct[text]; !seen {
				distinct[text] = struct{}{}
				if len(profile.Examples) < maxProfileExamples {
					profile.Examples = append(profile.Examples, text)
				}
			}
			minVal, maxVal = updateMinMax(minVal, maxVal, v)
		}
		profile.Distinct = len(distinct)
		profile.Min = minVal
		profile.Max = maxVal
		profiles = append(profiles, profile)
	}
	return TableProfile{
		RowCount:     t.Len(),
		SuccessCount: t.SuccessCount(),
		Columns:      profiles,
	}
}

// updateMinMax tracks the numeric range; non-numeric values are skipped.
func updateMinMax(currentMin any, currentMax any, v any) (any, any) {
	if _, isString := v.(string); isString {
		return currentMin, currentMax
	}
	f, ok := toFloat(v)
	if !ok {
		return currentMin, currentMax
	}
	if currentMin == nil || f < currentMin.(float64) {
		currentMin = f
	}
	if currentMax == nil || f > currentMax.(float64) {
		currentMax = f
	}
	return currentMin, currentMax
}
