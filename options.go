// file: options.go
package launchdash

import (
	"math"
	"strconv"
)

const (
	DefaultMarkCount = 21
	PayloadStep      = 0.1
	allSitesLabel    = "All Sites"
)

type SiteOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Mark struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// Selection is the state of the two dashboard controls.
type Selection struct {
	Site    string     `json:"site"`
	Payload [2]float64 `json:"payload"`
}

type Options struct {
	Sites      []SiteOption `json:"sites"`
	PayloadMin float64      `json:"payloadMin"`
	PayloadMax float64      `json:"payloadMax"`
	Step       float64      `json:"step"`
	Marks      []Mark       `json:"marks"`
	Default    Selection    `json:"default"`
}

func DeriveOptions(t *Table) Options {
	sites := t.Sites()
	siteOptions := make([]SiteOption, 0, len(sites)+1)
	siteOptions = append(siteOptions, SiteOption{Label: allSitesLabel, Value: AllSites})
	for _, site := range sites {
		siteOptions = append(siteOptions, SiteOption{Label: site, Value: site})
	}
	minPayload := 0.0
	maxPayload := RoundUp(t.MaxPayload())
	return Options{
		Sites:      siteOptions,
		PayloadMin: minPayload,
		PayloadMax: maxPayload,
		Step:       PayloadStep,
		Marks:      Marks(minPayload, maxPayload, DefaultMarkCount),
		Default: Selection{
			Site:    AllSites,
			Payload: [2]float64{minPayload, maxPayload},
		},
	}
}

// RoundUp rounds v up to its leading digit at v's order of magnitude:
// 9600 becomes 10000 and 15600 becomes 20000.
func RoundUp(v float64) float64 {
	out := v
	for out >= 10 {
		out /= 10
	}
	out = math.Ceil(out)
	for out < v {
		out *= 10
	}
	return out
}

// Marks returns n evenly spaced points from min to max inclusive.
func Marks(min, max float64, n int) []Mark {
	if n <= 0 {
		return []Mark{}
	}
	if n == 1 {
		return []Mark{{Value: min, Label: markLabel(min)}}
	}
	step := (max - min) / float64(n-1)
	marks := make([]Mark, n)
	for i := 0; i < n; i++ {
		v := min + float64(i)*step
		if i == n-1 {
			v = max
		}
		marks[i] = Mark{Value: v, Label: markLabel(v)}
	}
	return marks
}

func markLabel(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
