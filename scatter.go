// file: scatter.go
package launchdash

import "fmt"

const (
	rangePadding = 0.005
	scatterYMin  = -0.25
	scatterYMax  = 1.25
)

// ScatterChart plots payload against class for every row whose payload lies
// in [low, high], restricted to site unless site is AllSites. Points are
// grouped by booster version category.
func ScatterChart(t *Table, site string, low, high float64) ScatterFigure {
	rows := t.Filter(func(r Record) bool {
		if r.PayloadMassKg < low || r.PayloadMassKg > high {
			return false
		}
		return site == AllSites || r.LaunchSite == site
	})

	index := map[string]int{}
	series := make([]ScatterSeries, 0)
	for _, rec := range rows {
		i, ok := index[rec.BoosterVersionCategory]
		if !ok {
			i = len(series)
			index[rec.BoosterVersionCategory] = i
			series = append(series, ScatterSeries{Name: rec.BoosterVersionCategory, Points: []ScatterPoint{}})
		}
		series[i].Points = append(series[i].Points, ScatterPoint{
			X:          rec.PayloadMassKg,
			Y:          float64(rec.Class),
			LaunchSite: rec.LaunchSite,
		})
	}

	pad := (high - low) * rangePadding
	return ScatterFigure{
		Type:   FigureScatter,
		Title:  scatterTitle(site),
		Site:   site,
		XLabel: ColumnPayloadMassKg,
		YLabel: ColumnClass,
		Series: series,
		RangeX: [2]float64{low - pad, high + pad},
		RangeY: [2]float64{scatterYMin, scatterYMax},
	}
}

func scatterTitle(site string) string {
	if site == AllSites {
		return "Correlation between Payload and Success for All Sites"
	}
	return fmt.Sprintf("Correlation between Payload and Success for %s", site)
}
