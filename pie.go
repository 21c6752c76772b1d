// file: pie.go
package launchdash

import (
	"fmt"
	"sort"
	"strconv"
)

const (
	allSitesPieTitle = "Total Successful Launches by Site"
	successLabel     = "Success"
	failureLabel     = "Failure"
)

// PieChart describes the success pie for site. For AllSites it counts
// successful launches per site, ordered by site name; for a single site it
// counts outcomes by class. An unknown site yields a figure with no slices.
func PieChart(t *Table, site string) PieFigure {
	if site == AllSites {
		return allSitesPie(t)
	}
	return sitePie(t, site)
}

func allSitesPie(t *Table) PieFigure {
	counts := map[string]int{}
	for _, rec := range t.Filter(Record.Success) {
		counts[rec.LaunchSite]++
	}
	sites := make([]string, 0, len(counts))
	for site := range counts {
		sites = append(sites, site)
	}
	sort.Strings(sites)
	slices := make([]PieSlice, 0, len(sites))
	for _, site := range sites {
		slices = append(slices, PieSlice{Key: site, Label: site, Value: counts[site]})
	}
	return PieFigure{Type: FigurePie, Title: allSitesPieTitle, Site: AllSites, Slices: slices}
}

func sitePie(t *Table, site string) PieFigure {
	counts := map[int]int{}
	for _, rec := range t.Filter(func(r Record) bool { return r.LaunchSite == site }) {
		counts[rec.Class]++
	}
	classes := make([]int, 0, len(counts))
	for class := range counts {
		classes = append(classes, class)
	}
	sort.Ints(classes)
	slices := make([]PieSlice, 0, len(classes))
	for _, class := range classes {
		slices = append(slices, PieSlice{
			Key:   strconv.Itoa(class),
			Label: outcomeLabel(class),
			Value: counts[class],
		})
	}
	return PieFigure{
		Type:   FigurePie,
		Title:  fmt.Sprintf("Success Rate for %s", site),
		Site:   site,
		Slices: slices,
	}
}

func outcomeLabel(class int) string {
	if class == 1 {
		return successLabel
	}
	return failureLabel
}
