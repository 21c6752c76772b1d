package main

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"launchdash"
)

const dashboardTitle = "SpaceX Launch Records Dashboard"

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type indexPage struct {
	Title      string
	Options    launchdash.Options
	PieSrc     string
	ScatterSrc string
	Bindings   map[string][]string
	Charts     map[string]string
}

// outputCharts names the chart drawn into each output image.
var outputCharts = map[string]string{
	launchdash.OutputPieChart:     launchdash.FigurePie,
	launchdash.OutputScatterChart: launchdash.FigureScatter,
}

// HandleIndex renders the dashboard page in its initial state: every site
// selected and the slider spanning the whole payload range.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	page := indexPage{
		Title:      dashboardTitle,
		Options:    h.Options,
		PieSrc:     chartSrc(launchdash.FigurePie, h.Options.Default),
		ScatterSrc: chartSrc(launchdash.FigureScatter, h.Options.Default),
		Bindings:   h.Registry.Bindings(),
		Charts:     outputCharts,
	}
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, page); err != nil {
		h.Logger.Error().Err(err).Msg("render index")
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func chartSrc(chart string, sel launchdash.Selection) string {
	q := url.Values{}
	q.Set("site", sel.Site)
	q.Set("low", strconv.FormatFloat(sel.Payload[0], 'f', -1, 64))
	q.Set("high", strconv.FormatFloat(sel.Payload[1], 'f', -1, 64))
	q.Set("format", "svg")
	return "/charts/" + chart + "?" + q.Encode()
}
