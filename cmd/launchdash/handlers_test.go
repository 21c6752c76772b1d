package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchdash"
)

func testTable(t *testing.T) *launchdash.Table {
	t.Helper()
	table, err := launchdash.NewTable([]launchdash.Record{
		{LaunchSite: "CCAFS LC-40", PayloadMassKg: 0, BoosterVersionCategory: "v1.0", Class: 0},
		{LaunchSite: "CCAFS LC-40", PayloadMassKg: 500, BoosterVersionCategory: "v1.0", Class: 1},
		{LaunchSite: "KSC LC-39A", PayloadMassKg: 3000, BoosterVersionCategory: "FT", Class: 1},
		{LaunchSite: "KSC LC-39A", PayloadMassKg: 9600, BoosterVersionCategory: "B5", Class: 0},
	})
	require.NoError(t, err)
	return table
}

func newTestServer(t *testing.T) (*Handler, http.Handler) {
	t.Helper()
	h := NewHandler(testTable(t), zerolog.Nop())
	return h, h.Routes(5 * time.Second)
}

func doRequest(t *testing.T, srv http.Handler, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	h, srv := newTestServer(t)
	rr := doRequest(t, srv, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 4, resp.Rows)
	assert.Equal(t, h.DatasetID, resp.DatasetID)
	assert.NotEmpty(t, resp.DatasetID)
}

func TestOptionsEndpoint(t *testing.T) {
	_, srv := newTestServer(t)
	rr := doRequest(t, srv, http.MethodGet, "/api/options", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var opts launchdash.Options
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &opts))
	require.Len(t, opts.Sites, 3)
	assert.Equal(t, launchdash.SiteOption{Label: "All Sites", Value: "ALL"}, opts.Sites[0])
	assert.Equal(t, "CCAFS LC-40", opts.Sites[1].Value)
	assert.Equal(t, 10000.0, opts.PayloadMax)
	assert.Equal(t, [2]float64{0, 10000}, opts.Default.Payload)
	assert.Len(t, opts.Marks, launchdash.DefaultMarkCount)
}

func TestProfileEndpoint(t *testing.T) {
	_, srv := newTestServer(t)
	rr := doRequest(t, srv, http.MethodGet, "/api/profile", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var profile launchdash.TableProfile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
	assert.Equal(t, 4, profile.RowCount)
	assert.Equal(t, 2, profile.SuccessCount)
	assert.Len(t, profile.Columns, 4)
}

func TestFigureEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
		check      func(t *testing.T, body map[string]any)
	}{
		{
			name:       "pie defaults to all sites",
			target:     "/api/charts/pie",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "pie", body["type"])
				assert.Equal(t, "Total Successful Launches by Site", body["title"])
				assert.Len(t, body["slices"], 2)
			},
		},
		{
			name:       "pie for one site",
			target:     "/api/charts/pie?site=KSC+LC-39A",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Success Rate for KSC LC-39A", body["title"])
				assert.Len(t, body["slices"], 2)
			},
		},
		{
			name:       "scatter with payload range",
			target:     "/api/charts/scatter?low=400&high=3000",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "scatter", body["type"])
				series := body["series"].([]any)
				require.Len(t, series, 2)
				assert.Equal(t, "v1.0", series[0].(map[string]any)["name"])
				assert.Equal(t, "FT", series[1].(map[string]any)["name"])
			},
		},
		{
			name:       "invalid low",
			target:     "/api/charts/scatter?low=abc",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown chart",
			target:     "/api/charts/bar",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "NaN low",
			target:     "/api/charts/scatter?low=NaN",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "infinite high",
			target:     "/api/charts/scatter?high=Inf",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative infinite low",
			target:     "/api/charts/scatter?low=-Inf&high=500",
			wantStatus: http.StatusBadRequest,
		},
	}

	_, srv := newTestServer(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := doRequest(t, srv, http.MethodGet, tc.target, "")
			require.Equal(t, tc.wantStatus, rr.Code, rr.Body.String())
			body := decodeBody(t, rr)
			if tc.check != nil {
				tc.check(t, body)
			} else {
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}

func TestCallbacks(t *testing.T) {
	tests := []struct {
		name        string
		payload     string
		wantStatus  int
		wantOutputs []string
	}{
		{
			name:        "initial render runs every callback",
			payload:     `{}`,
			wantStatus:  http.StatusOK,
			wantOutputs: []string{launchdash.OutputPieChart, launchdash.OutputScatterChart},
		},
		{
			name:        "dropdown change updates both charts",
			payload:     `{"changed":["site-dropdown"],"state":{"site":"CCAFS LC-40"}}`,
			wantStatus:  http.StatusOK,
			wantOutputs: []string{launchdash.OutputPieChart, launchdash.OutputScatterChart},
		},
		{
			name:        "slider change updates scatter only",
			payload:     `{"changed":["payload-slider"],"state":{"site":"ALL","payload":[0,1000]}}`,
			wantStatus:  http.StatusOK,
			wantOutputs: []string{launchdash.OutputScatterChart},
		},
		{
			name:       "unknown control",
			payload:    `{"changed":["booster-filter"]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown field rejected",
			payload:    `{"changed":[],"extra":1}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "trailing payload rejected",
			payload:    `{} {}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	_, srv := newTestServer(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := doRequest(t, srv, http.MethodPost, "/api/callbacks", tc.payload)
			require.Equal(t, tc.wantStatus, rr.Code, rr.Body.String())
			if tc.wantStatus != http.StatusOK {
				return
			}
			var resp struct {
				Figures map[string]json.RawMessage `json:"figures"`
			}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			got := make([]string, 0, len(resp.Figures))
			for id := range resp.Figures {
				got = append(got, id)
			}
			assert.ElementsMatch(t, tc.wantOutputs, got)
		})
	}
}

func TestCallbackSliderFiltersScatter(t *testing.T) {
	_, srv := newTestServer(t)
	rr := doRequest(t, srv, http.MethodPost, "/api/callbacks",
		`{"changed":["payload-slider"],"state":{"payload":[0,500]}}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Figures map[string]launchdash.ScatterFigure `json:"figures"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	fig := resp.Figures[launchdash.OutputScatterChart]
	assert.Equal(t, 2, fig.PointCount())
	assert.Equal(t, launchdash.AllSites, fig.Site)
}

func TestChartImage(t *testing.T) {
	tests := []struct {
		name            string
		target          string
		wantStatus      int
		wantContentType string
	}{
		{"pie svg", "/charts/pie", http.StatusOK, "image/svg+xml"},
		{"scatter png", "/charts/scatter?format=png&width=400&height=300", http.StatusOK, "image/png"},
		{"empty selection", "/charts/scatter?low=20000&high=30000", http.StatusOK, "image/svg+xml"},
		{"bad format", "/charts/pie?format=gif", http.StatusBadRequest, "application/json"},
		{"bad width", "/charts/pie?width=-1", http.StatusBadRequest, "application/json"},
		{"unknown chart", "/charts/bar", http.StatusNotFound, "application/json"},
		{"NaN bound", "/charts/scatter?low=NaN&high=500", http.StatusBadRequest, "application/json"},
		{"infinite bound", "/charts/pie?high=%2BInf", http.StatusBadRequest, "application/json"},
	}

	_, srv := newTestServer(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := doRequest(t, srv, http.MethodGet, tc.target, "")
			require.Equal(t, tc.wantStatus, rr.Code, rr.Body.String())
			assert.Equal(t, tc.wantContentType, rr.Header().Get("Content-Type"))
			if tc.wantStatus == http.StatusOK {
				assert.NotZero(t, rr.Body.Len())
			}
		})
	}
}

func TestIndexPage(t *testing.T) {
	_, srv := newTestServer(t)
	rr := doRequest(t, srv, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))

	body := rr.Body.String()
	assert.Contains(t, body, "<h1>SpaceX Launch Records Dashboard</h1>")
	assert.Contains(t, body, `id="site-dropdown"`)
	assert.Contains(t, body, `<option value="ALL" selected>All Sites</option>`)
	assert.Contains(t, body, `<option value="KSC LC-39A">KSC LC-39A</option>`)
	assert.Contains(t, body, `id="success-pie-chart"`)
	assert.Contains(t, body, `id="success-payload-scatter-chart"`)
	assert.Contains(t, body, `max="10000"`)
	assert.Equal(t, launchdash.DefaultMarkCount, strings.Count(body, `<option value="`)-3)
	assert.Contains(t, body, `"payload-slider":["success-payload-scatter-chart"]`)
	assert.Contains(t, body, `"success-pie-chart":"pie"`)
	assert.NotContains(t, body, "/api/callbacks")
}

func TestCallbacksRecordResponderMetrics(t *testing.T) {
	_, srv := newTestServer(t)
	rr := doRequest(t, srv, http.MethodPost, "/api/callbacks", `{"changed":["payload-slider"]}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `launchdash_charts_responder_calls_total{chart="scatter"}`)
}

func TestMetricsEndpoint(t *testing.T) {
	_, srv := newTestServer(t)
	doRequest(t, srv, http.MethodGet, "/api/charts/pie", "")
	rr := doRequest(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "launchdash_")
}

func TestChartSrc(t *testing.T) {
	got := chartSrc(launchdash.FigureScatter, launchdash.Selection{Site: "KSC LC-39A", Payload: [2]float64{0, 2500.5}})
	assert.Equal(t, "/charts/scatter?format=svg&high=2500.5&low=0&site=KSC+LC-39A", got)
}

func TestCheckPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload [2]float64
		wantErr bool
	}{
		{"finite", [2]float64{0, 10000}, false},
		{"reversed is allowed", [2]float64{500, 100}, false},
		{"NaN", [2]float64{math.NaN(), 100}, true},
		{"positive infinity", [2]float64{0, math.Inf(1)}, true},
		{"negative infinity", [2]float64{math.Inf(-1), 0}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := checkPayload(tc.payload)
			if tc.wantErr {
				assert.True(t, errors.Is(err, errInvalidPayload), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWriteJSONUnencodablePayload(t *testing.T) {
	rr := httptest.NewRecorder()
	writeJSON(rr, http.StatusOK, map[string]float64{"x": math.Inf(1)})
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "encode response", body["error"])
}
