package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchdash"
	"launchdash/cmd/launchdash/internal/sourceref"
	"launchdash/internal/config"
)

var fixturePath = filepath.Join("..", "..", "testdata", "spacex_launch_dash.csv")

func TestCallbackRequestContract(t *testing.T) {
	payload := []byte(`{
		"changed": ["payload-slider"],
		"state": {
			"site": "KSC LC-39A",
			"payload": [2500, 7500]
		}
	}`)
	var req callbackRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		t.Fatalf("failed to unmarshal callbackRequest: %v", err)
	}
	if len(req.Changed) != 1 || req.Changed[0] != "payload-slider" {
		t.Fatalf("unexpected changed: %v", req.Changed)
	}
	if req.State.Site != "KSC LC-39A" {
		t.Fatalf("unexpected site: %s", req.State.Site)
	}
	if req.State.Payload == nil || *req.State.Payload != [2]float64{2500, 7500} {
		t.Fatalf("unexpected payload: %v", req.State.Payload)
	}
}

func TestCallbackRequestContractOmittedPayload(t *testing.T) {
	var req callbackRequest
	if err := json.Unmarshal([]byte(`{"changed":["site-dropdown"],"state":{"site":"ALL"}}`), &req); err != nil {
		t.Fatalf("failed to unmarshal callbackRequest: %v", err)
	}
	if req.State.Payload != nil {
		t.Fatalf("expected nil payload, got %v", *req.State.Payload)
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestOptionsCommand(t *testing.T) {
	out, err := runCLI(t, "options", "--source-path", fixturePath)
	require.NoError(t, err)

	var opts launchdash.Options
	require.NoError(t, json.Unmarshal([]byte(out), &opts))
	assert.Equal(t, 10000.0, opts.PayloadMax)
	require.Len(t, opts.Sites, 5)
	assert.Equal(t, "CCAFS LC-40", opts.Sites[1].Value)
	assert.Equal(t, launchdash.AllSites, opts.Default.Site)
}

func TestOptionsCommandWithProfile(t *testing.T) {
	out, err := runCLI(t, "options", "--source-path", fixturePath, "--profile")
	require.NoError(t, err)

	var resp struct {
		Options launchdash.Options      `json:"options"`
		Profile launchdash.TableProfile `json:"profile"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 20, resp.Profile.RowCount)
	assert.Equal(t, 10, resp.Profile.SuccessCount)
}

func TestOptionsCommandMissingDataset(t *testing.T) {
	_, err := runCLI(t, "options", "--source-path", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRenderCommand(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		file   string
		prefix []byte
	}{
		{"pie png", []string{"--chart", "pie"}, "pie.png", []byte("\x89PNG")},
		{"scatter svg", []string{"--chart", "scatter", "--site", "KSC LC-39A", "--low", "2000"}, "scatter.svg", []byte("<svg")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), tc.file)
			args := append([]string{"render", "--source-path", fixturePath, "-o", out}, tc.args...)
			stdout, err := runCLI(t, args...)
			require.NoError(t, err)
			assert.Contains(t, stdout, out)

			data, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, tc.prefix), "unexpected image header %q", data[:min(len(data), 8)])
		})
	}
}

func TestRenderCommandRejectsUnknownChart(t *testing.T) {
	out := filepath.Join(t.TempDir(), "bar.svg")
	_, err := runCLI(t, "render", "--source-path", fixturePath, "-o", out, "--chart", "bar")
	require.ErrorIs(t, err, errUnknownChart)
	_, statErr := os.Stat(out)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestRenderCommandHelpDescribesSliderDefaults(t *testing.T) {
	out, err := runCLI(t, "render", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "default: slider minimum, 0")
	assert.Contains(t, out, "default: slider maximum")
	assert.NotContains(t, out, "dataset minimum")
}

func TestRenderCommandRejectsNonFiniteBounds(t *testing.T) {
	out := filepath.Join(t.TempDir(), "scatter.svg")
	_, err := runCLI(t, "render", "--source-path", fixturePath, "-o", out, "--chart", "scatter", "--high", "+Inf")
	require.ErrorIs(t, err, errInvalidPayload)
}

func TestRenderCommandRequiresOutput(t *testing.T) {
	_, err := runCLI(t, "render", "--source-path", fixturePath)
	require.Error(t, err)
}

func TestResolveSourceFromSourcesMap(t *testing.T) {
	cfg := &config.Config{
		SourceRef: "Fixture",
		Sources: map[string]launchdash.SourceConfig{
			"fixture": {Type: "csv", Path: fixturePath},
		},
	}
	got, err := resolveSource(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, fixturePath, got.Path)
}

func TestResolveSourceUnknownRef(t *testing.T) {
	cfg := &config.Config{SourceRef: "missing"}
	_, err := resolveSource(context.Background(), cfg, zerolog.Nop())
	require.ErrorIs(t, err, sourceref.ErrNotFound)
}

func TestResolveSourceInline(t *testing.T) {
	cfg := &config.Config{Source: launchdash.SourceConfig{Type: "xlsx", Path: "launches.xlsx"}}
	got, err := resolveSource(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "xlsx", got.Type)
}

type stubSource struct {
	table  *launchdash.Table
	err    error
	closed bool
}

func (s *stubSource) Load(ctx context.Context) (*launchdash.Table, error) { return s.table, s.err }
func (s *stubSource) Close() error { s.closed = true; return nil }

func TestLoadTableClosesSource(t *testing.T) {
	stub := &stubSource{table: testTable(t)}
	var gotCfg launchdash.SourceConfig
	prev := sourceFactory
	sourceFactory = func(cfg launchdash.SourceConfig) (launchdash.Source, error) {
		gotCfg = cfg
		return stub, nil
	}
	t.Cleanup(func() { sourceFactory = prev })

	cfg := &config.Config{Source: launchdash.SourceConfig{Type: "mysql", Host: "db", Database: "spacex"}}
	table, err := loadTable(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 4, table.Len())
	assert.Equal(t, "mysql", gotCfg.Type)
	assert.True(t, stub.closed)
}

func TestLoadTablePropagatesLoadError(t *testing.T) {
	loadErr := errors.New("connection refused")
	stub := &stubSource{err: loadErr}
	prev := sourceFactory
	sourceFactory = func(cfg launchdash.SourceConfig) (launchdash.Source, error) { return stub, nil }
	t.Cleanup(func() { sourceFactory = prev })

	_, err := loadTable(context.Background(), &config.Config{}, zerolog.Nop())
	require.ErrorIs(t, err, loadErr)
	assert.True(t, stub.closed)
}

type pingingSource struct {
	stubSource
	pingErr error
	pinged  bool
	loaded  bool
}

func (s *pingingSource) TestConnection(ctx context.Context) error {
	s.pinged = true
	return s.pingErr
}

func (s *pingingSource) Load(ctx context.Context) (*launchdash.Table, error) {
	s.loaded = true
	return s.stubSource.Load(ctx)
}

func TestLoadTableTestsConnectionFirst(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantLoaded bool
	}{
		{"reachable", nil, true},
		{"unreachable", errors.New("dial tcp: connection refused"), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := &pingingSource{stubSource: stubSource{table: testTable(t)}, pingErr: tc.pingErr}
			prev := sourceFactory
			sourceFactory = func(cfg launchdash.SourceConfig) (launchdash.Source, error) { return src, nil }
			t.Cleanup(func() { sourceFactory = prev })

			_, err := loadTable(context.Background(), &config.Config{}, zerolog.Nop())
			if tc.pingErr != nil {
				require.ErrorIs(t, err, tc.pingErr)
			} else {
				require.NoError(t, err)
			}
			assert.True(t, src.pinged)
			assert.Equal(t, tc.wantLoaded, src.loaded)
			assert.True(t, src.closed)
		})
	}
}

func TestSourceName(t *testing.T) {
	tests := []struct {
		cfg  launchdash.SourceConfig
		want string
	}{
		{launchdash.SourceConfig{Path: "a.csv"}, "csv:a.csv"},
		{launchdash.SourceConfig{Type: "XLSX", Path: "a.xlsx"}, "xlsx:a.xlsx"},
		{launchdash.SourceConfig{Type: "postgres", Host: "db", Database: "spacex"}, "postgres:db/spacex"},
	}
	for _, tc := range tests {
		if got := sourceName(tc.cfg); got != tc.want {
			t.Fatalf("sourceName(%+v) = %q, want %q", tc.cfg, got, tc.want)
		}
	}
}
