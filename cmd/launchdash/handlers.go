package main

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"launchdash"
	"launchdash/internal/logging"
	"launchdash/internal/metrics"
	"launchdash/internal/render"
)

var (
	errUnknownChart   = errors.New("unknown chart")
	errInvalidPayload = errors.New("invalid payload")
)

// Handler serves the dashboard for one loaded table. Options and the callback
// registry are derived once at construction.
type Handler struct {
	Table     *launchdash.Table
	Options   launchdash.Options
	Registry  *launchdash.Registry
	DatasetID string
	Logger    zerolog.Logger
}

func NewHandler(table *launchdash.Table, logger zerolog.Logger) *Handler {
	registry := launchdash.NewDashboardRegistry(table)
	registry.Observe(func(_ string, fig launchdash.Figure, elapsed time.Duration) {
		metrics.RecordResponder(fig.FigureType(), elapsed)
	})
	return &Handler{
		Table:     table,
		Options:   launchdash.DeriveOptions(table),
		Registry:  registry,
		DatasetID: uuid.NewString(),
		Logger:    logger,
	}
}

func (h *Handler) Routes(requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(h.Logger))
	r.Use(middleware.Recoverer)
	r.Use(metrics.InstrumentHandler)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/", h.HandleIndex)
	r.Get("/health", h.HandleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/options", h.HandleOptions)
		r.Get("/profile", h.HandleProfile)
		r.Get("/charts/{chart}", h.HandleFigure)
		r.Post("/callbacks", h.HandleCallbacks)
	})
	r.Get("/charts/{chart}", h.HandleChartImage)
	r.Post("/rpc", h.HandleRPC)
	return r
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Rows: h.Table.Len(), DatasetID: h.DatasetID})
}

func (h *Handler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Options)
}

func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, launchdash.Profile(h.Table))
}

func (h *Handler) HandleFigure(w http.ResponseWriter, r *http.Request) {
	sel, err := h.parseSelection(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	fig, err := h.figure(chi.URLParam(r, "chart"), sel)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, fig)
}

func (h *Handler) HandleChartImage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	sel, err := h.parseSelection(query)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	format, err := render.ParseFormat(query.Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	size, err := parseSize(query)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	fig, err := h.figure(chi.URLParam(r, "chart"), sel)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	var buf bytes.Buffer
	if err := render.Figure(&buf, fig, format, size); err != nil {
		h.Logger.Error().Err(err).Str("chart", fig.FigureType()).Msg("render chart")
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) HandleCallbacks(w http.ResponseWriter, r *http.Request) {
	var req callbackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	figures, err := h.dispatch(req)
	if err != nil {
		if errors.Is(err, launchdash.ErrUnknownControl) || errors.Is(err, errInvalidPayload) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, callbackResponse{Figures: figures})
}

func (h *Handler) dispatch(req callbackRequest) (map[string]launchdash.Figure, error) {
	sel := h.Options.Default
	if strings.TrimSpace(req.State.Site) != "" {
		sel.Site = req.State.Site
	}
	if req.State.Payload != nil {
		if err := checkPayload(*req.State.Payload); err != nil {
			return nil, err
		}
		sel.Payload = *req.State.Payload
	}
	return h.Registry.Dispatch(sel, req.Changed...)
}

// checkPayload rejects non-finite slider bounds.
func checkPayload(p [2]float64) error {
	for _, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: bounds must be finite", errInvalidPayload)
		}
	}
	return nil
}

// figure runs the responder for a chart name.
func (h *Handler) figure(chart string, sel launchdash.Selection) (launchdash.Figure, error) {
	start := time.Now()
	var fig launchdash.Figure
	switch chart {
	case launchdash.FigurePie:
		fig = launchdash.PieChart(h.Table, sel.Site)
	case launchdash.FigureScatter:
		fig = launchdash.ScatterChart(h.Table, sel.Site, sel.Payload[0], sel.Payload[1])
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownChart, chart)
	}
	metrics.RecordResponder(chart, time.Since(start))
	return fig, nil
}

// parseSelection reads site, low and high, defaulting each to the initial
// control state.
func (h *Handler) parseSelection(query url.Values) (launchdash.Selection, error) {
	sel := h.Options.Default
	if site := strings.TrimSpace(query.Get("site")); site != "" {
		sel.Site = site
	}
	for i, key := range []string{"low", "high"} {
		raw := strings.TrimSpace(query.Get(key))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return sel, fmt.Errorf("invalid %s: %q", key, raw)
		}
		sel.Payload[i] = v
	}
	return sel, nil
}

func parseSize(query url.Values) (render.Size, error) {
	var size render.Size
	for _, p := range []struct {
		key string
		dst *int
	}{{"width", &size.Width}, {"height", &size.Height}} {
		raw := strings.TrimSpace(query.Get(p.key))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 || v > 4096 {
			return size, fmt.Errorf("invalid %s: %q", p.key, raw)
		}
		*p.dst = v
	}
	return size, nil
}
