// file: callbacks.go
package launchdash

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

const (
	ControlSiteDropdown  = "site-dropdown"
	ControlPayloadSlider = "payload-slider"

	OutputPieChart     = "success-pie-chart"
	OutputScatterChart = "success-payload-scatter-chart"
)

var ErrUnknownControl = errors.New("unknown control")

type Responder func(t *Table, sel Selection) Figure

// Observer is told how long each responder took.
type Observer func(output string, fig Figure, elapsed time.Duration)

type Callback struct {
	Output  string
	Inputs  []string
	Respond Responder
}

// Registry binds control IDs to the responders whose outputs depend on them.
type Registry struct {
	table     *Table
	callbacks []Callback
	controls  map[string]struct{}
	observer  Observer
}

func NewRegistry(t *Table, callbacks ...Callback) *Registry {
	r := &Registry{table: t, controls: map[string]struct{}{}}
	for _, cb := range callbacks {
		r.callbacks = append(r.callbacks, cb)
		for _, in := range cb.Inputs {
			r.controls[in] = struct{}{}
		}
	}
	return r
}

// NewDashboardRegistry wires the pie responder to the site dropdown and the
// scatter responder to both controls.
func NewDashboardRegistry(t *Table) *Registry {
	return NewRegistry(t,
		Callback{
			Output: OutputPieChart,
			Inputs: []string{ControlSiteDropdown},
			Respond: func(t *Table, sel Selection) Figure {
				return PieChart(t, sel.Site)
			},
		},
		Callback{
			Output: OutputScatterChart,
			Inputs: []string{ControlSiteDropdown, ControlPayloadSlider},
			Respond: func(t *Table, sel Selection) Figure {
				return ScatterChart(t, sel.Site, sel.Payload[0], sel.Payload[1])
			},
		},
	)
}

// Observe installs fn to be called after every responder Dispatch runs.
func (r *Registry) Observe(fn Observer) {
	r.observer = fn
}

// Bindings maps each control to the outputs that depend on it.
func (r *Registry) Bindings() map[string][]string {
	out := make(map[string][]string, len(r.controls))
	for _, cb := range r.callbacks {
		for _, in := range cb.Inputs {
			out[in] = append(out[in], cb.Output)
		}
	}
	return out
}

func (r *Registry) Controls() []string {
	out := make([]string, 0, len(r.controls))
	for _, cb := range r.callbacks {
		for _, in := range cb.Inputs {
			if !slices.Contains(out, in) {
				out = append(out, in)
			}
		}
	}
	return out
}

// Dispatch runs every callback bound to one of the changed controls and
// returns the new figures keyed by output ID. With no changed controls every
// callback runs, as on the initial page render.
func (r *Registry) Dispatch(sel Selection, changed ...string) (map[string]Figure, error) {
	for _, id := range changed {
		if _, ok := r.controls[id]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownControl, id)
		}
	}
	out := map[string]Figure{}
	for _, cb := range r.callbacks {
		if len(changed) > 0 && !bound(cb, changed) {
			continue
		}
		start := time.Now()
		fig := cb.Respond(r.table, sel)
		if r.observer != nil {
			r.observer(cb.Output, fig, time.Since(start))
		}
		out[cb.Output] = fig
	}
	return out, nil
}

func bound(cb Callback, changed []string) bool {
	for _, id := range changed {
		if slices.Contains(cb.Inputs, id) {
			return true
		}
	}
	return false
}
