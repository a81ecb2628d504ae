// Package panel owns the load lifecycle of one chart panel: its date range,
// its fetch configuration and the idle/pending/complete/error state machine
// around each aggregation run.
package panel

import (
	"context"
	"sync"
	"time"

	"github.com/GoogleChrome/webstatus-dashboard/internal/chartdata"
)

// Status is the load state of a panel.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusComplete
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusComplete:
		return "complete"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// DateRange is the closed interval a panel is charting.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// LoadRequest triggers one aggregation run.
type LoadRequest struct {
	Range DateRange
	View  string
}

// Snapshot is one observation of a panel's state.
type Snapshot struct {
	Status Status
	Table  *chartdata.Table
	Err    error
}

// ChartOptions are display hints handed through to the renderer.
type ChartOptions struct {
	YAxisTitle string
}

// Config describes one concrete panel. Panels differ only in configuration;
// the load/merge machinery is shared via Controller.
type Config struct {
	ID          string
	Description string
	Options     ChartOptions

	// Sources maps a load request to the aggregation inputs for this panel.
	Sources func(req LoadRequest) ([]chartdata.SeriesSource, []chartdata.Option)
}

// Controller runs aggregations for one panel. A newer Load supersedes an
// older one still in flight: the stale run's outcome is returned to its
// caller but never applied to the panel state. In-flight fetches are not
// cancelled, their results are simply dropped.
type Controller struct {
	cfg    Config
	render func(Snapshot)

	mu         sync.Mutex
	generation uint64
	snap       Snapshot
}

// New creates a controller for the given panel configuration. render, if
// non-nil, is invoked after every applied state change.
func New(cfg Config, render func(Snapshot)) *Controller {
	return &Controller{cfg: cfg, render: render, snap: Snapshot{Status: StatusIdle}}
}

// Config returns the panel configuration.
func (c *Controller) Config() Config { return c.cfg }

// Snapshot returns the current applied state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Load runs one aggregation for the request and returns its outcome. The
// outcome is applied to the panel state only if no newer Load started in
// the meantime.
func (c *Controller) Load(ctx context.Context, req LoadRequest) Snapshot {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.snap = Snapshot{Status: StatusPending}
	c.mu.Unlock()
	c.notify(Snapshot{Status: StatusPending})

	sources, opts := c.cfg.Sources(req)
	table, err := chartdata.Aggregate(ctx, sources, opts...)

	outcome := Snapshot{Status: StatusComplete, Table: table}
	if err != nil {
		outcome = Snapshot{Status: StatusError, Err: err}
	}

	c.mu.Lock()
	superseded := gen != c.generation
	if !superseded {
		c.snap = outcome
	}
	c.mu.Unlock()

	if !superseded {
		c.notify(outcome)
	}
	return outcome
}

func (c *Controller) notify(snap Snapshot) {
	if c.render != nil {
		c.render(snap)
	}
}

// Tabbed composes several panel configurations behind one view selector.
// Each tab keeps its own controller; switching tabs never clears another
// tab's loaded state.
type Tabbed struct {
	mu          sync.Mutex
	controllers map[string]*Controller
	order       []string
	active      string
}

// NewTabbed builds a tabbed panel from per-view configurations. The first
// configuration is the initially active view.
func NewTabbed(configs []Config, render func(view string, snap Snapshot)) *Tabbed {
	t := &Tabbed{controllers: make(map[string]*Controller, len(configs))}
	for _, cfg := range configs {
		view := cfg.ID
		var cb func(Snapshot)
		if render != nil {
			cb = func(snap Snapshot) { render(view, snap) }
		}
		t.controllers[view] = New(cfg, cb)
		t.order = append(t.order, view)
	}
	if len(t.order) > 0 {
		t.active = t.order[0]
	}
	return t
}

// Views returns the tab ids in configuration order.
func (t *Tabbed) Views() []string {
	return append([]string(nil), t.order...)
}

// ActiveView returns the currently selected tab.
func (t *Tabbed) ActiveView() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Select switches the active tab. Unknown views are ignored.
func (t *Tabbed) Select(view string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.controllers[view]; ok {
		t.active = view
	}
}

// Controller returns the controller for a view, or nil when unknown.
func (t *Tabbed) Controller(view string) *Controller {
	return t.controllers[view]
}

// Load dispatches a load on the active tab's controller.
func (t *Tabbed) Load(ctx context.Context, req LoadRequest) Snapshot {
	t.mu.Lock()
	active := t.active
	t.mu.Unlock()

	ctrl, ok := t.controllers[active]
	if !ok {
		return Snapshot{Status: StatusIdle}
	}
	req.View = active
	return ctrl.Load(ctx, req)
}
