package dialog

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/picogrid/osmf-sim/pkg/logger"
	"github.com/picogrid/osmf-sim/pkg/models"
	"github.com/picogrid/osmf-sim/pkg/strategy"
)

// PlaceholderGraphs are offered until the graph lookup resolves
var PlaceholderGraphs = []string{"someTestGraph.fmi", "another One"}

const defaultCount = 1

// GraphLister lists the graphs a simulation can be configured with
type GraphLister interface {
	ListGraphs(ctx context.Context) ([]string, error)
}

// CloseFunc is called exactly once when the dialog closes. cfg is nil when
// the dialog was cancelled.
type CloseFunc func(cfg *models.SimulationConfig)

// State is the lifecycle position of a dialog
type State int

const (
	StateOpen State = iota
	StateConfirmed
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateConfirmed:
		return "confirmed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Values is a snapshot of every field, including the firefighter frequency
// which is not part of the emitted record.
type Values struct {
	Graph           string
	Strategy        string
	NumFireSources  int
	NumFirefighters int
	Frequency       int
}

// Option customizes a Dialog
type Option func(*Dialog)

// WithStrategies replaces the strategy options
func WithStrategies(names []string) Option {
	return func(d *Dialog) {
		d.strategyOptions = append([]string(nil), names...)
	}
}

// WithLogger sets the logger used for lifecycle events
func WithLogger(l logger.Logger) Option {
	return func(d *Dialog) {
		d.log = l
	}
}

// WithID overrides the generated session ID
func WithID(id string) Option {
	return func(d *Dialog) {
		d.id = id
	}
}

// Dialog collects a simulation configuration. It is driven from one
// goroutine; only the graph lookup runs concurrently.
type Dialog struct {
	mu sync.Mutex

	id      string
	lister  GraphLister
	onClose CloseFunc
	log     logger.Logger

	graphOptions    []string
	strategyOptions []string
	lookupErr       error
	loaded          chan struct{}
	loadedOnce      sync.Once
	cancelLookup    context.CancelFunc

	state State

	graph        *Field
	strategy     *Field
	fireSources  *Field
	firefighters *Field
	frequency    *Field
}

// New creates an open dialog. lister may be nil, in which case the
// placeholder graphs stay in place.
func New(lister GraphLister, onClose CloseFunc, opts ...Option) *Dialog {
	count := strconv.Itoa(defaultCount)
	d := &Dialog{
		id:              uuid.NewString(),
		lister:          lister,
		onClose:         onClose,
		log:             logger.Default(),
		graphOptions:    append([]string(nil), PlaceholderGraphs...),
		strategyOptions: strategy.DefaultRegistry.Names(),
		loaded:          make(chan struct{}),

		graph:        newField(FieldGraph, "Graph", "", Required),
		strategy:     newField(FieldStrategy, "Strategy", "", Required),
		fireSources:  newField(FieldFireSources, "Number of fire sources", count, Required, Integer, Min(1)),
		firefighters: newField(FieldFirefighters, "Number of firefighters", count, Required, Integer, Min(1)),
		frequency:    newField(FieldFrequency, "Firefighter frequency", count, Required, Integer, Min(1)),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.log = d.log.WithField("dialog", d.id)
	return d
}

// ID returns the session ID of this dialog
func (d *Dialog) ID() string { return d.id }

// Initialize requests the graph list in the background. The placeholder
// list is replaced when the lookup succeeds; on failure it stays and
// LookupErr reports ErrLookupFailed. Calling Initialize again is a no-op, and
// on a closed dialog it only settles Loaded.
func (d *Dialog) Initialize(ctx context.Context) {
	d.mu.Lock()
	if d.cancelLookup != nil {
		d.mu.Unlock()
		return
	}
	if d.lister == nil || d.state != StateOpen {
		d.cancelLookup = func() {}
		d.mu.Unlock()
		d.markLoaded()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	d.cancelLookup = cancel
	d.mu.Unlock()

	d.log.Debug("requesting graph list")

	go func() {
		defer d.markLoaded()

		graphs, err := d.lister.ListGraphs(ctx)

		d.mu.Lock()
		defer d.mu.Unlock()

		// closed while the request was in flight
		if ctx.Err() != nil && d.state != StateOpen {
			return
		}
		if err != nil {
			d.lookupErr = fmt.Errorf("%w: %w", ErrLookupFailed, err)
			d.log.Warnf("keeping placeholder graphs: %v", err)
			return
		}
		d.graphOptions = append([]string(nil), graphs...)
		d.log.Debugf("received %d graphs", len(graphs))
	}()
}

// Loaded is closed once the graph lookup has settled
func (d *Dialog) Loaded() <-chan struct{} { return d.loaded }

func (d *Dialog) markLoaded() {
	d.loadedOnce.Do(func() { close(d.loaded) })
}

// LookupErr returns the graph lookup failure, if any
func (d *Dialog) LookupErr() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lookupErr
}

// GraphOptions returns the graphs currently offered
func (d *Dialog) GraphOptions() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.graphOptions...)
}

// StrategyOptions returns the strategies offered
func (d *Dialog) StrategyOptions() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.strategyOptions...)
}

// State returns the lifecycle state
func (d *Dialog) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Fields returns the controls in form order
func (d *Dialog) Fields() []*Field {
	return []*Field{d.graph, d.strategy, d.fireSources, d.firefighters, d.frequency}
}

// Field returns the control with the given name, or nil
func (d *Dialog) Field(name string) *Field {
	for _, f := range d.Fields() {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (d *Dialog) set(f *Field, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateOpen {
		return
	}
	f.Set(value)
}

// SetGraph binds the graph control
func (d *Dialog) SetGraph(value string) { d.set(d.graph, value) }

// SetStrategy binds the strategy control
func (d *Dialog) SetStrategy(value string) { d.set(d.strategy, value) }

// SetNumFireSources binds the fire source count control
func (d *Dialog) SetNumFireSources(value string) { d.set(d.fireSources, value) }

// SetNumFirefighters binds the firefighter count control
func (d *Dialog) SetNumFirefighters(value string) { d.set(d.firefighters, value) }

// SetFrequency binds the firefighter frequency control
func (d *Dialog) SetFrequency(value string) { d.set(d.frequency, value) }

// Values returns the current value of every field
func (d *Dialog) Values() Values {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Values{
		Graph:           d.graph.Value(),
		Strategy:        d.strategy.Value(),
		NumFireSources:  d.fireSources.Int(),
		NumFirefighters: d.firefighters.Int(),
		Frequency:       d.frequency.Int(),
	}
}

// Validate returns a *ValidationError listing every invalid field, or nil
func (d *Dialog) Validate() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var fieldErrs []FieldError
	for _, f := range d.Fields() {
		if err := f.Err(); err != nil {
			fieldErrs = append(fieldErrs, FieldError{Field: f.Name, Message: err.Error()})
		}
	}
	if len(fieldErrs) == 0 {
		return nil
	}
	return &ValidationError{Fields: fieldErrs}
}

// Cancel closes the dialog without a result
func (d *Dialog) Cancel() error {
	d.mu.Lock()
	if d.state != StateOpen {
		d.mu.Unlock()
		return ErrClosed
	}
	d.closeLocked(StateCancelled)
	d.mu.Unlock()

	d.log.Info("configuration cancelled")
	d.notify(nil)
	return nil
}

// Confirm closes the dialog and emits the current field values, whether or
// not they are valid.
func (d *Dialog) Confirm() (*models.SimulationConfig, error) {
	d.mu.Lock()
	if d.state != StateOpen {
		d.mu.Unlock()
		return nil, ErrClosed
	}
	cfg := d.recordLocked()
	d.closeLocked(StateConfirmed)
	d.mu.Unlock()

	d.log.Infof("configuration confirmed: graph=%q strategy=%q num_ffs=%d num_roots=%d",
		cfg.Graph, cfg.Strategy, cfg.NumFirefighters, cfg.NumFireSources)
	d.notify(cfg)
	return cfg, nil
}

// Submit confirms only when every field is valid. On a validation failure
// the dialog stays open.
func (d *Dialog) Submit() (*models.SimulationConfig, error) {
	if d.State() != StateOpen {
		return nil, ErrClosed
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d.Confirm()
}

func (d *Dialog) recordLocked() *models.SimulationConfig {
	return &models.SimulationConfig{
		Graph:           d.graph.Value(),
		Strategy:        d.strategy.Value(),
		NumFirefighters: d.firefighters.Int(),
		NumFireSources:  d.fireSources.Int(),
	}
}

func (d *Dialog) closeLocked(to State) {
	d.state = to
	if d.cancelLookup != nil {
		d.cancelLookup()
	}
}

func (d *Dialog) notify(cfg *models.SimulationConfig) {
	if d.onClose != nil {
		d.onClose(cfg)
	}
}
