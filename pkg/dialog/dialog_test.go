package dialog

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picogrid/osmf-sim/pkg/logger"
	"github.com/picogrid/osmf-sim/pkg/models"
)

type listerFunc func(ctx context.Context) ([]string, error)

func (f listerFunc) ListGraphs(ctx context.Context) ([]string, error) { return f(ctx) }

// closeRecorder captures what the dialog hands to its host
type closeRecorder struct {
	calls int
	cfg   *models.SimulationConfig
}

func (r *closeRecorder) close(cfg *models.SimulationConfig) {
	r.calls++
	r.cfg = cfg
}

func quietLogger() logger.Logger {
	return logger.NewWithConfig(logger.Config{Writer: io.Discard, NoColor: true})
}

func newTestDialog(lister GraphLister, rec *closeRecorder) *Dialog {
	return New(lister, rec.close, WithLogger(quietLogger()), WithID("test"))
}

func waitLoaded(t *testing.T, d *Dialog) {
	t.Helper()
	select {
	case <-d.Loaded():
	case <-time.After(2 * time.Second):
		t.Fatal("graph lookup did not settle")
	}
}

func TestConfirm_Defaults(t *testing.T) {
	rec := &closeRecorder{}
	d := newTestDialog(nil, rec)

	cfg, err := d.Confirm()
	require.NoError(t, err)

	want := &models.SimulationConfig{Graph: "", Strategy: "", NumFirefighters: 1, NumFireSources: 1}
	assert.Equal(t, want, cfg)
	assert.Equal(t, want, rec.cfg)
	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, StateConfirmed, d.State())
}

func TestConfirm_ReflectsLatestInput(t *testing.T) {
	rec := &closeRecorder{}
	d := newTestDialog(nil, rec)

	d.SetGraph("another One")
	d.SetGraph("someTestGraph.fmi")
	d.SetStrategy("greedy")
	d.SetNumFirefighters("3")
	d.SetNumFireSources("2")

	cfg, err := d.Confirm()
	require.NoError(t, err)

	assert.Equal(t, &models.SimulationConfig{
		Graph:           "someTestGraph.fmi",
		Strategy:        "greedy",
		NumFirefighters: 3,
		NumFireSources:  2,
	}, cfg)
}

func TestConfirm_OmitsFrequency(t *testing.T) {
	d := newTestDialog(nil, &closeRecorder{})
	d.SetFrequency("7")

	assert.Equal(t, 7, d.Values().Frequency)

	cfg, err := d.Confirm()
	require.NoError(t, err)
	assert.Equal(t, models.SimulationConfig{NumFirefighters: 1, NumFireSources: 1}, *cfg)
}

func TestCancel_NoPayload(t *testing.T) {
	rec := &closeRecorder{}
	d := newTestDialog(nil, rec)
	d.SetGraph("someTestGraph.fmi")
	d.SetStrategy("greedy")
	d.SetNumFirefighters("4")

	require.NoError(t, d.Cancel())

	assert.Equal(t, 1, rec.calls)
	assert.Nil(t, rec.cfg)
	assert.Equal(t, StateCancelled, d.State())
}

func TestClosedDialog_IsTerminal(t *testing.T) {
	rec := &closeRecorder{}
	d := newTestDialog(nil, rec)
	require.NoError(t, d.Cancel())

	_, err := d.Confirm()
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, d.Cancel(), ErrClosed)
	_, err = d.Submit()
	assert.ErrorIs(t, err, ErrClosed)

	d.SetGraph("ignored")
	assert.Empty(t, d.Values().Graph)
	assert.Equal(t, 1, rec.calls)
}

func TestInitialize_ReplacesPlaceholders(t *testing.T) {
	d := newTestDialog(listerFunc(func(context.Context) ([]string, error) {
		return []string{"a.fmi", "b.fmi"}, nil
	}), &closeRecorder{})

	d.Initialize(context.Background())
	waitLoaded(t, d)

	assert.Equal(t, []string{"a.fmi", "b.fmi"}, d.GraphOptions())
	assert.NoError(t, d.LookupErr())
}

func TestInitialize_PlaceholdersWhilePending(t *testing.T) {
	release := make(chan struct{})
	d := newTestDialog(listerFunc(func(ctx context.Context) ([]string, error) {
		<-release
		return []string{"a.fmi"}, nil
	}), &closeRecorder{})

	d.Initialize(context.Background())

	assert.Equal(t, []string{"someTestGraph.fmi", "another One"}, d.GraphOptions())

	// confirmable before the lookup resolves
	d.SetGraph("someTestGraph.fmi")
	cfg, err := d.Confirm()
	require.NoError(t, err)
	assert.Equal(t, "someTestGraph.fmi", cfg.Graph)

	close(release)
	waitLoaded(t, d)
}

func TestInitialize_FailureKeepsPlaceholders(t *testing.T) {
	boom := errors.New("connection refused")
	d := newTestDialog(listerFunc(func(context.Context) ([]string, error) {
		return nil, boom
	}), &closeRecorder{})

	d.Initialize(context.Background())
	waitLoaded(t, d)

	assert.Equal(t, PlaceholderGraphs, d.GraphOptions())
	assert.ErrorIs(t, d.LookupErr(), ErrLookupFailed)
	assert.ErrorIs(t, d.LookupErr(), boom)
}

func TestClose_CancelsInflightLookup(t *testing.T) {
	started := make(chan struct{})
	d := newTestDialog(listerFunc(func(ctx context.Context) ([]string, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}), &closeRecorder{})

	d.Initialize(context.Background())
	<-started
	require.NoError(t, d.Cancel())

	waitLoaded(t, d)
	assert.NoError(t, d.LookupErr())
	assert.Equal(t, PlaceholderGraphs, d.GraphOptions())
}

func TestInitialize_Once(t *testing.T) {
	calls := 0
	d := newTestDialog(listerFunc(func(context.Context) ([]string, error) {
		calls++
		return []string{"a.fmi"}, nil
	}), &closeRecorder{})

	d.Initialize(context.Background())
	waitLoaded(t, d)
	d.Initialize(context.Background())

	assert.Equal(t, 1, calls)
}

func TestInitialize_AfterCloseSettlesLoaded(t *testing.T) {
	called := false
	d := newTestDialog(listerFunc(func(context.Context) ([]string, error) {
		called = true
		return []string{"a.fmi"}, nil
	}), &closeRecorder{})

	require.NoError(t, d.Cancel())
	d.Initialize(context.Background())

	select {
	case <-d.Loaded():
	default:
		t.Fatal("Loaded not closed after Initialize on a closed dialog")
	}
	assert.False(t, called)
	assert.Equal(t, PlaceholderGraphs, d.GraphOptions())
}

func TestNumericFields_InvalidDoesNotBlockConfirm(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"fraction", "2.5"},
		{"text", "many"},
		{"zero", "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := newTestDialog(nil, &closeRecorder{})
			d.SetNumFirefighters(tc.input)
			d.SetNumFireSources(tc.input)
			d.SetFrequency(tc.input)

			for _, name := range []string{FieldFirefighters, FieldFireSources, FieldFrequency} {
				assert.False(t, d.Field(name).Valid(), name)
			}

			cfg, err := d.Confirm()
			require.NoError(t, err)
			require.NotNil(t, cfg)
			assert.Equal(t, StateConfirmed, d.State())
		})
	}
}

func TestValidate_ListsInvalidFields(t *testing.T) {
	d := newTestDialog(nil, &closeRecorder{})
	d.SetNumFirefighters("x")

	err := d.Validate()
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has(FieldGraph))
	assert.True(t, verr.Has(FieldStrategy))
	assert.True(t, verr.Has(FieldFirefighters))
	assert.False(t, verr.Has(FieldFireSources))
	assert.Contains(t, err.Error(), "num_ffs: must be an integer")
}

func TestSubmit(t *testing.T) {
	rec := &closeRecorder{}
	d := newTestDialog(nil, rec)

	_, err := d.Submit()
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, StateOpen, d.State())
	assert.Zero(t, rec.calls)

	d.SetGraph("a.fmi")
	d.SetStrategy("greedy")
	cfg, err := d.Submit()
	require.NoError(t, err)
	assert.Equal(t, "a.fmi", cfg.Graph)
	assert.Equal(t, 1, rec.calls)
}

func TestDefaultStrategies(t *testing.T) {
	d := newTestDialog(nil, &closeRecorder{})
	assert.Equal(t, []string{"greedy"}, d.StrategyOptions())

	d = New(nil, nil, WithStrategies([]string{"greedy", "priority"}), WithLogger(quietLogger()))
	assert.Equal(t, []string{"greedy", "priority"}, d.StrategyOptions())
	assert.NotEmpty(t, d.ID())
}
