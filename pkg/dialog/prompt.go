package dialog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/picogrid/osmf-sim/pkg/logger"
	"github.com/picogrid/osmf-sim/pkg/models"
)

// Prompter asks the user single questions
type Prompter interface {
	Select(message string, options []string, def string) (string, error)
	Input(message, def string) (string, error)
	Confirm(message string, def bool) (bool, error)
}

// SurveyPrompter asks questions on the terminal
type SurveyPrompter struct {
	opts []survey.AskOpt
}

// NewSurveyPrompter creates a terminal prompter
func NewSurveyPrompter(opts ...survey.AskOpt) *SurveyPrompter {
	return &SurveyPrompter{opts: opts}
}

func (p *SurveyPrompter) Select(message string, options []string, def string) (string, error) {
	prompt := &survey.Select{
		Message: message,
		Options: options,
	}
	// survey rejects a default that is not one of the options
	if slices.Contains(options, def) {
		prompt.Default = def
	}

	var result string
	if err := survey.AskOne(prompt, &result, p.opts...); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Input(message, def string) (string, error) {
	prompt := &survey.Input{
		Message: message,
		Default: def,
	}

	var result string
	if err := survey.AskOne(prompt, &result, p.opts...); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, def bool) (bool, error) {
	prompt := &survey.Confirm{
		Message: message,
		Default: def,
	}

	var result bool
	if err := survey.AskOne(prompt, &result, p.opts...); err != nil {
		return false, err
	}
	return result, nil
}

// PromptOptions controls how Prompt drives a dialog
type PromptOptions struct {
	// LookupWait bounds how long the graph question waits for the lookup.
	// Zero asks immediately with whatever options are loaded.
	LookupWait time.Duration
	// Strict re-asks invalid fields and confirms through Submit
	Strict bool
}

// Prompt walks the user through every field of d and closes it. It returns
// the emitted record, or nil when the user cancelled.
func Prompt(ctx context.Context, d *Dialog, p Prompter, opts PromptOptions) (*models.SimulationConfig, error) {
	waitForLookup(ctx, d, opts.LookupWait)
	if err := d.LookupErr(); err != nil {
		logger.Notice("Graph list unavailable, offering placeholder graphs: ", err)
	}

	if err := askGraph(d, p); err != nil {
		return abort(d, err)
	}

	strategy, err := p.Select(d.strategy.Label+":", d.StrategyOptions(), d.strategy.Value())
	if err != nil {
		return abort(d, err)
	}
	d.SetStrategy(strategy)

	for _, f := range []*Field{d.fireSources, d.firefighters, d.frequency} {
		if err := askField(d, p, f); err != nil {
			return abort(d, err)
		}
	}

	v := d.Values()
	logger.LogKeyValues(map[string]interface{}{
		"Graph":                  v.Graph,
		"Strategy":               v.Strategy,
		"Number of fire sources": v.NumFireSources,
		"Number of firefighters": v.NumFirefighters,
		"Firefighter frequency":  v.Frequency,
	})

	ok, err := p.Confirm("Use this configuration?", true)
	if err != nil {
		return abort(d, err)
	}
	if !ok {
		return nil, d.Cancel()
	}

	if !opts.Strict {
		return d.Confirm()
	}

	for {
		err := d.Validate()
		var verr *ValidationError
		if !errors.As(err, &verr) {
			break
		}
		logger.Progressf("%d field(s) need a valid value", len(verr.Fields))
		for _, fe := range verr.Fields {
			logger.Warnf("%s %s", d.Field(fe.Field).Label, fe.Message)
			if err := reask(d, p, fe.Field); err != nil {
				return abort(d, err)
			}
		}
	}
	return d.Submit()
}

func askGraph(d *Dialog, p Prompter) error {
	graphs := d.GraphOptions()

	var (
		graph string
		err   error
	)
	if len(graphs) == 0 {
		graph, err = p.Input(d.graph.Label+":", d.graph.Value())
	} else {
		graph, err = p.Select(d.graph.Label+":", graphs, d.graph.Value())
	}
	if err != nil {
		return err
	}
	d.SetGraph(graph)
	return nil
}

func askField(d *Dialog, p Prompter, f *Field) error {
	value, err := p.Input(f.Label+":", f.Value())
	if err != nil {
		return err
	}
	d.set(f, value)
	if ferr := f.Err(); ferr != nil {
		logger.Warnf("%s %v", f.Label, ferr)
	}
	return nil
}

func reask(d *Dialog, p Prompter, name string) error {
	switch name {
	case FieldGraph:
		return askGraph(d, p)
	case FieldStrategy:
		s, err := p.Select(d.strategy.Label+":", d.StrategyOptions(), d.strategy.Value())
		if err != nil {
			return err
		}
		d.SetStrategy(s)
		return nil
	default:
		return askField(d, p, d.Field(name))
	}
}

func waitForLookup(ctx context.Context, d *Dialog, wait time.Duration) {
	select {
	case <-d.Loaded():
		return
	default:
	}
	if wait <= 0 {
		return
	}

	spinner := logger.NewSpinner("Loading graphs...")
	spinner.Start()
	defer spinner.Stop()

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-d.Loaded():
	case <-timer.C:
		logger.Debug("graph lookup still pending, continuing with current options")
	case <-ctx.Done():
	}
}

// abort cancels d. A terminal interrupt counts as a regular cancel.
func abort(d *Dialog, err error) (*models.SimulationConfig, error) {
	_ = d.Cancel()
	if errors.Is(err, terminal.InterruptErr) {
		return nil, nil
	}
	return nil, fmt.Errorf("prompt failed: %w", err)
}

// ValueSource provides field values without prompting; *viper.Viper
// satisfies it.
type ValueSource interface {
	IsSet(key string) bool
	GetString(key string) string
}

// Fill sets every field that src provides, keyed by field name
func Fill(d *Dialog, src ValueSource) {
	for _, f := range d.Fields() {
		if src.IsSet(f.Name) {
			d.set(f, src.GetString(f.Name))
		}
	}
}
