package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/picogrid/osmf-sim/pkg/client"
	"github.com/picogrid/osmf-sim/pkg/dialog"
	"github.com/picogrid/osmf-sim/pkg/logger"
	"github.com/picogrid/osmf-sim/pkg/models"
	"github.com/picogrid/osmf-sim/pkg/strategy"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Collect a simulation configuration",
	Long: `Ask for graph, strategy, fire sources, firefighters and firefighter
frequency, then print the resulting configuration record. Without a terminal,
or with --no-input, values come from flags and OSMF_* variables.`,
	RunE: runConfigure,
}

func init() {
	f := configureCmd.Flags()
	f.String("graph", "", "graph to simulate on")
	f.String("strategy", "", "containment strategy")
	f.String("fire-sources", "", "number of fire sources")
	f.String("firefighters", "", "number of firefighters")
	f.String("frequency", "", "firefighter frequency")
	f.Bool("no-input", false, "never prompt; take values from flags and OSMF_* variables")
	f.Bool("strict", false, "refuse to emit a configuration with invalid fields")
	f.Duration("lookup-wait", 2*time.Second, "how long the graph question waits for the graph list")
	f.StringP("format", "f", "json", "output format (json, yaml)")
	f.StringP("out", "o", "", "write the configuration to a file instead of stdout")
	f.Bool("submit", false, "hand the configuration to the engine after confirming")

	// viper keys match dialog field names so OSMF_NUM_FFS etc. work
	_ = viper.BindPFlag(dialog.FieldGraph, f.Lookup("graph"))
	_ = viper.BindPFlag(dialog.FieldStrategy, f.Lookup("strategy"))
	_ = viper.BindPFlag(dialog.FieldFireSources, f.Lookup("fire-sources"))
	_ = viper.BindPFlag(dialog.FieldFirefighters, f.Lookup("firefighters"))
	_ = viper.BindPFlag(dialog.FieldFrequency, f.Lookup("frequency"))
	_ = viper.BindPFlag("skip_prompts", f.Lookup("no-input"))
	_ = viper.BindPFlag("strict", f.Lookup("strict"))
}

func runConfigure(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	interactive := isInteractive()
	strict := viper.GetBool("strict")

	format, _ := cmd.Flags().GetString("format")
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unsupported format %q", format)
	}

	b, err := resolveBackend(interactive)
	if err != nil {
		return fmt.Errorf("failed to select environment: %w", err)
	}

	d := dialog.New(b.lister, nil, dialog.WithStrategies(strategy.DefaultRegistry.Names()))
	ctx = client.WithRequestID(ctx, d.ID())
	d.Initialize(ctx)
	logger.WithField("dialog", d.ID()).Debugf("configuring against %s", b.name)

	wait, _ := cmd.Flags().GetDuration("lookup-wait")

	var cfg *models.SimulationConfig
	if interactive {
		// flags and OSMF_* variables pre-fill the prompts
		dialog.Fill(d, viper.GetViper())
		cfg, err = dialog.Prompt(ctx, d, dialog.NewSurveyPrompter(), dialog.PromptOptions{
			LookupWait: wait,
			Strict:     strict,
		})
	} else {
		if viper.GetString(dialog.FieldGraph) == "" {
			previewGraphs(ctx, d, wait)
		}
		cfg, err = confirmFromValues(d, viper.GetViper(), strict)
	}
	if err != nil {
		return err
	}
	if cfg == nil {
		logger.Info("Configuration cancelled, nothing emitted")
		return nil
	}

	out, _ := cmd.Flags().GetString("out")
	if err := writeConfig(cmd.OutOrStdout(), out, format, cfg); err != nil {
		return err
	}

	frequency := d.Values().Frequency
	submit, _ := cmd.Flags().GetBool("submit")
	if !submit {
		if frequency != 1 {
			logger.Warnf("firefighter frequency %d is not part of the configuration record; pass it to submit with --frequency", frequency)
		}
		return nil
	}
	return submitConfig(ctx, b, models.NewSimulationRequest(*cfg, frequency))
}

// previewGraphs lists the graphs on offer when no graph was given up front
func previewGraphs(ctx context.Context, d *dialog.Dialog, wait time.Duration) {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-d.Loaded():
	case <-timer.C:
	case <-ctx.Done():
	}
	logger.LogList("No graph given; available graphs:", d.GraphOptions())
}

// confirmFromValues fills d from src and closes it without prompting
func confirmFromValues(d *dialog.Dialog, src dialog.ValueSource, strict bool) (*models.SimulationConfig, error) {
	dialog.Fill(d, src)

	if name := d.Values().Strategy; name != "" {
		if _, err := strategy.DefaultRegistry.Get(name); err != nil {
			logger.Warnf("%v; the engine may reject it", err)
		}
	}

	if !strict {
		if err := d.Validate(); err != nil {
			logger.Warnf("emitting configuration anyway: %v", err)
		}
		return d.Confirm()
	}

	cfg, err := d.Submit()
	if err != nil {
		_ = d.Cancel()
		return nil, err
	}
	return cfg, nil
}

func encodeConfig(w io.Writer, format string, cfg *models.SimulationConfig) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode configuration: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode configuration: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func writeConfig(stdout io.Writer, path, format string, cfg *models.SimulationConfig) error {
	if path == "" {
		return encodeConfig(stdout, format, cfg)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := encodeConfig(f, format, cfg); err != nil {
		return errors.Join(err, f.Close())
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	logger.Successf("Configuration written to %s", path)
	return nil
}
