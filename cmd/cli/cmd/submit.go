package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/picogrid/osmf-sim/pkg/client"
	"github.com/picogrid/osmf-sim/pkg/logger"
	"github.com/picogrid/osmf-sim/pkg/models"
)

var submitCmd = &cobra.Command{
	Use:   "submit FILE",
	Short: "Run a saved configuration on the engine",
	Long:  `Read a configuration record written by "configure --out" (JSON or YAML) and run it on the simulation engine`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSubmit,
}

func init() {
	submitCmd.Flags().Int("frequency", 1, "firefighter frequency sent as strategy_every")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	frequency, _ := cmd.Flags().GetInt("frequency")
	if frequency < 1 {
		return fmt.Errorf("frequency must be at least 1, got %d", frequency)
	}

	cfg, err := loadConfigRecord(args[0])
	if err != nil {
		return err
	}

	b, err := resolveBackend(isInteractive())
	if err != nil {
		return fmt.Errorf("failed to select environment: %w", err)
	}

	ctx := client.WithRequestID(cmd.Context(), uuid.NewString())
	return submitConfig(ctx, b, models.NewSimulationRequest(*cfg, frequency))
}

// loadConfigRecord reads a configuration record. YAML is a superset of
// JSON, so one decoder handles both formats.
func loadConfigRecord(path string) (*models.SimulationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	var cfg models.SimulationConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return &cfg, nil
}

func submitConfig(ctx context.Context, b *backend, req models.SimulationRequest) error {
	if b.engine == nil {
		return fmt.Errorf("environment %s has no engine URL to submit to", b.name)
	}

	logger.Networkf("Submitting to %s", b.engine.BaseURL())

	var resp *models.SimulationResponse
	err := logger.WithSpinner(fmt.Sprintf("Simulating on %s", req.GraphName), func() error {
		var err error
		resp, err = b.engine.Simulate(ctx, req)
		return err
	})
	if err != nil {
		return err
	}

	logger.LogSection(logger.IconFire + " Simulation result")
	logger.LogKeyValue("Nodes burned", resp.NodesBurned)
	logger.LogKeyValue("Nodes defended", resp.NodesDefended)
	logger.LogKeyValue("Nodes total", resp.NodesTotal)
	logger.LogKeyValue("Burned", fmt.Sprintf("%.1f%%", resp.BurnedRatio()*100))
	logger.LogKeyValue("End time", resp.EndTime)
	return nil
}
