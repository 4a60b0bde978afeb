package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/picogrid/osmf-sim/pkg/client"
	"github.com/picogrid/osmf-sim/pkg/config"
	"github.com/picogrid/osmf-sim/pkg/logger"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Manage engine environments",
	Long:  `Manage the simulation engine endpoints stored in ~/.osmf-sim/environments.yaml`,
}

var envListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured environments",
	RunE:  listEnvironments,
}

var envAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new environment",
	RunE:  addEnvironment,
}

var envRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove an environment",
	RunE:  removeEnvironment,
}

var envUseCmd = &cobra.Command{
	Use:   "use NAME",
	Short: "Select the default environment",
	Args:  cobra.ExactArgs(1),
	RunE:  useEnvironment,
}

func init() {
	envCmd.AddCommand(envListCmd)
	envCmd.AddCommand(envAddCmd)
	envCmd.AddCommand(envRemoveCmd)
	envCmd.AddCommand(envUseCmd)
}

func listEnvironments(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadEnvironments()
	if err != nil {
		return fmt.Errorf("failed to load environments: %w", err)
	}

	if len(cfg.Environments) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No environments configured")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "\tNAME\tURL\tGRAPHS\tAUTHENTICATION")
	_, _ = fmt.Fprintln(w, "\t----\t---\t------\t--------------")

	for _, env := range cfg.Environments {
		marker := ""
		if env.Name == cfg.Selected {
			marker = "*"
		}
		graphSource := "engine"
		if env.GraphDir != "" {
			graphSource = env.GraphDir
		}
		authInfo := "none"
		if env.APIKey != "" {
			authInfo = fmt.Sprintf("API Key (%s)", env.APIKey)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", marker, env.Name, env.URL, graphSource, authInfo)
	}

	return w.Flush()
}

func addEnvironment(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadEnvironments()
	if err != nil {
		return fmt.Errorf("failed to load environments: %w", err)
	}

	questions := []*survey.Question{
		{
			Name:     "name",
			Prompt:   &survey.Input{Message: "Environment name:"},
			Validate: survey.Required,
		},
		{
			Name: "url",
			Prompt: &survey.Input{
				Message: "Simulation engine URL:",
				Default: "http://localhost:8000",
				Help:    "Leave empty to only list graphs from a local directory",
			},
		},
		{
			Name: "apikey",
			Prompt: &survey.Input{
				Message: "API key environment variable (optional):",
				Help:    "Name of the environment variable that contains the API key",
			},
		},
		{
			Name: "graphdir",
			Prompt: &survey.Input{
				Message: "Local graph directory (optional):",
			},
		},
	}
	answers := struct {
		Name     string `survey:"name"`
		URL      string `survey:"url"`
		APIKey   string `survey:"apikey"`
		GraphDir string `survey:"graphdir"`
	}{}
	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}
	env := config.Environment{Name: answers.Name, URL: answers.URL, APIKey: answers.APIKey, GraphDir: answers.GraphDir}

	if env.URL == "" && env.GraphDir == "" {
		return fmt.Errorf("an engine URL or a graph directory is required")
	}
	if env.URL != "" {
		if err := checkEnvironment(cmd.Context(), env); err != nil {
			logger.Warnf("Saving %s anyway: %v", env.Name, err)
		}
	}
	if err := cfg.Add(env); err != nil {
		return err
	}

	if err := config.SaveEnvironments(cfg); err != nil {
		return fmt.Errorf("failed to save environments: %w", err)
	}

	logger.Successf("Environment %s added", env.Name)
	return nil
}

// checkEnvironment verifies that the engine behind env answers
func checkEnvironment(ctx context.Context, env config.Environment) error {
	engine, err := client.NewEngineClient(env.URL, client.GetAPIKey(env.APIKey))
	if err != nil {
		return fmt.Errorf("invalid engine URL: %w", err)
	}

	return logger.WithSpinner(fmt.Sprintf("Checking connection to %s", env.URL), func() error {
		return engine.ValidateConnection(ctx)
	})
}

func removeEnvironment(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadEnvironments()
	if err != nil {
		return fmt.Errorf("failed to load environments: %w", err)
	}

	if len(cfg.Environments) == 0 {
		logger.Info("No environments to remove")
		return nil
	}

	names := make([]string, len(cfg.Environments))
	for i, env := range cfg.Environments {
		names[i] = env.Name
	}

	var selected string
	prompt := &survey.Select{
		Message: "Select environment to remove:",
		Options: names,
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return err
	}

	var confirm bool
	confirmPrompt := &survey.Confirm{
		Message: fmt.Sprintf("Are you sure you want to remove %s?", selected),
		Default: false,
	}
	if err := survey.AskOne(confirmPrompt, &confirm); err != nil {
		return err
	}

	if !confirm {
		logger.Info("Removal cancelled")
		return nil
	}

	if err := cfg.Remove(selected); err != nil {
		return err
	}
	if err := config.SaveEnvironments(cfg); err != nil {
		return fmt.Errorf("failed to save environments: %w", err)
	}

	logger.Successf("Environment %s removed", selected)
	return nil
}

func useEnvironment(_ *cobra.Command, args []string) error {
	cfg, err := config.LoadEnvironments()
	if err != nil {
		return fmt.Errorf("failed to load environments: %w", err)
	}

	if _, ok := cfg.Find(args[0]); !ok {
		return fmt.Errorf("environment %s not found", args[0])
	}
	cfg.Selected = args[0]

	if err := config.SaveEnvironments(cfg); err != nil {
		return fmt.Errorf("failed to save environments: %w", err)
	}

	logger.Successf("Using environment %s", args[0])
	return nil
}
