package cmd

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/picogrid/osmf-sim/pkg/client"
	"github.com/picogrid/osmf-sim/pkg/config"
	"github.com/picogrid/osmf-sim/pkg/dialog"
	"github.com/picogrid/osmf-sim/pkg/graphs"
	"github.com/picogrid/osmf-sim/pkg/logger"
)

const customURLOption = "Custom URL"

// backend bundles the collaborators a command talks to. engine is nil when
// graphs come from a local directory and no engine URL is configured.
type backend struct {
	name   string
	lister dialog.GraphLister
	engine *client.Engine
}

// isInteractive reports whether prompts can be shown
func isInteractive() bool {
	if viper.GetBool("skip_prompts") {
		return false
	}
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// resolveBackend picks the engine and graph source from flags, OSMF_*
// variables, the environment store, or an interactive selection.
func resolveBackend(interactive bool) (*backend, error) {
	env, apiKey, err := selectEnvironment(interactive)
	if err != nil {
		return nil, err
	}

	dir := viper.GetString("graph_dir")
	if dir == "" {
		dir = env.GraphDir
	}

	b := &backend{name: env.Name}
	if env.URL != "" {
		b.engine, err = client.NewEngineClient(env.URL, apiKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create engine client: %w", err)
		}
		b.lister = b.engine
	}
	if dir != "" {
		b.lister = graphs.DirLister{Dir: dir}
		logger.Debugf("listing graphs from %s", dir)
	}
	if b.lister == nil {
		return nil, fmt.Errorf("environment %s has neither an engine URL nor a graph directory", env.Name)
	}

	return b, nil
}

func selectEnvironment(interactive bool) (*config.Environment, string, error) {
	// URL from flag, config file or OSMF_URL
	if url := viper.GetString("url"); url != "" {
		return &config.Environment{Name: "Custom", URL: url}, viper.GetString("api_key"), nil
	}
	if viper.GetString("graph_dir") != "" && viper.GetString("env") == "" {
		return &config.Environment{Name: "Local files"}, "", nil
	}

	envConfig, err := config.LoadEnvironments()
	if err != nil {
		return nil, "", err
	}

	name := viper.GetString("env")
	if name == "" {
		name = envConfig.Selected
	}
	if name == "" && !interactive && len(envConfig.Environments) > 0 {
		name = envConfig.Environments[0].Name
	}

	if name != "" {
		env, ok := envConfig.Find(name)
		if !ok {
			return nil, "", fmt.Errorf("environment %s not found", name)
		}
		return env, client.GetAPIKey(env.APIKey), nil
	}

	if !interactive {
		return nil, "", fmt.Errorf("no environment configured; pass --url or --graph-dir")
	}

	options := make([]string, 0, len(envConfig.Environments)+1)
	for _, env := range envConfig.Environments {
		options = append(options, env.Name)
	}
	options = append(options, customURLOption)

	var selected string
	if err := survey.AskOne(&survey.Select{Message: "Select engine environment:", Options: options}, &selected); err != nil {
		return nil, "", err
	}

	if selected == customURLOption {
		var customURL string
		urlPrompt := &survey.Input{
			Message: "Enter simulation engine URL:",
			Default: "http://localhost:8000",
		}
		if err := survey.AskOne(urlPrompt, &customURL, survey.WithValidator(survey.Required)); err != nil {
			return nil, "", err
		}
		return &config.Environment{Name: "Custom", URL: customURL}, viper.GetString("api_key"), nil
	}

	env, _ := envConfig.Find(selected)
	apiKey := client.GetAPIKey(env.APIKey)
	if apiKey == "" && env.APIKey != "" {
		keyPrompt := &survey.Password{
			Message: fmt.Sprintf("Enter API key for %s:", env.Name),
		}
		if err := survey.AskOne(keyPrompt, &apiKey); err != nil {
			return nil, "", err
		}
	}
	return env, apiKey, nil
}
