package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DirName is the per-user directory holding CLI configuration
const DirName = ".osmf-sim"

// Environment is a named simulation engine endpoint
type Environment struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	// APIKey names the environment variable holding the bearer key
	APIKey string `yaml:"api_key,omitempty"`
	// GraphDir lists graphs from a local directory instead of the engine
	GraphDir string `yaml:"graph_dir,omitempty"`
}

// Config holds the environment configurations
type Config struct {
	Environments []Environment `yaml:"environments"`
	Selected     string        `yaml:"selected,omitempty"`
}

// Find returns the environment called name
func (c *Config) Find(name string) (*Environment, bool) {
	for i := range c.Environments {
		if c.Environments[i].Name == name {
			return &c.Environments[i], true
		}
	}
	return nil, false
}

// Add appends env, rejecting duplicate names
func (c *Config) Add(env Environment) error {
	if env.Name == "" {
		return fmt.Errorf("environment name is required")
	}
	if _, exists := c.Find(env.Name); exists {
		return fmt.Errorf("environment %s already exists", env.Name)
	}
	c.Environments = append(c.Environments, env)
	return nil
}

// Remove deletes the environment called name
func (c *Config) Remove(name string) error {
	kept := make([]Environment, 0, len(c.Environments))
	for _, env := range c.Environments {
		if env.Name != name {
			kept = append(kept, env)
		}
	}
	if len(kept) == len(c.Environments) {
		return fmt.Errorf("environment %s not found", name)
	}
	c.Environments = kept
	if c.Selected == name {
		c.Selected = ""
	}
	return nil
}

// DefaultPath returns ~/.osmf-sim/environments.yaml
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, DirName, "environments.yaml"), nil
}

// LoadEnvironments loads environment configurations from the default location
func LoadEnvironments() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadEnvironmentsFromFile(path)
}

// LoadEnvironmentsFromFile loads environment configurations from a specific file
func LoadEnvironmentsFromFile(path string) (*Config, error) {
	// If file doesn't exist, return default config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return getDefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveEnvironments saves the environment configuration to the default location
func SaveEnvironments(config *Config) error {
	path, err := DefaultPath()
	if err != nil {
		return err
	}
	return SaveEnvironmentsToFile(config, path)
}

// SaveEnvironmentsToFile saves the environment configuration to path
func SaveEnvironmentsToFile(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// getDefaultConfig returns a default configuration
func getDefaultConfig() *Config {
	return &Config{
		Environments: []Environment{
			{
				Name: "Local",
				URL:  "http://localhost:8000",
			},
		},
	}
}
