package client

import (
	"context"
	"os"
	"time"
)

// NewEngineClient creates an engine client with optional API key
// authentication. This is a convenience wrapper around NewClient
func NewEngineClient(baseURL string, apiKey string) (*Engine, error) {
	return NewClient(Config{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Timeout: 30 * time.Second,
	})
}

// GetAPIKey retrieves the API key from an environment variable
func GetAPIKey(envVarName string) string {
	if envVarName == "" {
		return ""
	}
	return os.Getenv(envVarName)
}

// ValidateConnection checks that the engine answers the graph listing
func (c *Engine) ValidateConnection(ctx context.Context) error {
	_, err := c.ListGraphs(ctx)
	return err
}
