package client

import (
	"context"
	"encoding/json"
	"fmt"
)

// ListGraphs returns the identifiers of the graphs the engine has loaded
func (c *Engine) ListGraphs(ctx context.Context) ([]string, error) {
	resp, err := c.request(ctx).Get("/graphs")
	if err != nil {
		return nil, fmt.Errorf("failed to list graphs: %w", err)
	}
	if err := mapHTTPError(resp); err != nil {
		return nil, fmt.Errorf("failed to list graphs: %w", err)
	}

	var graphs []string
	if err := json.Unmarshal(resp.Body(), &graphs); err != nil {
		return nil, fmt.Errorf("failed to decode graph list: %w", err)
	}

	return graphs, nil
}
