package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/picogrid/osmf-sim/pkg/models"
)

// Simulate starts a run with the given settings and returns the summary of
// the finished run
func (c *Engine) Simulate(ctx context.Context, req models.SimulationRequest) (*models.SimulationResponse, error) {
	resp, err := c.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/simulation")
	if err != nil {
		return nil, fmt.Errorf("failed to start simulation: %w", err)
	}
	if err := mapHTTPError(resp); err != nil {
		return nil, fmt.Errorf("failed to start simulation: %w", err)
	}

	var result models.SimulationResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode simulation response: %w", err)
	}

	return &result, nil
}
