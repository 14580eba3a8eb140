package invoicesdk

import (
	"context"
	"net/http"
)

// GetStatus checks if the service is alive.
func (c *SDKClient) GetStatus(ctx context.Context) (*StatusResponse, error) {
	var status StatusResponse
	if err := c.doJSON(ctx, http.MethodGet, "/status", "", nil, &status, http.StatusOK); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetReadiness checks if the service is ready to take traffic.
func (c *SDKClient) GetReadiness(ctx context.Context) (*StatusResponse, error) {
	var status StatusResponse
	if err := c.doJSON(ctx, http.MethodGet, "/readyz", "", nil, &status, http.StatusOK); err != nil {
		return nil, err
	}
	return &status, nil
}
