package api

import (
	"context"

	"santactl/internal/transport"
)

// HealthService binds the liveness and readiness endpoints.
type HealthService interface {
	Health(ctx context.Context) (*HealthResponse, error)
	Ready(ctx context.Context) (*HealthResponse, error)
}

type healthService struct {
	client *transport.Client
}

// NewHealthService creates the health facade.
func NewHealthService(client *transport.Client) HealthService {
	return &healthService{client: client}
}

func (s *healthService) Health(ctx context.Context) (*HealthResponse, error) {
	var res HealthResponse
	if err := s.client.Get(ctx, "/health", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *healthService) Ready(ctx context.Context) (*HealthResponse, error) {
	var res HealthResponse
	if err := s.client.Get(ctx, "/ready", &res); err != nil {
		return nil, err
	}
	return &res, nil
}
