package api

import (
	"context"

	"santactl/internal/transport"
)

// AssignmentService binds the caller-scoped assignment endpoint.
type AssignmentService interface {
	MyAssignment(ctx context.Context) (*MyAssignmentResponse, error)
}

type assignmentService struct {
	client *transport.Client
}

// NewAssignmentService creates the assignment facade.
func NewAssignmentService(client *transport.Client) AssignmentService {
	return &assignmentService{client: client}
}

func (s *assignmentService) MyAssignment(ctx context.Context) (*MyAssignmentResponse, error) {
	var res MyAssignmentResponse
	if err := s.client.Get(ctx, "/me/assignment", &res); err != nil {
		return nil, err
	}
	return &res, nil
}
