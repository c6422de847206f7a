package api

import (
	"context"
	"fmt"

	"santactl/internal/model"
	"santactl/internal/transport"
)

// EventService binds the event, rule, and assignment endpoints.
type EventService interface {
	List(ctx context.Context) ([]model.Event, error)
	Create(ctx context.Context, req CreateEventRequest) (*model.Event, error)
	Get(ctx context.Context, id string) (*model.Event, error)
	Update(ctx context.Context, id string, req UpdateEventRequest) error
	Delete(ctx context.Context, id string) error
	GetRules(ctx context.Context, eventID string) (*model.Rules, error)
	UpdateRules(ctx context.Context, eventID string, rules model.Rules) error
	GetAssignments(ctx context.Context, eventID string) ([]model.Assignment, error)
	GenerateAssignments(ctx context.Context, eventID string) (*GenerateAssignmentsResponse, error)
	MyInfo(ctx context.Context, eventID string) (*MyInfoResponse, error)
}

type eventService struct {
	client *transport.Client
}

// NewEventService creates the event facade.
func NewEventService(client *transport.Client) EventService {
	return &eventService{client: client}
}

func (s *eventService) List(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	if err := s.client.Get(ctx, "/events", &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *eventService) Create(ctx context.Context, req CreateEventRequest) (*model.Event, error) {
	var event model.Event
	if err := s.client.Post(ctx, "/events", req, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *eventService) Get(ctx context.Context, id string) (*model.Event, error) {
	var event model.Event
	if err := s.client.Get(ctx, "/events/"+id, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *eventService) Update(ctx context.Context, id string, req UpdateEventRequest) error {
	return s.client.Put(ctx, "/events/"+id, req, nil)
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/events/"+id, nil)
}

func (s *eventService) GetRules(ctx context.Context, eventID string) (*model.Rules, error) {
	var rules model.Rules
	if err := s.client.Get(ctx, fmt.Sprintf("/events/%s/rules", eventID), &rules); err != nil {
		return nil, err
	}
	return &rules, nil
}

func (s *eventService) UpdateRules(ctx context.Context, eventID string, rules model.Rules) error {
	return s.client.Put(ctx, fmt.Sprintf("/events/%s/rules", eventID), rules, nil)
}

func (s *eventService) GetAssignments(ctx context.Context, eventID string) ([]model.Assignment, error) {
	var assignments []model.Assignment
	if err := s.client.Get(ctx, fmt.Sprintf("/events/%s/assignments", eventID), &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (s *eventService) GenerateAssignments(ctx context.Context, eventID string) (*GenerateAssignmentsResponse, error) {
	var res GenerateAssignmentsResponse
	if err := s.client.Post(ctx, fmt.Sprintf("/events/%s/assignments", eventID), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *eventService) MyInfo(ctx context.Context, eventID string) (*MyInfoResponse, error) {
	var res MyInfoResponse
	if err := s.client.Get(ctx, fmt.Sprintf("/events/%s/my-info", eventID), &res); err != nil {
		return nil, err
	}
	return &res, nil
}
