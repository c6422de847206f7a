package api

import (
	"context"
	"fmt"

	"santactl/internal/model"
	"santactl/internal/transport"
)

// ParticipantService binds the per-event participant endpoints.
type ParticipantService interface {
	List(ctx context.Context, eventID string) ([]model.Participant, error)
	Add(ctx context.Context, eventID string, req CreateParticipantRequest) (*model.Participant, error)
	Update(ctx context.Context, eventID, id string, req CreateParticipantRequest) error
	Delete(ctx context.Context, eventID, id string) error
}

type participantService struct {
	client *transport.Client
}

// NewParticipantService creates the participant facade.
func NewParticipantService(client *transport.Client) ParticipantService {
	return &participantService{client: client}
}

func (s *participantService) List(ctx context.Context, eventID string) ([]model.Participant, error) {
	var participants []model.Participant
	if err := s.client.Get(ctx, fmt.Sprintf("/events/%s/participants", eventID), &participants); err != nil {
		return nil, err
	}
	return participants, nil
}

func (s *participantService) Add(ctx context.Context, eventID string, req CreateParticipantRequest) (*model.Participant, error) {
	var participant model.Participant
	if err := s.client.Post(ctx, fmt.Sprintf("/events/%s/participants", eventID), req, &participant); err != nil {
		return nil, err
	}
	return &participant, nil
}

func (s *participantService) Update(ctx context.Context, eventID, id string, req CreateParticipantRequest) error {
	return s.client.Put(ctx, fmt.Sprintf("/events/%s/participants/%s", eventID, id), req, nil)
}

func (s *participantService) Delete(ctx context.Context, eventID, id string) error {
	return s.client.Delete(ctx, fmt.Sprintf("/events/%s/participants/%s", eventID, id), nil)
}
