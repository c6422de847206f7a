package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"santactl/internal/api"
	"santactl/internal/model"
)

// EventView pairs an event with the capability flags the current user has
// on it. Flags are recomputed from server-truth fields every time the
// event is placed into the store.
type EventView struct {
	model.Event
	Caps model.Capabilities
}

// Events caches the fetched event collection and the currently opened
// event. Mutating actions update the cache in place after the remote call
// succeeds; only assignment generation forces a refetch, since it mutates
// server-computed fields the mutating call does not return.
type Events struct {
	events       api.EventService
	participants api.ParticipantService
	assignments  api.AssignmentService
	auth         *Auth
	logger       *zap.Logger

	mu      sync.Mutex
	list    []EventView
	current *EventView
}

// NewEvents creates the event store.
func NewEvents(events api.EventService, participants api.ParticipantService, assignments api.AssignmentService, auth *Auth, logger *zap.Logger) *Events {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Events{
		events:       events,
		participants: participants,
		assignments:  assignments,
		auth:         auth,
		logger:       logger,
	}
}

func (s *Events) view(event model.Event) EventView {
	return EventView{Event: event, Caps: event.CapabilitiesFor(s.auth.User())}
}

// FetchEvents replaces the cached collection with the backend's.
func (s *Events) FetchEvents(ctx context.Context) ([]EventView, error) {
	user := s.auth.User()
	if user == nil {
		s.logger.Warn("cannot fetch events: user not authenticated")
		s.mu.Lock()
		s.list = nil
		s.mu.Unlock()
		return nil, nil
	}

	events, err := s.events.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]EventView, 0, len(events))
	for _, event := range events {
		views = append(views, s.view(event))
	}

	s.mu.Lock()
	s.list = views
	s.mu.Unlock()

	s.logger.Debug("fetched events", zap.Int("count", len(views)), zap.String("user", user.Email))
	return s.Events(), nil
}

// CreateEvent creates an event and appends it to the cached collection.
func (s *Events) CreateEvent(ctx context.Context, name string) (*EventView, error) {
	event, err := s.events.Create(ctx, api.CreateEventRequest{Name: name})
	if err != nil {
		return nil, err
	}

	view := s.view(*event)
	s.mu.Lock()
	s.list = append(s.list, view)
	s.mu.Unlock()
	return &view, nil
}

// FetchEvent loads one event and makes it current.
func (s *Events) FetchEvent(ctx context.Context, id string) (*EventView, error) {
	event, err := s.events.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	view := s.view(*event)
	s.mu.Lock()
	s.current = &view
	s.mu.Unlock()

	out := view
	return &out, nil
}

// UpdateEvent renames an event remotely, then patches the cached copies
// rather than refetching.
func (s *Events) UpdateEvent(ctx context.Context, id, name string) error {
	if err := s.events.Update(ctx, id, api.UpdateEventRequest{Name: name}); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.list {
		if s.list[i].ID == id {
			s.list[i].Name = name
		}
	}
	if s.current != nil && s.current.ID == id {
		s.current.Name = name
	}
	return nil
}

// DeleteEvent deletes an event remotely and drops it from the cache.
func (s *Events) DeleteEvent(ctx context.Context, id string) error {
	if err := s.events.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.list[:0]
	for _, view := range s.list {
		if view.ID != id {
			kept = append(kept, view)
		}
	}
	s.list = kept
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	return nil
}

// AddParticipant enrolls a participant and pushes them into the cached
// current event instead of refetching.
func (s *Events) AddParticipant(ctx context.Context, eventID string, req api.CreateParticipantRequest) (*model.Participant, error) {
	participant, err := s.participants.Add(ctx, eventID, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.current != nil && s.current.ID == eventID {
		s.current.Participants = append(s.current.Participants, *participant)
		s.refreshCurrentLocked()
	}
	s.mu.Unlock()
	return participant, nil
}

// UpdateParticipant updates a participant remotely and in the cached
// current event.
func (s *Events) UpdateParticipant(ctx context.Context, eventID, id string, req api.CreateParticipantRequest) error {
	if err := s.participants.Update(ctx, eventID, id, req); err != nil {
		return err
	}

	s.mu.Lock()
	if s.current != nil && s.current.ID == eventID {
		for i := range s.current.Participants {
			if s.current.Participants[i].ID == id {
				s.current.Participants[i].Name = req.Name
				s.current.Participants[i].Email = req.Email
				s.current.Participants[i].Phone = req.Phone
				s.current.Participants[i].GroupID = req.GroupID
			}
		}
		s.refreshCurrentLocked()
	}
	s.mu.Unlock()
	return nil
}

// RemoveParticipant removes a participant remotely and from the cached
// current event.
func (s *Events) RemoveParticipant(ctx context.Context, eventID, id string) error {
	if err := s.participants.Delete(ctx, eventID, id); err != nil {
		return err
	}

	s.mu.Lock()
	if s.current != nil && s.current.ID == eventID {
		kept := s.current.Participants[:0]
		for _, p := range s.current.Participants {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		s.current.Participants = kept
		s.refreshCurrentLocked()
	}
	s.mu.Unlock()
	return nil
}

// FetchRules loads the event's generator rules.
func (s *Events) FetchRules(ctx context.Context, eventID string) (*model.Rules, error) {
	return s.events.GetRules(ctx, eventID)
}

// UpdateRules updates the rules remotely and on the cached current event.
func (s *Events) UpdateRules(ctx context.Context, eventID string, rules model.Rules) error {
	if err := s.events.UpdateRules(ctx, eventID, rules); err != nil {
		return err
	}

	s.mu.Lock()
	if s.current != nil && s.current.ID == eventID {
		s.current.Rules = rules
	}
	s.mu.Unlock()
	return nil
}

// FetchAssignments loads the event's generated pairings.
func (s *Events) FetchAssignments(ctx context.Context, eventID string) ([]model.Assignment, error) {
	return s.events.GetAssignments(ctx, eventID)
}

// GenerateAssignments triggers backend generation, then refetches the
// event: generation stamps server-computed fields (assignedAt,
// assignments) the generate response does not carry in full.
func (s *Events) GenerateAssignments(ctx context.Context, eventID string) (*api.GenerateAssignmentsResponse, error) {
	res, err := s.events.GenerateAssignments(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if _, err := s.FetchEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return res, nil
}

// MyAssignment returns the caller's own pairing.
func (s *Events) MyAssignment(ctx context.Context) (*api.MyAssignmentResponse, error) {
	return s.assignments.MyAssignment(ctx)
}

// MyInfo returns the caller's standing within one event.
func (s *Events) MyInfo(ctx context.Context, eventID string) (*api.MyInfoResponse, error) {
	return s.events.MyInfo(ctx, eventID)
}

// refreshCurrentLocked rederives the current event's capability flags
// after a local mutation; participant changes move CanViewAssignments and
// ParticipantCount. Caller holds the lock.
func (s *Events) refreshCurrentLocked() {
	if s.current == nil {
		return
	}
	s.current.Caps = s.current.CapabilitiesFor(s.auth.User())
}

// Events returns a copy of the cached collection.
func (s *Events) Events() []EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]EventView, len(s.list))
	copy(out, s.list)
	return out
}

// Current returns a copy of the currently opened event, or nil.
func (s *Events) Current() *EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	out := *s.current
	return &out
}

// Count returns how many events are cached.
func (s *Events) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.list)
}

// HasEvents reports whether any events are cached.
func (s *Events) HasEvents() bool {
	return s.Count() > 0
}

// UserEvents filters the cache to events the current user can act on in
// some way.
func (s *Events) UserEvents() []EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []EventView
	for _, view := range s.list {
		if view.Caps.CanEdit || view.Caps.CanViewAssignments || view.Caps.CanManageParticipants {
			out = append(out, view)
		}
	}
	return out
}

// HasAnyAssignments reports whether any cached event already has
// generated assignments.
func (s *Events) HasAnyAssignments() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, view := range s.list {
		if view.Caps.HasAssignments {
			return true
		}
	}
	return false
}
