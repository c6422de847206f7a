package model

// Participant belongs to exactly one event.
type Participant struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	GroupID string `json:"group_id,omitempty"`
}
