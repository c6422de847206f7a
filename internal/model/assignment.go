package model

// Assignment is a giver-to-receiver pairing generated by the backend.
// The client only ever reads these.
type Assignment struct {
	GiverID    string `json:"giverId"`
	ReceiverID string `json:"receiverId"`
}
