package domain

import "time"

// Event types published to the platform event bus.
const (
	EventUserRegistered      = "user.registered"
	EventUserProfileUpdated  = "user.profile_updated"
	EventUserPasswordChanged = "user.password_changed"
	EventUserDeactivated     = "user.deactivated"
)

// Event is the envelope other services consume from the bus. Data carries
// the type-specific payload; credentials never appear in it.
type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"event_type"`
	Source    string         `json:"source"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}
