package models

import "time"

// SearchEvent is one search operation that participants join
type SearchEvent struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Status        string    `json:"status" db:"status"` // active, paused, closed
	StartTime     time.Time `json:"start_time" db:"start_time"`
	CoordinatorID string    `json:"coordinator_id,omitempty" db:"coordinator_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Event status constants
const (
	EventActive = "active"
	EventPaused = "paused"
	EventClosed = "closed"
)

// ValidEventStatus reports whether s is a known event status
func ValidEventStatus(s string) bool {
	switch s {
	case EventActive, EventPaused, EventClosed:
		return true
	}
	return false
}

// EventRequest is the body for creating or updating a search event
type EventRequest struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// EventSummary is the short form used by the dashboard
type EventSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
