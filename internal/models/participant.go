package models

import "time"

// Participant links a user to a search event
type Participant struct {
	ID          string     `json:"id" db:"id"`
	EventID     string     `json:"event_id" db:"event_id"`
	UserID      string     `json:"user_id" db:"user_id"`
	JoinedAt    time.Time  `json:"joined_at" db:"joined_at"`
	LeftAt      *time.Time `json:"left_at,omitempty" db:"left_at"`
	PauseStatus bool       `json:"pause_status" db:"pause_status"`

	// Joined from users
	FullName    string `json:"full_name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Role        string `json:"role,omitempty"`
}

// Participant status constants
const (
	ParticipantActive = "active"
	ParticipantPaused = "paused"
	ParticipantLeft   = "left"
)

// Status derives the participant status from left_at and pause_status
func (p Participant) Status() string {
	if p.LeftAt != nil {
		return ParticipantLeft
	}
	if p.PauseStatus {
		return ParticipantPaused
	}
	return ParticipantActive
}

// ParticipantStatusRequest is the body of a status change
type ParticipantStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active paused left"`
}
