package models

import (
	"encoding/json"
	"time"
)

// MissingPerson is a person being searched for within an event
type MissingPerson struct {
	ID               string    `json:"id" db:"id"`
	EventID          string    `json:"event_id" db:"event_id"`
	Name             string    `json:"name,omitempty" db:"name"`
	Age              *int      `json:"age,omitempty" db:"age"`
	HeightCm         *int      `json:"height_cm,omitempty" db:"height_cm"`
	Clothing         string    `json:"clothing,omitempty" db:"clothing"`
	PhotoURL         string    `json:"photo_url,omitempty" db:"photo_url"`
	BehaviorCategory string    `json:"behavior_category,omitempty" db:"behavior_category"`
	ProbZones        ZoneSet   `json:"prob_zones,omitempty" db:"prob_zones"` // stored as JSON text
	Location         *LatLng   `json:"location,omitempty"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// Behavior categories used by the zone generator upstream
var BehaviorCategories = []string{
	"child1-3",
	"child4-6",
	"hiker",
	"despondent",
	"hunter",
	"elderly",
	"default",
}

// ValidBehaviorCategory reports whether c is one of BehaviorCategories
func ValidBehaviorCategory(c string) bool {
	for _, known := range BehaviorCategories {
		if c == known {
			return true
		}
	}
	return false
}

// MissingPersonRequest carries the fields of a create or partial update.
// Nil fields are left unchanged on update. ProbZones is kept raw so the
// validator can report non-numeric coordinates; the JSON literal null clears it.
type MissingPersonRequest struct {
	Name             *string         `json:"name"`
	Age              *int            `json:"age"`
	HeightCm         *int            `json:"height_cm"`
	Clothing         *string         `json:"clothing"`
	PhotoURL         *string         `json:"photo_url"`
	BehaviorCategory *string         `json:"behavior_category"`
	ProbZones        json.RawMessage `json:"prob_zones"`
	Location         *LatLng         `json:"location"`
}
