package models

import "time"

// LatLng is a coordinate pair in degrees
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SampleKind distinguishes the sources of positions reported for an event
type SampleKind string

const (
	KindMapMarker SampleKind = "map_marker"
	KindPolygon   SampleKind = "polygon"
	KindGPSTrack  SampleKind = "gps_track"
)

// GeoSample is one reported position for one participant at one instant.
// Latitude and Longitude are pointers so a missing fix can be told apart from 0.
type GeoSample struct {
	ID        string     `json:"id" db:"id"`
	EventID   string     `json:"event_id" db:"event_id"`
	UserID    string     `json:"user_id" db:"user_id"`
	Latitude  *float64   `json:"latitude" db:"latitude"`
	Longitude *float64   `json:"longitude" db:"longitude"`
	Accuracy  *float64   `json:"accuracy,omitempty" db:"accuracy"` // meters
	Kind      SampleKind `json:"kind"`
	Timestamp time.Time  `json:"created_at" db:"created_at"`
}

// GPSSampleInput is one position reported by a field device
type GPSSampleInput struct {
	Latitude   *float64   `json:"latitude" binding:"required"`
	Longitude  *float64   `json:"longitude" binding:"required"`
	Accuracy   *float64   `json:"accuracy"`
	RecordedAt *time.Time `json:"recorded_at"` // defaults to receive time
}

// GPSBatchRequest is the body of a gps track upload
type GPSBatchRequest struct {
	Samples []GPSSampleInput `json:"samples" binding:"required,min=1,dive"`
}
