package models

import "time"

// MapMarker is a point of interest placed by a participant
type MapMarker struct {
	ID          string    `json:"id" db:"id"`
	EventID     string    `json:"event_id" db:"event_id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Latitude    float64   `json:"latitude" db:"latitude"`
	Longitude   float64   `json:"longitude" db:"longitude"`
	Label       string    `json:"label,omitempty" db:"label"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Polygon is an area drawn by a participant. Coordinates is kept as sent
// by the device; Points holds the parsed [lng, lat] pairs when readable.
type Polygon struct {
	ID          string       `json:"id" db:"id"`
	EventID     string       `json:"event_id" db:"event_id"`
	UserID      string       `json:"user_id" db:"user_id"`
	Coordinates string       `json:"coordinates" db:"coordinates"`
	Label       string       `json:"label,omitempty" db:"label"`
	Points      [][2]float64 `json:"points,omitempty"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
}

// MapMarkerRequest is the body of a map marker upload
type MapMarkerRequest struct {
	Latitude    *float64 `json:"latitude" binding:"required"`
	Longitude   *float64 `json:"longitude" binding:"required"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
}

// PolygonRequest is the body of a polygon upload
type PolygonRequest struct {
	Coordinates string `json:"coordinates" binding:"required"`
	Label       string `json:"label"`
}

// Bounds is a lat/lng bounding box
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// MarkerLayer is everything drawn on an event map
type MarkerLayer struct {
	MapMarkers []MapMarker `json:"map_markers"`
	Polygons   []Polygon   `json:"polygons"`
	GPSTracks  []GeoSample `json:"gps_tracks"`
	Bounds     *Bounds     `json:"bounds,omitempty"`
}
