package models

import "time"

// TrackSegment is a contiguous run of plausible movement
type TrackSegment struct {
	Points         []LatLng  `json:"points"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	DistanceMeters float64   `json:"distance_meters"`
}

// Track is one participant's samples split into chronological segments
type Track struct {
	UserID   string         `json:"user_id"`
	Segments []TrackSegment `json:"segments"`
}

// PointCount returns the number of points across all segments
func (t Track) PointCount() int {
	n := 0
	for _, s := range t.Segments {
		n += len(s.Points)
	}
	return n
}
