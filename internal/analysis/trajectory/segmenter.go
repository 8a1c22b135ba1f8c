// Package trajectory splits the raw GPS samples reported for an event into
// per-participant movement segments for drawing as polylines.
//
// A new segment starts whenever consecutive fixes are further apart in time
// than Config.MaxGap or in space than Config.MaxJumpMeters, so that a device
// dropout or a GPS spike is never drawn as continuous movement. Unusable
// samples are dropped silently and only counted.
package trajectory

import (
	"sort"
	"time"

	"github.com/sarcoord/rescue-backend-go/internal/models"
	"github.com/sarcoord/rescue-backend-go/internal/spatial"
)

// Default thresholds
const (
	DefaultMaxAccuracyMeters = 50.0
	DefaultMaxGap            = 60 * time.Second
	DefaultMaxJumpMeters     = 300.0
)

// Config holds the thresholds used to filter and split samples
type Config struct {
	MaxAccuracyMeters float64       // samples reporting a worse accuracy are dropped
	MaxGap            time.Duration // longer silences start a new segment
	MaxJumpMeters     float64       // longer hops start a new segment
}

// DefaultConfig returns the thresholds used by the field console
func DefaultConfig() Config {
	return Config{
		MaxAccuracyMeters: DefaultMaxAccuracyMeters,
		MaxGap:            DefaultMaxGap,
		MaxJumpMeters:     DefaultMaxJumpMeters,
	}
}

// DiscardReason explains why a sample never reached a segment
type DiscardReason string

const (
	DiscardMissingUser   DiscardReason = "missing_user"
	DiscardBadCoordinate DiscardReason = "bad_coordinate"
	DiscardLowAccuracy   DiscardReason = "low_accuracy"
)

// Result is the output of one segmentation run
type Result struct {
	Tracks    map[string]models.Track
	Discarded map[DiscardReason]int
	Retained  int
}

// SegmentCount returns the number of segments across all tracks
func (r Result) SegmentCount() int {
	n := 0
	for _, t := range r.Tracks {
		n += len(t.Segments)
	}
	return n
}

// Segmenter turns samples into tracks. It holds no state between calls and
// is safe for concurrent use.
type Segmenter struct {
	cfg Config
}

// New creates a segmenter. Zero fields in cfg fall back to the defaults.
func New(cfg Config) *Segmenter {
	def := DefaultConfig()
	if cfg.MaxAccuracyMeters <= 0 {
		cfg.MaxAccuracyMeters = def.MaxAccuracyMeters
	}
	if cfg.MaxGap <= 0 {
		cfg.MaxGap = def.MaxGap
	}
	if cfg.MaxJumpMeters <= 0 {
		cfg.MaxJumpMeters = def.MaxJumpMeters
	}
	return &Segmenter{cfg: cfg}
}

// Config returns the effective thresholds
func (s *Segmenter) Config() Config {
	return s.cfg
}

// SegmentTracks segments samples with the default thresholds
func SegmentTracks(samples []models.GeoSample) map[string]models.Track {
	return New(DefaultConfig()).Segment(samples)
}

// Segment returns one track per user with at least one usable gps sample
func (s *Segmenter) Segment(samples []models.GeoSample) map[string]models.Track {
	return s.Run(samples).Tracks
}

// fix is a usable sample reduced to what segmentation needs
type fix struct {
	id       string
	lat, lng float64
	at       time.Time
}

// Run segments samples and reports what was dropped. Samples of other kinds
// than gps_track are ignored without being counted.
func (s *Segmenter) Run(samples []models.GeoSample) Result {
	res := Result{
		Tracks:    make(map[string]models.Track),
		Discarded: make(map[DiscardReason]int),
	}

	byUser := make(map[string][]fix)
	for _, smp := range samples {
		if smp.Kind != models.KindGPSTrack {
			continue
		}
		if reason, ok := s.usable(smp); !ok {
			res.Discarded[reason]++
			continue
		}
		byUser[smp.UserID] = append(byUser[smp.UserID], fix{
			id:  smp.ID,
			lat: *smp.Latitude,
			lng: *smp.Longitude,
			at:  smp.Timestamp,
		})
		res.Retained++
	}

	for userID, fixes := range byUser {
		sortFixes(fixes)
		res.Tracks[userID] = models.Track{
			UserID:   userID,
			Segments: s.split(fixes),
		}
	}

	return res
}

func (s *Segmenter) usable(smp models.GeoSample) (DiscardReason, bool) {
	// Negated so a NaN accuracy is rejected too.
	if smp.Accuracy != nil && !(*smp.Accuracy <= s.cfg.MaxAccuracyMeters) {
		return DiscardLowAccuracy, false
	}
	if smp.UserID == "" {
		return DiscardMissingUser, false
	}
	if smp.Latitude == nil || smp.Longitude == nil || !spatial.ValidCoordinate(*smp.Latitude, *smp.Longitude) {
		return DiscardBadCoordinate, false
	}
	return "", true
}

// sortFixes orders by time. Equal timestamps fall back to id and position so
// the result never depends on input order.
func sortFixes(fixes []fix) {
	sort.Slice(fixes, func(i, j int) bool {
		a, b := fixes[i], fixes[j]
		if !a.at.Equal(b.at) {
			return a.at.Before(b.at)
		}
		if a.id != b.id {
			return a.id < b.id
		}
		if a.lat != b.lat {
			return a.lat < b.lat
		}
		return a.lng < b.lng
	})
}

// split walks time-ordered fixes and cuts at every gap or jump
func (s *Segmenter) split(fixes []fix) []models.TrackSegment {
	var segments []models.TrackSegment

	first := fixes[0]
	cur := newSegment(first)
	prev := first

	for _, f := range fixes[1:] {
		gap := f.at.Sub(prev.at)
		dist := spatial.HaversineDistance(prev.lat, prev.lng, f.lat, f.lng)

		if gap > s.cfg.MaxGap || dist > s.cfg.MaxJumpMeters {
			segments = append(segments, cur)
			cur = newSegment(f)
		} else {
			cur.Points = append(cur.Points, models.LatLng{Lat: f.lat, Lng: f.lng})
			cur.EndTime = f.at
			cur.DistanceMeters += dist
		}
		prev = f
	}

	return append(segments, cur)
}

func newSegment(f fix) models.TrackSegment {
	return models.TrackSegment{
		Points:    []models.LatLng{{Lat: f.lat, Lng: f.lng}},
		StartTime: f.at,
		EndTime:   f.at,
	}
}

// Ordered returns the tracks sorted by user id
func Ordered(tracks map[string]models.Track) []models.Track {
	out := make([]models.Track, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}
