// Package zones validates the probability polygons attached to a missing
// person before they are stored.
//
// A zone set is accepted or rejected as a whole. Labels are checked in sorted
// order so the reported failure is the same for the same input.
package zones

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/sarcoord/rescue-backend-go/internal/models"
	"github.com/sarcoord/rescue-backend-go/internal/spatial"
)

// DefaultMaxAreaKm2 is the largest zone accepted by default
const DefaultMaxAreaKm2 = 100.0

// MinVertices is the smallest vertex count of a usable polygon
const MinVertices = 3

// Bands lists the probability band labels produced by the zone generator
var Bands = []string{"zone25", "zone50", "zone75", "zone95"}

// Rejection kinds
var (
	ErrInvalidZoneShape  = errors.New("invalid zone shape")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrZoneTooLarge      = errors.New("zone too large")
)

// ZoneError reports the first zone that failed validation
type ZoneError struct {
	Kind     error
	Label    string
	Index    int    // vertex index, -1 when the failure is not about one vertex
	Field    string // "lat" or "lng" for coordinate failures
	Value    any
	AreaKm2  float64
	LimitKm2 float64
}

func (e *ZoneError) Error() string {
	switch e.Kind {
	case ErrInvalidCoordinate:
		return fmt.Sprintf("zone %q vertex %d: %v: %s=%v", e.Label, e.Index, e.Kind, e.Field, e.Value)
	case ErrZoneTooLarge:
		return fmt.Sprintf("zone %q: %v: %.2f km² exceeds %.2f km²", e.Label, e.Kind, e.AreaKm2, e.LimitKm2)
	default:
		if e.Label == "" {
			return fmt.Sprintf("%v: %v", e.Kind, e.Value)
		}
		return fmt.Sprintf("zone %q: %v: %v", e.Label, e.Kind, e.Value)
	}
}

func (e *ZoneError) Unwrap() error {
	return e.Kind
}

// KindName returns the stable name of the rejection kind
func (e *ZoneError) KindName() string {
	switch e.Kind {
	case ErrInvalidZoneShape:
		return "InvalidZoneShape"
	case ErrInvalidCoordinate:
		return "InvalidCoordinate"
	case ErrZoneTooLarge:
		return "ZoneTooLarge"
	}
	return "Unknown"
}

// Details returns the error as a JSON friendly map for API responses
func (e *ZoneError) Details() map[string]any {
	d := map[string]any{
		"kind":  e.KindName(),
		"label": e.Label,
	}
	if e.Index >= 0 {
		d["index"] = e.Index
	}
	if e.Field != "" {
		d["field"] = e.Field
	}
	if e.Value != nil {
		if f, ok := e.Value.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			d["value"] = fmt.Sprint(f)
		} else {
			d["value"] = e.Value
		}
	}
	if e.Kind == ErrZoneTooLarge {
		d["areaKm2"] = e.AreaKm2
		d["limitKm2"] = e.LimitKm2
	}
	return d
}

// Config controls the validator
type Config struct {
	MaxAreaKm2 float64
	// LegacyOpenRing leaves the closing edge out of the area sum, matching
	// zones measured by the old console.
	LegacyOpenRing bool
}

// DefaultConfig returns the validator defaults
func DefaultConfig() Config {
	return Config{MaxAreaKm2: DefaultMaxAreaKm2}
}

// Validator checks zone sets. It is stateless and safe for concurrent use.
type Validator struct {
	cfg Config
}

// New creates a validator. A zero MaxAreaKm2 falls back to the default.
func New(cfg Config) *Validator {
	if cfg.MaxAreaKm2 <= 0 {
		cfg.MaxAreaKm2 = DefaultMaxAreaKm2
	}
	return &Validator{cfg: cfg}
}

// Config returns the effective configuration
func (v *Validator) Config() Config {
	return v.cfg
}

// ValidateZones validates with the default configuration
func ValidateZones(zs models.ZoneSet) (models.ZoneSet, error) {
	return New(DefaultConfig()).Validate(zs)
}

// Validate returns a copy of zs when every zone passes, or the first
// *ZoneError found.
func (v *Validator) Validate(zs models.ZoneSet) (models.ZoneSet, error) {
	out := make(models.ZoneSet, len(zs))

	for _, label := range Labels(zs) {
		points := zs[label]
		if err := v.check(label, points); err != nil {
			return nil, err
		}
		out[label] = append([]models.LatLng(nil), points...)
	}

	return out, nil
}

func (v *Validator) check(label string, points []models.LatLng) error {
	if len(points) < MinVertices {
		return &ZoneError{Kind: ErrInvalidZoneShape, Label: label, Index: -1, Value: len(points)}
	}

	for i, p := range points {
		if !validLat(p.Lat) {
			return &ZoneError{Kind: ErrInvalidCoordinate, Label: label, Index: i, Field: "lat", Value: p.Lat}
		}
		if !validLng(p.Lng) {
			return &ZoneError{Kind: ErrInvalidCoordinate, Label: label, Index: i, Field: "lng", Value: p.Lng}
		}
	}

	area := v.PlanarArea(points)
	if area > v.cfg.MaxAreaKm2 {
		return &ZoneError{Kind: ErrZoneTooLarge, Label: label, Index: -1, AreaKm2: area, LimitKm2: v.cfg.MaxAreaKm2}
	}
	return nil
}

// PlanarArea returns the flat-earth area in km² used for the size ceiling
func (v *Validator) PlanarArea(points []models.LatLng) float64 {
	return spatial.PlanarAreaKm2(toSpatial(points), !v.cfg.LegacyOpenRing)
}

// Measure reports the size of every zone, sorted by label. It does not
// validate; call it on a set Validate accepted.
func (v *Validator) Measure(zs models.ZoneSet) []models.ZoneMeasurement {
	out := make([]models.ZoneMeasurement, 0, len(zs))
	for _, label := range Labels(zs) {
		points := zs[label]
		out = append(out, models.ZoneMeasurement{
			Label:            label,
			Vertices:         len(points),
			PlanarAreaKm2:    v.PlanarArea(points),
			SphericalAreaKm2: spatial.SphericalAreaKm2(toSpatial(points)),
		})
	}
	return out
}

// Labels returns the zone labels in sorted order
func Labels(zs models.ZoneSet) []string {
	labels := make([]string, 0, len(zs))
	for l := range zs {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

func validLat(lat float64) bool {
	return !math.IsNaN(lat) && lat >= -90 && lat <= 90
}

func validLng(lng float64) bool {
	return !math.IsNaN(lng) && lng >= -180 && lng <= 180
}

func toSpatial(points []models.LatLng) []spatial.Point {
	out := make([]spatial.Point, len(points))
	for i, p := range points {
		out[i] = spatial.Point{Lat: p.Lat, Lon: p.Lng}
	}
	return out
}
