package zones

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/sarcoord/rescue-backend-go/internal/models"
)

// DecodeZones parses operator supplied zone JSON of the form
//
//	{"zone25": [{"lat": 47.1, "lng": 19.2}, ...], ...}
//
// Structural problems are reported as *ZoneError so the caller sees the same
// error kinds whether the text or the decoded set was wrong. A null document
// decodes to an empty set.
func DecodeZones(data []byte) (models.ZoneSet, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ZoneError{Kind: ErrInvalidZoneShape, Index: -1, Value: err.Error()}
	}

	labels := make([]string, 0, len(raw))
	for l := range raw {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	zs := make(models.ZoneSet, len(raw))
	for _, label := range labels {
		points, err := decodeZone(label, raw[label])
		if err != nil {
			return nil, err
		}
		zs[label] = points
	}
	return zs, nil
}

func decodeZone(label string, data json.RawMessage) ([]models.LatLng, error) {
	var vertices []json.RawMessage
	if isNull(data) || json.Unmarshal(data, &vertices) != nil {
		return nil, &ZoneError{Kind: ErrInvalidZoneShape, Label: label, Index: -1, Value: "zone is not an array of vertices"}
	}
	if len(vertices) < MinVertices {
		return nil, &ZoneError{Kind: ErrInvalidZoneShape, Label: label, Index: -1, Value: len(vertices)}
	}

	points := make([]models.LatLng, len(vertices))
	for i, vx := range vertices {
		var fields map[string]json.RawMessage
		if isNull(vx) || json.Unmarshal(vx, &fields) != nil {
			return nil, &ZoneError{Kind: ErrInvalidZoneShape, Label: label, Index: i, Value: "vertex is not an object"}
		}

		lat, err := number(label, i, "lat", fields)
		if err != nil {
			return nil, err
		}
		lng, err := number(label, i, "lng", fields)
		if err != nil {
			return nil, err
		}
		points[i] = models.LatLng{Lat: lat, Lng: lng}
	}
	return points, nil
}

// number extracts a JSON number. Strings, booleans, null and missing keys are
// coordinate errors.
func number(label string, index int, field string, fields map[string]json.RawMessage) (float64, error) {
	raw, ok := fields[field]
	if !ok {
		return 0, &ZoneError{Kind: ErrInvalidCoordinate, Label: label, Index: index, Field: field}
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, &ZoneError{Kind: ErrInvalidCoordinate, Label: label, Index: index, Field: field, Value: string(raw)}
	}
	f, ok := v.(float64)
	if !ok {
		return 0, &ZoneError{Kind: ErrInvalidCoordinate, Label: label, Index: index, Field: field, Value: v}
	}
	return f, nil
}

func isNull(data json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

// ValidateJSON decodes and validates zone JSON in one step
func (v *Validator) ValidateJSON(data []byte) (models.ZoneSet, error) {
	zs, err := DecodeZones(data)
	if err != nil {
		return nil, err
	}
	return v.Validate(zs)
}

// EncodeZones renders a zone set for storage. Empty sets encode as null.
func EncodeZones(zs models.ZoneSet) ([]byte, error) {
	if len(zs) == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(zs)
}
