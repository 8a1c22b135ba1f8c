package zones

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/sarcoord/rescue-backend-go/internal/models"
)

var smallTriangle = []models.LatLng{
	{Lat: 47.50, Lng: 19.00},
	{Lat: 47.51, Lng: 19.02},
	{Lat: 47.50, Lng: 19.03},
}

func TestValidate_RoundTrip(t *testing.T) {
	in := models.ZoneSet{"zone25": smallTriangle}

	out, err := ValidateZones(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("output %v differs from input %v", out, in)
	}

	out["zone25"][0].Lat = 0
	if in["zone25"][0].Lat != 47.50 {
		t.Error("output shares vertex storage with the input")
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		zones models.ZoneSet
		kind  error
		label string
		index int
	}{
		{
			name:  "two points",
			zones: models.ZoneSet{"zone50": {{Lat: 1, Lng: 1}, {Lat: 1, Lng: 2}}},
			kind:  ErrInvalidZoneShape,
			label: "zone50",
			index: -1,
		},
		{
			name:  "empty zone",
			zones: models.ZoneSet{"zone50": {}},
			kind:  ErrInvalidZoneShape,
			label: "zone50",
			index: -1,
		},
		{
			name:  "latitude 95",
			zones: models.ZoneSet{"zone75": {{Lat: 0, Lng: 0}, {Lat: 95, Lng: 0.01}, {Lat: 0, Lng: 0.01}}},
			kind:  ErrInvalidCoordinate,
			label: "zone75",
			index: 1,
		},
		{
			name:  "longitude out of range on the last vertex",
			zones: models.ZoneSet{"zone95": {{Lat: 0, Lng: 0}, {Lat: 0.01, Lng: 0}, {Lat: 0, Lng: 181}}},
			kind:  ErrInvalidCoordinate,
			label: "zone95",
			index: 2,
		},
		{
			name:  "NaN latitude",
			zones: models.ZoneSet{"zone25": {{Lat: math.NaN(), Lng: 0}, {Lat: 0.01, Lng: 0}, {Lat: 0, Lng: 0.01}}},
			kind:  ErrInvalidCoordinate,
			label: "zone25",
			index: 0,
		},
		{
			name:  "two degree square",
			zones: models.ZoneSet{"zone95": {{Lat: 0, Lng: 0}, {Lat: 0, Lng: 2}, {Lat: 2, Lng: 2}, {Lat: 2, Lng: 0}}},
			kind:  ErrZoneTooLarge,
			label: "zone95",
			index: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ValidateZones(tt.zones)
			if out != nil {
				t.Errorf("expected nil output on failure, got %v", out)
			}
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}

			var ze *ZoneError
			if !errors.As(err, &ze) {
				t.Fatalf("expected *ZoneError, got %T", err)
			}
			if ze.Label != tt.label || ze.Index != tt.index {
				t.Errorf("label/index = %q/%d, want %q/%d", ze.Label, ze.Index, tt.label, tt.index)
			}
		})
	}
}

func TestValidate_TooLargeCarriesArea(t *testing.T) {
	square := models.ZoneSet{"zone95": {{Lat: 0, Lng: 0}, {Lat: 0, Lng: 2}, {Lat: 2, Lng: 2}, {Lat: 2, Lng: 0}}}

	_, err := ValidateZones(square)
	var ze *ZoneError
	if !errors.As(err, &ze) {
		t.Fatalf("expected *ZoneError, got %v", err)
	}

	want := 4 * 111.32 * 111.32
	if math.Abs(ze.AreaKm2-want) > 1e-6 {
		t.Errorf("AreaKm2 = %v, want %v", ze.AreaKm2, want)
	}
	if ze.LimitKm2 != DefaultMaxAreaKm2 {
		t.Errorf("LimitKm2 = %v", ze.LimitKm2)
	}

	d := ze.Details()
	if d["kind"] != "ZoneTooLarge" || d["label"] != "zone95" {
		t.Errorf("Details() = %v", d)
	}
}

func TestValidate_AllOrNothing(t *testing.T) {
	zs := models.ZoneSet{
		"zone25": smallTriangle,
		"zone50": {{Lat: 1, Lng: 1}},
		"zone95": {{Lat: 99, Lng: 0}, {Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}},
	}

	_, err := ValidateZones(zs)
	var ze *ZoneError
	if !errors.As(err, &ze) {
		t.Fatalf("expected *ZoneError, got %v", err)
	}
	// zone50 sorts before zone95 so it is always the reported failure
	if ze.Label != "zone50" || !errors.Is(err, ErrInvalidZoneShape) {
		t.Errorf("got %v", err)
	}
}

func TestValidate_Idempotent(t *testing.T) {
	zs := models.ZoneSet{"zone25": smallTriangle, "zone50": smallTriangle}
	v := New(DefaultConfig())

	first, err1 := v.Validate(zs)
	second, err2 := v.Validate(first)
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("validating twice changed the result")
	}

	bad := models.ZoneSet{"zone25": {{Lat: 1, Lng: 1}}}
	_, e1 := v.Validate(bad)
	_, e2 := v.Validate(bad)
	if e1.Error() != e2.Error() {
		t.Errorf("errors differ: %v vs %v", e1, e2)
	}
}

func TestValidate_EmptySet(t *testing.T) {
	out, err := ValidateZones(nil)
	if err != nil || out == nil || len(out) != 0 {
		t.Errorf("ValidateZones(nil) = %v, %v", out, err)
	}
}

// A right triangle whose closing edge carries area. Closed: 1e-4 deg²,
// open: 1.5e-4 deg².
var ringTriangle = []models.LatLng{
	{Lat: 0, Lng: 0.01},
	{Lat: 0.01, Lng: 0.02},
	{Lat: 0.01, Lng: 0},
}

func TestPlanarArea_ClosedRingByDefault(t *testing.T) {
	v := New(DefaultConfig())

	got := v.PlanarArea(ringTriangle)
	want := 1e-4 * 111.32 * 111.32
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("closed area = %v, want %v", got, want)
	}
}

func TestPlanarArea_LegacyOpenRing(t *testing.T) {
	v := New(Config{LegacyOpenRing: true})

	got := v.PlanarArea(ringTriangle)
	want := 1.5e-4 * 111.32 * 111.32
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("open area = %v, want %v", got, want)
	}
}

func TestValidate_RingModeChangesOutcome(t *testing.T) {
	closed := New(DefaultConfig()).PlanarArea(ringTriangle)
	open := New(Config{LegacyOpenRing: true}).PlanarArea(ringTriangle)
	limit := (closed + open) / 2
	zs := models.ZoneSet{"zone25": ringTriangle}

	if _, err := New(Config{MaxAreaKm2: limit}).Validate(zs); err != nil {
		t.Errorf("closed ring should pass a %.3f km² limit: %v", limit, err)
	}
	if _, err := New(Config{MaxAreaKm2: limit, LegacyOpenRing: true}).Validate(zs); !errors.Is(err, ErrZoneTooLarge) {
		t.Errorf("open ring should exceed a %.3f km² limit, got %v", limit, err)
	}
}

func TestMeasure(t *testing.T) {
	v := New(DefaultConfig())
	zs := models.ZoneSet{"zone50": smallTriangle, "zone25": ringTriangle}

	m := v.Measure(zs)
	if len(m) != 2 || m[0].Label != "zone25" || m[1].Label != "zone50" {
		t.Fatalf("Measure() = %+v", m)
	}
	for _, z := range m {
		if z.Vertices != 3 {
			t.Errorf("%s vertices = %d", z.Label, z.Vertices)
		}
		if z.PlanarAreaKm2 <= 0 || z.SphericalAreaKm2 <= 0 {
			t.Errorf("%s has non-positive area: %+v", z.Label, z)
		}
	}

	// near the equator the flat approximation and the sphere agree closely
	if rel := math.Abs(m[0].PlanarAreaKm2-m[0].SphericalAreaKm2) / m[0].SphericalAreaKm2; rel > 0.01 {
		t.Errorf("planar %v and spherical %v differ by %.2f%%", m[0].PlanarAreaKm2, m[0].SphericalAreaKm2, rel*100)
	}
}
