package zones

import (
	"errors"
	"reflect"
	"testing"

	"github.com/sarcoord/rescue-backend-go/internal/models"
)

func TestDecodeZones(t *testing.T) {
	data := []byte(`{"zone25":[{"lat":47.5,"lng":19},{"lat":47.51,"lng":19.02},{"lat":47.5,"lng":19.03}]}`)

	zs, err := DecodeZones(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := models.ZoneSet{"zone25": smallTriangle}
	if !reflect.DeepEqual(zs, want) {
		t.Errorf("DecodeZones() = %v, want %v", zs, want)
	}
}

func TestDecodeZones_Null(t *testing.T) {
	zs, err := DecodeZones([]byte("null"))
	if err != nil || len(zs) != 0 {
		t.Errorf("DecodeZones(null) = %v, %v", zs, err)
	}
}

func TestDecodeZones_Errors(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		kind  error
		label string
		field string
	}{
		{"malformed json", `{"zone25": [`, ErrInvalidZoneShape, "", ""},
		{"top level array", `[1,2,3]`, ErrInvalidZoneShape, "", ""},
		{"zone is a string", `{"zone1":"description"}`, ErrInvalidZoneShape, "zone1", ""},
		{"zone is null", `{"zone25":null}`, ErrInvalidZoneShape, "zone25", ""},
		{"two vertices", `{"zone25":[{"lat":1,"lng":1},{"lat":2,"lng":2}]}`, ErrInvalidZoneShape, "zone25", ""},
		{"vertex is a pair", `{"zone25":[[1,1],[2,2],[3,3]]}`, ErrInvalidZoneShape, "zone25", ""},
		{"string latitude", `{"zone50":[{"lat":"47.5","lng":1},{"lat":1,"lng":1},{"lat":2,"lng":2}]}`, ErrInvalidCoordinate, "zone50", "lat"},
		{"null longitude", `{"zone50":[{"lat":1,"lng":1},{"lat":1,"lng":null},{"lat":2,"lng":2}]}`, ErrInvalidCoordinate, "zone50", "lng"},
		{"missing longitude", `{"zone50":[{"lat":1,"lng":1},{"lat":1,"lng":1},{"lat":2}]}`, ErrInvalidCoordinate, "zone50", "lng"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeZones([]byte(tt.data))
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
			var ze *ZoneError
			if !errors.As(err, &ze) {
				t.Fatalf("expected *ZoneError, got %T", err)
			}
			if ze.Label != tt.label || ze.Field != tt.field {
				t.Errorf("label/field = %q/%q, want %q/%q", ze.Label, ze.Field, tt.label, tt.field)
			}
		})
	}
}

func TestValidateJSON(t *testing.T) {
	v := New(DefaultConfig())

	if _, err := v.ValidateJSON([]byte(`{"zone95":[{"lat":0,"lng":0},{"lat":0,"lng":2},{"lat":2,"lng":2},{"lat":2,"lng":0}]}`)); !errors.Is(err, ErrZoneTooLarge) {
		t.Errorf("expected ErrZoneTooLarge, got %v", err)
	}
	if _, err := v.ValidateJSON([]byte(`{"zone25":[{"lat":95,"lng":0},{"lat":0,"lng":0},{"lat":0,"lng":1}]}`)); !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate, got %v", err)
	}
}

func TestEncodeZones_RoundTrip(t *testing.T) {
	zs := models.ZoneSet{"zone25": smallTriangle}

	data, err := EncodeZones(zs)
	if err != nil {
		t.Fatalf("EncodeZones: %v", err)
	}
	back, err := DecodeZones(data)
	if err != nil {
		t.Fatalf("DecodeZones: %v", err)
	}
	if !reflect.DeepEqual(back, zs) {
		t.Errorf("round trip = %v, want %v", back, zs)
	}

	if data, _ := EncodeZones(nil); string(data) != "null" {
		t.Errorf("EncodeZones(nil) = %s", data)
	}
}
