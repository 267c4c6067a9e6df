package geo

import (
	"math"
	"testing"

	"recreo/errs"
)

func TestParsePoint(t *testing.T) {
	tests := []struct {
		name     string
		lng, lat string
		want     Point
		wantErr  bool
	}{
		{"valid", "15.649", "46.5568", Point{Lng: 15.649, Lat: 46.5568}, false},
		{"negative", "-73.98", "40.75", Point{Lng: -73.98, Lat: 40.75}, false},
		{"missing lng", "", "46.5", Point{}, true},
		{"missing lat", "15.6", "", Point{}, true},
		{"zero lng", "0", "46.5", Point{}, true},
		{"non numeric", "abc", "46.5", Point{}, true},
		{"nan", "NaN", "46.5", Point{}, true},
		{"lat out of range", "15.6", "91", Point{}, true},
		{"lng out of range", "181", "46.5", Point{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePoint(tt.lng, tt.lat)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePoint() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errs.Is(err, errs.KindValidation) {
				t.Errorf("error kind = %v, want validation", errs.KindOf(err))
			}
			if got != tt.want {
				t.Errorf("ParsePoint() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMissingPointMessage(t *testing.T) {
	_, err := ParsePoint("", "")
	if errs.Message(err) != MissingPointMsg {
		t.Errorf("message = %q", errs.Message(err))
	}
}

func TestDistance(t *testing.T) {
	maribor := Point{Lng: 15.6459, Lat: 46.5547}
	ljubljana := Point{Lng: 14.5058, Lat: 46.0569}

	d := Distance(maribor, ljubljana)
	// roughly 103 km apart
	if d < 100000 || d > 106000 {
		t.Errorf("Distance() = %.0f m, want about 103 km", d)
	}
	if Distance(maribor, maribor) != 0 {
		t.Error("distance to self should be zero")
	}
	if math.Abs(Distance(maribor, ljubljana)-Distance(ljubljana, maribor)) > 1e-6 {
		t.Error("distance should be symmetric")
	}
}

func TestFromCoordinates(t *testing.T) {
	if _, ok := FromCoordinates([]float64{1}); ok {
		t.Error("single value should be rejected")
	}
	if _, ok := FromCoordinates([]float64{1, math.NaN()}); ok {
		t.Error("NaN should be rejected")
	}
	p, ok := FromCoordinates([]float64{15.6, 46.5})
	if !ok || p.Lng != 15.6 || p.Lat != 46.5 {
		t.Errorf("FromCoordinates() = %+v, %v", p, ok)
	}
}
