package utils

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"
)

func TestSliceHelpers(t *testing.T) {
	ids := []int64{3, 1, 3, 7}

	if got := Without(ids, 3); !reflect.DeepEqual(got, []int64{1, 7}) {
		t.Errorf("Without = %v", got)
	}
	if IndexOf(ids, 7) != 3 || IndexOf(ids, 9) != -1 {
		t.Error("IndexOf returned the wrong position")
	}
	if !Contains(ids, 1) || Contains(ids, 2) {
		t.Error("Contains is wrong")
	}
	if got := Map(ids, func(i int64) string { return fmt.Sprint(i) }); !reflect.DeepEqual(got, []string{"3", "1", "3", "7"}) {
		t.Errorf("Map = %v", got)
	}
}

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("submit: %w", NewValidation("name", "%s is required", "team name"))

	v, ok := AsValidation(err)
	if !ok {
		t.Fatal("expected a ValidationError in the chain")
	}
	if v.Field != "name" || v.Message != "team name is required" {
		t.Errorf("got %+v", v)
	}
	if _, ok := AsValidation(errors.New("plain")); ok {
		t.Error("plain error reported as validation")
	}
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2024-05-01", want: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{in: "2024-05-01T23:30:00+02:00", want: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{in: "2024-03-15T00:00:00", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{in: "2024-03-15 18:45:00", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{in: " ", wantErr: true},
		{in: "01/05/2024", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseDay(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDay(%q) error = %v", tt.in, err)
			continue
		}
		if !tt.wantErr && !got.Equal(tt.want) {
			t.Errorf("ParseDay(%q) = %v, expected %v", tt.in, got, tt.want)
		}
	}
}

func TestGenerateRandomString(t *testing.T) {
	a, err := GenerateRandomString(32)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := GenerateRandomString(32)
	if len(a) != 32 || a == b {
		t.Errorf("got %q and %q", a, b)
	}
}
