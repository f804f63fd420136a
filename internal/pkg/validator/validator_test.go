package validator

import (
	"errors"
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B",
	}
	invalid := []string{
		"123e4567-e89b-12d3-a456-426614174000",
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"",
	}
	for _, uuid := range valid {
		if !IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = false, want true", uuid)
		}
	}
	for _, uuid := range invalid {
		if IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = true, want false", uuid)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"2024-01-02", true},
		{"2024-02-30", false},
		{"02-01-2024", false},
		{"", false},
	}
	for _, c := range cases {
		_, got := IsValidDate(c.input)
		if got != c.want {
			t.Errorf("IsValidDate(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidTimeOfDay(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"08:00", true},
		{"23:59", true},
		{"24:00", false},
		{"8:00", false},
		{"08:60", false},
		{"", false},
	}
	for _, c := range cases {
		got := IsValidTimeOfDay(c.input)
		if got != c.want {
			t.Errorf("IsValidTimeOfDay(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

type sampleRequest struct {
	Type  string  `json:"type" validate:"required,oneof=IN OUT"`
	Date  string  `json:"date" validate:"required,date"`
	Start *string `json:"start" validate:"omitempty,timeofday"`
	Count int     `json:"count" validate:"gte=0,lte=10"`
}

func TestValidateStruct(t *testing.T) {
	start := "08:00"
	ok := sampleRequest{Type: "IN", Date: "2024-01-02", Start: &start, Count: 3}
	if errs := ValidateStruct(ok); len(errs) != 0 {
		t.Fatalf("ValidateStruct(valid) = %v, want no errors", errs)
	}

	bad := "8am"
	errs := ValidateStruct(sampleRequest{Type: "LUNCH", Date: "yesterday", Start: &bad, Count: 11})
	got := errs.ToMap()
	for _, field := range []string{"type", "date", "start", "count"} {
		if _, found := got[field]; !found {
			t.Errorf("expected an error for field %q, got %v", field, got)
		}
	}
	if got["type"] != "type must be one of: IN, OUT" {
		t.Errorf("unexpected message for type: %q", got["type"])
	}
}

func TestValidationErrorsErr(t *testing.T) {
	var errs ValidationErrors
	if errs.Err() != nil {
		t.Fatal("empty ValidationErrors must convert to a nil error")
	}

	errs.Add("date", "date is required")
	var target ValidationErrors
	if !errors.As(errs.Err(), &target) {
		t.Fatal("Err() must be matchable as ValidationErrors")
	}
	if target.Error() != "date: date is required" {
		t.Errorf("Error() = %q", target.Error())
	}
}
