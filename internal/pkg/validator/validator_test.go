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

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidCoordinate(t *testing.T) {
	if !IsValidCoordinate(-6.2, 106.8) {
		t.Errorf("IsValidCoordinate(-6.2, 106.8) = false, want true")
	}
	if IsValidCoordinate(91, 0) {
		t.Errorf("IsValidCoordinate(91, 0) = true, want false")
	}
	if IsValidCoordinate(0, -181) {
		t.Errorf("IsValidCoordinate(0, -181) = true, want false")
	}
}

type entryInput struct {
	ItemID string `json:"inventory_item_id" validate:"required"`
	Status string `json:"status" validate:"required,oneof=baik rusak hilang"`
}

type sampleRequest struct {
	Headcount int          `json:"headcount_per_day" validate:"min=1,max=8"`
	Entries   []entryInput `json:"entries" validate:"required,min=1,dive"`
	Internal  string       `json:"-"`
}

func TestStruct_Valid(t *testing.T) {
	req := sampleRequest{
		Headcount: 2,
		Entries:   []entryInput{{ItemID: "a", Status: "baik"}},
	}
	if err := Struct(req); err != nil {
		t.Errorf("Struct() = %v, want nil", err)
	}
}

func TestStruct_ReportsJSONFieldPaths(t *testing.T) {
	req := sampleRequest{
		Headcount: 9,
		Entries:   []entryInput{{ItemID: "a", Status: "bagus"}},
	}
	err := Struct(req)

	var errs ValidationErrors
	if !errors.As(err, &errs) {
		t.Fatalf("Struct() error = %T, want ValidationErrors", err)
	}
	got := errs.ToMap()
	if got["headcount_per_day"] != "headcount_per_day must be at most 8" {
		t.Errorf("headcount message = %q", got["headcount_per_day"])
	}
	if got["entries[0].status"] != "status must be one of: baik, rusak, hilang" {
		t.Errorf("status message = %q", got["entries[0].status"])
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "latitude", Message: "invalid"},
		{Field: "photo", Message: "required"},
	}
	got := errs.Error()
	want := "latitude: invalid; photo: required"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "latitude", Message: "invalid"},
		{Field: "photo", Message: "required"},
	}
	got := errs.ToMap()
	want := map[string]string{"latitude": "invalid", "photo": "required"}
	if len(got) != len(want) {
		t.Errorf("ValidationErrors.ToMap() length = %d, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ValidationErrors.ToMap()[%q] = %q, want %q", k, got[k], v)
		}
	}
}
