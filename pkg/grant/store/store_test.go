package store

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestPersonFieldsRequiresRequestAndName(t *testing.T) {
	for _, p := range []*Person{
		{Name: "Someone"},
		{RequestID: 7},
		{},
	} {
		if _, err := p.Fields(false); !errors.Is(err, ErrIncompletePerson) {
			t.Errorf("Fields(%+v) error = %v, want ErrIncompletePerson", p, err)
		}
	}
}

func TestPersonFieldsSparse(t *testing.T) {
	p := &Person{
		RequestID: 7,
		Name:      "Someone",
		Email:     "s@uemf.org",
	}
	fields, err := p.Fields(false)
	if err != nil {
		t.Fatalf("Fields() error = %v", err)
	}

	want := []string{"request_id", "name", "email_address"}
	if got := fields.Columns(); !reflect.DeepEqual(got, want) {
		t.Errorf("Columns() = %v, want %v", got, want)
	}
}

func TestPersonFieldsIncludeEmpty(t *testing.T) {
	availability := int16(0)
	p := &Person{
		RequestID:    7,
		Name:         "Someone",
		Availability: &availability,
	}
	fields, err := p.Fields(true)
	if err != nil {
		t.Fatalf("Fields() error = %v", err)
	}

	for _, col := range []string{"email_address", "era_id", "project_role", "effort", "annual_fee"} {
		if got := fields.Value(col); got != "" {
			t.Errorf("%s = %v, want empty placeholder", col, got)
		}
	}
	// A recorded availability is never replaced by the placeholder.
	if got := fields.Value("availability"); got != int16(0) {
		t.Errorf("availability = %v, want recorded 0", got)
	}
}

func TestPersonFieldsIncludeEmptyAvailabilityDefault(t *testing.T) {
	p := &Person{RequestID: 7, Name: "Someone"}
	fields, err := p.Fields(true)
	if err != nil {
		t.Fatalf("Fields() error = %v", err)
	}
	if got := fields.Value("availability"); got != int16(1) {
		t.Errorf("availability = %v, want default 1", got)
	}
}

func TestSetEraID(t *testing.T) {
	p := &Person{}
	if err := p.SetEraID("ERA1234567890"); err != nil {
		t.Errorf("SetEraID() error = %v", err)
	}
	if p.EraID != "ERA1234567890" {
		t.Errorf("EraID = %q", p.EraID)
	}

	if err := p.SetEraID(strings.Repeat("x", 21)); err == nil {
		t.Error("overlong era id should be rejected")
	}
	if p.EraID != "ERA1234567890" {
		t.Error("rejected era id must not overwrite the previous value")
	}
}

func TestWriteErrorMessages(t *testing.T) {
	e := &WriteError{Op: "insert person"}
	if got := e.Error(); got != "insert person: affected row count was not 1" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := &WriteError{Op: "insert person", Err: errors.New("boom")}
	if got := wrapped.Error(); got != "insert person: boom" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(wrapped, wrapped.Err) {
		t.Error("WriteError should unwrap to its cause")
	}
}
