package validation

import (
	"testing"
)

type compareBody struct {
	IDs []string `validate:"required,min=2,max=4,dive,required"`
}

func TestFormatValidationErrors(t *testing.T) {
	v := NewValidator()

	err := v.ValidateStruct(compareBody{})
	if err == nil {
		t.Fatal("empty body must fail validation")
	}
	fields := FormatValidationErrors(err)
	if msg, ok := fields["ids"]; !ok || msg == "" {
		t.Fatalf("fields = %v, want an ids message", fields)
	}

	err = v.ValidateStruct(compareBody{IDs: []string{"only-one"}})
	fields = FormatValidationErrors(err)
	if msg := fields["ids"]; msg == "" {
		t.Fatalf("min violation not formatted: %v", fields)
	}
}

func TestFormatValidationErrorsNonValidatorError(t *testing.T) {
	fields := FormatValidationErrors(errYes{})
	if len(fields) != 0 {
		t.Fatalf("plain errors must format to an empty map, got %v", fields)
	}
}

type errYes struct{}

func (errYes) Error() string { return "some other failure" }

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  Doha\x00 "); got != "Doha" {
		t.Errorf("got %q", got)
	}
}
