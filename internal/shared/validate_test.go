package shared

import (
	"errors"
	"strings"
	"testing"
)

type validatedPayload struct {
	Email *string `json:"email" validate:"required"`
	Name  *string `json:"name" validate:"required,max=10"`
}

func TestValidate(t *testing.T) {
	if err := Validate(validatedPayload{Email: Ptr("a@b.c"), Name: Ptr("")}); err != nil {
		t.Errorf("expected empty name to pass required on pointer, got %v", err)
	}

	err := Validate(validatedPayload{})
	if !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
	if !strings.Contains(err.Error(), "Email") {
		t.Errorf("expected message to name the field, got %q", err.Error())
	}

	err = Validate(validatedPayload{Email: Ptr("a@b.c"), Name: Ptr("far too long name")})
	if !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("expected ErrInvalidPayload for max rule, got %v", err)
	}
}

func TestIsEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"newUser@example.org", true},
		{"New@Example.org", true},
		{"not-an-email", false},
		{"", false},
		{"a@", false},
	}

	for _, tt := range tests {
		if got := IsEmail(tt.in); got != tt.want {
			t.Errorf("IsEmail(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
