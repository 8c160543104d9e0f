package auth

import (
	"errors"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	cases := []struct {
		email string
		valid bool
	}{
		{"amara@example.com", true},
		{"first.last+tag@sub.example.org", true},
		{"", false},
		{"no-at-sign", false},
		{"two@@example.com", false},
		{"spaces in@example.com", false},
		{"missing-domain@", false},
		{"missing-tld@example", false},
	}
	for _, tc := range cases {
		err := ValidateEmail(tc.email)
		if tc.valid && err != nil {
			t.Errorf("ValidateEmail(%q) = %v, want nil", tc.email, err)
		}
		if !tc.valid && err == nil {
			t.Errorf("ValidateEmail(%q) = nil, want error", tc.email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		password string
		valid    bool
	}{
		{"abc123", true},
		{"1a2b3c4d", true},
		{"", false},
		{"a1", false},
		{"abcdef", false},
		{"123456", false},
	}
	for _, tc := range cases {
		err := ValidatePassword(tc.password)
		if tc.valid && err != nil {
			t.Errorf("ValidatePassword(%q) = %v, want nil", tc.password, err)
		}
		if !tc.valid && err == nil {
			t.Errorf("ValidatePassword(%q) = nil, want error", tc.password)
		}
	}
}

func TestValidateName(t *testing.T) {
	if err := ValidateName("Jo", "First name"); err != nil {
		t.Fatalf("two characters must pass: %v", err)
	}
	if err := ValidateName("  J  ", "First name"); err == nil {
		t.Fatal("single trimmed character must fail")
	}
	if err := ValidateName("   ", "Last name"); err == nil {
		t.Fatal("whitespace-only name must fail")
	}
}

func TestValidateSignup_StopsAtFirstFailure(t *testing.T) {
	err := ValidateSignup(SignupRequest{
		FirstName: "",
		LastName:  "",
		Email:     "bad",
		Password:  "bad",
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a ValidationError, got %v", err)
	}
	if verr.Field != "First name" {
		t.Fatalf("expected the first failing field, got %q", verr.Field)
	}
}

func TestValidateSignup_ValidRequest(t *testing.T) {
	err := ValidateSignup(SignupRequest{
		FirstName: "Amara",
		LastName:  "Okafor",
		Email:     "amara@example.com",
		Password:  "secret1",
	})
	if err != nil {
		t.Fatalf("valid signup rejected: %v", err)
	}
}
