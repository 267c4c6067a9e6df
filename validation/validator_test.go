package validation

import (
	"strings"
	"testing"

	"recreo/errs"
)

type sample struct {
	Email  string `validate:"required,email"`
	Rating int    `validate:"required,min=1,max=5"`
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		in      sample
		wantErr bool
	}{
		{"valid", sample{Email: "a@b.si", Rating: 4}, false},
		{"missing email", sample{Rating: 4}, true},
		{"bad email", sample{Email: "nope", Rating: 4}, true},
		{"rating too high", sample{Email: "a@b.si", Rating: 6}, true},
		{"rating missing", sample{Email: "a@b.si"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(&tt.in, "All fields required.")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Check() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errs.Is(err, errs.KindValidation) {
					t.Errorf("kind = %v, want validation", errs.KindOf(err))
				}
				if errs.Message(err) != "All fields required." {
					t.Errorf("message = %q", errs.Message(err))
				}
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	err := Validator().Struct(&sample{Email: "x", Rating: 9})
	got := Describe(err)
	if !strings.Contains(got, "Email: must be a valid email address") {
		t.Errorf("Describe() = %q", got)
	}
	if !strings.Contains(got, "Rating: must be at most 5") {
		t.Errorf("Describe() = %q", got)
	}
}

func TestVar(t *testing.T) {
	if !Var("user@example.com", "email") {
		t.Error("expected valid email")
	}
	if Var("user@", "email") {
		t.Error("expected invalid email")
	}
}
