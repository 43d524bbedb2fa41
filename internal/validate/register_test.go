package validate

import (
	"strings"
	"testing"
)

func validRegistration() Registration {
	return Registration{
		Email:           "alice@example.com",
		FirstName:       "Alice",
		LastName:        "Smith",
		Phone:           "1234-567-8901",
		Password:        "Passw0rd!",
		ConfirmPassword: "Passw0rd!",
	}
}

func TestRegistrationValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Registration)
		wantOK   bool
		field    string
		contains string
	}{
		{
			name:   "valid form",
			mutate: func(r *Registration) {},
			wantOK: true,
		},
		{
			name:     "missing email",
			mutate:   func(r *Registration) { r.Email = "" },
			field:    "email",
			contains: "required",
		},
		{
			name:     "malformed email",
			mutate:   func(r *Registration) { r.Email = "alice-at-example" },
			field:    "email",
			contains: "Invalid email address",
		},
		{
			name:     "excluded character in first name",
			mutate:   func(r *Registration) { r.FirstName = "Al*ce" },
			field:    "first_name",
			contains: "Character * is not allowed.",
		},
		{
			name:     "excluded character in last name",
			mutate:   func(r *Registration) { r.LastName = "Sm<th" },
			field:    "last_name",
			contains: "Character < is not allowed.",
		},
		{
			name:     "phone grouping too short",
			mutate:   func(r *Registration) { r.Phone = "123-4567-890" },
			field:    "phone",
			contains: "XXXX-XXX-XXXX",
		},
		{
			name:     "phone with letters",
			mutate:   func(r *Registration) { r.Phone = "abcd-efg-hijk" },
			field:    "phone",
			contains: "XXXX-XXX-XXXX",
		},
		{
			name: "password too short",
			mutate: func(r *Registration) {
				r.Password = "P0d!"
				r.ConfirmPassword = "P0d!"
			},
			field:    "password",
			contains: "between 6 and 12",
		},
		{
			name: "password too long",
			mutate: func(r *Registration) {
				r.Password = "Passw0rd!Passw0rd!"
				r.ConfirmPassword = "Passw0rd!Passw0rd!"
			},
			field:    "password",
			contains: "between 6 and 12",
		},
		{
			name: "password missing digit",
			mutate: func(r *Registration) {
				r.Password = "Password!"
				r.ConfirmPassword = "Password!"
			},
			field:    "password",
			contains: "at least 1 digit",
		},
		{
			name: "password missing uppercase",
			mutate: func(r *Registration) {
				r.Password = "passw0rd!"
				r.ConfirmPassword = "passw0rd!"
			},
			field:    "password",
			contains: "at least 1 digit",
		},
		{
			name: "password missing special",
			mutate: func(r *Registration) {
				r.Password = "Passw0rd"
				r.ConfirmPassword = "Passw0rd"
			},
			field:    "password",
			contains: "special character",
		},
		{
			name: "underscore does not count as special",
			mutate: func(r *Registration) {
				r.Password = "Passw0rd_"
				r.ConfirmPassword = "Passw0rd_"
			},
			field:    "password",
			contains: "special character",
		},
		{
			name:     "mismatched confirmation",
			mutate:   func(r *Registration) { r.ConfirmPassword = "Passw0rd?" },
			field:    "confirm_password",
			contains: "Both password fields must be equal!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validRegistration()
			tt.mutate(&form)

			errs := form.Validate()
			if tt.wantOK {
				if errs != nil {
					t.Fatalf("unexpected errors: %v", errs)
				}
				return
			}

			if errs == nil {
				t.Fatal("expected errors but got none")
			}
			msgs, ok := errs[tt.field]
			if !ok {
				t.Fatalf("expected error on field %q, got %v", tt.field, errs)
			}
			if !strings.Contains(strings.Join(msgs, "; "), tt.contains) {
				t.Errorf("field %q messages %v don't contain %q", tt.field, msgs, tt.contains)
			}
		})
	}
}

func TestRegistrationValidateAccumulates(t *testing.T) {
	form := Registration{}
	errs := form.Validate()
	if errs == nil {
		t.Fatal("expected errors for an empty form")
	}

	for _, field := range []string{"email", "first_name", "last_name", "phone", "password", "confirm_password"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected error on field %q", field)
		}
	}
}

func TestRegistrationValidateMultipleExcludedChars(t *testing.T) {
	form := validRegistration()
	form.FirstName = "A$b#c"

	errs := form.Validate()
	if errs == nil {
		t.Fatal("expected errors but got none")
	}
	if got := len(errs["first_name"]); got != 2 {
		t.Errorf("got %d first_name messages, want 2: %v", got, errs["first_name"])
	}
}
