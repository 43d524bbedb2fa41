// Package validate enforces the field-level rules applied to user-submitted
// forms before any record is created.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FieldErrors maps a field name to the messages for every rule it violated.
// All rules are checked independently; validation never stops at the first
// failure.
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	var b strings.Builder
	for field, msgs := range e {
		fmt.Fprintf(&b, "%s: %s; ", field, strings.Join(msgs, ", "))
	}
	return strings.TrimSuffix(b.String(), "; ")
}

func (e FieldErrors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

// excludedChars may not appear in first or last names.
const excludedChars = "*?!'^+%&/()=}][{$#@<>"

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\d{4}-\d{3}-\d{4}$`)
)

// Registration carries the raw registration form fields.
type Registration struct {
	Email           string
	FirstName       string
	LastName        string
	Phone           string
	Password        string
	ConfirmPassword string
}

// Validate checks every rule and accumulates the violations. A nil return
// means the fields are ready for account construction; the password is
// still plaintext and must be hashed before storage.
func (r Registration) Validate() FieldErrors {
	errs := make(FieldErrors)

	if r.Email == "" {
		errs.add("email", "This field is required.")
	} else if !emailPattern.MatchString(r.Email) {
		errs.add("email", "Invalid email address.")
	}

	checkName(errs, "first_name", r.FirstName)
	checkName(errs, "last_name", r.LastName)

	if r.Phone == "" {
		errs.add("phone", "This field is required.")
	} else if !phonePattern.MatchString(r.Phone) {
		errs.add("phone", "Invalid phone number, must be in the form XXXX-XXX-XXXX")
	}

	if r.Password == "" {
		errs.add("password", "This field is required.")
	} else {
		if n := utf8.RuneCountInString(r.Password); n < 6 || n > 12 {
			errs.add("password", "Field must be between 6 and 12 characters long.")
		}
		if !passwordClasses(r.Password) {
			errs.add("password", "Must contain at least 1 digit, 1 lowercase word character, "+
				"1 uppercase word character and 1 special character")
		}
	}

	if r.ConfirmPassword == "" {
		errs.add("confirm_password", "This field is required.")
	} else if r.ConfirmPassword != r.Password {
		errs.add("confirm_password", "Both password fields must be equal!")
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func checkName(errs FieldErrors, field, value string) {
	if value == "" {
		errs.add(field, "This field is required.")
		return
	}
	for _, c := range value {
		if strings.ContainsRune(excludedChars, c) {
			errs.add(field, fmt.Sprintf("Character %c is not allowed.", c))
		}
	}
}

// passwordClasses requires a digit, a lowercase letter, an uppercase letter
// and a non-word character, each present anywhere in the password.
func passwordClasses(p string) bool {
	var digit, lower, upper, special bool
	for _, c := range p {
		switch {
		case unicode.IsDigit(c):
			digit = true
		case unicode.IsLower(c):
			lower = true
		case unicode.IsUpper(c):
			upper = true
		case c != '_':
			special = true
		}
	}
	return digit && lower && upper && special
}
