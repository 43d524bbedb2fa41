package validate

import "regexp"

// pricePattern accepts whole amounts or amounts with exactly two decimal
// places (1, 1.99, 10.00, but not 1.9).
var pricePattern = regexp.MustCompile(`^\d+(\.\d{2})?$`)

// Recipe carries the raw recipe form fields. Image is the original upload
// filename, present only so requiredness can be reported alongside the
// other fields.
type Recipe struct {
	Title       string
	Recipe      string
	Ingredients string
	Price       string
	Image       string
}

// Validate checks requiredness and the price format, accumulating all
// violations.
func (r Recipe) Validate() FieldErrors {
	errs := make(FieldErrors)

	if r.Title == "" {
		errs.add("title", "This field is required.")
	}
	if r.Recipe == "" {
		errs.add("recipe", "This field is required.")
	}
	if r.Ingredients == "" {
		errs.add("ingredients", "This field is required.")
	}
	if r.Image == "" {
		errs.add("image", "file field should not be empty")
	}

	if r.Price == "" {
		errs.add("price", "This field is required.")
	} else if !pricePattern.MatchString(r.Price) {
		errs.add("price", "Price must be in the proper format e.g. (1, 1.99, 10.00)")
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Price reports whether the value matches the accepted price format.
// Used by partial edits where an empty value means "leave unchanged".
func Price(value string) bool {
	return pricePattern.MatchString(value)
}
