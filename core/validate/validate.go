// Package validate provides a chainable Validator that collects field-level
// errors before returning a single apperr.ValidationError.
//
// It runs before any remote call, so a failed chain guarantees the network
// was never touched.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"delivery-admin/core/apperr"

	"github.com/shopspring/decimal"
)

// Validator collects field errors. Not safe for concurrent use.
type Validator struct {
	subject string
	errs    []apperr.FieldError
}

// New starts a chain for the named subject (e.g. "food").
func New(subject string) *Validator {
	return &Validator{subject: subject}
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen fails if the rune count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// NonNegative fails if the decimal value is below zero.
func (v *Validator) NonNegative(field string, value decimal.Decimal) *Validator {
	if value.IsNegative() {
		v.add(field, "Must not be negative")
	}
	return v
}

// ID fails unless the value is a store-assigned id (strictly positive).
func (v *Validator) ID(field string, value int64) *Validator {
	if value <= 0 {
		v.add(field, "Must be a positive id")
	}
	return v
}

// IDs fails if any value is not a positive id.
func (v *Validator) IDs(field string, values []int64) *Validator {
	for _, id := range values {
		if id <= 0 {
			v.add(field, fmt.Sprintf("Contains invalid id %d", id))
			return v
		}
	}
	return v
}

// Custom adds a failure with a custom message if failed is true.
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a *apperr.ValidationError if any rule failed, nil otherwise.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	msg := "validation failed"
	if v.subject != "" {
		msg = "invalid " + v.subject
	}
	return apperr.Validation(msg, v.errs...)
}

func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}
