// Package validation runs declarative per-command rule sets before any
// business logic. Rules on a field are independent: every failing rule
// reports, so an empty value can collect both "required" and "too short".
package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Patterns shared by the command rule sets.
var (
	// EmailPattern is applied on top of the validator's email check.
	EmailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	// NumericPattern constrains signup phone numbers to digits only.
	NumericPattern = regexp.MustCompile(`^\d+$`)
	// LoosePhonePattern is the update-time phone rule: digits plus
	// '+' '(' ')' '-' and spaces. Deliberately wider than NumericPattern.
	LoosePhonePattern = regexp.MustCompile(`^[\+\d\-\(\)\s]+$`)

	UppercasePattern = regexp.MustCompile(`[A-Z]`)
	LowercasePattern = regexp.MustCompile(`[a-z]`)
	DigitPattern     = regexp.MustCompile(`[0-9]`)
	SpecialPattern   = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// FieldError pairs the offending field with a human-readable message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors accumulates rule failures for one command.
type Errors []FieldError

// Join renders the failure list the way the response envelope carries it.
func (e Errors) Join() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// Validator collects rule failures for the fields of a single command.
type Validator struct {
	errs Errors
}

func New() *Validator { return &Validator{} }

// Check applies a go-playground/validator tag ("required", "min=2",
// "max=50", "email", "gt=0", …) to the value and records message on failure.
func (v *Validator) Check(field string, value any, tag, message string) *Validator {
	if err := validate.Var(value, tag); err != nil {
		v.errs = append(v.errs, FieldError{Field: field, Message: message})
	}
	return v
}

// Pattern records message when the value does not match the expression.
func (v *Validator) Pattern(field, value string, re *regexp.Regexp, message string) *Validator {
	if !re.MatchString(value) {
		v.errs = append(v.errs, FieldError{Field: field, Message: message})
	}
	return v
}

// Errors returns the accumulated failures, nil when the command is valid.
func (v *Validator) Errors() Errors {
	return v.errs
}
