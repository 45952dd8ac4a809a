// Package validate holds the input rules used by the prompts and the todo
// service. Everything here is free of I/O.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/idilsaglam/toodoo/internal/apperror"
)

var (
	// letters, digits, underscore; at least one
	wordRe = regexp.MustCompile(`^\w+$`)
	// MM/DD/YYYY with MM 01-12, DD 01-31, YYYY 1900-2099
	dueRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/(0[1-9]|1\d|2\d|3[01])/(19|20)\d{2}$`)
)

// Validator wraps go-playground/validator with the app's custom tags.
type Validator struct {
	v *validator.Validate
}

// New returns a validator that knows the "word" and "notblank" tags.
// Errors name fields by their toml or json key.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"toml", "json"} {
			name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	_ = v.RegisterValidation("word", func(fl validator.FieldLevel) bool {
		return wordRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return &Validator{v: v}
}

// Struct validates a record using its `validate` tags.
func (v *Validator) Struct(s any) error {
	if err := v.v.Struct(s); err != nil {
		return formatError(err)
	}
	return nil
}

// Var validates one value against a tag list, naming it field in the error.
func (v *Validator) Var(field string, value any, tags string) error {
	if err := v.v.Var(value, tags); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return apperror.ValidationFailed(field, field+" "+friendlyMessage(verrs[0]))
		}
		return err
	}
	return nil
}

func formatError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	e := verrs[0]
	field := strings.ToLower(e.Field())
	return apperror.ValidationFailed(field, field+" "+friendlyMessage(e))
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_if", "notblank":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(e.Param(), " ", ", ")
	case "word":
		return "may only contain letters, digits and underscores"
	default:
		return "is invalid"
	}
}

var std = New()

// UserName is the check used by the sign-up prompt.
func UserName(s string) error {
	return std.Var("name", s, "required,word")
}

// Required returns a check rejecting blank input for the named field.
func Required(field string) func(string) error {
	return func(s string) error {
		return std.Var(field, s, "required,notblank")
	}
}

// ParseDueDate reads MM/DD/YYYY. Any other input, including "", yields
// ok == false and means "no due date". Day overflow is normalised forward,
// so 02/30/2024 becomes 2024-03-01.
func ParseDueDate(s string) (due time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if !dueRe.MatchString(s) {
		return time.Time{}, false
	}
	var m, d, y int
	if _, err := fmt.Sscanf(s, "%d/%d/%d", &m, &d, &y); err != nil {
		return time.Time{}, false
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC), true
}

// Confirm accepts exactly one character out of allowed.
func Confirm(s, allowed string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, apperror.ValidationFailed("answer", "please answer with one of: "+spell(allowed))
	}
	r, _ := utf8.DecodeRuneInString(s)
	if !strings.ContainsRune(allowed, r) {
		return 0, apperror.ValidationFailed("answer", "please answer with one of: "+spell(allowed))
	}
	return r, nil
}

func spell(allowed string) string {
	parts := make([]string, 0, len(allowed))
	for _, r := range allowed {
		parts = append(parts, string(r))
	}
	return strings.Join(parts, "/")
}
