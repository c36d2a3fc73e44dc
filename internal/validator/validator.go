// Package validator provides a Validator type for accumulating
// field-level validation errors, backed by go-playground/validator struct tags.
package validator

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	playground "github.com/go-playground/validator/v10"
)

var (
	structValidator *playground.Validate
	structOnce      sync.Once
)

// engine returns the shared struct validator. Field names in errors are
// taken from json tags so they match what clients send.
func engine() *playground.Validate {
	structOnce.Do(func() {
		structValidator = playground.New(playground.WithRequiredStructEnabled())
		structValidator.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})
	return structValidator
}

// Validator holds a map of field names to their validation error messages.
// A Validator with an empty Errors map is considered valid.
type Validator struct {
	Errors map[string]string
	order  []string
}

// New creates and returns a fresh, empty Validator.
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid returns true if the Errors map contains no entries.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records key as failing with the given message.
// If key already has an error it is not overwritten, so the first
// failure for a field is always the one that is reported.
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
		v.order = append(v.order, key)
	}
}

// Check adds an error for key with message only when ok is false.
//
//	v.Check(title != "", "title", "must be provided")
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// Message returns the first recorded error message, or "" when valid.
func (v *Validator) Message() string {
	if len(v.order) == 0 {
		return ""
	}
	return v.Errors[v.order[0]]
}

// Struct validates s against its `validate` tags and records one error per
// failing field. messages maps a json field name to the message to record;
// fields missing from messages get a generic message derived from the tag.
func (v *Validator) Struct(s any, messages map[string]string) {
	err := engine().Struct(s)
	if err == nil {
		return
	}

	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		v.AddError("_", err.Error())
		return
	}

	for _, fe := range fieldErrs {
		msg, ok := messages[fe.Field()]
		if !ok {
			msg = tagMessage(fe)
		}
		v.AddError(fe.Field(), msg)
	}
}

func tagMessage(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}

// In returns true if value is present in the list slice.
func In(value string, list ...string) bool {
	for _, item := range list {
		if value == item {
			return true
		}
	}
	return false
}
