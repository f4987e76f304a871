// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

// Package validation wraps go-playground/validator for davrep's config and
// gateway requests. It registers the "davpath" rule for replicated resource
// paths and renders failures as VALIDATION_ERROR bodies:
//
//	type transferRequest struct {
//	    Op string `validate:"required,oneof=copy move"`
//	    To string `validate:"required,davpath"`
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// CodeValidation is the gateway error code for rejected input.
const CodeValidation = "VALIDATION_ERROR"

var getValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Only an empty tag or nil func makes this fail.
	if err := v.RegisterValidation("davpath", func(fl validator.FieldLevel) bool {
		return IsDavPath(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
})

// GetValidator returns the shared validator with davrep's rules registered.
func GetValidator() *validator.Validate { return getValidator() }

// IsDavPath reports whether p names a resource below the server root: not
// the root itself, free of "." and ".." segments and of control characters.
func IsDavPath(p string) bool {
	if strings.Trim(p, "/") == "" {
		return false
	}
	if strings.IndexFunc(p, unicode.IsControl) >= 0 {
		return false
	}
	for seg := range strings.SplitSeq(p, "/") {
		if seg == "." || seg == ".." {
			return false
		}
	}
	return true
}

// FieldError is one failed rule.
type FieldError struct {
	Field   string // namespaced below the top-level struct, e.g. "Servers[0]"
	Tag     string
	Param   string
	Value   any
	Message string
}

func (e FieldError) Error() string { return e.Message }

// Errors collects every failed rule of one ValidateStruct call.
type Errors []FieldError

func (es Errors) Error() string {
	if len(es) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// APIError is the body the gateway renders for a validation failure.
type APIError struct {
	Code    string
	Message string
	Details map[string]any
}

// ToAPIError renders es. A single failure keeps its plain message; several
// are prefixed with their field and listed under details.fields.
func (es Errors) ToAPIError() *APIError {
	switch len(es) {
	case 0:
		return &APIError{Code: CodeValidation, Message: "Validation failed"}
	case 1:
		return &APIError{
			Code:    CodeValidation,
			Message: es[0].Message,
			Details: map[string]any{"field": es[0].Field, "tag": es[0].Tag, "value": es[0].Value},
		}
	}
	fields := make([]map[string]any, len(es))
	msgs := make([]string, len(es))
	for i, e := range es {
		fields[i] = map[string]any{"field": e.Field, "tag": e.Tag, "message": e.Message}
		msgs[i] = e.Field + ": " + e.Message
	}
	return &APIError{
		Code:    CodeValidation,
		Message: strings.Join(msgs, "; "),
		Details: map[string]any{"fields": fields},
	}
}

// ValidateStruct checks s against its validate tags. It returns nil when s
// is valid.
func ValidateStruct(s any) Errors {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Errors{{Field: "unknown", Tag: "unknown", Message: err.Error()}}
	}
	out := make(Errors, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = FieldError{
			Field:   fieldPath(fe),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			Message: message(fe),
		}
	}
	return out
}

// fieldPath drops the top-level struct name from the namespace, so nested
// config fields read "Gateway.Auth.Mode".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	f, p := fieldPath(fe), fe.Param()
	switch fe.Tag() {
	case "required":
		return f + " is required"
	case "url":
		return f + " must be a valid URL"
	case "davpath":
		return f + " must be a resource path without . or .. segments"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", f, p)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", f, p)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", f, p)
	case "lt":
		return fmt.Sprintf("%s must be less than %s", f, p)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", f, p)
	case "min", "max":
		bound := "at least"
		if fe.Tag() == "max" {
			bound = "at most"
		}
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("%s must be %s %s characters", f, bound, p)
		case reflect.Slice, reflect.Map:
			return fmt.Sprintf("%s must contain %s %s entries", f, bound, p)
		default:
			return fmt.Sprintf("%s must be %s %s", f, bound, p)
		}
	}
	return fmt.Sprintf("%s failed %s validation", f, fe.Tag())
}
