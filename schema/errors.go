// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"fmt"
	"strings"
)

// DuplicateFieldError is returned when a schema declares the same field name twice.
type DuplicateFieldError struct {
	Schema string
	Field  string
}

// Error implements the [error] interface.
func (e DuplicateFieldError) Error() string {
	return fmt.Sprintf("schema %q: field %q declared more than once", e.Schema, e.Field)
}

// IncompatibleFieldError is returned when an extending schema redeclares
// a base field with a different [Type].
type IncompatibleFieldError struct {
	Schema   string
	Field    string
	Base     Type
	Override Type
}

// Error implements the [error] interface.
func (e IncompatibleFieldError) Error() string {
	return fmt.Sprintf(
		"schema %q: field %q redeclared as %s but base declares %s",
		e.Schema,
		e.Field,
		e.Override,
		e.Base,
	)
}

// UnsupportedConstraintError is returned when a constraint is attached
// to a field whose [Type] it cannot check.
type UnsupportedConstraintError struct {
	Schema string
	Field  string
	Rule   Rule
	Type   Type
}

// Error implements the [error] interface.
func (e UnsupportedConstraintError) Error() string {
	return fmt.Sprintf("schema %q: constraint %s can not be applied to %s field %q", e.Schema, e.Rule, e.Type, e.Field)
}

// InvalidFieldError is returned when a field descriptor is malformed.
type InvalidFieldError struct {
	Schema string
	Field  string
	Reason string
	Cause  error
}

// Error implements the [error] interface.
func (e InvalidFieldError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("schema %q: field %q: %s", e.Schema, e.Field, e.Reason)
	}
	return fmt.Sprintf("schema %q: field %q: %s: %s", e.Schema, e.Field, e.Reason, e.Cause)
}

// Unwrap returns the underlying cause, if any.
func (e InvalidFieldError) Unwrap() error {
	return e.Cause
}

// UnknownFieldError is returned when deriving a schema references a
// field the source schema does not declare.
type UnknownFieldError struct {
	Schema string
	Field  string
}

// Error implements the [error] interface.
func (e UnknownFieldError) Error() string {
	return fmt.Sprintf("schema %q: unknown field %q", e.Schema, e.Field)
}

// MissingFieldError is returned by [Shape] when a record lacks a field
// the output schema declares. It always indicates a programming error
// in the handler that produced the record.
type MissingFieldError struct {
	Schema string
	Field  string
}

// Error implements the [error] interface.
func (e MissingFieldError) Error() string {
	return fmt.Sprintf("record is missing field %q declared by output schema %q", e.Field, e.Schema)
}

// NotAnObjectError is returned by [Shape] when an object field of a
// record holds a value that is neither a [*Record] nor a map[string]any.
type NotAnObjectError struct {
	Schema string
	Field  string
}

// Error implements the [error] interface.
func (e NotAnObjectError) Error() string {
	return fmt.Sprintf("record field %q of output schema %q is not an object", e.Field, e.Schema)
}

// Violation describes a single failed check of a single field.
type Violation struct {
	Field    string `json:"field"`
	Location Source `json:"location"`
	Kind     Rule   `json:"kind"`
	Message  string `json:"message"`
}

// Report is the ordered list of every [Violation] found while validating.
// A nil or empty Report means validation succeeded.
type Report []Violation

// Error implements the [error] interface.
func (r Report) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation error(s)", len(r))
	for _, v := range r {
		fmt.Fprintf(&sb, "; %s (%s): %s", v.Field, v.Location, v.Message)
	}
	return sb.String()
}

func (r *Report) add(field string, loc Source, kind Rule, msg string) {
	*r = append(*r, Violation{
		Field:    field,
		Location: loc,
		Kind:     kind,
		Message:  msg,
	})
}
