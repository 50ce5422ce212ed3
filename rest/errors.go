// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/z5labs/sieve/schema"

	"github.com/google/uuid"
)

const internalErrorDetail = "An internal server error occurred."

func problem(status int, title, detail string) ProblemDetail {
	return ProblemDetail{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: "urn:uuid:" + uuid.NewString(),
	}
}

// InvalidContentTypeError is returned when a request body is sent with a
// content type the operation does not accept.
type InvalidContentTypeError struct {
	ContentType string
}

func (e InvalidContentTypeError) Error() string {
	return fmt.Sprintf("invalid content type for request: %s", e.ContentType)
}

// UploadTooLargeError is returned when an uploaded file exceeds the
// maximum upload size of an operation.
type UploadTooLargeError struct {
	Field string
	Limit int64
}

func (e UploadTooLargeError) Error() string {
	return fmt.Sprintf("upload %q exceeds the limit of %d bytes", e.Field, e.Limit)
}

// FormTooLargeError is returned when the non-file values of a multipart
// form are too large or too many.
type FormTooLargeError struct {
	Reason string
}

func (e FormTooLargeError) Error() string {
	return "form too large: " + e.Reason
}

// MalformedInputError is returned when a request source cannot be parsed
// into field values at all, e.g. an invalid JSON body. No field level
// validation has happened when this error is returned.
type MalformedInputError struct {
	ProblemDetail

	Cause error `json:"-"`
}

func malformedInput(cause error) MalformedInputError {
	status := http.StatusBadRequest
	title := "Malformed Input"
	detail := "The request could not be parsed."

	var contentType InvalidContentTypeError
	if errors.As(cause, &contentType) {
		status = http.StatusUnsupportedMediaType
		title = "Unsupported Media Type"
		detail = contentType.Error()
	}

	var tooLarge UploadTooLargeError
	if errors.As(cause, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
		title = "Upload Too Large"
		detail = tooLarge.Error()
	}

	var formTooLarge FormTooLargeError
	if errors.As(cause, &formTooLarge) {
		status = http.StatusRequestEntityTooLarge
		title = "Form Too Large"
		detail = formTooLarge.Error()
	}

	return MalformedInputError{
		ProblemDetail: problem(status, title, detail),
		Cause:         cause,
	}
}

func (e MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input: %v", e.Cause)
}

// Unwrap returns the underlying cause of the malformed input.
func (e MalformedInputError) Unwrap() error {
	return e.Cause
}

// ValidationError is returned when one or more input fields failed
// validation. It carries every violation found across every input schema
// of the operation.
type ValidationError struct {
	ProblemDetail

	Violations schema.Report `json:"violations"`
}

func validationFailed(rep schema.Report) ValidationError {
	return ValidationError{
		ProblemDetail: problem(
			http.StatusUnprocessableEntity,
			"Validation Failed",
			fmt.Sprintf("%d field(s) failed validation", len(rep)),
		),
		Violations: rep,
	}
}

func (e ValidationError) Error() string {
	return e.Violations.Error()
}

// Unwrap returns the underlying [schema.Report].
func (e ValidationError) Unwrap() error {
	return e.Violations
}

// NotFoundError signals that a well formed identifier does not refer
// to a known resource.
type NotFoundError struct {
	ProblemDetail

	Resource string `json:"resource"`
	ID       any    `json:"id"`
}

// NotFound is returned by a [Handler] when the resource identified by id
// does not exist.
//
// Example:
//
//	if !exists {
//	    return nil, rest.NotFound("person", id)
//	}
func NotFound(resource string, id any) NotFoundError {
	return NotFoundError{
		ProblemDetail: problem(
			http.StatusNotFound,
			"Not Found",
			fmt.Sprintf("%s %v does not exist", resource, id),
		),
		Resource: resource,
		ID:       id,
	}
}

// HandlerError wraps an unexpected failure returned by, or a panic
// raised from, a [Handler]. Its cause is never sent to the client.
type HandlerError struct {
	ProblemDetail

	Cause error `json:"-"`
}

func handlerFailed(cause error) HandlerError {
	return HandlerError{
		ProblemDetail: problem(http.StatusInternalServerError, "Internal Server Error", internalErrorDetail),
		Cause:         cause,
	}
}

func (e HandlerError) Error() string {
	return fmt.Sprintf("handler failed: %v", e.Cause)
}

// Unwrap returns the underlying cause of the handler failure.
func (e HandlerError) Unwrap() error {
	return e.Cause
}

// ShapeError is returned when a handler produced a record which does not
// satisfy the declared output schema of its operation. It always points
// at a programming error.
type ShapeError struct {
	ProblemDetail

	Cause error `json:"-"`
}

func shapeFailed(cause error) ShapeError {
	return ShapeError{
		ProblemDetail: problem(http.StatusInternalServerError, "Internal Server Error", internalErrorDetail),
		Cause:         cause,
	}
}

func (e ShapeError) Error() string {
	return fmt.Sprintf("response shaping failed: %v", e.Cause)
}

// Unwrap returns the underlying cause of the shaping failure.
func (e ShapeError) Unwrap() error {
	return e.Cause
}
