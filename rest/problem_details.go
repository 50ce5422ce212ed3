// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/z5labs/sieve"
)

// ProblemDetail is the body of every error response, as described by
// [RFC 7807]. Errors returned from a [Handler] which embed it are written
// unchanged, extension fields included:
//
//	type OutOfStockError struct {
//	    rest.ProblemDetail
//	    Sku string `json:"sku"`
//	}
//
// [RFC 7807]: https://www.rfc-editor.org/rfc/rfc7807
type ProblemDetail struct {
	// Type identifies the kind of problem, "about:blank" for plain HTTP statuses.
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// Error implements the error interface.
func (p ProblemDetail) Error() string {
	if p.Detail == "" {
		return p.Title
	}
	return p.Detail
}

type problemDetailMarker interface {
	error

	statusCode() int
}

func (p ProblemDetail) statusCode() int {
	return p.Status
}

// ProblemDetailsErrorHandler is the default [ErrorHandler] of every [Operation].
//
// Errors embedding [ProblemDetail] are written as application/problem+json
// with their own status. Errors implementing [HttpResponseWriter] write
// themselves. Anything else is hidden behind a generic 500 problem.
type ProblemDetailsErrorHandler struct {
	defaultType string
	log         *slog.Logger
}

// ProblemDetailsOption configures a [ProblemDetailsErrorHandler].
type ProblemDetailsOption func(*ProblemDetailsErrorHandler)

// WithDefaultType sets the type of the generic 500 problem.
func WithDefaultType(uri string) ProblemDetailsOption {
	return func(h *ProblemDetailsErrorHandler) {
		h.defaultType = uri
	}
}

func NewProblemDetailsErrorHandler(opts ...ProblemDetailsOption) *ProblemDetailsErrorHandler {
	h := &ProblemDetailsErrorHandler{
		defaultType: "about:blank",
		log:         sieve.Logger("github.com/z5labs/sieve/rest"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// OnError implements the [ErrorHandler] interface.
// Problem details and [HttpResponseWriter]s are found anywhere in the
// chain of err.
func (h *ProblemDetailsErrorHandler) OnError(ctx context.Context, w http.ResponseWriter, err error) {
	var pd problemDetailMarker
	if errors.As(err, &pd) {
		h.logError(ctx, pd.statusCode(), err)
		h.write(ctx, w, pd.statusCode(), pd)
		return
	}

	var hrw HttpResponseWriter
	if errors.As(err, &hrw) {
		h.logError(ctx, 0, err)
		hrw.WriteHttpResponse(ctx, w)
		return
	}

	h.logError(ctx, http.StatusInternalServerError, err)

	internal := problem(http.StatusInternalServerError, "Internal Server Error", internalErrorDetail)
	internal.Type = h.defaultType
	h.write(ctx, w, internal.Status, internal)
}

// 4xx problems are logged at info, everything else at error.
func (h *ProblemDetailsErrorHandler) logError(ctx context.Context, status int, err error) {
	level := slog.LevelError
	if status >= 400 && status < 500 {
		level = slog.LevelInfo
	}
	h.log.Log(ctx, level, "sending error response", slog.Int("status", status), slog.Any("error", err))
}

func (h *ProblemDetailsErrorHandler) write(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		h.log.ErrorContext(ctx, "failed to encode problem details", slog.Any("error", err))
	}
}
