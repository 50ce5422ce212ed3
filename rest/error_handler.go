// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"net/http"
)

// HttpResponseWriter is implemented by errors which render their own response
// instead of a problem detail.
type HttpResponseWriter interface {
	WriteHttpResponse(context.Context, http.ResponseWriter)
}

// ErrorHandler writes the response of a request which failed at any stage
// of an [Operation]. The error is one of [MalformedInputError],
// [ValidationError], [HandlerError], [ShapeError] or the error the
// [Handler] returned when it embeds [ProblemDetail] or implements
// [HttpResponseWriter].
type ErrorHandler interface {
	OnError(context.Context, http.ResponseWriter, error)
}

type ErrorHandlerFunc func(context.Context, http.ResponseWriter, error)

// OnError implements the [ErrorHandler] interface.
func (f ErrorHandlerFunc) OnError(ctx context.Context, w http.ResponseWriter, err error) {
	f(ctx, w, err)
}
