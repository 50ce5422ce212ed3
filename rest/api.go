// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/z5labs/sieve"
	"github.com/z5labs/sieve/health"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/openapi-go/openapi3"
)

// ApiOptions holds configuration values used when constructing an [Api].
type ApiOptions struct {
	mux *chi.Mux
	def *openapi3.Spec

	maxUploadBytes int64
}

// ApiOption is an interface for configuring an [Api].
//
// Common implementations include:
//   - [Operation] - registers a schema validated operation
//   - [Readiness] - configures the readiness probe
//   - [Liveness] - configures the liveness probe
//   - [NotFoundHandler] - customizes 404 handling
//   - [MethodNotAllowed] - customizes 405 handling
type ApiOption interface {
	ApplyApiOption(*ApiOptions)
}

type apiOptionFunc func(*ApiOptions)

func (f apiOptionFunc) ApplyApiOption(ao *ApiOptions) {
	f(ao)
}

// MaxUploadBytes sets the default limit on the size of a single uploaded
// file for every operation of the [Api]. Operations may override it
// with [MaxUploadSize].
func MaxUploadBytes(n int64) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.maxUploadBytes = n
	})
}

// Readiness serves GET /health/readiness backed by the given [health.Monitor].
// Readiness probes indicate whether the application is ready to serve traffic.
//
// See [Liveness, Readiness, and Startup Probes] for more details.
//
// [Liveness, Readiness, and Startup Probes]: https://kubernetes.io/docs/concepts/configuration/liveness-readiness-startup-probes/
func Readiness(m health.Monitor) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.mux.Method(http.MethodGet, "/health/readiness", monitorHandler(m))
	})
}

// Liveness serves GET /health/liveness backed by the given [health.Monitor].
// Liveness probes indicate whether the application should be restarted.
//
// See [Liveness, Readiness, and Startup Probes] for more details.
//
// [Liveness, Readiness, and Startup Probes]: https://kubernetes.io/docs/concepts/configuration/liveness-readiness-startup-probes/
func Liveness(m health.Monitor) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.mux.Method(http.MethodGet, "/health/liveness", monitorHandler(m))
	})
}

func monitorHandler(m health.Monitor) http.Handler {
	log := sieve.Logger("github.com/z5labs/sieve/rest")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		healthy, err := m.Healthy(r.Context())
		if err != nil {
			log.ErrorContext(r.Context(), "failed to check health", slog.Any("error", err))
		}
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
}

// NotFoundHandler configures a custom handler for requests that don't match any registered routes.
func NotFoundHandler(h http.Handler) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.mux.NotFound(h.ServeHTTP)
	})
}

// MethodNotAllowed configures a custom handler for requests to valid routes
// with unsupported HTTP methods.
func MethodNotAllowed(h http.Handler) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.mux.MethodNotAllowed(h.ServeHTTP)
	})
}

// Api is an OpenAPI-compliant [http.Handler] which dispatches requests
// to schema validated operations.
//
// # Standard Features
//
// Every Api automatically provides:
//   - OpenAPI 3.0 document available at GET /openapi.json
//   - Default liveness probe at GET /health/liveness (returns 200 OK)
//   - Default readiness probe at GET /health/readiness (returns 200 OK)
//
// # Usage
//
//	api := rest.NewApi(
//	    "Persons",
//	    "v1.0.0",
//	    rest.Operation(http.MethodPost, rest.BasePath("/person"), createPerson, rest.Input(models.Person)),
//	)
//	http.ListenAndServe(":8080", api)
type Api struct {
	router *chi.Mux
}

// NewApi creates a new [Api] with the specified title and version.
func NewApi(title, version string, opts ...ApiOption) *Api {
	log := sieve.Logger("github.com/z5labs/sieve/rest")

	alwaysHealthy := health.MonitorFunc(func(context.Context) (bool, error) {
		return true, nil
	})

	ao := &ApiOptions{
		mux: chi.NewMux(),
		def: &openapi3.Spec{
			Openapi: "3.0.3",
			Info: openapi3.Info{
				Title:   title,
				Version: version,
			},
		},
		maxUploadBytes: DefaultMaxUploadBytes,
	}
	ao.mux.Method(http.MethodGet, "/health/liveness", monitorHandler(alwaysHealthy))
	ao.mux.Method(http.MethodGet, "/health/readiness", monitorHandler(alwaysHealthy))

	for _, opt := range opts {
		opt.ApplyApiOption(ao)
	}

	ao.mux.Get("/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		enc := json.NewEncoder(w)
		err := enc.Encode(ao.def)
		if err == nil {
			return
		}
		log.ErrorContext(
			r.Context(),
			"failed to encode openapi schema to json",
			slog.Any("error", err),
		)
	})

	return &Api{
		router: ao.mux,
	}
}

// ServeHTTP implements the [http.Handler] interface.
func (api *Api) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	api.router.ServeHTTP(w, req)
}
