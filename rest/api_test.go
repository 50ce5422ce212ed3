// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/z5labs/sieve/health"
	"github.com/z5labs/sieve/schema"

	"github.com/stretchr/testify/require"
)

func TestNewApi(t *testing.T) {
	t.Run("will serve the OpenAPI document at /openapi.json", func(t *testing.T) {
		in := schema.Must(schema.New(
			"lookup",
			schema.Integer("person_id", schema.In(schema.InPath), schema.Required(), schema.GreaterThan(0)),
			schema.String("verbose", schema.In(schema.InQuery), schema.Description("Include every field")),
		))

		api := NewApi(
			"Persons",
			"v1.2.3",
			Operation(
				http.MethodGet,
				BasePath("/person").Param("person_id"),
				HandlerFunc(func(ctx context.Context, in []*schema.Record) (*schema.Record, error) {
					return schema.NewRecord(), nil
				}),
				Input(in),
				Summary("Show a person"),
				Tags("Persons"),
				Problems(http.StatusNotFound),
			),
		)

		srv := httptest.NewServer(api)
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/openapi.json")
		require.Nil(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var doc struct {
			Info struct {
				Title   string `json:"title"`
				Version string `json:"version"`
			} `json:"info"`
			Paths map[string]map[string]struct {
				Summary    string   `json:"summary"`
				Tags       []string `json:"tags"`
				Parameters []struct {
					Name     string `json:"name"`
					In       string `json:"in"`
					Required bool   `json:"required"`
				} `json:"parameters"`
				Responses map[string]any `json:"responses"`
			} `json:"paths"`
		}
		err = json.NewDecoder(resp.Body).Decode(&doc)
		require.Nil(t, err)

		require.Equal(t, "Persons", doc.Info.Title)
		require.Equal(t, "v1.2.3", doc.Info.Version)

		op, ok := doc.Paths["/person/{person_id}"]["get"]
		require.True(t, ok)
		require.Equal(t, "Show a person", op.Summary)
		require.Equal(t, []string{"Persons"}, op.Tags)
		require.Len(t, op.Parameters, 2)
		require.Equal(t, "person_id", op.Parameters[0].Name)
		require.Equal(t, "path", op.Parameters[0].In)
		require.True(t, op.Parameters[0].Required)
		require.Equal(t, "verbose", op.Parameters[1].Name)
		require.Equal(t, "query", op.Parameters[1].In)
		require.False(t, op.Parameters[1].Required)
		require.Contains(t, op.Responses, "200")
		require.Contains(t, op.Responses, "422")
		require.Contains(t, op.Responses, "404")
		require.NotContains(t, op.Responses, "415")
	})

	t.Run("will serve healthy probes by default", func(t *testing.T) {
		api := NewApi("Persons", "v1")

		for _, path := range []string{"/health/liveness", "/health/readiness"} {
			w := httptest.NewRecorder()
			api.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

			require.Equal(t, http.StatusOK, w.Code, path)
		}
	})

	t.Run("will return 503 if the readiness monitor is unhealthy", func(t *testing.T) {
		var ready health.Binary
		ready.MarkUnhealthy()

		api := NewApi("Persons", "v1", Readiness(&ready))

		w := httptest.NewRecorder()
		api.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/readiness", nil))
		require.Equal(t, http.StatusServiceUnavailable, w.Code)

		ready.MarkHealthy()

		w = httptest.NewRecorder()
		api.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/readiness", nil))
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("will return 503 if the liveness monitor fails", func(t *testing.T) {
		api := NewApi(
			"Persons",
			"v1",
			Liveness(health.MonitorFunc(func(ctx context.Context) (bool, error) {
				return false, errors.New("stuck")
			})),
		)

		w := httptest.NewRecorder()
		api.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/liveness", nil))
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("will use the custom not found handler", func(t *testing.T) {
		api := NewApi(
			"Persons",
			"v1",
			NotFoundHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTeapot)
			})),
		)

		w := httptest.NewRecorder()
		api.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/unknown", nil))
		require.Equal(t, http.StatusTeapot, w.Code)
	})

	t.Run("will use the custom method not allowed handler", func(t *testing.T) {
		api := NewApi(
			"Persons",
			"v1",
			Operation(
				http.MethodGet,
				BasePath("/"),
				HandlerFunc(func(ctx context.Context, in []*schema.Record) (*schema.Record, error) {
					return schema.NewRecord(), nil
				}),
			),
			MethodNotAllowed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTeapot)
			})),
		)

		w := httptest.NewRecorder()
		api.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/", nil))
		require.Equal(t, http.StatusTeapot, w.Code)
	})
}
