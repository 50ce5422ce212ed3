// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/z5labs/sieve/example/persons/person"

	"github.com/stretchr/testify/require"
)

type directoryFunc func(context.Context, int64) (bool, error)

func (f directoryFunc) Exists(ctx context.Context, id int64) (bool, error) {
	return f(ctx, id)
}

func TestShowPersonByID(t *testing.T) {
	dir := person.NewStaticDirectory(1, 2, 3, 4, 5)

	t.Run("will return HTTP 200", func(t *testing.T) {
		t.Run("if the person exists", func(t *testing.T) {
			resp := serve(t, ShowPersonByID(dir), httptest.NewRequest(http.MethodGet, "/person/detail/3", nil))

			require.Equal(t, http.StatusOK, resp.StatusCode)
			require.Equal(t, map[string]string{"3": "It exists!"}, decode[map[string]string](t, resp))
		})
	})

	t.Run("will return HTTP 404", func(t *testing.T) {
		t.Run("if the person does not exist", func(t *testing.T) {
			resp := serve(t, ShowPersonByID(dir), httptest.NewRequest(http.MethodGet, "/person/detail/99", nil))
			require.Equal(t, http.StatusNotFound, resp.StatusCode)
			require.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))

			p := decode[map[string]any](t, resp)
			require.Equal(t, "person", p["resource"])
			require.Equal(t, 99.0, p["id"])
			require.Equal(t, "This person doesn't exist", p["detail"])
		})
	})

	t.Run("will return HTTP 422", func(t *testing.T) {
		testCases := []struct {
			Name string
			Path string
			Kind string
		}{
			{Name: "if the id is zero", Path: "/person/detail/0", Kind: "greaterThan"},
			{Name: "if the id is not an integer", Path: "/person/detail/abc", Kind: "typeMismatch"},
			{Name: "if the id is fractional", Path: "/person/detail/1.5", Kind: "typeMismatch"},
		}

		for _, testCase := range testCases {
			t.Run(testCase.Name, func(t *testing.T) {
				resp := serve(t, ShowPersonByID(dir), httptest.NewRequest(http.MethodGet, testCase.Path, nil))
				require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

				p := decode[validationProblem](t, resp)
				require.Equal(t, map[string]string{"person_id": testCase.Kind}, violatedFields(p))
			})
		}
	})

	t.Run("will return HTTP 500", func(t *testing.T) {
		t.Run("if the directory fails", func(t *testing.T) {
			failing := directoryFunc(func(ctx context.Context, id int64) (bool, error) {
				return false, errors.New("connection reset by peer")
			})

			resp := serve(t, ShowPersonByID(failing), httptest.NewRequest(http.MethodGet, "/person/detail/1", nil))
			require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

			p := decode[map[string]any](t, resp)
			require.NotContains(t, p["detail"], "connection reset")
		})
	})
}
