// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const validPerson = `{"first_name":"Cristhian","last_name":"Carbonell","age":34,"password":"secretpw"}`

func TestUpdatePerson(t *testing.T) {
	t.Run("will return HTTP 204 without a body", func(t *testing.T) {
		t.Run("if the person and location are valid", func(t *testing.T) {
			body := `{"person":` + validPerson + `,"location":{"city":"Pitalito","state":"Huila","country":"Colombia"}}`
			r := httptest.NewRequest(http.MethodPut, "/person/3", strings.NewReader(body))
			r.Header.Set("Content-Type", "application/json")

			resp := serve(t, UpdatePerson(), r)
			require.Equal(t, http.StatusNoContent, resp.StatusCode)

			b, err := io.ReadAll(resp.Body)
			require.Nil(t, err)
			require.Empty(t, b)
		})

		t.Run("if the body has a top level key named like the path input", func(t *testing.T) {
			body := `{"person":` + validPerson + `,"location":{"city":"Pitalito","state":"Huila","country":"Colombia"},"person_id":"not-an-object"}`
			r := httptest.NewRequest(http.MethodPut, "/person/1", strings.NewReader(body))
			r.Header.Set("Content-Type", "application/json")

			resp := serve(t, UpdatePerson(), r)
			require.Equal(t, http.StatusNoContent, resp.StatusCode)
		})
	})

	t.Run("will return HTTP 422", func(t *testing.T) {
		t.Run("if the location is missing", func(t *testing.T) {
			body := `{"person":` + validPerson + `}`
			r := httptest.NewRequest(http.MethodPut, "/person/3", strings.NewReader(body))
			r.Header.Set("Content-Type", "application/json")

			resp := serve(t, UpdatePerson(), r)
			require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

			p := decode[validationProblem](t, resp)
			require.Equal(t, map[string]string{
				"location.city":    "missing",
				"location.state":   "missing",
				"location.country": "missing",
			}, violatedFields(p))
		})

		t.Run("if the path id and the person are both invalid", func(t *testing.T) {
			body := `{"person":{"first_name":"Cristhian","last_name":"Carbonell","age":71,"password":"secretpw"},"location":{"city":"Pitalito","state":"Huila","country":"Colombia"}}`
			r := httptest.NewRequest(http.MethodPut, "/person/0", strings.NewReader(body))
			r.Header.Set("Content-Type", "application/json")

			resp := serve(t, UpdatePerson(), r)
			require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

			p := decode[validationProblem](t, resp)
			require.Equal(t, map[string]string{
				"person_id":  "greaterThan",
				"person.age": "lessOrEqual",
			}, violatedFields(p))
		})

		t.Run("if the person is not an object", func(t *testing.T) {
			body := `{"person":"Cristhian","location":{"city":"Pitalito","state":"Huila","country":"Colombia"}}`
			r := httptest.NewRequest(http.MethodPut, "/person/3", strings.NewReader(body))
			r.Header.Set("Content-Type", "application/json")

			resp := serve(t, UpdatePerson(), r)
			require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

			p := decode[validationProblem](t, resp)
			require.Equal(t, map[string]string{"person": "typeMismatch"}, violatedFields(p))
		})
	})
}
