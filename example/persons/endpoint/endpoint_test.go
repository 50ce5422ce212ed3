// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/z5labs/sieve/rest"

	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, op rest.ApiOption, r *http.Request) *http.Response {
	t.Helper()

	api := rest.NewApi("Persons", "v0.0.0", op)

	w := httptest.NewRecorder()
	api.ServeHTTP(w, r)
	return w.Result()
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.Nil(t, err)

	var v T
	err = json.Unmarshal(b, &v)
	require.Nil(t, err, string(b))
	return v
}

type violation struct {
	Field    string `json:"field"`
	Location string `json:"location"`
	Kind     string `json:"kind"`
}

type validationProblem struct {
	Status     int         `json:"status"`
	Violations []violation `json:"violations"`
}

func violatedFields(p validationProblem) map[string]string {
	kinds := make(map[string]string, len(p.Violations))
	for _, v := range p.Violations {
		kinds[v.Field] = v.Kind
	}
	return kinds
}
