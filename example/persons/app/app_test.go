// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	t.Run("will serve every operation with the static directory", func(t *testing.T) {
		var cfg Config
		cfg.OpenApi.Title = "Persons"
		cfg.OpenApi.Version = "v0.0.0"

		api, err := Init(context.Background(), cfg)
		require.Nil(t, err)

		srv := httptest.NewServer(api)
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/health/readiness")
		require.Nil(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, err = http.Get(srv.URL + "/person/detail/5")
		require.Nil(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, err = http.Get(srv.URL + "/openapi.json")
		require.Nil(t, err)
		defer resp.Body.Close()

		var doc struct {
			Paths map[string]map[string]any `json:"paths"`
		}
		err = json.NewDecoder(resp.Body).Decode(&doc)
		require.Nil(t, err)

		for path, method := range map[string]string{
			"/":                          "get",
			"/person/new":                "post",
			"/person/detail":             "get",
			"/person/detail/{person_id}": "get",
			"/person/{person_id}":        "put",
			"/login":                     "post",
			"/contact":                   "post",
			"/post-image":                "post",
		} {
			require.Contains(t, doc.Paths, path)
			require.Contains(t, doc.Paths[path], method, path)
		}

		for _, testCase := range []struct {
			Path   string
			Method string
			Status string
		}{
			{Path: "/person/detail/{person_id}", Method: "get", Status: "404"},
			{Path: "/post-image", Method: "post", Status: "413"},
			{Path: "/post-image", Method: "post", Status: "415"},
			{Path: "/person/new", Method: "post", Status: "415"},
		} {
			op, ok := doc.Paths[testCase.Path][testCase.Method].(map[string]any)
			require.True(t, ok, testCase.Path)

			responses, ok := op["responses"].(map[string]any)
			require.True(t, ok, testCase.Path)
			require.Contains(t, responses, testCase.Status, testCase.Path)
		}
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the postgres url is invalid", func(t *testing.T) {
			var cfg Config
			cfg.Postgres.URL = "postgres://%zz"

			_, err := Init(context.Background(), cfg)
			require.Error(t, err)
		})
	})
}
