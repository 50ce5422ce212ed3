// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHome(t *testing.T) {
	t.Run("will greet the world", func(t *testing.T) {
		resp := serve(t, Home(), httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, map[string]string{"Hello": "World"}, decode[map[string]string](t, resp))
	})
}
