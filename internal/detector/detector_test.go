// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package detector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
)

func TestServiceName(t *testing.T) {
	t.Run("will use the configured name", func(t *testing.T) {
		r, err := ServiceName("persons").Detect(context.Background())
		require.Nil(t, err)

		v, ok := r.Set().Value(semconv.ServiceNameKey)
		require.True(t, ok)
		require.Equal(t, "persons", v.AsString())
	})

	t.Run("will fall back to the executable name", func(t *testing.T) {
		r, err := ServiceName("").Detect(context.Background())
		require.Nil(t, err)

		v, ok := r.Set().Value(semconv.ServiceNameKey)
		require.True(t, ok)
		require.Contains(t, v.AsString(), "unknown_service:")
	})
}

func TestServiceVersion(t *testing.T) {
	t.Run("will skip an empty version", func(t *testing.T) {
		r, err := ServiceVersion("").Detect(context.Background())
		require.Nil(t, err)

		_, ok := r.Set().Value(semconv.ServiceVersionKey)
		require.False(t, ok)
	})

	t.Run("will record a set version", func(t *testing.T) {
		r, err := ServiceVersion("v1.2.3").Detect(context.Background())
		require.Nil(t, err)

		v, ok := r.Set().Value(semconv.ServiceVersionKey)
		require.True(t, ok)
		require.Equal(t, "v1.2.3", v.AsString())
	})
}
