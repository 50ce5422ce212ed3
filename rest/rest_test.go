// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/z5labs/sieve"

	"github.com/stretchr/testify/require"
	"github.com/z5labs/bedrock/config"
)

func readConfig(t *testing.T, extra string) Config {
	t.Helper()

	m, err := config.Read(config.MultiSource(
		sieve.DefaultConfig(),
		sieve.ConfigSource(bytes.NewReader(DefaultConfig)),
		sieve.ConfigSource(strings.NewReader(extra)),
	))
	require.Nil(t, err)

	var cfg Config
	err = m.Unmarshal(&cfg)
	require.Nil(t, err)
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	t.Run("will unmarshal the http defaults", func(t *testing.T) {
		cfg := readConfig(t, "")

		require.Equal(t, uint(8080), cfg.HTTP.Port)
		require.Equal(t, 5*time.Second, cfg.HTTP.ReadTimeout)
		require.Equal(t, 2*time.Second, cfg.HTTP.ReadHeaderTimeout)
		require.Equal(t, 10*time.Second, cfg.HTTP.WriteTimeout)
		require.Equal(t, 120*time.Second, cfg.HTTP.IdleTimeout)
		require.Equal(t, 1048576, cfg.HTTP.MaxHeaderBytes)
		require.Equal(t, int64(10485760), cfg.HTTP.MaxUploadBytes)
	})

	t.Run("will let app config override the defaults", func(t *testing.T) {
		cfg := readConfig(t, "openapi:\n  title: Persons\nhttp:\n  port: 9090\n")

		require.Equal(t, "Persons", cfg.OpenApi.Title)
		require.Equal(t, uint(9090), cfg.HTTP.Port)
	})

	t.Run("will substitute environment variables", func(t *testing.T) {
		t.Setenv("HTTP_MAX_UPLOAD_BYTES", "2048")

		cfg := readConfig(t, "")

		require.Equal(t, int64(2048), cfg.HTTP.MaxUploadBytes)
	})
}

func TestConfig_HttpServer(t *testing.T) {
	t.Run("will apply the configured timeouts", func(t *testing.T) {
		cfg := readConfig(t, "")

		s, err := cfg.HttpServer(context.Background(), http.NotFoundHandler())
		require.Nil(t, err)

		require.Equal(t, 5*time.Second, s.ReadTimeout)
		require.Equal(t, 1048576, s.MaxHeaderBytes)
		require.NotNil(t, s.ErrorLog)
	})
}

type testConfig struct {
	Config
}

func TestBuildApp(t *testing.T) {
	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the api can not be initialized", func(t *testing.T) {
			initErr := errors.New("failed to init")

			_, err := buildApp(context.Background(), testConfig{}, func(ctx context.Context, tc testConfig) (*Api, error) {
				return nil, initErr
			})
			require.ErrorIs(t, err, initErr)
		})
	})

	t.Run("will serve the api", func(t *testing.T) {
		t.Run("until the context is cancelled", func(t *testing.T) {
			var cfg testConfig
			cfg.Config = readConfig(t, "http:\n  port: 0\n")

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			a, err := buildApp(ctx, cfg, func(ctx context.Context, tc testConfig) (*Api, error) {
				return NewApi("test", "v1"), nil
			})
			require.Nil(t, err)

			errCh := make(chan error, 1)
			go func() {
				defer close(errCh)
				errCh <- a.Run(ctx)
			}()

			cancel()

			select {
			case err := <-errCh:
				require.Nil(t, err)
			case <-time.After(5 * time.Second):
				t.Fatal("app did not stop")
			}
		})
	})
}
