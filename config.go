// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package sieve

import (
	"bytes"
	"context"
	_ "embed"
	"io"
	"os"

	"github.com/z5labs/sieve/config"
	"github.com/z5labs/sieve/internal/otel"

	bedrockcfg "github.com/z5labs/bedrock/config"
)

// ConfigSource reads YAML from r after rendering it as a Go template.
// Two template functions are available:
//   - env looks up an environment variable and yields nil when it is unset
//   - default substitutes its first argument when the piped value is nil
func ConfigSource(r io.Reader) bedrockcfg.Source {
	return bedrockcfg.FromYaml(
		bedrockcfg.RenderTextTemplate(
			r,
			bedrockcfg.TemplateFunc("env", lookupEnv),
			bedrockcfg.TemplateFunc("default", orDefault),
		),
	)
}

func lookupEnv(key string) any {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return nil
}

func orDefault(def, v any) any {
	if v != nil {
		return v
	}
	return def
}

//go:embed default_config.yaml
var defaultConfig []byte

// DefaultConfig returns the source of the embedded defaults for [Config].
func DefaultConfig() bedrockcfg.Source {
	return ConfigSource(bytes.NewReader(defaultConfig))
}

// Config holds the telemetry settings shared by every sieve application.
// Application configs embed it, usually through rest.Config.
type Config struct {
	OTel config.OTel `config:"otel"`
}

// InitializeOTel implements the [appbuilder.OTelInitializer] interface.
func (cfg Config) InitializeOTel(ctx context.Context) error {
	return otel.Initialize(ctx, cfg.OTel)
}
