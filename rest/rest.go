// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package rest serves schema validated operations over HTTP.
//
// Every request to an [Operation] moves through the same stages: the raw
// values of each declared input are bound from the request, validated
// against their [schema.Schema], handed to the [Handler] and the result
// is shaped by the declared output schema before it is written. Failures
// are written as RFC 7807 problem details.
package rest

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/z5labs/sieve"

	"github.com/z5labs/bedrock"
	"github.com/z5labs/bedrock/app"
	"github.com/z5labs/bedrock/appbuilder"
	"github.com/z5labs/bedrock/config"
	"github.com/z5labs/bedrock/lifecycle"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//go:embed default_config.yaml
var DefaultConfig []byte

// Configer is leveraged to constrain the custom config type into
// supporting specific initialization behaviour required by [Run].
type Configer interface {
	appbuilder.OTelInitializer

	Listener(context.Context) (net.Listener, error)
	HttpServer(context.Context, http.Handler) (*http.Server, error)
}

// Config is the default config which can be easily embedded into a
// more custom app specific config.
type Config struct {
	sieve.Config `config:",squash"`

	OpenApi struct {
		Title   string `config:"title"`
		Version string `config:"version"`
	} `config:"openapi"`

	HTTP struct {
		Port              uint          `config:"port"`
		ReadTimeout       time.Duration `config:"read_timeout"`
		ReadHeaderTimeout time.Duration `config:"read_header_timeout"`
		WriteTimeout      time.Duration `config:"write_timeout"`
		IdleTimeout       time.Duration `config:"idle_timeout"`
		MaxHeaderBytes    int           `config:"max_header_bytes"`
		MaxUploadBytes    int64         `config:"max_upload_bytes"`
	} `config:"http"`
}

// Listener implements the [Configer] interface.
func (c Config) Listener(ctx context.Context) (net.Listener, error) {
	return net.Listen("tcp", fmt.Sprintf(":%d", c.HTTP.Port))
}

// HttpServer implements the [Configer] interface.
func (c Config) HttpServer(ctx context.Context, h http.Handler) (*http.Server, error) {
	s := &http.Server{
		Handler:           h,
		ReadTimeout:       c.HTTP.ReadTimeout,
		ReadHeaderTimeout: c.HTTP.ReadHeaderTimeout,
		WriteTimeout:      c.HTTP.WriteTimeout,
		IdleTimeout:       c.HTTP.IdleTimeout,
		MaxHeaderBytes:    c.HTTP.MaxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(sieve.LogHandler("github.com/z5labs/sieve/rest"), slog.LevelError),
	}
	return s, nil
}

// Run begins by reading, parsing and unmarshaling your custom config into
// the type T. Then it calls the providing function to initialize your [Api]
// implementation. Once it has the [Api] implementation, it begins serving
// the [Api] over HTTP. Various middlewares are applied at different stages
// for your convenience. Some middlewares include, automatic panic recovery,
// OTel SDK initialization and shutdown, and OS signal based shutdown.
func Run[T Configer](r io.Reader, f func(context.Context, T) (*Api, error)) {
	cfg := config.MultiSource(
		sieve.DefaultConfig(),
		sieve.ConfigSource(bytes.NewReader(DefaultConfig)),
		sieve.ConfigSource(r),
	)

	builder := appbuilder.FromConfig(
		appbuilder.LifecycleContext(
			appbuilder.OTel(
				appbuilder.Recover(
					bedrock.AppBuilderFunc[T](func(ctx context.Context, cfg T) (bedrock.App, error) {
						return buildApp(ctx, cfg, f)
					}),
				),
			),
			&lifecycle.Context{},
		),
	)

	err := run(context.Background(), cfg, builder)
	if err == nil {
		return
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{}))
	log.Error("failed to run rest app", slog.String("error", err.Error()))
}

func buildApp[T Configer](ctx context.Context, cfg T, f func(context.Context, T) (*Api, error)) (bedrock.App, error) {
	api, err := f(ctx, cfg)
	if err != nil {
		return nil, err
	}

	ls, err := cfg.Listener(ctx)
	if err != nil {
		return nil, err
	}

	s, err := cfg.HttpServer(ctx, otelhttp.NewHandler(
		api,
		"rest",
		otelhttp.WithMessageEvents(otelhttp.ReadEvents, otelhttp.WriteEvents),
	))
	if err != nil {
		return nil, err
	}

	lc, ok := lifecycle.FromContext(ctx)
	if ok {
		lc.OnPostRun(lifecycle.HookFunc(func(ctx context.Context) error {
			return s.Shutdown(ctx)
		}))
	}

	var base bedrock.App = server{ls: ls, srv: s}
	base = app.Recover(base)
	base = app.InterruptOn(base, os.Kill, os.Interrupt, syscall.SIGTERM)
	return base, nil
}

func run(ctx context.Context, cfg config.Source, builder bedrock.AppBuilder[config.Source]) error {
	a, err := builder.Build(ctx, cfg)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}
