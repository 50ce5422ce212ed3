// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package otel initializes the global OpenTelemetry providers from config.
package otel

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/z5labs/sieve/config"
	"github.com/z5labs/sieve/internal/detector"

	"github.com/z5labs/bedrock/lifecycle"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"
)

// Initialize builds the tracer, meter and logger providers described by cfg
// and registers them globally. Signals exported over OTLP gRPC to the same
// endpoint share one client connection.
func Initialize(ctx context.Context, cfg config.OTel) error {
	res, err := resource.Detect(
		ctx,
		detector.TelemetrySDK(),
		detector.Host(),
		detector.ServiceName(cfg.Resource.ServiceName),
		detector.ServiceVersion(cfg.Resource.ServiceVersion),
	)
	if err != nil {
		return err
	}

	cc := &clientConns{}

	var (
		tp *sdktrace.TracerProvider
		mp *sdkmetric.MeterProvider
		lp *sdklog.LoggerProvider
	)
	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		tp, err = initTracing(egctx, cfg.Trace, res, cc)
		return err
	})
	eg.Go(func() (err error) {
		mp, err = initMetrics(egctx, cfg.Metric, res, cc)
		return err
	})
	eg.Go(func() (err error) {
		lp, err = initLogging(egctx, cfg.Log, res, cc)
		return err
	})
	err = eg.Wait()
	if err != nil {
		return errors.Join(err, shutdown(tp, mp, lp, cc)(context.Background()))
	}

	lc, ok := lifecycle.FromContext(ctx)
	if ok {
		lc.OnPostRun(lifecycle.HookFunc(shutdown(tp, mp, lp, cc)))
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return nil
}

type shutdowner interface {
	Shutdown(context.Context) error
}

// shutdown flushes the providers before closing the connections they
// export over. Providers that failed to initialize are skipped.
func shutdown(tp *sdktrace.TracerProvider, mp *sdkmetric.MeterProvider, lp *sdklog.LoggerProvider, cc io.Closer) func(context.Context) error {
	var ss []shutdowner
	if tp != nil {
		ss = append(ss, tp)
	}
	if mp != nil {
		ss = append(ss, mp)
	}
	if lp != nil {
		ss = append(ss, lp)
	}

	return func(ctx context.Context) error {
		var errs error
		for _, s := range ss {
			errs = errors.Join(errs, s.Shutdown(ctx))
		}
		return errors.Join(errs, cc.Close())
	}
}

// UnsupportedExporterError is returned when a signal is configured with
// an exporter type it can not be exported with.
type UnsupportedExporterError struct {
	Signal string
	Type   config.ExporterType
}

func (e UnsupportedExporterError) Error() string {
	return fmt.Sprintf("%s can not be exported with exporter type: %q", e.Signal, e.Type)
}

// UnknownProtocolError is returned for an OTLP protocol other than grpc or http.
type UnknownProtocolError struct {
	Protocol config.Protocol
}

func (e UnknownProtocolError) Error() string {
	return fmt.Sprintf("unknown otlp protocol: %q", e.Protocol)
}
