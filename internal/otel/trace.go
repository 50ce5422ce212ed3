// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otel

import (
	"context"

	"github.com/z5labs/sieve/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func initTracing(ctx context.Context, cfg config.Trace, res *resource.Resource, cc *clientConns) (*sdktrace.TracerProvider, error) {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SamplingRatio))),
	}

	switch cfg.Exporter.Type {
	case config.NoExporter:
	case config.OTLPExporter:
		exp, err := otlpSpanExporter(ctx, cfg.Exporter, cc)
		if err != nil {
			return nil, err
		}

		opts = append(opts, sdktrace.WithBatcher(
			exp,
			sdktrace.WithBatchTimeout(cfg.BatchTimeout),
			sdktrace.WithMaxExportBatchSize(cfg.MaxBatchSize),
		))
	default:
		return nil, UnsupportedExporterError{Signal: "traces", Type: cfg.Exporter.Type}
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	return tp, nil
}

func otlpSpanExporter(ctx context.Context, cfg config.Exporter, cc *clientConns) (sdktrace.SpanExporter, error) {
	switch cfg.Protocol {
	case config.GRPC:
		conn, err := cc.get(cfg.Endpoint)
		if err != nil {
			return nil, err
		}
		return otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	case config.HTTP:
		return otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(cfg.Endpoint))
	default:
		return nil, UnknownProtocolError{Protocol: cfg.Protocol}
	}
}
