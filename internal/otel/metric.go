// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otel

import (
	"context"
	"time"

	"github.com/z5labs/sieve/config"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

func initMetrics(ctx context.Context, cfg config.Metric, res *resource.Resource, cc *clientConns) (*sdkmetric.MeterProvider, error) {
	switch cfg.Exporter.Type {
	case config.NoExporter:
		mp := sdkmetric.NewMeterProvider(sdkmetric.WithResource(res))
		otel.SetMeterProvider(mp)
		return mp, nil
	case config.OTLPExporter:
	default:
		return nil, UnsupportedExporterError{Signal: "metrics", Type: cfg.Exporter.Type}
	}

	exp, err := otlpMetricExporter(ctx, cfg.Exporter, cc)
	if err != nil {
		return nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(
			exp,
			sdkmetric.WithInterval(cfg.ExportInterval),
			sdkmetric.WithProducer(runtime.NewProducer()),
		)),
	)
	otel.SetMeterProvider(mp)

	err = runtime.Start(
		runtime.WithMeterProvider(mp),
		runtime.WithMinimumReadMemStatsInterval(time.Second),
	)
	if err != nil {
		return nil, err
	}
	return mp, nil
}

func otlpMetricExporter(ctx context.Context, cfg config.Exporter, cc *clientConns) (sdkmetric.Exporter, error) {
	switch cfg.Protocol {
	case config.GRPC:
		conn, err := cc.get(cfg.Endpoint)
		if err != nil {
			return nil, err
		}
		return otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(conn))
	case config.HTTP:
		return otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpoint(cfg.Endpoint))
	default:
		return nil, UnknownProtocolError{Protocol: cfg.Protocol}
	}
}
