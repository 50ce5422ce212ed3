// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otel

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/z5labs/sieve/config"

	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
)

// UnknownLogDeliveryError is returned for a log delivery other than
// immediate or batched.
type UnknownLogDeliveryError struct {
	Delivery config.LogDelivery
}

func (e UnknownLogDeliveryError) Error() string {
	return fmt.Sprintf("unknown log delivery: %q", e.Delivery)
}

func initLogging(ctx context.Context, cfg config.Log, res *resource.Resource, cc *clientConns) (*sdklog.LoggerProvider, error) {
	opts := []sdklog.LoggerProviderOption{
		sdklog.WithResource(res),
	}

	exp, err := logExporter(ctx, cfg.Exporter, cc)
	if err != nil {
		return nil, err
	}
	if exp != nil {
		var p sdklog.Processor
		switch cfg.Delivery {
		case config.Immediate:
			p = sdklog.NewSimpleProcessor(exp)
		case config.Batched:
			p = sdklog.NewBatchProcessor(
				exp,
				sdklog.WithExportInterval(cfg.ExportInterval),
				sdklog.WithExportMaxBatchSize(cfg.MaxBatchSize),
			)
		default:
			return nil, UnknownLogDeliveryError{Delivery: cfg.Delivery}
		}
		opts = append(opts, sdklog.WithProcessor(withLevels(p, cfg.Levels)))
	}

	lp := sdklog.NewLoggerProvider(opts...)
	global.SetLoggerProvider(lp)
	return lp, nil
}

func logExporter(ctx context.Context, cfg config.Exporter, cc *clientConns) (sdklog.Exporter, error) {
	switch cfg.Type {
	case config.NoExporter:
		return nil, nil
	case config.StdoutExporter:
		return newJSONExporter(os.Stdout), nil
	case config.OTLPExporter:
	default:
		return nil, UnsupportedExporterError{Signal: "logs", Type: cfg.Type}
	}

	switch cfg.Protocol {
	case config.GRPC:
		conn, err := cc.get(cfg.Endpoint)
		if err != nil {
			return nil, err
		}
		return otlploggrpc.New(ctx, otlploggrpc.WithGRPCConn(conn))
	case config.HTTP:
		return otlploghttp.New(ctx, otlploghttp.WithEndpoint(cfg.Endpoint))
	default:
		return nil, UnknownProtocolError{Protocol: cfg.Protocol}
	}
}

// slog levels are offset from OTel severities by this amount.
const slogOffset = log.SeverityInfo - log.Severity(slog.LevelInfo)

// severity parses level with the syntax of [slog.Level], e.g. "warn" or
// "info+2". Unparseable levels allow everything.
func severity(level string) log.Severity {
	var l slog.Level
	err := l.UnmarshalText([]byte(level))
	if err != nil {
		return log.SeverityUndefined
	}
	return log.Severity(l) + slogOffset
}

type levelRule struct {
	prefix string
	min    log.Severity
}

// levelProcessor drops records below the minimum severity configured
// for the longest logger name prefix matching their scope.
type levelProcessor struct {
	sdklog.Processor

	rules []levelRule
}

func withLevels(p sdklog.Processor, levels map[string]string) sdklog.Processor {
	if len(levels) == 0 {
		return p
	}

	rules := make([]levelRule, 0, len(levels))
	for prefix, level := range levels {
		rules = append(rules, levelRule{prefix: prefix, min: severity(level)})
	}
	slices.SortFunc(rules, func(a, b levelRule) int {
		return cmp.Compare(len(b.prefix), len(a.prefix))
	})

	return levelProcessor{Processor: p, rules: rules}
}

func (p levelProcessor) OnEmit(ctx context.Context, r *sdklog.Record) error {
	if r.Severity() < p.minimum(r.InstrumentationScope().Name) {
		return nil
	}
	return p.Processor.OnEmit(ctx, r)
}

func (p levelProcessor) minimum(scope string) log.Severity {
	for _, rule := range p.rules {
		if strings.HasPrefix(scope, rule.prefix) {
			return rule.min
		}
	}
	return log.SeverityUndefined
}

// jsonExporter writes every record as one JSON line.
type jsonExporter struct {
	h slog.Handler
}

func newJSONExporter(w io.Writer) jsonExporter {
	return jsonExporter{h: slog.NewJSONHandler(w, nil)}
}

func (e jsonExporter) Export(ctx context.Context, records []sdklog.Record) error {
	for i := range records {
		rec := &records[i]

		sr := slog.NewRecord(rec.Timestamp(), slog.Level(rec.Severity()-slogOffset), rec.Body().AsString(), 0)
		sr.AddAttrs(slog.String("logger", rec.InstrumentationScope().Name))
		rec.WalkAttributes(func(kv log.KeyValue) bool {
			sr.AddAttrs(slog.Attr{Key: kv.Key, Value: slogValue(kv.Value)})
			return true
		})
		if rec.TraceID().IsValid() {
			sr.AddAttrs(
				slog.String("trace_id", rec.TraceID().String()),
				slog.String("span_id", rec.SpanID().String()),
			)
		}

		err := e.h.Handle(ctx, sr)
		if err != nil {
			return err
		}
	}
	return nil
}

func (jsonExporter) ForceFlush(context.Context) error { return nil }

func (jsonExporter) Shutdown(context.Context) error { return nil }

func slogValue(v log.Value) slog.Value {
	switch v.Kind() {
	case log.KindString:
		return slog.StringValue(v.AsString())
	case log.KindInt64:
		return slog.Int64Value(v.AsInt64())
	case log.KindFloat64:
		return slog.Float64Value(v.AsFloat64())
	case log.KindBool:
		return slog.BoolValue(v.AsBool())
	case log.KindBytes:
		return slog.AnyValue(v.AsBytes())
	case log.KindSlice:
		var vs []any
		for _, item := range v.AsSlice() {
			vs = append(vs, slogValue(item).Any())
		}
		return slog.AnyValue(vs)
	case log.KindMap:
		var attrs []slog.Attr
		for _, kv := range v.AsMap() {
			attrs = append(attrs, slog.Attr{Key: kv.Key, Value: slogValue(kv.Value)})
		}
		return slog.GroupValue(attrs...)
	default:
		return slog.StringValue(v.String())
	}
}
