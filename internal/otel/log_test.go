// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otel

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/sdk/instrumentation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/log/logtest"
)

type countingProcessor struct {
	emitted  int
	shutdown bool
	flushed  bool
}

func (p *countingProcessor) OnEmit(ctx context.Context, record *sdklog.Record) error {
	p.emitted++
	return nil
}

func (p *countingProcessor) Shutdown(ctx context.Context) error {
	p.shutdown = true
	return nil
}

func (p *countingProcessor) ForceFlush(ctx context.Context) error {
	p.flushed = true
	return nil
}

func record(sev log.Severity, logger string) sdklog.Record {
	return logtest.RecordFactory{
		Severity:             sev,
		Body:                 log.StringValue("sending error response"),
		Attributes:           []log.KeyValue{log.String("operation", "create-person"), log.Int("status", 422)},
		InstrumentationScope: &instrumentation.Scope{Name: logger},
	}.NewRecord()
}

func TestSeverity(t *testing.T) {
	testCases := map[string]log.Severity{
		"debug":   log.SeverityDebug,
		"INFO":    log.SeverityInfo,
		"warn":    log.SeverityWarn,
		"error":   log.SeverityError,
		"info+2":  log.SeverityInfo3,
		"verbose": log.SeverityUndefined,
	}

	for level, sev := range testCases {
		t.Run(level, func(t *testing.T) {
			require.Equal(t, sev, severity(level))
		})
	}
}

func TestLevelProcessor_OnEmit(t *testing.T) {
	testCases := []struct {
		Name     string
		Levels   map[string]string
		Logger   string
		Severity log.Severity
		Emitted  bool
	}{
		{
			Name:     "emits records at the minimum level",
			Levels:   map[string]string{"github.com/z5labs/sieve/rest": "info"},
			Logger:   "github.com/z5labs/sieve/rest",
			Severity: log.SeverityInfo,
			Emitted:  true,
		},
		{
			Name:     "drops records below the minimum level",
			Levels:   map[string]string{"github.com/z5labs/sieve/rest": "warn"},
			Logger:   "github.com/z5labs/sieve/rest",
			Severity: log.SeverityInfo,
			Emitted:  false,
		},
		{
			Name:     "allows every level of unconfigured loggers",
			Levels:   map[string]string{"github.com/jackc/pgx": "error"},
			Logger:   "github.com/z5labs/sieve/rest",
			Severity: log.SeverityDebug,
			Emitted:  true,
		},
		{
			Name:     "matches logger names by prefix",
			Levels:   map[string]string{"github.com/z5labs/sieve": "warn"},
			Logger:   "github.com/z5labs/sieve/example/persons/app",
			Severity: log.SeverityInfo,
			Emitted:  false,
		},
		{
			Name: "prefers the longest matching prefix",
			Levels: map[string]string{
				"github.com/z5labs/sieve":      "error",
				"github.com/z5labs/sieve/rest": "debug",
			},
			Logger:   "github.com/z5labs/sieve/rest",
			Severity: log.SeverityDebug,
			Emitted:  true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(t *testing.T) {
			inner := &countingProcessor{}
			p := withLevels(inner, testCase.Levels)

			r := record(testCase.Severity, testCase.Logger)
			err := p.OnEmit(context.Background(), &r)
			require.Nil(t, err)

			if testCase.Emitted {
				require.Equal(t, 1, inner.emitted)
				return
			}
			require.Equal(t, 0, inner.emitted)
		})
	}

	t.Run("will forward flushes and shutdowns", func(t *testing.T) {
		inner := &countingProcessor{}
		p := withLevels(inner, map[string]string{"github.com/z5labs/sieve": "info"})

		require.Nil(t, p.ForceFlush(context.Background()))
		require.Nil(t, p.Shutdown(context.Background()))
		require.True(t, inner.flushed)
		require.True(t, inner.shutdown)
	})

	t.Run("will not wrap a processor without levels", func(t *testing.T) {
		inner := &countingProcessor{}
		require.Same(t, inner, withLevels(inner, nil))
	})
}

func TestJSONExporter_Export(t *testing.T) {
	t.Run("will write one json line per record", func(t *testing.T) {
		var buf bytes.Buffer
		exp := newJSONExporter(&buf)

		err := exp.Export(context.Background(), []sdklog.Record{
			record(log.SeverityWarn, "github.com/z5labs/sieve/rest"),
		})
		require.Nil(t, err)

		var line map[string]any
		err = json.Unmarshal(buf.Bytes(), &line)
		require.Nil(t, err)

		require.Equal(t, "WARN", line["level"])
		require.Equal(t, "sending error response", line["msg"])
		require.Equal(t, "github.com/z5labs/sieve/rest", line["logger"])
		require.Equal(t, "create-person", line["operation"])
		require.Equal(t, 422.0, line["status"])
		require.NotContains(t, line, "trace_id")
	})
}
