// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config defines the configuration types of the OpenTelemetry
// pipelines initialized for every sieve application.
package config

import "time"

// ExporterType selects where the telemetry of a signal ends up.
type ExporterType string

const (
	// NoExporter discards the signal.
	NoExporter ExporterType = "none"

	// StdoutExporter writes JSON lines to stdout. Only logs support it.
	StdoutExporter ExporterType = "stdout"

	// OTLPExporter sends the signal to an OTLP collector.
	OTLPExporter ExporterType = "otlp"
)

// Protocol is the transport used to reach an OTLP collector.
type Protocol string

const (
	GRPC Protocol = "grpc"
	HTTP Protocol = "http"
)

// Exporter configures the exporter of a single signal.
type Exporter struct {
	Type     ExporterType `config:"type"`
	Protocol Protocol     `config:"protocol"`
	Endpoint string       `config:"endpoint"`
}

// Resource identifies the service emitting telemetry.
type Resource struct {
	ServiceName    string `config:"service_name"`
	ServiceVersion string `config:"service_version"`
}

type Trace struct {
	// SamplingRatio is applied to root spans only, children follow their parent.
	SamplingRatio float64       `config:"sampling_ratio"`
	BatchTimeout  time.Duration `config:"batch_timeout"`
	MaxBatchSize  int           `config:"max_batch_size"`
	Exporter      Exporter      `config:"exporter"`
}

type Metric struct {
	ExportInterval time.Duration `config:"export_interval"`
	Exporter       Exporter      `config:"exporter"`
}

// LogDelivery controls whether log records are exported one by one or in batches.
type LogDelivery string

const (
	Immediate LogDelivery = "immediate"
	Batched   LogDelivery = "batched"
)

// Log configures the log pipeline.
//
// Levels maps logger names to the minimum level emitted for them.
// Names match by prefix so "github.com/z5labs/sieve" also covers
// "github.com/z5labs/sieve/rest".
type Log struct {
	Delivery       LogDelivery       `config:"delivery"`
	ExportInterval time.Duration     `config:"export_interval"`
	MaxBatchSize   int               `config:"max_batch_size"`
	Exporter       Exporter          `config:"exporter"`
	Levels         map[string]string `config:"levels"`
}

// OTel groups the configuration of every telemetry signal.
type OTel struct {
	Resource Resource `config:"resource"`
	Trace    Trace    `config:"trace"`
	Metric   Metric   `config:"metric"`
	Log      Log      `config:"log"`
}
