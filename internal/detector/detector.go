// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package detector provides the OTel resource detectors used by sieve applications.
package detector

import (
	"context"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/sdk"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
)

type detectorFunc func(context.Context) (*resource.Resource, error)

func (f detectorFunc) Detect(ctx context.Context) (*resource.Resource, error) {
	return f(ctx)
}

// TelemetrySDK describes the OTel SDK in use.
func TelemetrySDK() resource.Detector {
	return detectorFunc(func(context.Context) (*resource.Resource, error) {
		return resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.TelemetrySDKName("opentelemetry"),
			semconv.TelemetrySDKLanguageGo,
			semconv.TelemetrySDKVersion(sdk.Version()),
		), nil
	})
}

// Host records the host name.
func Host() resource.Detector {
	return resource.StringDetector(semconv.SchemaURL, semconv.HostNameKey, os.Hostname)
}

// ServiceName records name or, when empty, falls back to the executable name.
func ServiceName(name string) resource.Detector {
	return resource.StringDetector(semconv.SchemaURL, semconv.ServiceNameKey, func() (string, error) {
		if name != "" {
			return name, nil
		}
		executable, err := os.Executable()
		if err != nil {
			return "unknown_service:go", nil
		}
		return "unknown_service:" + filepath.Base(executable), nil
	})
}

// ServiceVersion records version when it is set.
func ServiceVersion(version string) resource.Detector {
	return detectorFunc(func(context.Context) (*resource.Resource, error) {
		if version == "" {
			return resource.Empty(), nil
		}
		return resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceVersion(version)), nil
	})
}
