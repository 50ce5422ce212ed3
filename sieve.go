// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package sieve provides the base config, logging and telemetry setup
// shared by every sieve based REST service.
package sieve

import (
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

// Logger returns a [slog.Logger] bridged to the global OTel logger provider.
// By convention name is the import path of the calling package.
func Logger(name string) *slog.Logger {
	return otelslog.NewLogger(name)
}

// LogHandler returns the [slog.Handler] backing [Logger].
func LogHandler(name string) slog.Handler {
	return otelslog.NewHandler(name)
}
