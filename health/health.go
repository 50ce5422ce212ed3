// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package health provides the monitors backing liveness and readiness probes.
package health

import (
	"context"
	"sync/atomic"
)

// Monitor represents anything which can report its current state of health.
type Monitor interface {
	Healthy(context.Context) (bool, error)
}

// MonitorFunc is a func adapter for [Monitor].
type MonitorFunc func(context.Context) (bool, error)

// Healthy implements the [Monitor] interface.
func (f MonitorFunc) Healthy(ctx context.Context) (bool, error) {
	return f(ctx)
}

// Ping adapts a connectivity check, e.g. a database ping, into a [Monitor].
func Ping(f func(context.Context) error) Monitor {
	return MonitorFunc(func(ctx context.Context) (bool, error) {
		err := f(ctx)
		return err == nil, err
	})
}

// Binary is a [Monitor] which simply has 2 states: healthy or unhealthy.
// It is safe for concurrent use. The zero value represents an unhealthy state.
type Binary struct {
	healthy atomic.Bool
}

// MarkUnhealthy changes the state to unhealthy.
func (b *Binary) MarkUnhealthy() {
	b.healthy.Store(false)
}

// MarkHealthy changes that state to healthy.
func (b *Binary) MarkHealthy() {
	b.healthy.Store(true)
}

// Healthy implements the [Monitor] interface.
func (b *Binary) Healthy(ctx context.Context) (bool, error) {
	return b.healthy.Load(), nil
}

// AndMonitor is healthy only when every one of its [Monitor]s is healthy.
// It stops at the first unhealthy monitor or error.
type AndMonitor []Monitor

// And combines ms into an [AndMonitor].
func And(ms ...Monitor) AndMonitor {
	return AndMonitor(ms)
}

// Healthy implements the [Monitor] interface.
func (am AndMonitor) Healthy(ctx context.Context) (bool, error) {
	for _, m := range am {
		healthy, err := m.Healthy(ctx)
		if !healthy || err != nil {
			return false, err
		}
	}
	return true, nil
}
