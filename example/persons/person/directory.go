// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package person

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Directory answers whether a person is known.
type Directory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// StaticDirectory is a read-only set of person ids.
type StaticDirectory struct {
	ids map[int64]struct{}
}

// NewStaticDirectory returns a [StaticDirectory] containing ids.
func NewStaticDirectory(ids ...int64) StaticDirectory {
	d := StaticDirectory{ids: make(map[int64]struct{}, len(ids))}
	for _, id := range ids {
		d.ids[id] = struct{}{}
	}
	return d
}

// Exists implements the [Directory] interface.
func (d StaticDirectory) Exists(ctx context.Context, id int64) (bool, error) {
	_, span := otel.Tracer("person").Start(ctx, "StaticDirectory.Exists", trace.WithAttributes(
		attribute.Int64("person.id", id),
	))
	defer span.End()

	_, exists := d.ids[id]
	return exists, nil
}
