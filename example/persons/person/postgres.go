// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package person

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const existsQuery = `SELECT EXISTS(SELECT 1 FROM persons WHERE id = $1)`

// PostgresDirectory looks persons up in the persons table.
type PostgresDirectory struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to the database at url and verifies the connection.
func OpenPostgres(ctx context.Context, url string) (*PostgresDirectory, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresDirectory{pool: pool}, nil
}

// Exists implements the [Directory] interface.
func (d *PostgresDirectory) Exists(ctx context.Context, id int64) (bool, error) {
	spanCtx, span := otel.Tracer("person").Start(ctx, "PostgresDirectory.Exists", trace.WithAttributes(
		attribute.Int64("person.id", id),
	))
	defer span.End()

	var exists bool
	err := d.pool.QueryRow(spanCtx, existsQuery, id).Scan(&exists)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	return exists, nil
}

// Ping reports whether the database is reachable.
func (d *PostgresDirectory) Ping(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

// Close releases every pooled connection.
func (d *PostgresDirectory) Close() error {
	d.pool.Close()
	return nil
}
