// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package endpoint registers the operations of the persons example.
package endpoint

import (
	"context"
	"net/http"

	"github.com/z5labs/sieve/rest"
	"github.com/z5labs/sieve/schema"
)

// Home greets the caller.
func Home() rest.ApiOption {
	return rest.Operation(
		http.MethodGet,
		rest.BasePath("/"),
		rest.HandlerFunc(home),
		rest.OperationID("home"),
	)
}

func home(ctx context.Context, in []*schema.Record) (*schema.Record, error) {
	return schema.NewRecord().Set("Hello", "World"), nil
}
