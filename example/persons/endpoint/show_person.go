// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"net/http"

	"github.com/z5labs/sieve/rest"
	"github.com/z5labs/sieve/schema"
)

var personQuery = schema.Must(schema.New(
	"person_query",
	schema.String(
		"name",
		schema.In(schema.InQuery),
		schema.MinLength(1),
		schema.MaxLength(50),
		schema.Title("Person Name"),
		schema.Description("This is the person name. It's between 1 and 50 characters"),
		schema.Example("Tony"),
	),
	schema.String(
		"age",
		schema.In(schema.InQuery),
		schema.Required(),
		schema.Title("Person age"),
		schema.Description("This is the person age. It's required"),
		schema.Example("45"),
	),
))

// ShowPerson echoes the queried name and age as {name: age}.
func ShowPerson() rest.ApiOption {
	return rest.Operation(
		http.MethodGet,
		rest.BasePath("/person").Segment("detail"),
		rest.HandlerFunc(showPerson),
		rest.Input(personQuery),
		rest.OperationID("show-person"),
		rest.Tags("Persons"),
		rest.Summary("Show name and age the user"),
	)
}

func showPerson(ctx context.Context, in []*schema.Record) (*schema.Record, error) {
	q := in[0]

	// an absent name is keyed the way JSON spells it
	key := "null"
	if name, _ := q.Get("name"); name != nil {
		key = q.String("name")
	}
	return schema.NewRecord().Set(key, q.String("age")), nil
}
