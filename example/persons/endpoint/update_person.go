// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"net/http"

	"github.com/z5labs/sieve/example/persons/person"

	"github.com/z5labs/sieve/rest"
	"github.com/z5labs/sieve/schema"
)

// UpdatePerson accepts a person and its location embedded in one body.
func UpdatePerson() rest.ApiOption {
	return rest.Operation(
		http.MethodPut,
		rest.BasePath("/person").Param("person_id"),
		rest.HandlerFunc(updatePerson),
		rest.Input(personID),
		rest.Input(person.Person),
		rest.Input(person.Location),
		rest.Status(http.StatusNoContent),
		rest.OperationID("update-person"),
		rest.Tags("Persons"),
		rest.Summary("Update person in app"),
	)
}

func updatePerson(ctx context.Context, in []*schema.Record) (*schema.Record, error) {
	return schema.NewRecord().Merge(in[1]).Merge(in[2]), nil
}
