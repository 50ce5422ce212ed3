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

// CreatePerson accepts a person and answers with it, minus the password.
func CreatePerson() rest.ApiOption {
	return rest.Operation(
		http.MethodPost,
		rest.BasePath("/person").Segment("new"),
		rest.HandlerFunc(createPerson),
		rest.Input(person.Person),
		rest.Returns(person.Out),
		rest.Status(http.StatusCreated),
		rest.OperationID("create-person"),
		rest.Tags("Persons"),
		rest.Summary("Create Person in the app"),
		rest.Description("Creates a person from its first name, last name, age, hair color, marital status and password."),
	)
}

func createPerson(ctx context.Context, in []*schema.Record) (*schema.Record, error) {
	return in[0], nil
}
