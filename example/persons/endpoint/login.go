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

var loginForm = schema.Must(schema.New(
	"login_form",
	schema.String("username", schema.In(schema.InForm), schema.Required()),
	schema.String("password", schema.In(schema.InForm), schema.Required()),
))

// Login answers with the username and a greeting.
func Login() rest.ApiOption {
	return rest.Operation(
		http.MethodPost,
		rest.BasePath("/login"),
		rest.HandlerFunc(login),
		rest.Input(loginForm),
		rest.Returns(person.LoginOut),
		rest.OperationID("login"),
		rest.Tags("Persons"),
		rest.Summary("Login in the app"),
	)
}

func login(ctx context.Context, in []*schema.Record) (*schema.Record, error) {
	return person.LoginOut.From(schema.NewRecord().Set("username", in[0].String("username")))
}
