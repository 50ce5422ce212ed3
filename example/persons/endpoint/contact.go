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

var contactForm = schema.Must(schema.New(
	"contact",
	schema.String("first_name", schema.In(schema.InForm), schema.Required(), schema.MinLength(1), schema.MaxLength(20)),
	schema.String("last_name", schema.In(schema.InForm), schema.Required(), schema.MinLength(1), schema.MaxLength(20)),
	schema.String("email", schema.In(schema.InForm), schema.Required(), schema.Email()),
	schema.String("message", schema.In(schema.InForm), schema.Required(), schema.MinLength(20)),
	schema.String("user_agent", schema.In(schema.InHeader)),
	schema.String("ads", schema.In(schema.InCookie)),
))

// Contact accepts the contact form and answers with the caller's user agent.
func Contact() rest.ApiOption {
	return rest.Operation(
		http.MethodPost,
		rest.BasePath("/contact"),
		rest.HandlerFunc(contact),
		rest.Input(contactForm),
		rest.OperationID("contact"),
		rest.Tags("Forms"),
		rest.Summary("Contact Form"),
	)
}

func contact(ctx context.Context, in []*schema.Record) (*schema.Record, error) {
	ua, _ := in[0].Get("user_agent")
	return schema.NewRecord().Set("user_agent", ua), nil
}
