// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"net/http"
	"strconv"

	"github.com/z5labs/sieve/example/persons/person"

	"github.com/z5labs/sieve/rest"
	"github.com/z5labs/sieve/schema"
)

var personID = schema.Must(schema.New(
	"person_id",
	schema.Integer(
		"person_id",
		schema.In(schema.InPath),
		schema.Required(),
		schema.GreaterThan(0),
		schema.Title("Person ID"),
		schema.Description("This is the person id, it's required"),
		schema.Example(45),
	),
))

// ShowPersonByID answers whether the person with the given id exists.
func ShowPersonByID(dir person.Directory) rest.ApiOption {
	h := &showPersonByIDHandler{
		dir: dir,
	}

	return rest.Operation(
		http.MethodGet,
		rest.BasePath("/person").Segment("detail").Param("person_id"),
		h,
		rest.Input(personID),
		rest.OperationID("show-person-by-id"),
		rest.Tags("Persons"),
		rest.Summary("Show person for id"),
		rest.Problems(http.StatusNotFound),
	)
}

type showPersonByIDHandler struct {
	dir person.Directory
}

func (h *showPersonByIDHandler) Handle(ctx context.Context, in []*schema.Record) (*schema.Record, error) {
	id := in[0].Int("person_id")

	exists, err := h.dir.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		nf := rest.NotFound("person", id)
		nf.Detail = "This person doesn't exist"
		return nil, nf
	}
	return schema.NewRecord().Set(strconv.FormatInt(id, 10), "It exists!"), nil
}
