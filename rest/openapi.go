// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"net/http"
	"strconv"

	"github.com/z5labs/sieve/schema"

	"github.com/swaggest/jsonschema-go"
	"github.com/swaggest/openapi-go/openapi3"
	"github.com/z5labs/sdk-go/ptr"
)

var parameterIn = map[schema.Source]openapi3.ParameterIn{
	schema.InPath:   openapi3.ParameterInPath,
	schema.InQuery:  openapi3.ParameterInQuery,
	schema.InHeader: openapi3.ParameterInHeader,
	schema.InCookie: openapi3.ParameterInCookie,
}

func schemaOrRef(js jsonschema.Schema) *openapi3.SchemaOrRef {
	var sor openapi3.SchemaOrRef
	sor.FromJSONSchema(js.ToSchemaOrBool())
	return &sor
}

func reflectSchema(v any) *openapi3.SchemaOrRef {
	var reflector jsonschema.Reflector

	js, err := reflector.Reflect(v, jsonschema.InlineRefs)
	if err != nil {
		panic(err)
	}
	return schemaOrRef(js)
}

func (o *operation) spec(oo *OperationOptions) openapi3.Operation {
	op := openapi3.Operation{
		Tags:        oo.tags,
		Parameters:  o.parameters(),
		RequestBody: o.requestBody(),
		Responses: openapi3.Responses{
			MapOfResponseOrRefValues: o.responses(oo.problems),
		},
	}
	if oo.id != "" {
		op.ID = ptr.Ref(oo.id)
	}
	if oo.summary != "" {
		op.Summary = ptr.Ref(oo.summary)
	}
	if oo.description != "" {
		op.Description = ptr.Ref(oo.description)
	}
	return op
}

func (o *operation) parameters() []openapi3.ParameterOrRef {
	var params []openapi3.ParameterOrRef
	for _, in := range o.inputs {
		for _, fd := range in.Fields() {
			loc, ok := parameterIn[fd.In()]
			if !ok {
				continue
			}

			p := &openapi3.Parameter{
				Name:   fd.WireName(),
				In:     loc,
				Schema: schemaOrRef(fd.JSONSchema()),
			}
			if fd.IsRequired() || loc == openapi3.ParameterInPath {
				p.Required = ptr.Ref(true)
			}
			if fd.Description() != "" {
				p.Description = ptr.Ref(fd.Description())
			}
			params = append(params, openapi3.ParameterOrRef{Parameter: p})
		}
	}
	return params
}

func (o *operation) requestBody() *openapi3.RequestBodyOrRef {
	var (
		bodies []jsonschema.Schema
		names  []string
		form   []schema.FieldDescriptor
		files  bool
	)
	for _, in := range o.inputs {
		body := pickSource(in, schema.InBody)
		if body != nil {
			bodies = append(bodies, body.JSONSchema())
			names = append(names, in.Name())
		}

		for _, fd := range in.Fields() {
			switch fd.In() {
			case schema.InForm:
				form = append(form, fd)
			case schema.InFile:
				form = append(form, fd)
				files = true
			}
		}
	}

	content := make(map[string]openapi3.MediaType)
	switch {
	case len(bodies) == 1 && !o.embed:
		content["application/json"] = openapi3.MediaType{Schema: schemaOrRef(bodies[0])}
	case len(bodies) > 0:
		var wrapper jsonschema.Schema
		wrapper.WithType(jsonschema.Object.Type())
		for i, body := range bodies {
			wrapper.WithPropertiesItem(names[i], body.ToSchemaOrBool())
			wrapper.Required = append(wrapper.Required, names[i])
		}
		content["application/json"] = openapi3.MediaType{Schema: schemaOrRef(wrapper)}
	case len(form) > 0:
		fs, err := schema.New("form", form...)
		if err != nil {
			panic(err)
		}
		contentType := "application/x-www-form-urlencoded"
		if files {
			contentType = "multipart/form-data"
		}
		content[contentType] = openapi3.MediaType{Schema: schemaOrRef(fs.JSONSchema())}
	default:
		return nil
	}

	return &openapi3.RequestBodyOrRef{
		RequestBody: &openapi3.RequestBody{
			Required: ptr.Ref(true),
			Content:  content,
		},
	}
}

func (o *operation) responses(problems []int) map[string]openapi3.ResponseOrRef {
	success := &openapi3.Response{
		Description: http.StatusText(o.status),
	}
	if o.output != nil && o.status != http.StatusNoContent {
		success.Content = map[string]openapi3.MediaType{
			"application/json": {Schema: schemaOrRef(o.output.JSONSchema())},
		}
	}

	responses := map[string]openapi3.ResponseOrRef{
		strconv.Itoa(o.status): {Response: success},
	}
	addProblem := func(status int, v any) {
		responses[strconv.Itoa(status)] = openapi3.ResponseOrRef{
			Response: &openapi3.Response{
				Description: http.StatusText(status),
				Content: map[string]openapi3.MediaType{
					"application/problem+json": {Schema: reflectSchema(v)},
				},
			},
		}
	}

	addProblem(http.StatusInternalServerError, ProblemDetail{})
	if len(o.inputs) > 0 {
		addProblem(http.StatusBadRequest, ProblemDetail{})
		addProblem(http.StatusUnprocessableEntity, ValidationError{})
	}

	var readsBody, readsFiles bool
	for _, in := range o.inputs {
		for _, src := range in.Sources() {
			switch src {
			case schema.InBody, schema.InForm:
				readsBody = true
			case schema.InFile:
				readsBody = true
				readsFiles = true
			}
		}
	}
	if readsBody {
		addProblem(http.StatusUnsupportedMediaType, ProblemDetail{})
	}
	if readsFiles {
		addProblem(http.StatusRequestEntityTooLarge, ProblemDetail{})
	}

	for _, status := range problems {
		switch status {
		case http.StatusNotFound:
			addProblem(status, NotFoundError{})
		default:
			addProblem(status, ProblemDetail{})
		}
	}
	return responses
}

// pickSource returns the subset of s read from src, or nil when s has
// no such fields.
func pickSource(s *schema.Schema, src schema.Source) *schema.Schema {
	var names []string
	for _, fd := range s.Fields() {
		if fd.In() == src {
			names = append(names, fd.Name())
		}
	}
	if len(names) == 0 {
		return nil
	}

	picked, err := s.Pick(s.Name(), names...)
	if err != nil {
		panic(err)
	}
	return picked
}
