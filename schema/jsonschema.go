// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import "github.com/swaggest/jsonschema-go"

// JSONSchema describes s as a JSON Schema object, keyed by wire name.
func (s *Schema) JSONSchema() jsonschema.Schema {
	var js jsonschema.Schema
	js.WithType(jsonschema.Object.Type())
	if s.name != "" {
		js.WithTitle(s.name)
	}

	var required []string
	for _, fd := range s.fields {
		fs := fd.JSONSchema()
		js.WithPropertiesItem(fd.WireName(), fs.ToSchemaOrBool())
		if fd.required {
			required = append(required, fd.WireName())
		}
	}
	if len(required) > 0 {
		js.WithRequired(required...)
	}
	return js
}

// JSONSchema describes the field value as a JSON Schema.
func (fd FieldDescriptor) JSONSchema() jsonschema.Schema {
	var js jsonschema.Schema
	switch fd.typ {
	case TypeString:
		js.WithType(jsonschema.String.Type())
	case TypeInteger:
		js.WithType(jsonschema.Integer.Type())
	case TypeNumber:
		js.WithType(jsonschema.Number.Type())
	case TypeBoolean:
		js.WithType(jsonschema.Boolean.Type())
	case TypeEnum:
		js.WithType(jsonschema.String.Type())
		js.WithEnum(stringsToAny(fd.values)...)
	case TypeObject:
		js = fd.nested.JSONSchema()
	case TypeFile:
		js.WithType(jsonschema.String.Type())
		js.WithFormat("binary")
	}

	if fd.title != "" {
		js.WithTitle(fd.title)
	}
	if fd.description != "" {
		js.WithDescription(fd.description)
	}
	if fd.hasDefault {
		js.WithDefault(fd.def)
	}
	if len(fd.examples) > 0 {
		js.WithExamples(fd.examples...)
	}
	for _, c := range fd.constraints {
		c.Describe(&js)
	}
	return js
}
