// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import "strings"

// FieldDescriptor binds a set of constraints and metadata to a named field.
// Descriptors are immutable once added to a [Schema].
type FieldDescriptor struct {
	name        string
	typ         Type
	in          Source
	alias       string
	required    bool
	hasDefault  bool
	def         any
	examples    []any
	title       string
	description string
	values      []string
	nested      *Schema
	constraints []Constraint
}

// FieldOption configures a [FieldDescriptor].
type FieldOption interface {
	ApplyFieldOption(*FieldDescriptor)
}

type fieldOptionFunc func(*FieldDescriptor)

func (f fieldOptionFunc) ApplyFieldOption(fd *FieldDescriptor) {
	f(fd)
}

// In sets the [Source] the field is read from. Fields default to [InBody].
func In(src Source) FieldOption {
	return fieldOptionFunc(func(fd *FieldDescriptor) {
		fd.in = src
	})
}

// Alias overrides the name used to look the field up in its [Source].
// Header fields without an alias are looked up by their name with
// underscores replaced by hyphens, e.g. user_agent becomes user-agent.
func Alias(name string) FieldOption {
	return fieldOptionFunc(func(fd *FieldDescriptor) {
		fd.alias = name
	})
}

// Required marks the field as mandatory. A required field must not have a default.
func Required() FieldOption {
	return fieldOptionFunc(func(fd *FieldDescriptor) {
		fd.required = true
	})
}

// Default sets the value used when the field is absent. Passing nil
// declares the field optional with an explicit absence marker.
func Default(v any) FieldOption {
	return fieldOptionFunc(func(fd *FieldDescriptor) {
		fd.hasDefault = true
		fd.def = v
	})
}

// Example attaches documentation-only example values.
func Example(vs ...any) FieldOption {
	return fieldOptionFunc(func(fd *FieldDescriptor) {
		fd.examples = append(fd.examples, vs...)
	})
}

// Title sets a short human readable name for the field.
func Title(s string) FieldOption {
	return fieldOptionFunc(func(fd *FieldDescriptor) {
		fd.title = s
	})
}

// Description documents the field.
func Description(s string) FieldOption {
	return fieldOptionFunc(func(fd *FieldDescriptor) {
		fd.description = s
	})
}

func newField(name string, typ Type, opts ...FieldOption) FieldDescriptor {
	fd := FieldDescriptor{
		name: name,
		typ:  typ,
		in:   InBody,
	}
	for _, opt := range opts {
		opt.ApplyFieldOption(&fd)
	}
	return fd
}

// String declares a text field.
func String(name string, opts ...FieldOption) FieldDescriptor {
	return newField(name, TypeString, opts...)
}

// Integer declares a whole number field.
func Integer(name string, opts ...FieldOption) FieldDescriptor {
	return newField(name, TypeInteger, opts...)
}

// Number declares a floating point field.
func Number(name string, opts ...FieldOption) FieldDescriptor {
	return newField(name, TypeNumber, opts...)
}

// Boolean declares a true/false field.
func Boolean(name string, opts ...FieldOption) FieldDescriptor {
	return newField(name, TypeBoolean, opts...)
}

// Enum declares a field whose value must be one of values.
func Enum(name string, values []string, opts ...FieldOption) FieldDescriptor {
	fd := newField(name, TypeEnum, opts...)
	fd.values = append([]string(nil), values...)
	return fd
}

// Object declares a field holding a nested record validated against s.
func Object(name string, s *Schema, opts ...FieldOption) FieldDescriptor {
	fd := newField(name, TypeObject, opts...)
	fd.nested = s
	return fd
}

// File declares an uploaded file field. File fields are always read from [InFile].
func File(name string, opts ...FieldOption) FieldDescriptor {
	fd := newField(name, TypeFile, opts...)
	fd.in = InFile
	return fd
}

// Name returns the field name used in records and violations.
func (fd FieldDescriptor) Name() string { return fd.name }

// Type returns the kind of value the field holds.
func (fd FieldDescriptor) Type() Type { return fd.typ }

// In returns the [Source] the field is read from.
func (fd FieldDescriptor) In() Source { return fd.in }

// IsRequired reports whether the field must be present.
func (fd FieldDescriptor) IsRequired() bool { return fd.required }

// Default returns the default value and whether one was declared.
func (fd FieldDescriptor) Default() (any, bool) { return fd.def, fd.hasDefault }

// Values returns the permitted values of an enum field.
func (fd FieldDescriptor) Values() []string { return fd.values }

// Nested returns the schema of an object field.
func (fd FieldDescriptor) Nested() *Schema { return fd.nested }

// Constraints returns the constraints attached to the field.
func (fd FieldDescriptor) Constraints() []Constraint { return fd.constraints }

// Description returns the field documentation.
func (fd FieldDescriptor) Description() string { return fd.description }

// WireName returns the key the field is looked up by in its [Source].
func (fd FieldDescriptor) WireName() string {
	if fd.alias != "" {
		return fd.alias
	}
	if fd.in == InHeader {
		return strings.ReplaceAll(fd.name, "_", "-")
	}
	return fd.name
}

func (fd FieldDescriptor) check(schema string) error {
	if fd.name == "" {
		return InvalidFieldError{Schema: schema, Field: fd.name, Reason: "field name must not be empty"}
	}
	if fd.required && fd.hasDefault {
		return InvalidFieldError{Schema: schema, Field: fd.name, Reason: "required field must not declare a default"}
	}
	if fd.typ == TypeObject {
		if fd.nested == nil {
			return InvalidFieldError{Schema: schema, Field: fd.name, Reason: "object field requires a nested schema"}
		}
		if fd.in != InBody {
			return InvalidFieldError{Schema: schema, Field: fd.name, Reason: "object fields can only be read from the body"}
		}
	}
	if fd.typ == TypeEnum && len(fd.values) == 0 {
		return InvalidFieldError{Schema: schema, Field: fd.name, Reason: "enum field requires at least one value"}
	}
	if fd.typ == TypeFile && fd.in != InFile {
		return InvalidFieldError{Schema: schema, Field: fd.name, Reason: "file fields can only be read from uploads"}
	}
	if fd.typ != TypeFile && fd.in == InFile {
		return InvalidFieldError{Schema: schema, Field: fd.name, Reason: "only file fields can be read from uploads"}
	}

	for _, c := range fd.constraints {
		if c.Supports(fd.typ) {
			continue
		}
		return UnsupportedConstraintError{
			Schema: schema,
			Field:  fd.name,
			Rule:   c.Rule(),
			Type:   fd.typ,
		}
	}

	if !fd.hasDefault || fd.def == nil {
		return nil
	}
	var rep Report
	fd.validateValue(fd.def, fd.name, fd.in, &rep)
	if len(rep) > 0 {
		return InvalidFieldError{Schema: schema, Field: fd.name, Reason: "default is not a valid value", Cause: rep}
	}
	return nil
}
