// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package schema provides declarative, constraint based validation of
// request values and shaping of response records.
//
// A [Schema] is an ordered, immutable set of [FieldDescriptor]s. Schemas are
// built once at startup and shared read-only between requests:
//
//	location := schema.Must(schema.New(
//	    "location",
//	    schema.String("city", schema.Required(), schema.MinLength(1), schema.MaxLength(50)),
//	    schema.String("state", schema.Required(), schema.MinLength(1), schema.MaxLength(50)),
//	))
//
//	rec, err := location.Validate(values)
//	var report schema.Report
//	if errors.As(err, &report) {
//	    // every violated constraint of every field
//	}
package schema

// Schema is an ordered mapping of field names to [FieldDescriptor]s.
type Schema struct {
	name   string
	fields []FieldDescriptor
	index  map[string]int
}

// New builds a [Schema] from the given fields, in declaration order.
//
// It fails if a field name is declared twice, a constraint is attached to
// a field type it can not check or a field descriptor is otherwise malformed.
func New(name string, fields ...FieldDescriptor) (*Schema, error) {
	s := &Schema{
		name:   name,
		fields: make([]FieldDescriptor, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, fd := range fields {
		if _, exists := s.index[fd.name]; exists {
			return nil, DuplicateFieldError{Schema: name, Field: fd.name}
		}
		err := s.add(fd)
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Must panics if err is not nil. It is intended for package level
// schema declarations.
func Must(s *Schema, err error) *Schema {
	if err != nil {
		panic(err)
	}
	return s
}

// Extend builds a [Schema] which inherits every field of base and then
// applies fields in order.
//
// A field with a new name is appended. A field redeclaring a base field
// with the same [Type] replaces the base descriptor at its original
// position. Redeclaring a base field with a different [Type] is an error.
func Extend(base *Schema, name string, fields ...FieldDescriptor) (*Schema, error) {
	s := base.clone(name)

	declared := make(map[string]struct{}, len(fields))
	for _, fd := range fields {
		if _, exists := declared[fd.name]; exists {
			return nil, DuplicateFieldError{Schema: name, Field: fd.name}
		}
		declared[fd.name] = struct{}{}

		i, inherited := s.index[fd.name]
		if !inherited {
			err := s.add(fd)
			if err != nil {
				return nil, err
			}
			continue
		}

		baseType := s.fields[i].typ
		if baseType != fd.typ {
			return nil, IncompatibleFieldError{
				Schema:   name,
				Field:    fd.name,
				Base:     baseType,
				Override: fd.typ,
			}
		}
		err := fd.check(name)
		if err != nil {
			return nil, err
		}
		s.fields[i] = fd
	}
	return s, nil
}

// Omit derives a [Schema] with every field of s except the named ones.
func (s *Schema) Omit(name string, fields ...string) (*Schema, error) {
	omit := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, ok := s.index[f]; !ok {
			return nil, UnknownFieldError{Schema: s.name, Field: f}
		}
		omit[f] = struct{}{}
	}

	derived := &Schema{
		name:  name,
		index: make(map[string]int, len(s.fields)),
	}
	for _, fd := range s.fields {
		if _, skip := omit[fd.name]; skip {
			continue
		}
		derived.index[fd.name] = len(derived.fields)
		derived.fields = append(derived.fields, fd)
	}
	return derived, nil
}

// Pick derives a [Schema] with only the named fields of s, kept in the
// order s declares them.
func (s *Schema) Pick(name string, fields ...string) (*Schema, error) {
	keep := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, ok := s.index[f]; !ok {
			return nil, UnknownFieldError{Schema: s.name, Field: f}
		}
		keep[f] = struct{}{}
	}

	derived := &Schema{
		name:  name,
		index: make(map[string]int, len(fields)),
	}
	for _, fd := range s.fields {
		if _, ok := keep[fd.name]; !ok {
			continue
		}
		derived.index[fd.name] = len(derived.fields)
		derived.fields = append(derived.fields, fd)
	}
	return derived, nil
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// Len returns the number of fields.
func (s *Schema) Len() int { return len(s.fields) }

// Fields returns a copy of the field descriptors in declaration order.
func (s *Schema) Fields() []FieldDescriptor {
	return append([]FieldDescriptor(nil), s.fields...)
}

// Field returns the descriptor of the named field.
func (s *Schema) Field(name string) (FieldDescriptor, bool) {
	i, ok := s.index[name]
	if !ok {
		return FieldDescriptor{}, false
	}
	return s.fields[i], true
}

// Sources returns the distinct sources read by the schema's fields.
func (s *Schema) Sources() []Source {
	seen := make(map[Source]struct{})
	var srcs []Source
	for _, fd := range s.fields {
		if _, ok := seen[fd.in]; ok {
			continue
		}
		seen[fd.in] = struct{}{}
		srcs = append(srcs, fd.in)
	}
	return srcs
}

func (s *Schema) add(fd FieldDescriptor) error {
	err := fd.check(s.name)
	if err != nil {
		return err
	}
	s.index[fd.name] = len(s.fields)
	s.fields = append(s.fields, fd)
	return nil
}

func (s *Schema) clone(name string) *Schema {
	c := &Schema{
		name:   name,
		fields: append([]FieldDescriptor(nil), s.fields...),
		index:  make(map[string]int, len(s.fields)),
	}
	for k, v := range s.index {
		c.index[k] = v
	}
	return c
}
