// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

// Shape returns a new record holding only the fields out declares, in the
// order out declares them. Extra fields of rec are dropped. Nested records
// of object fields are shaped recursively, whether the handler built them
// as a [*Record] or as a map[string]any.
//
// A declared field missing from rec yields a [MissingFieldError] and an
// object field holding anything else yields a [NotAnObjectError]. Shape
// never fills in defaults.
func Shape(out *Schema, rec *Record) (*Record, error) {
	return shape(out, rec, "")
}

func shape(out *Schema, rec *Record, prefix string) (*Record, error) {
	shaped := NewRecord()
	for _, fd := range out.fields {
		v, ok := rec.Get(fd.name)
		if !ok {
			return nil, MissingFieldError{
				Schema: out.name,
				Field:  prefix + fd.name,
			}
		}

		if fd.typ == TypeObject && v != nil {
			sv, err := shapeObject(out, fd, v, prefix)
			if err != nil {
				return nil, err
			}
			v = sv
		}
		shaped.Set(fd.name, v)
	}
	return shaped, nil
}

func shapeObject(out *Schema, fd FieldDescriptor, v any, prefix string) (any, error) {
	var nested *Record
	switch x := v.(type) {
	case *Record:
		if x == nil {
			return nil, nil
		}
		nested = x
	case map[string]any:
		nested = NewRecord()
		for k, mv := range x {
			nested.Set(k, mv)
		}
	default:
		return nil, NotAnObjectError{
			Schema: out.name,
			Field:  prefix + fd.name,
		}
	}
	return shape(fd.nested, nested, prefix+fd.name+".")
}
