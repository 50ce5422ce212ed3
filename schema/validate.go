// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

type lookupFunc func(FieldDescriptor) (any, bool)

// Validate coerces and checks every field of s against the raw values.
//
// Fields are processed in declaration order and validation never stops
// at the first failure: every missing required field, every type mismatch
// and every violated constraint is collected. On failure the returned
// error is a [Report]. On success the [Record] holds exactly one entry
// per declared field, with absent optional fields set to their default
// or nil.
func (s *Schema) Validate(vals Values) (*Record, error) {
	var rep Report
	rec := s.validate(
		func(fd FieldDescriptor) (any, bool) {
			return vals.Lookup(fd.in, fd.WireName())
		},
		"",
		"",
		&rep,
	)
	if len(rep) > 0 {
		return nil, rep
	}
	return rec, nil
}

// ValidateObject validates a mapping keyed by wire name, e.g. a decoded
// JSON object. Every violation is reported at loc.
func (s *Schema) ValidateObject(m map[string]any, loc Source) (*Record, error) {
	var rep Report
	rec := s.validate(
		func(fd FieldDescriptor) (any, bool) {
			v, ok := m[fd.WireName()]
			return v, ok
		},
		"",
		loc,
		&rep,
	)
	if len(rep) > 0 {
		return nil, rep
	}
	return rec, nil
}

// From builds a complete record of s out of a partial one, keyed by field
// name. Defaults are applied and constraints are checked exactly like
// [Schema.Validate] does. It is useful for handlers constructing output
// records that rely on declared defaults.
func (s *Schema) From(partial *Record) (*Record, error) {
	var rep Report
	rec := s.validate(
		func(fd FieldDescriptor) (any, bool) {
			return partial.Get(fd.name)
		},
		"",
		"",
		&rep,
	)
	if len(rep) > 0 {
		return nil, rep
	}
	return rec, nil
}

func (s *Schema) validate(lookup lookupFunc, prefix string, loc Source, rep *Report) *Record {
	rec := NewRecord()
	for _, fd := range s.fields {
		path := prefix + fd.name
		where := loc
		if where == "" {
			where = fd.in
		}

		raw, ok := lookup(fd)
		if !ok || raw == nil {
			if fd.required {
				rep.add(path, where, RuleMissing, "field required")
				continue
			}
			rec.Set(fd.name, fd.absent(path, where))
			continue
		}

		v, ok := fd.validateValue(raw, path, where, rep)
		if !ok {
			continue
		}
		rec.Set(fd.name, v)
	}
	return rec
}

func (fd FieldDescriptor) absent(path string, loc Source) any {
	if !fd.hasDefault || fd.def == nil {
		return nil
	}

	// defaults are checked when the schema is built
	var rep Report
	v, _ := fd.validateValue(fd.def, path, loc, &rep)
	return v
}

func (fd FieldDescriptor) validateValue(raw any, path string, loc Source, rep *Report) (any, bool) {
	if fd.typ == TypeObject {
		return fd.validateObject(raw, path, loc, rep)
	}

	v, err := fd.coerce(raw)
	if err != nil {
		rep.add(path, loc, RuleTypeMismatch, err.Error())
		return nil, false
	}

	valid := true
	if fd.typ == TypeEnum {
		err := OneOf(stringsToAny(fd.values)...).Check(v)
		if err != nil {
			rep.add(path, loc, RuleOneOf, err.Error())
			valid = false
		}
	}
	for _, c := range fd.constraints {
		err := c.Check(v)
		if err == nil {
			continue
		}
		rep.add(path, loc, c.Rule(), err.Error())
		valid = false
	}
	return v, valid
}

func (fd FieldDescriptor) validateObject(raw any, path string, loc Source, rep *Report) (any, bool) {
	var lookup lookupFunc
	switch x := raw.(type) {
	case map[string]any:
		lookup = func(n FieldDescriptor) (any, bool) {
			v, ok := x[n.WireName()]
			return v, ok
		}
	case *Record:
		lookup = func(n FieldDescriptor) (any, bool) {
			return x.Get(n.name)
		}
	default:
		rep.add(path, loc, RuleTypeMismatch, typeMismatch{want: TypeObject}.Error())
		return nil, false
	}

	before := len(*rep)
	rec := fd.nested.validate(lookup, path+".", loc, rep)
	return rec, len(*rep) == before
}

func (fd FieldDescriptor) coerce(raw any) (any, error) {
	switch fd.typ {
	case TypeString:
		return coerceString(raw)
	case TypeEnum:
		s, err := coerceString(raw)
		if err != nil {
			return nil, typeMismatch{want: TypeEnum}
		}
		return s, nil
	case TypeInteger:
		return coerceInteger(raw)
	case TypeNumber:
		return coerceNumber(raw)
	case TypeBoolean:
		return coerceBoolean(raw)
	case TypeFile:
		return coerceUpload(raw)
	default:
		return nil, typeMismatch{want: fd.typ}
	}
}

func stringsToAny(ss []string) []any {
	vs := make([]any, len(ss))
	for i, s := range ss {
		vs[i] = s
	}
	return vs
}
