// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

// Source identifies where in a request the raw value of a field is read from.
type Source string

const (
	InPath   Source = "path"
	InQuery  Source = "query"
	InBody   Source = "body"
	InForm   Source = "form"
	InHeader Source = "header"
	InCookie Source = "cookie"
	InFile   Source = "file"
)

// Values holds the raw, unvalidated values of a request grouped by [Source].
type Values map[Source]map[string]any

// Set stores the raw value v for the named field under the given [Source].
func (vs Values) Set(src Source, name string, v any) {
	m, ok := vs[src]
	if !ok {
		m = make(map[string]any)
		vs[src] = m
	}
	m[name] = v
}

// Lookup returns the raw value of the named field from the given [Source].
func (vs Values) Lookup(src Source, name string) (any, bool) {
	m, ok := vs[src]
	if !ok {
		return nil, false
	}
	v, ok := m[name]
	return v, ok
}
