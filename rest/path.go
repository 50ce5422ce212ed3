// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"path"
)

// PathElement represents a component of a URL path.
// It can be either a static path segment or a dynamic path parameter.
type PathElement interface {
	pathElement() string
}

// PathSegment is a static component of a URL path.
type PathSegment string

func (s PathSegment) pathElement() string {
	return string(s)
}

// PathParam is a dynamic component of a URL path. Its value is bound to
// the input field read from [schema.InPath] with the same wire name.
type PathParam string

func (p PathParam) pathElement() string {
	return "{" + string(p) + "}"
}

// Path represents a URL path composed of static segments and dynamic parameters.
// Paths are built using [BasePath] and extended with [Path.Segment] and [Path.Param].
type Path []PathElement

// BasePath creates a new path starting with the given segment.
//
// Example:
//
//	path := rest.BasePath("/person")
//	// Results in: /person
func BasePath(s string) Path {
	return []PathElement{PathSegment(s)}
}

// Segment appends a static path segment to the path.
//
// Example:
//
//	path := rest.BasePath("/person").Segment("detail")
//	// Results in: /person/detail
func (p Path) Segment(s string) Path {
	return append(p, PathSegment(s))
}

// Param appends a dynamic path parameter to the path.
//
// Example:
//
//	path := rest.BasePath("/person").Segment("detail").Param("person_id")
//	// Results in: /person/detail/{person_id}
func (p Path) Param(name string) Path {
	return append(p, PathParam(name))
}

// Params returns the names of the dynamic parameters in order.
func (p Path) Params() []string {
	var names []string
	for _, el := range p {
		if param, ok := el.(PathParam); ok {
			names = append(names, string(param))
		}
	}
	return names
}

// String converts the path to its string representation.
// Static segments are joined with slashes, and parameters are formatted as {name}.
func (p Path) String() string {
	ss := make([]string, len(p))
	for i, el := range p {
		ss[i] = el.pathElement()
	}
	return path.Join(ss...)
}
