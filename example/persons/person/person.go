// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package person declares the schemas and the directory of the persons example.
package person

import "github.com/z5labs/sieve/schema"

// HairColors enumerates the accepted values of the hair_color field.
var HairColors = []string{"white", "brown", "black", "blonde", "red"}

var Location = schema.Must(schema.New(
	"location",
	schema.String("city", schema.Required(), schema.MinLength(1), schema.MaxLength(50), schema.Example("Pitalito")),
	schema.String("state", schema.Required(), schema.MinLength(1), schema.MaxLength(50), schema.Example("Huila")),
	schema.String("country", schema.Required(), schema.MinLength(1), schema.MaxLength(50), schema.Example("Colombia")),
))

// Base holds the fields shared by every person representation.
var Base = schema.Must(schema.New(
	"person_base",
	schema.String("first_name", schema.Required(), schema.MinLength(1), schema.MaxLength(50), schema.Example("Cristhian")),
	schema.String("last_name", schema.Required(), schema.MinLength(1), schema.MaxLength(50), schema.Example("Carbonell")),
	schema.Integer("age", schema.Required(), schema.GreaterThan(0), schema.LessOrEqual(70), schema.Example(34)),
	schema.Enum("hair_color", HairColors, schema.Example("black")),
	schema.Boolean("is_married"),
))

// Person is the input representation, it carries the credential.
var Person = schema.Must(schema.Extend(
	Base,
	"person",
	schema.String("password", schema.Required(), schema.MinLength(8)),
))

// Out never exposes the password.
var Out = schema.Must(Person.Omit("person_out", "password"))

var LoginOut = schema.Must(schema.New(
	"login_out",
	schema.String("username", schema.Required(), schema.MaxLength(20), schema.Example("Alex2021")),
	schema.String("message", schema.Default("Login Succesfully!")),
))
