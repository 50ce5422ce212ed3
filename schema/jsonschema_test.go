// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchema_JSONSchema(t *testing.T) {
	js := person(t).JSONSchema()

	b, err := json.Marshal(js)
	require.Nil(t, err)

	var doc struct {
		Type       string                    `json:"type"`
		Title      string                    `json:"title"`
		Required   []string                  `json:"required"`
		Properties map[string]map[string]any `json:"properties"`
	}
	err = json.Unmarshal(b, &doc)
	require.Nil(t, err)

	require.Equal(t, "object", doc.Type)
	require.Equal(t, "person", doc.Title)
	require.Equal(t, []string{"first_name", "last_name", "age", "password"}, doc.Required)

	firstName := doc.Properties["first_name"]
	require.Equal(t, "string", firstName["type"])
	require.Equal(t, 1.0, firstName["minLength"])
	require.Equal(t, 50.0, firstName["maxLength"])

	age := doc.Properties["age"]
	require.Equal(t, "integer", age["type"])
	require.Equal(t, 0.0, age["exclusiveMinimum"])
	require.Equal(t, 70.0, age["maximum"])

	hairColor := doc.Properties["hair_color"]
	require.Equal(t, []any{"white", "brown", "black", "blonde", "red"}, hairColor["enum"])
}

func TestFieldDescriptor_JSONSchema(t *testing.T) {
	t.Run("will describe files as binary strings", func(t *testing.T) {
		js := File("image").JSONSchema()

		b, err := json.Marshal(js)
		require.Nil(t, err)
		require.JSONEq(t, `{"type":"string","format":"binary"}`, string(b))
	})

	t.Run("will describe email fields", func(t *testing.T) {
		js := String("email", Email(), Example("ada@example.com")).JSONSchema()

		b, err := json.Marshal(js)
		require.Nil(t, err)
		require.JSONEq(t, `{"type":"string","format":"email","examples":["ada@example.com"]}`, string(b))
	})
}
