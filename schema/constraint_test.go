// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConstraint_Check(t *testing.T) {
	testCases := []struct {
		Name       string
		Constraint Constraint
		Value      any
		Message    string
	}{
		{Name: "min length satisfied", Constraint: MinLength(2), Value: "ab"},
		{Name: "min length violated", Constraint: MinLength(2), Value: "a", Message: "ensure this value has at least 2 characters"},
		{Name: "max length counts code points", Constraint: MaxLength(2), Value: "日本"},
		{Name: "max length violated", Constraint: MaxLength(2), Value: "abc", Message: "ensure this value has at most 2 characters"},
		{Name: "greater than satisfied", Constraint: GreaterThan(0), Value: int64(1)},
		{Name: "greater than violated at the bound", Constraint: GreaterThan(0), Value: int64(0), Message: "ensure this value is greater than 0"},
		{Name: "greater or equal satisfied at the bound", Constraint: GreaterOrEqual(0), Value: int64(0)},
		{Name: "less than violated at the bound", Constraint: LessThan(1.5), Value: 1.5, Message: "ensure this value is less than 1.5"},
		{Name: "less or equal satisfied at the bound", Constraint: LessOrEqual(70), Value: int64(70)},
		{Name: "less or equal violated", Constraint: LessOrEqual(70), Value: int64(71), Message: "ensure this value is less than or equal to 70"},
		{Name: "one of matches strings", Constraint: OneOf("a", "b"), Value: "b"},
		{Name: "one of matches numbers across types", Constraint: OneOf(1, 2), Value: int64(2)},
		{Name: "one of lists the permitted values", Constraint: OneOf("a", 2), Value: "c", Message: "value is not a valid enumeration member; permitted: 'a', 2"},
		{Name: "pattern matches", Constraint: Pattern(regexp.MustCompile(`^\d+$`)), Value: "123"},
		{Name: "pattern violated", Constraint: Pattern(regexp.MustCompile(`^\d+$`)), Value: "12a", Message: `string does not match regex "^\\d+$"`},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(t *testing.T) {
			err := testCase.Constraint.Check(testCase.Value)
			if testCase.Message == "" {
				require.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			require.Equal(t, testCase.Message, err.Error())
		})
	}
}

func TestEmail(t *testing.T) {
	testCases := []struct {
		Address string
		Valid   bool
	}{
		{Address: "ada@example.com", Valid: true},
		{Address: "ada.lovelace+notes@mail.example.co.uk", Valid: true},
		{Address: "user_name%tag@sub-domain.io", Valid: true},
		{Address: "ada@example", Valid: false},
		{Address: "ada@example.c", Valid: false},
		{Address: "@example.com", Valid: false},
		{Address: "ada@@example.com", Valid: false},
		{Address: "ada@example..com", Valid: false},
		{Address: "ada@.example.com", Valid: false},
		{Address: "ada example@example.com", Valid: false},
		{Address: "ada@example.123", Valid: false},
		{Address: strings.Repeat("a", 65) + "@example.com", Valid: false},
		{Address: "ada@" + strings.Repeat("a", 250) + ".com", Valid: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Address, func(t *testing.T) {
			err := Email().Check(testCase.Address)
			if testCase.Valid {
				require.Nil(t, err)
				return
			}
			require.Equal(t, errInvalidEmail, err)
			require.Equal(t, RuleFormat, Email().Rule())
		})
	}
}

func TestConstraint_Supports(t *testing.T) {
	require.True(t, MinLength(1).Supports(TypeString))
	require.False(t, MinLength(1).Supports(TypeEnum))
	require.True(t, GreaterThan(0).Supports(TypeNumber))
	require.False(t, GreaterThan(0).Supports(TypeString))
	require.True(t, OneOf(1).Supports(TypeInteger))
	require.False(t, Email().Supports(TypeFile))
}
