// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/swaggest/jsonschema-go"
)

// Rule names the check a [Violation] failed.
type Rule string

const (
	RuleMissing        Rule = "missing"
	RuleTypeMismatch   Rule = "typeMismatch"
	RuleMinLength      Rule = "minLength"
	RuleMaxLength      Rule = "maxLength"
	RuleGreaterThan    Rule = "greaterThan"
	RuleGreaterOrEqual Rule = "greaterOrEqual"
	RuleLessThan       Rule = "lessThan"
	RuleLessOrEqual    Rule = "lessOrEqual"
	RuleOneOf          Rule = "oneOf"
	RuleFormat         Rule = "formatMatch"
)

// Constraint is a stateless check applied to the coerced value of a field.
// Constraints are also [FieldOption]s so they can be passed directly
// to field constructors like [String] and [Integer].
type Constraint interface {
	FieldOption

	// Rule identifies the constraint in a [Violation].
	Rule() Rule

	// Supports reports whether the constraint can be applied to
	// values of the given [Type].
	Supports(Type) bool

	// Check returns an error describing why v does not satisfy the constraint.
	// The value passed is always the coerced representation of the
	// field's [Type], e.g. int64 for [TypeInteger].
	Check(v any) error

	// Describe records the constraint on a JSON Schema.
	Describe(*jsonschema.Schema)
}

func addConstraint(fd *FieldDescriptor, c Constraint) {
	fd.constraints = append(fd.constraints, c)
}

type lengthConstraint struct {
	rule  Rule
	limit int
}

// MinLength requires a string to have at least n Unicode code points.
func MinLength(n int) Constraint {
	return lengthConstraint{rule: RuleMinLength, limit: n}
}

// MaxLength requires a string to have at most n Unicode code points.
func MaxLength(n int) Constraint {
	return lengthConstraint{rule: RuleMaxLength, limit: n}
}

func (c lengthConstraint) ApplyFieldOption(fd *FieldDescriptor) { addConstraint(fd, c) }

func (c lengthConstraint) Rule() Rule { return c.rule }

func (c lengthConstraint) Supports(t Type) bool { return t == TypeString }

func (c lengthConstraint) Check(v any) error {
	s, ok := v.(string)
	if !ok {
		return typeMismatch{want: TypeString}
	}

	n := utf8.RuneCountInString(s)
	switch c.rule {
	case RuleMinLength:
		if n < c.limit {
			return fmt.Errorf("ensure this value has at least %d characters", c.limit)
		}
	case RuleMaxLength:
		if n > c.limit {
			return fmt.Errorf("ensure this value has at most %d characters", c.limit)
		}
	}
	return nil
}

func (c lengthConstraint) Describe(s *jsonschema.Schema) {
	switch c.rule {
	case RuleMinLength:
		s.WithMinLength(int64(c.limit))
	case RuleMaxLength:
		s.WithMaxLength(int64(c.limit))
	}
}

type boundConstraint struct {
	rule  Rule
	limit float64
}

// GreaterThan requires a number to be strictly greater than x.
func GreaterThan(x float64) Constraint {
	return boundConstraint{rule: RuleGreaterThan, limit: x}
}

// GreaterOrEqual requires a number to be greater than or equal to x.
func GreaterOrEqual(x float64) Constraint {
	return boundConstraint{rule: RuleGreaterOrEqual, limit: x}
}

// LessThan requires a number to be strictly less than x.
func LessThan(x float64) Constraint {
	return boundConstraint{rule: RuleLessThan, limit: x}
}

// LessOrEqual requires a number to be less than or equal to x.
func LessOrEqual(x float64) Constraint {
	return boundConstraint{rule: RuleLessOrEqual, limit: x}
}

func (c boundConstraint) ApplyFieldOption(fd *FieldDescriptor) { addConstraint(fd, c) }

func (c boundConstraint) Rule() Rule { return c.rule }

func (c boundConstraint) Supports(t Type) bool {
	return t == TypeInteger || t == TypeNumber
}

func (c boundConstraint) Check(v any) error {
	var f float64
	switch x := v.(type) {
	case int64:
		f = float64(x)
	case float64:
		f = x
	default:
		return typeMismatch{want: TypeNumber}
	}

	limit := strconv.FormatFloat(c.limit, 'f', -1, 64)
	switch c.rule {
	case RuleGreaterThan:
		if !(f > c.limit) {
			return fmt.Errorf("ensure this value is greater than %s", limit)
		}
	case RuleGreaterOrEqual:
		if !(f >= c.limit) {
			return fmt.Errorf("ensure this value is greater than or equal to %s", limit)
		}
	case RuleLessThan:
		if !(f < c.limit) {
			return fmt.Errorf("ensure this value is less than %s", limit)
		}
	case RuleLessOrEqual:
		if !(f <= c.limit) {
			return fmt.Errorf("ensure this value is less than or equal to %s", limit)
		}
	}
	return nil
}

func (c boundConstraint) Describe(s *jsonschema.Schema) {
	switch c.rule {
	case RuleGreaterThan:
		s.WithExclusiveMinimum(c.limit)
	case RuleGreaterOrEqual:
		s.WithMinimum(c.limit)
	case RuleLessThan:
		s.WithExclusiveMaximum(c.limit)
	case RuleLessOrEqual:
		s.WithMaximum(c.limit)
	}
}

type oneOfConstraint struct {
	values []any
}

// OneOf requires a value to equal one of the given values.
// Numbers are compared by value regardless of their Go type.
func OneOf(values ...any) Constraint {
	return oneOfConstraint{values: values}
}

func (c oneOfConstraint) ApplyFieldOption(fd *FieldDescriptor) { addConstraint(fd, c) }

func (c oneOfConstraint) Rule() Rule { return RuleOneOf }

func (c oneOfConstraint) Supports(t Type) bool {
	switch t {
	case TypeString, TypeEnum, TypeInteger, TypeNumber:
		return true
	default:
		return false
	}
}

func (c oneOfConstraint) Check(v any) error {
	for _, allowed := range c.values {
		if equalScalar(allowed, v) {
			return nil
		}
	}

	permitted := make([]string, len(c.values))
	for i, allowed := range c.values {
		if s, ok := allowed.(string); ok {
			permitted[i] = "'" + s + "'"
			continue
		}
		permitted[i] = fmt.Sprint(allowed)
	}
	return fmt.Errorf("value is not a valid enumeration member; permitted: %s", strings.Join(permitted, ", "))
}

func (c oneOfConstraint) Describe(s *jsonschema.Schema) {
	s.WithEnum(c.values...)
}

func equalScalar(a, b any) bool {
	as, aIsString := a.(string)
	bs, bIsString := b.(string)
	if aIsString || bIsString {
		return aIsString && bIsString && as == bs
	}

	af, err := coerceNumber(a)
	if err != nil {
		return false
	}
	bf, err := coerceNumber(b)
	if err != nil {
		return false
	}
	return af == bf
}

type patternConstraint struct {
	re *regexp.Regexp
}

// Pattern requires a string to match the given regular expression.
func Pattern(re *regexp.Regexp) Constraint {
	return patternConstraint{re: re}
}

func (c patternConstraint) ApplyFieldOption(fd *FieldDescriptor) { addConstraint(fd, c) }

func (c patternConstraint) Rule() Rule { return RuleFormat }

func (c patternConstraint) Supports(t Type) bool { return t == TypeString }

func (c patternConstraint) Check(v any) error {
	s, ok := v.(string)
	if !ok {
		return typeMismatch{want: TypeString}
	}
	if c.re.MatchString(s) {
		return nil
	}
	return fmt.Errorf("string does not match regex %q", c.re.String())
}

func (c patternConstraint) Describe(s *jsonschema.Schema) {
	s.WithPattern(c.re.String())
}

// emailPattern covers the common subset of RFC 5322 addresses that
// are deliverable in practice.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var errInvalidEmail = errors.New("value is not a valid email address")

type emailConstraint struct{}

// Email requires a string to be an email address of the form local@domain.
//
// The local part is 1 to 64 characters drawn from letters, digits and ._%+-.
// The domain is a dot separated list of non-empty labels made of letters,
// digits and hyphens, ending in an alphabetic label of at least 2 characters.
// The whole address must not exceed 254 characters.
func Email() Constraint {
	return emailConstraint{}
}

func (emailConstraint) ApplyFieldOption(fd *FieldDescriptor) { addConstraint(fd, emailConstraint{}) }

func (emailConstraint) Rule() Rule { return RuleFormat }

func (emailConstraint) Supports(t Type) bool { return t == TypeString }

func (emailConstraint) Check(v any) error {
	s, ok := v.(string)
	if !ok {
		return typeMismatch{want: TypeString}
	}
	if !isEmail(s) {
		return errInvalidEmail
	}
	return nil
}

func (emailConstraint) Describe(s *jsonschema.Schema) {
	s.WithFormat("email")
}

func isEmail(s string) bool {
	if len(s) > 254 || !emailPattern.MatchString(s) {
		return false
	}

	at := strings.LastIndexByte(s, '@')
	if at > 64 {
		return false
	}
	for _, label := range strings.Split(s[at+1:], ".") {
		if label == "" {
			return false
		}
	}
	return true
}
