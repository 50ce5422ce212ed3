// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Type is the kind of value a field holds once validated.
type Type int

const (
	TypeString Type = iota + 1
	TypeInteger
	TypeNumber
	TypeBoolean
	TypeEnum
	TypeObject
	TypeFile
)

// String implements the [fmt.Stringer] interface.
func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInteger:
		return "integer"
	case TypeNumber:
		return "number"
	case TypeBoolean:
		return "boolean"
	case TypeEnum:
		return "enum"
	case TypeObject:
		return "object"
	case TypeFile:
		return "file"
	default:
		return "unknown"
	}
}

// Upload describes a file received as part of a multipart form.
type Upload struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type typeMismatch struct {
	want Type
}

func (e typeMismatch) Error() string {
	switch e.want {
	case TypeString:
		return "value is not a valid string"
	case TypeInteger:
		return "value is not a valid integer"
	case TypeNumber:
		return "value is not a valid number"
	case TypeBoolean:
		return "value could not be parsed to a boolean"
	case TypeEnum:
		return "value is not a valid enumeration member"
	case TypeObject:
		return "value is not a valid object"
	case TypeFile:
		return "value is not a valid file"
	default:
		return "value has an unknown type"
	}
}

func coerceString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", typeMismatch{want: TypeString}
	}
	return norm.NFC.String(s), nil
}

func coerceInteger(v any) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return 0, typeMismatch{want: TypeInteger}
		}
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, typeMismatch{want: TypeInteger}
		}
		return int64(x), nil
	case float32:
		return integral(float64(x))
	case float64:
		return integral(x)
	case json.Number:
		i, err := x.Int64()
		if err == nil {
			return i, nil
		}
		f, err := x.Float64()
		if err != nil {
			return 0, typeMismatch{want: TypeInteger}
		}
		return integral(f)
	case string:
		i, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			return 0, typeMismatch{want: TypeInteger}
		}
		return i, nil
	default:
		return 0, typeMismatch{want: TypeInteger}
	}
}

// integral only accepts floats without a fractional part.
func integral(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, typeMismatch{want: TypeInteger}
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, typeMismatch{want: TypeInteger}
	}
	return int64(f), nil
}

func coerceNumber(v any) (float64, error) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return 0, typeMismatch{want: TypeNumber}
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, typeMismatch{want: TypeNumber}
		}
		f = n
	default:
		i, err := coerceInteger(v)
		if err != nil {
			return 0, typeMismatch{want: TypeNumber}
		}
		f = float64(i)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, typeMismatch{want: TypeNumber}
	}
	return f, nil
}

func coerceBoolean(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		switch strings.ToLower(x) {
		case "true", "1", "yes", "on":
			return true, nil
		case "false", "0", "no", "off":
			return false, nil
		}
	case json.Number:
		switch x.String() {
		case "1":
			return true, nil
		case "0":
			return false, nil
		}
	case int, int64:
		i, _ := coerceInteger(x)
		switch i {
		case 1:
			return true, nil
		case 0:
			return false, nil
		}
	}
	return false, typeMismatch{want: TypeBoolean}
}

func coerceUpload(v any) (Upload, error) {
	switch x := v.(type) {
	case Upload:
		return x, nil
	case *Upload:
		if x != nil {
			return *x, nil
		}
	}
	return Upload{}, typeMismatch{want: TypeFile}
}
