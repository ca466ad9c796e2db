// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Errors wrapped by *ConversionError.
var (
	// ErrEmpty is returned when converting an empty field to anything other
	// than a string.
	ErrEmpty = errors.New("empty value")

	// ErrSyntax is returned when a field's text is not valid for the requested
	// type, including trailing unconsumed characters.
	ErrSyntax = errors.New("invalid syntax")

	// ErrNegative is returned when converting text with a leading minus sign
	// to an unsigned integer type.
	ErrNegative = errors.New("negative value for unsigned type")
)

// ConversionError records a failed conversion of a field.
type ConversionError struct {
	// Value is the field's raw text, or the formatted Go value if Encode is true.
	Value string
	// Type is the name of the requested type, like "int32" or "[]bool".
	Type string
	// Encode is true if the failure happened while storing a value.
	Encode bool
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Encode {
		return fmt.Sprintf("ini: cannot store %s %s in field: %v", e.Type, e.Value, e.Err)
	}
	return fmt.Sprintf("ini: field %q is no %s: %v", e.Value, e.Type, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// A Converter translates between a field's text and a Go value. The scalar
// converters in this package (Bool, Int, Float64, ...) cover the built-in
// kinds; implement Converter to decode other types.
type Converter[T any] interface {
	Decode(text string) (T, error)
	Encode(v T) (string, error)
}

// Kind is one of the built-in scalar types a field can be converted to.
type Kind int

// Built-in kinds.
const (
	KindBool Kind = 1 + iota
	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindString
	KindChar
)

var kindNames = [...]string{
	KindBool:    "bool",
	KindInt:     "int",
	KindInt8:    "int8",
	KindInt16:   "int16",
	KindInt32:   "int32",
	KindInt64:   "int64",
	KindUint:    "uint",
	KindUint8:   "uint8",
	KindUint16:  "uint16",
	KindUint32:  "uint32",
	KindUint64:  "uint64",
	KindFloat32: "float32",
	KindFloat64: "float64",
	KindString:  "string",
	KindChar:    "char",
}

// String returns the Go-like type name of the kind.
func (k Kind) String() string {
	if k <= 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind returns the kind with the given name, as returned by Kind.String.
func ParseKind(name string) (Kind, bool) {
	for k := KindBool; int(k) < len(kindNames); k++ {
		if kindNames[k] == name {
			return k, true
		}
	}
	return 0, false
}

// bits returns the width of an integer or float kind.
func (k Kind) bits() int {
	switch k {
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32, KindFloat32:
		return 32
	case KindInt, KindUint:
		return strconv.IntSize
	default:
		return 64
	}
}

// Parse converts text to a value of the kind's Go type: bool, int8 ... uint64,
// float32, float64, string, or rune for KindChar. It is the untyped
// counterpart of the scalar converters and follows the same rules.
func (k Kind) Parse(text string) (interface{}, error) {
	switch k {
	case KindBool:
		return parseBool(text)
	case KindInt:
		v, err := parseSigned(text, k.bits())
		return int(v), err
	case KindInt8:
		v, err := parseSigned(text, 8)
		return int8(v), err
	case KindInt16:
		v, err := parseSigned(text, 16)
		return int16(v), err
	case KindInt32:
		v, err := parseSigned(text, 32)
		return int32(v), err
	case KindInt64:
		return parseSigned(text, 64)
	case KindUint:
		v, err := parseUnsigned(text, k.bits())
		return uint(v), err
	case KindUint8:
		v, err := parseUnsigned(text, 8)
		return uint8(v), err
	case KindUint16:
		v, err := parseUnsigned(text, 16)
		return uint16(v), err
	case KindUint32:
		v, err := parseUnsigned(text, 32)
		return uint32(v), err
	case KindUint64:
		return parseUnsigned(text, 64)
	case KindFloat32:
		v, err := parseFloat(text)
		return float32(v), err
	case KindFloat64:
		return parseFloat(text)
	case KindString:
		return text, nil
	case KindChar:
		return parseChar(text)
	default:
		return nil, fmt.Errorf("unknown kind %v", k)
	}
}

// Scalar converters for the built-in kinds.
var (
	Bool    Converter[bool]    = boolConverter{}
	Int     Converter[int]     = signed[int]{KindInt}
	Int8    Converter[int8]    = signed[int8]{KindInt8}
	Int16   Converter[int16]   = signed[int16]{KindInt16}
	Int32   Converter[int32]   = signed[int32]{KindInt32}
	Int64   Converter[int64]   = signed[int64]{KindInt64}
	Uint    Converter[uint]    = unsigned[uint]{KindUint}
	Uint8   Converter[uint8]   = unsigned[uint8]{KindUint8}
	Uint16  Converter[uint16]  = unsigned[uint16]{KindUint16}
	Uint32  Converter[uint32]  = unsigned[uint32]{KindUint32}
	Uint64  Converter[uint64]  = unsigned[uint64]{KindUint64}
	Float32 Converter[float32] = floating[float32]{KindFloat32}
	Float64 Converter[float64] = floating[float64]{KindFloat64}
	String  Converter[string]  = stringConverter{}
	Char    Converter[rune]    = charConverter{}
)

type boolConverter struct{}

func (boolConverter) String() string { return KindBool.String() }

func (boolConverter) Decode(text string) (bool, error) { return parseBool(text) }

func (boolConverter) Encode(v bool) (string, error) { return strconv.FormatBool(v), nil }

type signed[T int | int8 | int16 | int32 | int64] struct{ kind Kind }

func (c signed[T]) String() string { return c.kind.String() }

func (c signed[T]) Decode(text string) (T, error) {
	v, err := parseSigned(text, c.kind.bits())
	return T(v), err
}

func (c signed[T]) Encode(v T) (string, error) {
	return strconv.FormatInt(int64(v), 10), nil
}

type unsigned[T uint | uint8 | uint16 | uint32 | uint64] struct{ kind Kind }

func (c unsigned[T]) String() string { return c.kind.String() }

func (c unsigned[T]) Decode(text string) (T, error) {
	v, err := parseUnsigned(text, c.kind.bits())
	return T(v), err
}

func (c unsigned[T]) Encode(v T) (string, error) {
	return strconv.FormatUint(uint64(v), 10), nil
}

type floating[T float32 | float64] struct{ kind Kind }

func (c floating[T]) String() string { return c.kind.String() }

func (c floating[T]) Decode(text string) (T, error) {
	v, err := parseFloat(text)
	return T(v), err
}

func (c floating[T]) Encode(v T) (string, error) {
	return formatFloat(float64(v), c.kind.bits()), nil
}

type stringConverter struct{}

func (stringConverter) String() string { return KindString.String() }

func (stringConverter) Decode(text string) (string, error) { return text, nil }

func (stringConverter) Encode(v string) (string, error) { return v, nil }

type charConverter struct{}

func (charConverter) String() string { return KindChar.String() }

func (charConverter) Decode(text string) (rune, error) { return parseChar(text) }

func (charConverter) Encode(v rune) (string, error) {
	if !utf8.ValidRune(v) {
		return "", fmt.Errorf("invalid rune %U", v)
	}
	return string(v), nil
}

// ListOf returns a converter for lists of values separated by sep. Each
// element is trimmed of surrounding whitespace and converted with elem.
// An empty field is an empty list. ListOf panics if sep is empty.
func ListOf[T any](sep string, elem Converter[T]) Converter[[]T] {
	if sep == "" {
		panic("ini.ListOf: empty separator")
	}
	return list[T]{sep: sep, elem: elem}
}

type list[T any] struct {
	sep  string
	elem Converter[T]
}

func (l list[T]) String() string { return "[]" + typeName(l.elem) }

func (l list[T]) Decode(text string) ([]T, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	parts := strings.Split(text, l.sep)
	result := make([]T, 0, len(parts))
	for i, part := range parts {
		v, err := l.elem.Decode(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		result = append(result, v)
	}
	return result, nil
}

func (l list[T]) Encode(v []T) (string, error) {
	sb := new(strings.Builder)
	for i, x := range v {
		s, err := l.elem.Encode(x)
		if err != nil {
			return "", fmt.Errorf("element %d: %w", i, err)
		}
		if strings.Contains(s, l.sep) {
			return "", fmt.Errorf("element %d: %q contains separator %q", i, s, l.sep)
		}
		if i > 0 {
			sb.WriteString(l.sep)
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

func typeName[T any](c Converter[T]) string {
	if s, ok := c.(fmt.Stringer); ok {
		return s.String()
	}
	var zero T
	return fmt.Sprintf("%T", zero)
}

func formatAny(v interface{}) string {
	return fmt.Sprintf("%v", v)
}

// leadingSpace is the set of characters skipped before a number, matching
// the C library's isspace.
const leadingSpace = " \t\n\v\f\r"

func parseBool(text string) (bool, error) {
	switch {
	case strings.EqualFold(text, "true"):
		return true, nil
	case strings.EqualFold(text, "false"):
		return false, nil
	case text == "":
		return false, ErrEmpty
	default:
		return false, ErrSyntax
	}
}

func parseChar(text string) (rune, error) {
	if text == "" {
		return 0, ErrEmpty
	}
	r, size := utf8.DecodeRuneInString(text)
	if r == utf8.RuneError && size == 1 {
		return 0, ErrSyntax
	}
	return r, nil
}

// scanInteger reads an optionally signed integer with a base prefix: "0x" or
// "0X" for hexadecimal, a leading "0" for octal, decimal otherwise. The whole
// string must be consumed. Magnitudes that do not fit in 64 bits saturate.
func scanInteger(text string) (neg bool, mag uint64, err error) {
	if text == "" {
		return false, 0, ErrEmpty
	}
	s := strings.TrimLeft(text, leadingSpace)
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	base := 10
	switch {
	case len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X'):
		base = 16
		s = s[2:]
	case len(s) > 1 && s[0] == '0':
		base = 8
		s = s[1:]
	}
	if s == "" {
		return false, 0, ErrSyntax
	}
	mag, err = strconv.ParseUint(s, base, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return neg, math.MaxUint64, nil
		}
		return false, 0, ErrSyntax
	}
	return neg, mag, nil
}

// parseSigned parses an integer and clamps it to the range of a signed
// integer with the given bit width.
func parseSigned(text string, bits int) (int64, error) {
	neg, mag, err := scanInteger(text)
	if err != nil {
		return 0, err
	}
	hi := int64(math.MaxInt64 >> (64 - bits))
	lo := -hi - 1
	if neg {
		if mag > uint64(hi)+1 {
			return lo, nil
		}
		return -int64(mag), nil
	}
	if mag > uint64(hi) {
		return hi, nil
	}
	return int64(mag), nil
}

// parseUnsigned parses a non-negative integer and clamps it to the range of an
// unsigned integer with the given bit width. A leading minus sign is rejected
// instead of wrapping around.
func parseUnsigned(text string, bits int) (uint64, error) {
	if strings.HasPrefix(strings.TrimLeft(text, leadingSpace), "-") {
		return 0, ErrNegative
	}
	_, mag, err := scanInteger(text)
	if err != nil {
		return 0, err
	}
	if hi := uint64(math.MaxUint64) >> (64 - bits); mag > hi {
		return hi, nil
	}
	return mag, nil
}

// parseFloat parses a decimal or hexadecimal floating point number, including
// "inf", "infinity", and "nan" in any case and with either sign. The sign of a
// NaN is preserved. Out of range values become infinities.
func parseFloat(text string) (float64, error) {
	if text == "" {
		return 0, ErrEmpty
	}
	s := strings.TrimLeft(text, leadingSpace)
	if len(s) == 4 && (s[0] == '-' || s[0] == '+') && strings.EqualFold(s[1:], "nan") {
		if s[0] == '-' {
			return math.Copysign(math.NaN(), -1), nil
		}
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return v, nil
		}
		return 0, ErrSyntax
	}
	return v, nil
}

func formatFloat(v float64, bits int) string {
	if math.IsNaN(v) {
		if math.Signbit(v) {
			return "-NaN"
		}
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, bits)
}
