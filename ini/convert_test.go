// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// decodeWith adapts a typed converter for use in a table.
func decodeWith[T any](c Converter[T]) func(Field) (interface{}, error) {
	return func(f Field) (interface{}, error) {
		return As(f, c)
	}
}

func TestAs(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		as      func(Field) (interface{}, error)
		want    interface{}
		wantErr error
	}{
		{name: "Bool/True", text: "true", as: decodeWith(Bool), want: true},
		{name: "Bool/Upper", text: "TRUE", as: decodeWith(Bool), want: true},
		{name: "Bool/Mixed", text: "False", as: decodeWith(Bool), want: false},
		{name: "Bool/Yes", text: "yes", as: decodeWith(Bool), wantErr: ErrSyntax},
		{name: "Bool/One", text: "1", as: decodeWith(Bool), wantErr: ErrSyntax},
		{name: "Bool/Empty", text: "", as: decodeWith(Bool), wantErr: ErrEmpty},

		{name: "Int/Decimal", text: "-42", as: decodeWith(Int), want: -42},
		{name: "Int/Plus", text: "+42", as: decodeWith(Int), want: 42},
		{name: "Int/Hex", text: "0x1F", as: decodeWith(Int), want: 31},
		{name: "Int/Octal", text: "010", as: decodeWith(Int), want: 8},
		{name: "Int/Zero", text: "0", as: decodeWith(Int), want: 0},
		{name: "Int/LeadingSpace", text: " 7", as: decodeWith(Int), want: 7},
		{name: "Int/Trailing", text: "42abc", as: decodeWith(Int), wantErr: ErrSyntax},
		{name: "Int/Float", text: "1.5", as: decodeWith(Int), wantErr: ErrSyntax},
		{name: "Int/BadOctal", text: "09", as: decodeWith(Int), wantErr: ErrSyntax},
		{name: "Int/Word", text: "bla", as: decodeWith(Int), wantErr: ErrSyntax},
		{name: "Int/Empty", text: "", as: decodeWith(Int), wantErr: ErrEmpty},
		{name: "Int/SignOnly", text: "-", as: decodeWith(Int), wantErr: ErrSyntax},

		{name: "Int8/ClampHigh", text: "300", as: decodeWith(Int8), want: int8(127)},
		{name: "Int8/ClampLow", text: "-300", as: decodeWith(Int8), want: int8(-128)},
		{name: "Int16/Max", text: "32767", as: decodeWith(Int16), want: int16(32767)},
		{name: "Int32/ClampHigh", text: "0x80000000", as: decodeWith(Int32), want: int32(math.MaxInt32)},
		{name: "Int32/ClampLow", text: "-0x80000001", as: decodeWith(Int32), want: int32(math.MinInt32)},
		{name: "Int32/Min", text: "-2147483648", as: decodeWith(Int32), want: int32(math.MinInt32)},
		{name: "Int64/ClampHigh", text: "99999999999999999999999", as: decodeWith(Int64), want: int64(math.MaxInt64)},
		{name: "Int64/ClampLow", text: "-99999999999999999999999", as: decodeWith(Int64), want: int64(math.MinInt64)},

		{name: "Uint/Decimal", text: "42", as: decodeWith(Uint), want: uint(42)},
		{name: "Uint/Negative", text: "-1", as: decodeWith(Uint), wantErr: ErrNegative},
		{name: "Uint/NegativeZero", text: "-0", as: decodeWith(Uint), wantErr: ErrNegative},
		{name: "Uint8/Clamp", text: "256", as: decodeWith(Uint8), want: uint8(255)},
		{name: "Uint16/Hex", text: "0xFFFF", as: decodeWith(Uint16), want: uint16(65535)},
		{name: "Uint32/Clamp", text: "0xFFFFFFFFFF", as: decodeWith(Uint32), want: uint32(math.MaxUint32)},
		{name: "Uint64/Clamp", text: "99999999999999999999999", as: decodeWith(Uint64), want: uint64(math.MaxUint64)},
		{name: "Uint64/Empty", text: "", as: decodeWith(Uint64), wantErr: ErrEmpty},

		{name: "Float64/Decimal", text: "1.5", as: decodeWith(Float64), want: 1.5},
		{name: "Float64/Exponent", text: "-2.5e3", as: decodeWith(Float64), want: -2500.0},
		{name: "Float64/Hex", text: "0x1p-2", as: decodeWith(Float64), want: 0.25},
		{name: "Float64/Overflow", text: "1e400", as: decodeWith(Float64), want: math.Inf(1)},
		{name: "Float64/NegativeOverflow", text: "-1e400", as: decodeWith(Float64), want: math.Inf(-1)},
		{name: "Float64/Inf", text: "inf", as: decodeWith(Float64), want: math.Inf(1)},
		{name: "Float64/NegativeInfinity", text: "-Infinity", as: decodeWith(Float64), want: math.Inf(-1)},
		{name: "Float64/NaN", text: "nan", as: decodeWith(Float64), want: math.NaN()},
		{name: "Float64/Trailing", text: "1.5x", as: decodeWith(Float64), wantErr: ErrSyntax},
		{name: "Float64/Empty", text: "", as: decodeWith(Float64), wantErr: ErrEmpty},
		{name: "Float32/Decimal", text: "0.5", as: decodeWith(Float32), want: float32(0.5)},

		{name: "String/Verbatim", text: "  hello  ", as: decodeWith(String), want: "  hello  "},
		{name: "String/Empty", text: "", as: decodeWith(String), want: ""},

		{name: "Char/First", text: "abc", as: decodeWith(Char), want: 'a'},
		{name: "Char/Unicode", text: "étoile", as: decodeWith(Char), want: 'é'},
		{name: "Char/Empty", text: "", as: decodeWith(Char), wantErr: ErrEmpty},
		{name: "Char/InvalidUTF8", text: "\xff", as: decodeWith(Char), wantErr: ErrSyntax},
		{name: "Char/ReplacementChar", text: "\uFFFD", as: decodeWith(Char), want: '\uFFFD'},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := test.as(NewField(test.text))
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Errorf("As(%q) = %v, %v; want error %v", test.text, got, err, test.wantErr)
				}
				var convErr *ConversionError
				if !errors.As(err, &convErr) {
					t.Errorf("As(%q) error = %T; want *ConversionError", test.text, err)
				} else if convErr.Value != test.text {
					t.Errorf("ConversionError.Value = %q; want %q", convErr.Value, test.text)
				}
				return
			}
			if err != nil {
				t.Fatalf("As(%q): %v", test.text, err)
			}
			if diff := cmp.Diff(test.want, got, cmpopts.EquateNaNs()); diff != "" {
				t.Errorf("As(%q) (-want +got):\n%s", test.text, diff)
			}
		})
	}
}

func TestNegativeNaN(t *testing.T) {
	got, err := As(NewField("-nan"), Float64)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(got) || !math.Signbit(got) {
		t.Errorf("As(\"-nan\") = %v (sign bit %t); want negative NaN", got, math.Signbit(got))
	}
	f := NewField("")
	if err := Put(&f, Float64, got); err != nil {
		t.Fatal(err)
	}
	if f.String() != "-NaN" {
		t.Errorf("Put(-NaN) = %q; want \"-NaN\"", f.String())
	}
}

func TestConversionErrorMessage(t *testing.T) {
	_, err := As(NewField("bla"), Int)
	const want = `ini: field "bla" is no int: invalid syntax`
	if err == nil || err.Error() != want {
		t.Errorf("As(\"bla\", Int) error = %v; want %q", err, want)
	}

	_, err = As(NewField("1,x"), ListOf(",", Int32))
	const wantList = `ini: field "1,x" is no []int32: element 1: invalid syntax`
	if err == nil || err.Error() != wantList {
		t.Errorf("As(\"1,x\", ListOf(Int32)) error = %v; want %q", err, wantList)
	}
}

func TestOr(t *testing.T) {
	if got := Or(NewField("bla"), Int, 5); got != 5 {
		t.Errorf("Or(\"bla\", Int, 5) = %d; want 5", got)
	}
	if got := Or(NewField("7"), Int, 5); got != 7 {
		t.Errorf("Or(\"7\", Int, 5) = %d; want 7", got)
	}
	f := NewField("bla")
	if got := Or(f, Bool, true); !got {
		t.Errorf("Or(\"bla\", Bool, true) = %t; want true", got)
	}
	if got := Or(f, String, "x"); got != "bla" {
		t.Errorf("Or(\"bla\", String, \"x\") = %q; want \"bla\"", got)
	}
	if got := Or(NewField(""), Bool, true); !got {
		t.Errorf("Or(\"\", Bool, true) = %t; want true", got)
	}
}

func TestPut(t *testing.T) {
	tests := []struct {
		name string
		put  func(*Field) error
		want string
	}{
		{"Bool", func(f *Field) error { return Put(f, Bool, true) }, "true"},
		{"Int", func(f *Field) error { return Put(f, Int, -42) }, "-42"},
		{"Int8", func(f *Field) error { return Put(f, Int8, math.MinInt8) }, "-128"},
		{"Uint64", func(f *Field) error { return Put(f, Uint64, math.MaxUint64) }, "18446744073709551615"},
		{"Float64", func(f *Field) error { return Put(f, Float64, 1.5) }, "1.5"},
		{"Float64/Large", func(f *Field) error { return Put(f, Float64, 1e21) }, "1e+21"},
		{"Float64/Inf", func(f *Field) error { return Put(f, Float64, math.Inf(1)) }, "+Inf"},
		{"Float64/NegativeInf", func(f *Field) error { return Put(f, Float64, math.Inf(-1)) }, "-Inf"},
		{"Float64/NaN", func(f *Field) error { return Put(f, Float64, math.NaN()) }, "NaN"},
		{"Float32", func(f *Field) error { return Put(f, Float32, 0.1) }, "0.1"},
		{"String", func(f *Field) error { return Put(f, String, "hello world") }, "hello world"},
		{"Char", func(f *Field) error { return Put(f, Char, 'é') }, "é"},
		{"List", func(f *Field) error { return Put(f, ListOf(",", Int), []int{1, 2, 3}) }, "1,2,3"},
		{"EmptyList", func(f *Field) error { return Put(f, ListOf(",", Int), nil) }, ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := NewField("old")
			if err := test.put(&f); err != nil {
				t.Fatal(err)
			}
			if got := f.String(); got != test.want {
				t.Errorf("field = %q; want %q", got, test.want)
			}
		})
	}
}

func TestPutFailureLeavesField(t *testing.T) {
	tests := []struct {
		name string
		put  func(*Field) error
	}{
		{"InvalidRune", func(f *Field) error { return Put(f, Char, 0xD800) }},
		{"ListSeparatorInElement", func(f *Field) error { return Put(f, ListOf(",", String), []string{"a", "b,c"}) }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := NewField("old")
			err := test.put(&f)
			var convErr *ConversionError
			if !errors.As(err, &convErr) || !convErr.Encode {
				t.Errorf("Put(...) = %v; want encode *ConversionError", err)
			}
			if got := f.String(); got != "old" {
				t.Errorf("field = %q after failed Put; want \"old\"", got)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	values := []float64{0, -0.0, 1.5, 1e-300, math.MaxFloat64, math.SmallestNonzeroFloat64, math.Inf(1), math.Inf(-1)}
	for _, v := range values {
		var f Field
		if err := Put(&f, Float64, v); err != nil {
			t.Fatal(err)
		}
		got, err := As(f, Float64)
		if err != nil {
			t.Errorf("As(Put(%v)): %v", v, err)
			continue
		}
		if got != v {
			t.Errorf("As(Put(%v)) = %v (text %q)", v, got, f.String())
		}
	}
	for _, v := range []int64{0, 1, -1, math.MaxInt64, math.MinInt64} {
		var f Field
		if err := Put(&f, Int64, v); err != nil {
			t.Fatal(err)
		}
		if got, err := As(f, Int64); err != nil || got != v {
			t.Errorf("As(Put(%d)) = %d, %v", v, got, err)
		}
	}
}

func TestListOf(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    []bool
		wantErr error
	}{
		{name: "Empty", text: ""},
		{name: "Blank", text: "   "},
		{name: "Single", text: "true", want: []bool{true}},
		{name: "Spaces", text: "true , FALSE,true", want: []bool{true, false, true}},
		{name: "BadElement", text: "true,maybe", wantErr: ErrSyntax},
		{name: "EmptyElement", text: "true,,false", wantErr: ErrEmpty},
	}
	c := ListOf(",", Bool)
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := As(NewField(test.text), c)
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Errorf("As(%q) = %v, %v; want error %v", test.text, got, err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(test.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("As(%q) (-want +got):\n%s", test.text, diff)
			}
		})
	}

	t.Run("MultiCharSeparator", func(t *testing.T) {
		got, err := As(NewField("1 :: 2::3"), ListOf("::", Uint8))
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]uint8{1, 2, 3}, got); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})
	t.Run("EmptySeparatorPanics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("ListOf(\"\", Int) did not panic")
			}
		}()
		ListOf("", Int)
	})
}

func TestKind(t *testing.T) {
	for k := KindBool; k <= KindChar; k++ {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %t; want %v, true", k.String(), got, ok, k)
		}
	}
	if _, ok := ParseKind("complex128"); ok {
		t.Error("ParseKind(\"complex128\") succeeded")
	}

	tests := []struct {
		kind    Kind
		text    string
		want    interface{}
		wantErr error
	}{
		{KindBool, "True", true, nil},
		{KindInt, "0x10", 16, nil},
		{KindInt8, "200", int8(127), nil},
		{KindUint16, "0x10", uint16(16), nil},
		{KindUint32, "-5", nil, ErrNegative},
		{KindFloat32, "2.5", float32(2.5), nil},
		{KindFloat64, "-0.25", -0.25, nil},
		{KindString, "x", "x", nil},
		{KindChar, "xyz", 'x', nil},
	}
	for _, test := range tests {
		got, err := test.kind.Parse(test.text)
		if test.wantErr != nil {
			if !errors.Is(err, test.wantErr) {
				t.Errorf("%v.Parse(%q) = %v, %v; want error %v", test.kind, test.text, got, err, test.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("%v.Parse(%q): %v", test.kind, test.text, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("%v.Parse(%q) (-want +got):\n%s", test.kind, test.text, diff)
		}
	}
}

// durationConverter is a user-defined converter without a String method.
type durationConverter struct{}

func (durationConverter) Decode(text string) (time.Duration, error) {
	return time.ParseDuration(text)
}

func (durationConverter) Encode(v time.Duration) (string, error) {
	return v.String(), nil
}

func TestCustomConverter(t *testing.T) {
	got, err := As(NewField("1m30s"), durationConverter{})
	if err != nil {
		t.Fatal(err)
	}
	if got != 90*time.Second {
		t.Errorf("As(\"1m30s\") = %v; want 1m30s", got)
	}

	_, err = As(NewField("soon"), durationConverter{})
	if err == nil || !strings.Contains(err.Error(), "is no time.Duration") {
		t.Errorf("As(\"soon\") error = %v; want mention of time.Duration", err)
	}

	var f Field
	if err := Put(&f, ListOf[time.Duration](";", durationConverter{}), []time.Duration{time.Second, time.Minute}); err != nil {
		t.Fatal(err)
	}
	if got := f.String(); got != "1s;1m0s" {
		t.Errorf("Put(durations) = %q; want \"1s;1m0s\"", got)
	}
}
