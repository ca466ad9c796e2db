// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

// A Field is a single value in a section. The value is always stored as text;
// use As, Or, and Put to convert it to and from other types. The zero value is
// an empty field.
type Field struct {
	value string
}

// NewField returns a field holding the given text.
func NewField(value string) Field {
	return Field{value: value}
}

// String returns the field's raw text.
func (f Field) String() string {
	return f.value
}

// Set replaces the field's text.
func (f *Field) Set(value string) {
	f.value = value
}

// As converts the field's text with the given converter. If the text is not
// valid for the converter, As returns a *ConversionError naming the text and
// the requested type.
func As[T any](f Field, c Converter[T]) (T, error) {
	v, err := c.Decode(f.value)
	if err != nil {
		var zero T
		return zero, &ConversionError{
			Value: f.value,
			Type:  typeName(c),
			Err:   err,
		}
	}
	return v, nil
}

// Or converts the field's text with the given converter, returning
// defaultValue if the text is not valid for the converter.
func Or[T any](f Field, c Converter[T], defaultValue T) T {
	v, err := c.Decode(f.value)
	if err != nil {
		return defaultValue
	}
	return v
}

// Put replaces the field's text with the encoding of v. The field is left
// unchanged if the converter cannot encode v.
func Put[T any](f *Field, c Converter[T], v T) error {
	s, err := c.Encode(v)
	if err != nil {
		return &ConversionError{
			Value:  formatAny(v),
			Type:   typeName(c),
			Encode: true,
			Err:    err,
		}
	}
	f.value = s
	return nil
}
