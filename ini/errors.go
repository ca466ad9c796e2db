// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"fmt"
	"strings"
)

// ErrorCode identifies why decoding or encoding a document failed.
// ErrorCode implements error so that callers can match a failure with
// errors.Is(err, ini.SectionNotUnique).
type ErrorCode int

// Error codes reported by the decoder and encoder.
const (
	NoFailure ErrorCode = iota

	// SectionNotClosed: a line started with '[' but had no ']'.
	SectionNotClosed
	// SectionNameEmpty: a section header was "[]".
	SectionNameEmpty
	// SectionTextAfter: text followed the ']' of a section header.
	SectionTextAfter
	// SectionNotUnique: a section header repeated an earlier section name.
	SectionNotUnique
	// IllegalLine: a line was neither blank, a section header, a field,
	// nor a continuation.
	IllegalLine
	// FieldWithoutSection: a field appeared before any section header, or a
	// continuation line appeared with no open field to continue.
	FieldWithoutSection
	// FieldNotUniqueInSection: a field name repeated within one section.
	FieldNotUniqueInSection

	StreamOpenReadFailed
	StreamOpenWriteFailed
	StreamReadFailed
	StreamWriteFailed
)

var errorCodeText = [...]string{
	NoFailure:               "no failure",
	SectionNotClosed:        "section not closed",
	SectionNameEmpty:        "section name is empty",
	SectionTextAfter:        "no end of line after section",
	SectionNotUnique:        "section not unique",
	IllegalLine:             "found illegal line",
	FieldWithoutSection:     "field has no section",
	FieldNotUniqueInSection: "field not unique in section",
	StreamOpenReadFailed:    "could not open stream for read",
	StreamOpenWriteFailed:   "could not open stream for write",
	StreamReadFailed:        "stream read error occurred",
	StreamWriteFailed:       "stream write error occurred",
}

// String returns a short description of the code.
func (c ErrorCode) String() string {
	if c < 0 || int(c) >= len(errorCodeText) {
		return fmt.Sprintf("unknown failure code %d", int(c))
	}
	return errorCodeText[c]
}

func (c ErrorCode) Error() string {
	return c.String()
}

// A Result is the outcome of a decode or encode pass. It is returned by the
// Try* methods, which never construct an error value for structural failures.
type Result struct {
	Code ErrorCode
	// Line is the 1-based line number where the failure occurred, or 0 if the
	// failure happened before any line was read or written.
	Line int
	// Err is the underlying I/O error for the Stream* codes.
	Err error
}

// OK reports whether r represents success.
func (r Result) OK() bool {
	return r.Code == NoFailure
}

// Error is the error returned by the non-Try decode and encode methods.
type Error struct {
	Code ErrorCode
	// Line is the 1-based line number, or 0 for failures without stream access.
	Line int
	// Detail is optional extra context, such as the expected syntax for an
	// IllegalLine failure.
	Detail string
	// Err is the underlying I/O error, if any.
	Err error
}

func (e *Error) Error() string {
	sb := new(strings.Builder)
	switch e.Code {
	case StreamOpenWriteFailed, StreamWriteFailed:
		sb.WriteString("write ini file: ")
	default:
		sb.WriteString("parse ini file: ")
	}
	if e.Line == 0 {
		sb.WriteString("without stream access: ")
	} else {
		fmt.Fprintf(sb, "line %d: ", e.Line)
	}
	sb.WriteString(e.Code.String())
	if e.Detail != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Detail)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap returns the error code and the underlying I/O error, if any.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Code}
	}
	return []error{e.Code, e.Err}
}

// errorFor converts a failed Result into an *Error. It returns nil for a
// successful Result.
func (d *Document) errorFor(r Result) error {
	if r.OK() {
		return nil
	}
	e := &Error{Code: r.Code, Line: r.Line, Err: r.Err}
	if r.Code == IllegalLine {
		e.Detail = fmt.Sprintf("neither %s comment, nor section nor field with separator %q",
			quoteAll(d.commentPrefixes()), d.fieldSep())
	}
	return e
}

func quoteAll(list []string) string {
	quoted := make([]string, len(list))
	for i, s := range list {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, "/")
}
