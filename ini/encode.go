// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"
)

// Encode writes the document to w in INI format. Failures are reported as
// *Error.
func (d *Document) Encode(w io.Writer) error {
	return d.errorFor(d.TryEncode(w))
}

// EncodeString returns the document in INI format.
func (d *Document) EncodeString() (string, error) {
	buf := new(strings.Builder)
	if err := d.Encode(buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// MarshalText returns the document in INI format.
func (d *Document) MarshalText() ([]byte, error) {
	if d == nil {
		return nil, nil
	}
	buf := new(bytes.Buffer)
	if err := d.Encode(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// TryEncode writes the document to w and reports the outcome as a Result.
//
// Sections and fields are written in the order returned by Names. Every
// occurrence of a comment prefix in a name or value is escaped. When
// multi-line values are enabled, each line of a value after the first is
// written on its own line indented with a tab.
func (d *Document) TryEncode(w io.Writer) Result {
	r, _ := d.encode(w)
	return r
}

// encode is TryEncode that also returns the number of lines written.
func (d *Document) encode(w io.Writer) (Result, int) {
	e := &encoder{
		w:         w,
		sep:       d.fieldSep(),
		prefixes:  d.commentPrefixes(),
		multiLine: d.opts.MultiLineValues,
	}
	for _, name := range d.Names() {
		sect, _ := d.Lookup(name)
		e.buf = append(e.buf[:0], '[')
		e.buf = append(e.buf, escapeComments(name, e.prefixes)...)
		e.buf = append(e.buf, ']', '\n')
		if err := e.writeLine(); err != nil {
			return Result{Code: StreamWriteFailed, Line: e.lineno, Err: err}, e.lineno
		}
		for _, fieldName := range sect.Names() {
			f, _ := sect.Lookup(fieldName)
			if err := e.field(fieldName, f.value); err != nil {
				return Result{Code: StreamWriteFailed, Line: e.lineno, Err: err}, e.lineno
			}
		}
	}
	return Result{}, e.lineno
}

type encoder struct {
	w         io.Writer
	sep       rune
	prefixes  []string
	multiLine bool

	buf    []byte
	lineno int
}

func (e *encoder) field(name, value string) error {
	e.buf = append(e.buf[:0], escapeComments(name, e.prefixes)...)
	e.buf = utf8.AppendRune(e.buf, e.sep)
	if !e.multiLine {
		e.buf = append(e.buf, escapeComments(value, e.prefixes)...)
		e.buf = append(e.buf, '\n')
		return e.writeLine()
	}
	lines := strings.Split(value, "\n")
	e.buf = append(e.buf, escapeComments(lines[0], e.prefixes)...)
	e.buf = append(e.buf, '\n')
	if err := e.writeLine(); err != nil {
		return err
	}
	for _, line := range lines[1:] {
		e.buf = append(e.buf[:0], '\t')
		e.buf = append(e.buf, escapeComments(line, e.prefixes)...)
		e.buf = append(e.buf, '\n')
		if err := e.writeLine(); err != nil {
			return err
		}
	}
	return nil
}

// writeLine writes the buffered line. lineno is advanced first so that a
// failure reports the line being written.
func (e *encoder) writeLine() error {
	e.lineno++
	_, err := e.w.Write(e.buf)
	return err
}
