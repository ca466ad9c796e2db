// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"unicode/utf8"
)

// maxLineSize is the longest physical line the decoder accepts. Longer lines
// fail with StreamReadFailed.
const maxLineSize = 1 << 20

// Parse decodes an INI document. Nil options are treated identically as
// passing the zero value. If decoding fails, the returned document holds the
// sections decoded before the failure and should not be relied upon.
//
// See the Syntax section in the package documentation for the format
// recognized by Parse.
func Parse(r io.Reader, opts *Options) (*Document, error) {
	d := New(opts)
	if err := d.Decode(r); err != nil {
		return d, err
	}
	return d, nil
}

// Decode replaces the contents of d with the document read from r. Failures
// are reported as *Error.
func (d *Document) Decode(r io.Reader) error {
	return d.errorFor(d.TryDecode(r))
}

// DecodeString replaces the contents of d with the given document text.
func (d *Document) DecodeString(content string) error {
	return d.Decode(strings.NewReader(content))
}

// UnmarshalText replaces the contents of d with the given document text.
func (d *Document) UnmarshalText(data []byte) error {
	return d.Decode(bytes.NewReader(data))
}

// TryDecode replaces the contents of d with the document read from r and
// reports the outcome as a Result. Decoding stops at the first failure.
func (d *Document) TryDecode(r io.Reader) Result {
	d.Clear()
	p := &decoder{
		doc: d,
		syn: lineSyntax{
			sep:       d.fieldSep(),
			prefixes:  d.commentPrefixes(),
			multiLine: d.opts.MultiLineValues,
		},
		allowDuplicates: d.opts.AllowDuplicates,
	}
	s := bufio.NewScanner(r)
	s.Buffer(nil, maxLineSize)
	lineno := 1
	for ; s.Scan(); lineno++ {
		if code := p.line(s.Text()); code != NoFailure {
			return Result{Code: code, Line: lineno}
		}
	}
	if err := s.Err(); err != nil {
		return Result{Code: StreamReadFailed, Line: lineno, Err: err}
	}
	return Result{}
}

// decoder holds the state of one decode pass.
type decoder struct {
	doc             *Document
	syn             lineSyntax
	allowDuplicates bool

	section *Section
	field   *Field // open multi-line value, nil if none
}

func (p *decoder) line(raw string) ErrorCode {
	kind, text := p.syn.classify(raw, p.field != nil)
	switch kind {
	case blankLine:
		return NoFailure
	case sectionLine:
		return p.startSection(text)
	case continuationLine:
		p.field.value += "\n" + text
		return NoFailure
	case fieldLine:
		return p.addField(text)
	case danglingLine:
		return FieldWithoutSection
	default:
		return IllegalLine
	}
}

func (p *decoder) startSection(text string) ErrorCode {
	end := strings.IndexByte(text, ']')
	switch {
	case end == -1:
		return SectionNotClosed
	case end == 1:
		return SectionNameEmpty
	case end != len(text)-1:
		return SectionTextAfter
	}
	name := text[1:end]
	if _, exists := p.doc.Lookup(name); exists && !p.allowDuplicates {
		return SectionNotUnique
	}
	p.section = p.doc.Section(name)
	p.field = nil
	return NoFailure
}

func (p *decoder) addField(text string) ErrorCode {
	if p.section == nil {
		return FieldWithoutSection
	}
	i := strings.IndexRune(text, p.syn.sep)
	name := trimBlank(text[:i])
	value := trimBlank(text[i+utf8.RuneLen(p.syn.sep):])
	if _, exists := p.section.Lookup(name); exists && !p.allowDuplicates {
		return FieldNotUniqueInSection
	}
	f := p.section.Field(name)
	f.value = value
	if p.syn.multiLine {
		p.field = f
	}
	return NoFailure
}
