// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Options holds the syntax and key policy of a Document.
type Options struct {
	// FieldSep separates a field name from its value. If zero, '=' is used.
	// It must satisfy IsValidFieldSep and must not occur in a comment prefix.
	FieldSep rune

	// CommentPrefixes lists the strings that start a comment, checked in
	// order. An unescaped occurrence anywhere in a line discards the rest of
	// the line. Empty strings are ignored. If empty, {"#"} is used.
	CommentPrefixes []string

	// MultiLineValues enables values that continue on following lines
	// indented with spaces or tabs.
	MultiLineValues bool

	// CaseInsensitive makes section and field names match regardless of
	// case. The spelling of the first occurrence of a name is retained.
	CaseInsensitive bool

	// AllowDuplicates makes the decoder merge repeated sections and let later
	// fields overwrite earlier ones instead of reporting SectionNotUnique and
	// FieldNotUniqueInSection.
	AllowDuplicates bool
}

var defaultCommentPrefixes = []string{"#"}

// A Document is a set of named sections. The zero value is an empty document
// with default options.
//
// A Document is not safe for concurrent mutation. Concurrent reads are safe.
type Document struct {
	opts     Options
	sections map[string]*Section
}

// New returns an empty document. Nil options are treated identically as
// passing the zero value. New panics if opts.Validate returns an error.
func New(opts *Options) *Document {
	d := new(Document)
	if opts != nil {
		if err := opts.Validate(); err != nil {
			panic(err)
		}
		d.opts = *opts
		d.opts.CommentPrefixes = nonEmpty(opts.CommentPrefixes)
	}
	return d
}

// Validate reports whether the options can be used by a Document. The field
// separator must satisfy IsValidFieldSep and must not occur in any comment
// prefix, since an encoded field line would otherwise read back as a comment.
func (opts *Options) Validate() error {
	sep := opts.FieldSep
	if sep == 0 {
		sep = '='
	}
	if !IsValidFieldSep(sep) {
		return fmt.Errorf("ini: invalid field separator %q", sep)
	}
	prefixes := nonEmpty(opts.CommentPrefixes)
	if len(prefixes) == 0 {
		prefixes = defaultCommentPrefixes
	}
	for _, p := range prefixes {
		if strings.ContainsRune(p, sep) {
			return fmt.Errorf("ini: field separator %q occurs in comment prefix %q", sep, p)
		}
	}
	return nil
}

// Options returns a copy of the document's options with defaults filled in.
func (d *Document) Options() Options {
	opts := d.opts
	opts.FieldSep = d.fieldSep()
	opts.CommentPrefixes = append([]string(nil), d.commentPrefixes()...)
	return opts
}

// IsValidFieldSep reports whether sep can be used as a field separator.
// Zero is valid and selects the default.
func IsValidFieldSep(sep rune) bool {
	switch sep {
	case ' ', '\t', '\n', '\r', '\\', '[', ']', utf8.RuneError:
		return false
	}
	return utf8.ValidRune(sep)
}

// SetFieldSep changes the field separator used by subsequent decodes and
// encodes. Passing zero restores the default. SetFieldSep panics if
// IsValidFieldSep(sep) reports false or if sep occurs in one of the
// document's comment prefixes.
func (d *Document) SetFieldSep(sep rune) {
	opts := d.opts
	opts.FieldSep = sep
	if err := opts.Validate(); err != nil {
		panic(err)
	}
	d.opts.FieldSep = sep
}

// SetCommentPrefixes changes the comment prefixes used by subsequent decodes
// and encodes. Calling it with no non-empty prefixes restores the default.
// SetCommentPrefixes panics if the document's field separator occurs in one
// of the prefixes.
func (d *Document) SetCommentPrefixes(prefixes ...string) {
	opts := d.opts
	opts.CommentPrefixes = nonEmpty(prefixes)
	if err := opts.Validate(); err != nil {
		panic(err)
	}
	d.opts.CommentPrefixes = opts.CommentPrefixes
}

func nonEmpty(list []string) []string {
	var out []string
	for _, s := range list {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SetMultiLineValues enables or disables multi-line values for subsequent
// decodes and encodes.
func (d *Document) SetMultiLineValues(enabled bool) {
	d.opts.MultiLineValues = enabled
}

func (d *Document) fieldSep() rune {
	if d.opts.FieldSep == 0 {
		return '='
	}
	return d.opts.FieldSep
}

func (d *Document) commentPrefixes() []string {
	if len(d.opts.CommentPrefixes) == 0 {
		return defaultCommentPrefixes
	}
	return d.opts.CommentPrefixes
}

func (d *Document) key(name string) string {
	if d.opts.CaseInsensitive {
		return foldKey(name)
	}
	return name
}

// Section returns the section with the given name, adding an empty section
// if there is none.
func (d *Document) Section(name string) *Section {
	k := d.key(name)
	if s := d.sections[k]; s != nil {
		return s
	}
	if d.sections == nil {
		d.sections = make(map[string]*Section)
	}
	s := &Section{name: name, fold: d.opts.CaseInsensitive}
	d.sections[k] = s
	return s
}

// Lookup returns the section with the given name, if present.
func (d *Document) Lookup(name string) (*Section, bool) {
	if d == nil {
		return nil, false
	}
	s, ok := d.sections[d.key(name)]
	return s, ok
}

// Delete removes the section with the given name and all of its fields.
func (d *Document) Delete(name string) {
	delete(d.sections, d.key(name))
}

// Clear removes all sections.
func (d *Document) Clear() {
	d.sections = nil
}

// Len returns the number of sections.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.sections)
}

// Names returns the section names in the order they are encoded: sorted by
// name, or by case-folded name if the document is case-insensitive.
func (d *Document) Names() []string {
	if d == nil {
		return nil
	}
	keys := make([]string, 0, len(d.sections))
	for k := range d.sections {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = d.sections[k].name
	}
	return names
}

// A Section is a set of named fields. Sections are obtained from
// Document.Section; a zero Section is an empty, case-sensitive section.
type Section struct {
	name   string
	fold   bool
	fields map[string]*namedField
}

type namedField struct {
	name  string
	field Field
}

func (s *Section) key(name string) string {
	if s.fold {
		return foldKey(name)
	}
	return name
}

// Name returns the section's name as first written.
func (s *Section) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Field returns the field with the given name, adding an empty field if
// there is none. The returned pointer stays valid until the field is deleted.
func (s *Section) Field(name string) *Field {
	k := s.key(name)
	if nf := s.fields[k]; nf != nil {
		return &nf.field
	}
	if s.fields == nil {
		s.fields = make(map[string]*namedField)
	}
	nf := &namedField{name: name}
	s.fields[k] = nf
	return &nf.field
}

// Lookup returns the field with the given name, if present.
func (s *Section) Lookup(name string) (*Field, bool) {
	if s == nil {
		return nil, false
	}
	nf, ok := s.fields[s.key(name)]
	if !ok {
		return nil, false
	}
	return &nf.field, true
}

// Get returns the field with the given name. If there is no such field, Get
// returns an empty field.
func (s *Section) Get(name string) Field {
	if f, ok := s.Lookup(name); ok {
		return *f
	}
	return Field{}
}

// Set sets the text of the named field, adding the field if necessary.
func (s *Section) Set(name, value string) {
	s.Field(name).Set(value)
}

// Delete removes the named field.
func (s *Section) Delete(name string) {
	delete(s.fields, s.key(name))
}

// Len returns the number of fields in the section.
func (s *Section) Len() int {
	if s == nil {
		return 0
	}
	return len(s.fields)
}

// Names returns the field names in the order they are encoded.
func (s *Section) Names() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.fields))
	for k := range s.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = s.fields[k].name
	}
	return names
}

// foldKey maps a name to the key used by case-insensitive documents.
func foldKey(name string) string {
	return cases.Fold().String(name)
}
