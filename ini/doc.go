// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

/*
Package ini decodes and encodes INI documents and converts their values to
and from Go types. See https://en.wikipedia.org/wiki/INI_file.

A Document maps section names to Sections, and a Section maps field names to
Fields. A Field holds its value as text; As, Or, and Put convert the text with
a Converter such as Int32 or ListOf(",", Bool).

Syntax

An INI file is UTF-8 text made of lines. Each line is one of:

	[section]      starts a section
	name=value     a field in the current section
	# comment      ignored
	               blank lines are ignored

A comment starts at the first occurrence of any comment prefix anywhere in a
line and runs to the end of the line. The prefixes default to "#" and can be
changed with Options.CommentPrefixes. A prefix preceded by a backslash is
taken literally and the backslash is removed:

	url=http://example.com/\#anchor

Spaces and tabs around section headers, field names, and values are removed.
Section names are taken verbatim between the brackets. The field separator
defaults to '=' and can be changed with Options.FieldSep; a field is split at
the first separator, so values may contain further separators.

Fields must appear after a section header. Section names must be unique within
a document and field names must be unique within a section unless
Options.AllowDuplicates is set, in which case repeated sections are merged and
later fields win.

Multi-line values

If Options.MultiLineValues is set, a line indented with a space or tab
continues the value of the preceding field. The continuation is trimmed and
appended after a newline. Comment lines and blank lines may appear between
continuations. When encoding, each additional line of a value is written
indented with a tab.

	[text]
	poem=roses are red
		violets are blue

Case folding

If Options.CaseInsensitive is set, section and field names are matched after
Unicode case folding. The spelling of a name's first occurrence is kept and
used when encoding.

Encoding

Sections and fields are encoded sorted by name, one per line, without blank
lines. Every occurrence of a comment prefix in a name or value is escaped so
that decoding the output yields the same document.

Errors

Decoding stops at the first malformed line. The Try methods report failures as
a Result holding an ErrorCode and the 1-based line number; the other methods
return an *Error, which matches its ErrorCode with errors.Is.
*/
package ini
