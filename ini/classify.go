// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import "strings"

// escapeChar placed directly before a comment prefix makes the prefix literal.
const escapeChar = '\\'

type lineKind int

const (
	blankLine lineKind = iota
	sectionLine
	fieldLine
	continuationLine
	// danglingLine is an indented line in multi-line mode with no open value
	// to continue.
	danglingLine
	illegalLine
)

// lineSyntax is the part of a document's configuration the classifier needs.
type lineSyntax struct {
	sep       rune
	prefixes  []string
	multiLine bool
}

// classify decides what kind of line raw is and returns its text with
// comments removed and surrounding spaces and tabs trimmed. fieldOpen reports
// whether a field value may be continued by this line.
func (syn *lineSyntax) classify(raw string, fieldOpen bool) (lineKind, string) {
	text := trimBlank(stripComments(raw, syn.prefixes))
	switch {
	case text == "":
		return blankLine, ""
	case text[0] == '[':
		return sectionLine, text
	case syn.multiLine && fieldOpen && isIndented(raw):
		return continuationLine, text
	case strings.ContainsRune(text, syn.sep):
		return fieldLine, text
	case syn.multiLine && isIndented(raw):
		return danglingLine, text
	default:
		return illegalLine, text
	}
}

// stripComments truncates line at the first unescaped occurrence of any
// prefix. Prefixes are processed in order. An escaped occurrence loses its
// escape character and scanning resumes after it.
func stripComments(line string, prefixes []string) string {
	for _, prefix := range prefixes {
		start := 0
		for {
			i := strings.Index(line[start:], prefix)
			if i == -1 {
				break
			}
			i += start
			if i > 0 && line[i-1] == escapeChar {
				line = line[:i-1] + line[i:]
				start = i - 1 + len(prefix)
				continue
			}
			line = line[:i]
			break
		}
	}
	return line
}

// escapeComments inserts the escape character before every occurrence of
// each prefix so that stripComments restores s.
func escapeComments(s string, prefixes []string) string {
	for _, prefix := range prefixes {
		if strings.Contains(s, prefix) {
			s = strings.ReplaceAll(s, prefix, string(escapeChar)+prefix)
		}
	}
	return s
}

func trimBlank(s string) string {
	return strings.Trim(s, " \t")
}

func isIndented(raw string) bool {
	return raw != "" && (raw[0] == ' ' || raw[0] == '\t')
}
