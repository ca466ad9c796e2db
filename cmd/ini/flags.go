// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yourbase/inicodec/envvar"
	"github.com/yourbase/inicodec/ini"
)

// syntaxFlags are the flags shared by every command that reads or writes
// INI text.
type syntaxFlags struct {
	sep             string
	comment         string
	multiLine       bool
	caseInsensitive bool
	allowDuplicates bool
}

func (c *command) newFlagSet() (*flag.FlagSet, *syntaxFlags) {
	fs := flag.NewFlagSet("ini "+c.name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	sf := new(syntaxFlags)
	fs.StringVar(&sf.sep, "sep", string(envvar.Rune("INI_SEPARATOR", '=')), "field `separator`")
	fs.StringVar(&sf.comment, "comment", strings.Join(envvar.List("INI_COMMENT_PREFIXES", []string{"#"}), ","), "comma-separated comment `prefixes`")
	fs.BoolVar(&sf.multiLine, "multiline", envvar.Bool("INI_MULTILINE"), "allow values continued on indented lines")
	fs.BoolVar(&sf.caseInsensitive, "fold", envvar.Bool("INI_CASE_INSENSITIVE"), "match section and field names regardless of case")
	fs.BoolVar(&sf.allowDuplicates, "allow-duplicates", envvar.Bool("INI_ALLOW_DUPLICATES"), "merge repeated sections and fields instead of failing")
	return fs, sf
}

// options converts the flag values into document options.
func (sf *syntaxFlags) options() (*ini.Options, error) {
	sep, size := utf8.DecodeRuneInString(sf.sep)
	if sf.sep == "" || size != len(sf.sep) || !ini.IsValidFieldSep(sep) {
		return nil, fmt.Errorf("invalid -sep %q: must be a single character other than space, tab, backslash, or brackets", sf.sep)
	}
	var prefixes []string
	for _, p := range strings.Split(sf.comment, ",") {
		if p = strings.TrimSpace(p); p != "" {
			prefixes = append(prefixes, p)
		}
	}
	opts := &ini.Options{
		FieldSep:        sep,
		CommentPrefixes: prefixes,
		MultiLineValues: sf.multiLine,
		CaseInsensitive: sf.caseInsensitive,
		AllowDuplicates: sf.allowDuplicates,
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("-sep %q conflicts with -comment %q: separator occurs in a comment prefix", sf.sep, sf.comment)
	}
	return opts, nil
}

// parseFlags parses args and returns the remaining arguments. It returns a
// non-negative exit code if the command should stop.
func parseFlags(fs *flag.FlagSet, args []string) ([]string, int) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, 0
		}
		return nil, 2
	}
	return fs.Args(), -1
}

// stringList is a flag that may be repeated.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func (l *stringList) Set(s string) error {
	*l = append(*l, s)
	return nil
}
