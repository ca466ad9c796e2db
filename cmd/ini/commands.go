// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/yourbase/inicodec/ini"
	"github.com/yourbase/inicodec/iniconv"
	"zombiezen.com/go/log"
)

func runCheck(ctx context.Context, c *command, args []string) int {
	fs, sf := c.newFlagSet()
	args, code := parseFlags(fs, args)
	if code >= 0 {
		return code
	}
	if len(args) == 0 {
		fmt.Fprintln(c.stderr, "usage: ini check [flags] FILE...")
		return 2
	}
	opts, err := sf.options()
	if err != nil {
		return c.fail(err)
	}
	failed := false
	for _, path := range args {
		d := ini.New(opts)
		if err := loadPath(c, d, path); err != nil {
			failed = true
			var e *ini.Error
			if errors.As(err, &e) && e.Line > 0 {
				fmt.Fprintf(c.stdout, "%s:%d: %s\n", path, e.Line, describeError(e))
			} else {
				fmt.Fprintf(c.stdout, "%s: %v\n", path, err)
			}
			continue
		}
		log.Debugf(ctx, "%s: %d sections", path, d.Len())
	}
	if failed {
		return 1
	}
	return 0
}

func describeError(e *ini.Error) string {
	s := e.Code.String()
	if e.Detail != "" {
		s += " " + e.Detail
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func runFmt(ctx context.Context, c *command, args []string) int {
	fs, sf := c.newFlagSet()
	write := fs.Bool("w", false, "write result to the file instead of standard output")
	args, code := parseFlags(fs, args)
	if code >= 0 {
		return code
	}
	if len(args) != 1 {
		fmt.Fprintln(c.stderr, "usage: ini fmt [flags] [-w] FILE")
		return 2
	}
	path := args[0]
	if *write && path == "-" {
		fmt.Fprintln(c.stderr, "ini fmt: cannot use -w with standard input")
		return 2
	}
	opts, err := sf.options()
	if err != nil {
		return c.fail(err)
	}
	d := ini.New(opts)
	if err := loadPath(c, d, path); err != nil {
		return c.fail(err)
	}
	if *write {
		if err := d.Save(path); err != nil {
			return c.fail(err)
		}
		log.Debugf(ctx, "Rewrote %s", path)
		return 0
	}
	if err := d.Encode(c.stdout); err != nil {
		return c.fail(err)
	}
	return 0
}

func runGet(ctx context.Context, c *command, args []string) int {
	fs, sf := c.newFlagSet()
	var files stringList
	fs.Var(&files, "f", "INI `file` to search, in descending order of precedence (repeatable)")
	kindName := fs.String("type", "string", "check that the value converts to `kind` and print it in canonical form")
	args, code := parseFlags(fs, args)
	if code >= 0 {
		return code
	}
	if len(args) != 2 || len(files) == 0 {
		fmt.Fprintln(c.stderr, "usage: ini get [flags] -f FILE [-f FILE]... [-type KIND] SECTION NAME")
		return 2
	}
	kind, ok := ini.ParseKind(*kindName)
	if !ok {
		return c.fail(fmt.Errorf("unknown -type %q", *kindName))
	}
	opts, err := sf.options()
	if err != nil {
		return c.fail(err)
	}
	fset, err := ini.LoadFiles(ctx, opts, files...)
	if err != nil {
		return c.fail(err)
	}
	section, name := args[0], args[1]
	f, ok := fset.Get(section, name)
	if !ok {
		log.Debugf(ctx, "[%s] %s not found in %d files", section, name, len(files))
		return 1
	}
	v, err := kind.Parse(f.String())
	if err != nil {
		return c.fail(fmt.Errorf("[%s] %s: %q is no %v: %w", section, name, f.String(), kind, err))
	}
	if kind == ini.KindChar {
		v = string(v.(rune))
	}
	fmt.Fprintln(c.stdout, v)
	return 0
}

func runConvert(ctx context.Context, c *command, args []string) int {
	fs, sf := c.newFlagSet()
	to := fs.String("to", "", "convert INI to `format` (toml or yaml)")
	from := fs.String("from", "", "convert `format` (toml or yaml) to INI")
	args, code := parseFlags(fs, args)
	if code >= 0 {
		return code
	}
	if len(args) != 1 || (*to == "") == (*from == "") {
		fmt.Fprintln(c.stderr, "usage: ini convert [flags] (-to FORMAT | -from FORMAT) FILE")
		return 2
	}
	opts, err := sf.options()
	if err != nil {
		return c.fail(err)
	}
	formatName := *to
	if formatName == "" {
		formatName = *from
	}
	format, ok := iniconv.Lookup(formatName)
	if !ok {
		return c.fail(fmt.Errorf("unknown format %q", formatName))
	}
	path := args[0]

	if *to != "" {
		d := ini.New(opts)
		if err := loadPath(c, d, path); err != nil {
			return c.fail(err)
		}
		data, err := format.Marshal(d)
		if err != nil {
			return c.fail(err)
		}
		if _, err := c.stdout.Write(data); err != nil {
			return c.fail(err)
		}
		return 0
	}

	data, err := readPath(c, path)
	if err != nil {
		return c.fail(err)
	}
	d, err := format.Unmarshal(data, opts)
	if err != nil {
		return c.fail(fmt.Errorf("%s: %w", path, err))
	}
	log.Debugf(ctx, "Converted %d sections from %s", d.Len(), format.Name)
	if err := d.Encode(c.stdout); err != nil {
		return c.fail(err)
	}
	return 0
}

// loadPath decodes the named file into d, reading standard input for "-".
func loadPath(c *command, d *ini.Document, path string) error {
	if path == "-" {
		return d.Decode(c.stdin)
	}
	return d.Load(path)
}

func readPath(c *command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(c.stdin)
	}
	return os.ReadFile(path)
}
