// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

// ini checks, formats, queries, and converts INI files.
//
// Usage:
//
//	ini check [flags] FILE...
//	ini fmt [flags] [-w] FILE
//	ini get [flags] -f FILE [-f FILE]... [-type KIND] SECTION NAME
//	ini convert [flags] (-to FORMAT | -from FORMAT) FILE
//
// The syntax flags -sep, -comment, -multiline, -fold, and -allow-duplicates
// default to the INI_SEPARATOR, INI_COMMENT_PREFIXES, INI_MULTILINE,
// INI_CASE_INSENSITIVE, and INI_ALLOW_DUPLICATES environment variables.
// Setting INI_DEBUG=1 enables debug logging.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/yourbase/inicodec/envvar"
	"zombiezen.com/go/log"
)

const usage = `usage: ini <command> [flags] [args]

commands:
  check    report syntax errors in INI files
  fmt      print or rewrite a file in canonical form
  get      print a field from the first file that has it
  convert  convert between INI and TOML or YAML
`

func main() {
	log.SetDefault(&stderrLogger{debug: envvar.Bool("INI_DEBUG")})
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line args and returns the process exit code:
// 0 on success, 1 on failure, and 2 on usage errors.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	c := &command{
		name:   args[0],
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
	var f func(context.Context, *command, []string) int
	switch args[0] {
	case "check":
		f = runCheck
	case "fmt":
		f = runFmt
	case "get":
		f = runGet
	case "convert":
		f = runConvert
	case "help", "-h", "-help", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "ini: unknown command %q\n%s", args[0], usage)
		return 2
	}
	return f(ctx, c, args[1:])
}

// command holds the streams of a single invocation.
type command struct {
	name   string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// fail reports an error to the user and returns the failure exit code.
func (c *command) fail(err error) int {
	fmt.Fprintf(c.stderr, "ini %s: %v\n", c.name, err)
	return 1
}

// stderrLogger writes log entries to standard error.
type stderrLogger struct {
	debug bool
	mu    sync.Mutex
}

func (l *stderrLogger) Log(ctx context.Context, entry log.Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(os.Stderr, "ini: %v: %s\n", entry.Level, entry.Msg)
}

func (l *stderrLogger) LogEnabled(entry log.Entry) bool {
	return l.debug || entry.Level >= log.Info
}
