// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"bufio"
	"os"
)

// LoadFile decodes the INI file at the given path. Nil options are treated
// identically as passing the zero value.
func LoadFile(path string, opts *Options) (*Document, error) {
	d := New(opts)
	if err := d.Load(path); err != nil {
		return nil, err
	}
	return d, nil
}

// Load replaces the contents of d with the INI file at the given path.
// Failures are reported as *Error. A file that cannot be opened is reported as
// StreamOpenReadFailed.
func (d *Document) Load(path string) error {
	return d.errorFor(d.TryLoad(path))
}

// TryLoad is like Load but reports the outcome as a Result.
func (d *Document) TryLoad(path string) Result {
	f, err := os.Open(path)
	if err != nil {
		return Result{Code: StreamOpenReadFailed, Err: err}
	}
	defer f.Close() // Close errors irrelevant for reads.
	return d.TryDecode(f)
}

// Save writes d to the file at the given path, creating or truncating it.
// Failures are reported as *Error.
func (d *Document) Save(path string) error {
	return d.errorFor(d.TrySave(path))
}

// TrySave is like Save but reports the outcome as a Result. Errors flushing or
// closing the file are reported as StreamWriteFailed on the last line.
func (d *Document) TrySave(path string) Result {
	f, err := os.Create(path)
	if err != nil {
		return Result{Code: StreamOpenWriteFailed, Err: err}
	}
	w := bufio.NewWriter(f)
	r, lines := d.encode(w)
	if !r.OK() {
		f.Close()
		return r
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return Result{Code: StreamWriteFailed, Line: lines, Err: err}
	}
	if err := f.Close(); err != nil {
		return Result{Code: StreamWriteFailed, Line: lines, Err: err}
	}
	return Result{}
}
