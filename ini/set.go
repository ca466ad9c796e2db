// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"zombiezen.com/go/log"
)

// FileSet is a list of documents to obtain configuration from in descending
// order of precedence. Nil elements are permitted and ignored.
type FileSet []*Document

// LoadFiles decodes the files at the given paths and returns a FileSet.
// If the returned error is nil, the returned file set's length will be the same
// as the number of arguments. LoadFiles will stop on the first error, but
// ignores missing files, instead filling the corresponding element of the set
// with a nil *Document.
func LoadFiles(ctx context.Context, opts *Options, paths ...string) (FileSet, error) {
	fset := make(FileSet, 0, len(paths))
	for _, p := range paths {
		d := New(opts)
		err := d.Load(p)
		if errors.Is(err, fs.ErrNotExist) {
			log.Debugf(ctx, "Skipping missing INI file %s", p)
			fset = append(fset, nil)
			continue
		}
		if err != nil {
			return fset, fmt.Errorf("load ini files: %s: %w", p, err)
		}
		fset = append(fset, d)
	}
	return fset, nil
}

// Get returns the field with the given name in the given section from the
// first document that has one.
func (fset FileSet) Get(section, name string) (Field, bool) {
	for _, d := range fset {
		s, ok := d.Lookup(section)
		if !ok {
			continue
		}
		if f, ok := s.Lookup(name); ok {
			return *f, true
		}
	}
	return Field{}, false
}

// Names returns the sorted names of the sections present in any document.
// A section present in more than one document is listed with the spelling
// of the first.
func (fset FileSet) Names() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, d := range fset {
		for _, name := range d.Names() {
			k := d.key(name)
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
