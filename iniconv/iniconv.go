// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

// Package iniconv translates INI documents to and from TOML and YAML.
//
// An INI section maps to a top-level table (TOML) or mapping (YAML) whose
// entries are the section's fields. Exported values are always strings.
// Imported scalars are formatted with the converters from package ini, so
// that reading them back with ini.As yields the original value.
package iniconv

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/yourbase/inicodec/ini"
	"gopkg.in/yaml.v3"
)

// A Format is a structured file format that documents can be converted to
// and from.
type Format struct {
	Name      string
	Marshal   func(d *ini.Document) ([]byte, error)
	Unmarshal func(data []byte, opts *ini.Options) (*ini.Document, error)
}

// TOML converts documents to and from TOML.
var TOML = Format{
	Name:      "toml",
	Marshal:   marshalTOML,
	Unmarshal: unmarshalTOML,
}

// YAML converts documents to and from YAML.
var YAML = Format{
	Name:      "yaml",
	Marshal:   marshalYAML,
	Unmarshal: unmarshalYAML,
}

// Lookup returns the format with the given name. Names are matched
// case-insensitively, and "yml" is accepted for YAML.
func Lookup(name string) (Format, bool) {
	switch strings.ToLower(name) {
	case "toml":
		return TOML, true
	case "yaml", "yml":
		return YAML, true
	default:
		return Format{}, false
	}
}

// ToMap returns the sections and fields of d keyed by their names.
func ToMap(d *ini.Document) map[string]map[string]string {
	m := make(map[string]map[string]string, d.Len())
	for _, name := range d.Names() {
		s, _ := d.Lookup(name)
		fields := make(map[string]string, s.Len())
		for _, fieldName := range s.Names() {
			f, _ := s.Lookup(fieldName)
			fields[fieldName] = f.String()
		}
		m[name] = fields
	}
	return m
}

func marshalTOML(d *ini.Document) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := toml.NewEncoder(buf).Encode(ToMap(d)); err != nil {
		return nil, fmt.Errorf("marshal toml: %w", err)
	}
	return buf.Bytes(), nil
}

func unmarshalTOML(data []byte, opts *ini.Options) (*ini.Document, error) {
	var root map[string]interface{}
	if _, err := toml.Decode(string(data), &root); err != nil {
		return nil, fmt.Errorf("unmarshal toml: %w", err)
	}
	d, err := fromMap(root, opts)
	if err != nil {
		return nil, fmt.Errorf("unmarshal toml: %w", err)
	}
	return d, nil
}

func marshalYAML(d *ini.Document) ([]byte, error) {
	data, err := yaml.Marshal(ToMap(d))
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	return data, nil
}

func unmarshalYAML(data []byte, opts *ini.Options) (*ini.Document, error) {
	var root map[string]interface{}
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	d, err := fromMap(root, opts)
	if err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	return d, nil
}

// fromMap builds a document from a decoded tree of tables. Keys are visited
// in sorted order so that errors are reported deterministically.
func fromMap(root map[string]interface{}, opts *ini.Options) (*ini.Document, error) {
	d := ini.New(opts)
	o := d.Options()
	for _, name := range sortedKeys(root) {
		table, ok := root[name].(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%q: top-level value must be a table, found %s", name, describe(root[name]))
		}
		if err := checkSectionName(name); err != nil {
			return nil, err
		}
		if _, exists := d.Lookup(name); exists && !o.AllowDuplicates {
			return nil, fmt.Errorf("%q: %w", name, ini.SectionNotUnique)
		}
		sect := d.Section(name)
		for _, key := range sortedKeys(table) {
			if err := checkFieldName(key, o.FieldSep); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			if _, exists := sect.Lookup(key); exists && !o.AllowDuplicates {
				return nil, fmt.Errorf("%s.%s: %w", name, key, ini.FieldNotUniqueInSection)
			}
			text, err := valueText(table[key])
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", name, key, err)
			}
			if strings.Contains(text, "\n") && !o.MultiLineValues {
				return nil, fmt.Errorf("%s.%s: value spans multiple lines", name, key)
			}
			sect.Set(key, text)
		}
	}
	return d, nil
}

// valueText formats a decoded value as field text.
func valueText(v interface{}) (string, error) {
	if list, ok := v.([]interface{}); ok {
		elems := make([]string, 0, len(list))
		for i, x := range list {
			s, err := scalarText(x)
			if err != nil {
				return "", fmt.Errorf("element %d: %w", i, err)
			}
			elems = append(elems, s)
		}
		return put(ini.ListOf(",", ini.String), elems)
	}
	return scalarText(v)
}

func scalarText(v interface{}) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return put(ini.String, v)
	case bool:
		return put(ini.Bool, v)
	case int:
		return put(ini.Int, v)
	case int64:
		return put(ini.Int64, v)
	case uint64:
		return put(ini.Uint64, v)
	case float64:
		return put(ini.Float64, v)
	case time.Time:
		return v.Format(time.RFC3339Nano), nil
	case fmt.Stringer:
		// Local dates and times.
		return v.String(), nil
	default:
		return "", fmt.Errorf("cannot store %s in a field", describe(v))
	}
}

func put[T any](c ini.Converter[T], v T) (string, error) {
	var f ini.Field
	if err := ini.Put(&f, c, v); err != nil {
		return "", err
	}
	return f.String(), nil
}

func checkSectionName(name string) error {
	if name == "" || strings.ContainsAny(name, "]\n") {
		return fmt.Errorf("%q: invalid section name", name)
	}
	return nil
}

func checkFieldName(name string, sep rune) error {
	if strings.ContainsRune(name, sep) || strings.ContainsRune(name, '\n') || strings.HasPrefix(strings.TrimLeft(name, " \t"), "[") {
		return fmt.Errorf("%q: invalid field name", name)
	}
	return nil
}

func describe(v interface{}) string {
	switch v.(type) {
	case map[string]interface{}:
		return "table"
	case []interface{}:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
