/*
Package catalog provides the message-table type and the two merge operators used when
assembling locale bundles.

A Table maps message ids to translated values. Values are usually plain strings but
may be nested tables, so both operators recurse into map values. The two operators
differ only in which side wins on a collision:

  - Merge: the override side always wins.
  - Defaults: the target side always wins; defaults only fill ids the target lacks.
*/
package catalog

import (
	"encoding/json"
	"os"
)

// Table is one language's mapping from message id to translated value.
type Table map[string]interface{}

// Load reads and parses a JSON message table from the file at the given path.
func Load(path string) (t Table, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse parses a JSON message table.
func Parse(data []byte) (t Table, err error) {
	t = make(Table)
	if err = json.Unmarshal(data, &t); err != nil {
		return nil, err
	}

	return t, nil
}

// Merge combines base and override into a new Table. Entries from override win on id
// collision; nested tables are merged recursively. Neither input is modified.
func Merge(base, override Table) Table {
	out := make(Table, len(base)+len(override))
	for id, v := range base {
		out[id] = cloneValue(v)
	}
	for id, v := range override {
		if sub, ok := v.(map[string]interface{}); ok {
			if existing, ok := out[id].(map[string]interface{}); ok {
				out[id] = map[string]interface{}(Merge(existing, sub))
				continue
			}
		}
		out[id] = cloneValue(v)
	}

	return out
}

// Defaults returns target with any ids it lacks filled in from defaults. Existing
// entries are never overwritten; nested tables are filled recursively. Neither input
// is modified.
func Defaults(target, defaults Table) Table {
	out := make(Table, len(target))
	for id, v := range target {
		out[id] = cloneValue(v)
	}
	for id, v := range defaults {
		existing, present := out[id]
		if !present {
			out[id] = cloneValue(v)
			continue
		}
		if sub, ok := v.(map[string]interface{}); ok {
			if cur, ok := existing.(map[string]interface{}); ok {
				out[id] = map[string]interface{}(Defaults(cur, sub))
			}
		}
	}

	return out
}

// Clone makes a deep copy of a Table.
func Clone(t Table) Table {
	out := make(Table, len(t))
	for id, v := range t {
		out[id] = cloneValue(v)
	}

	return out
}

func cloneValue(v interface{}) interface{} {
	if sub, ok := v.(map[string]interface{}); ok {
		return map[string]interface{}(Clone(sub))
	}

	return v
}
