// Package datafix sequences version-tagged fixes over record trees and gives
// each fix a narrow way to find and rewrite the sub-trees it owns.
package datafix

import (
	"strings"

	"github.com/pkg/errors"

	"worldupgrade/internal/tree"
)

// Wildcard matches every element of a list or every value of a map.
const Wildcard = "*"

// Path is a sequence of map keys, optionally containing Wildcard steps.
type Path []string

// ParsePath splits a dotted path such as "Level.Sections.*.Palette".
func ParsePath(s string) Path {
	if s == "" {
		return nil
	}
	return Path(strings.Split(s, "."))
}

func (p Path) String() string {
	return strings.Join(p, ".")
}

// Locate returns every sub-tree matching path, in document order.
func Locate(record tree.Value, path Path) []tree.Value {
	if len(path) == 0 {
		return []tree.Value{record}
	}
	step, rest := path[0], path[1:]
	if step != Wildcard {
		child, ok := record.Get(step)
		if !ok {
			return nil
		}
		return Locate(child, rest)
	}

	var out []tree.Value
	switch {
	case record.IsList():
		for _, item := range record.Items() {
			out = append(out, Locate(item, rest)...)
		}
	case record.IsMap():
		for _, e := range record.Entries() {
			out = append(out, Locate(e.Value, rest)...)
		}
	}
	return out
}

// Rewrite applies fn to every sub-tree matching path and returns the updated
// record. Missing keys are skipped. The first error aborts the rewrite and
// the original record is left untouched.
func Rewrite(record tree.Value, path Path, fn func(tree.Value) (tree.Value, error)) (tree.Value, error) {
	if len(path) == 0 {
		return fn(record)
	}
	step, rest := path[0], path[1:]
	if step != Wildcard {
		child, ok := record.Get(step)
		if !ok {
			return record, nil
		}
		updated, err := Rewrite(child, rest, fn)
		if err != nil {
			return record, errors.Wrapf(err, "%s", step)
		}
		return record.Set(step, updated), nil
	}

	switch {
	case record.IsList():
		items := record.Items()
		for i, item := range items {
			updated, err := Rewrite(item, rest, fn)
			if err != nil {
				return record, errors.Wrapf(err, "[%d]", i)
			}
			items[i] = updated
		}
		return tree.List(items...), nil
	case record.IsMap():
		out := record
		for _, e := range record.Entries() {
			updated, err := Rewrite(e.Value, rest, fn)
			if err != nil {
				return record, errors.Wrapf(err, "%s", e.Key)
			}
			out = out.Set(e.Key, updated)
		}
		return out, nil
	}
	return record, nil
}
