// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ijson

import (
	"errors"
	"fmt"
)

// SkipChildren is returned by a WalkFunc to skip the children of the
// current array or object. It is never returned by Walk.
var SkipChildren = errors.New("skip children")

// WalkFunc is called once per value. path locates the value from the
// root ("$", "$[2]", "$.key[0]") and depth is the number of ancestors.
type WalkFunc func(path string, depth int, v Value) error

// Walk visits v and its descendants depth first, parents before
// children, in ItemAt order. It stops at the first error from fn.
func Walk(v Value, fn WalkFunc) error {
	err := walk("$", 0, v, fn)
	if err == SkipChildren {
		return nil
	}
	return err
}

func walk(path string, depth int, v Value, fn WalkFunc) error {
	if err := fn(path, depth, v); err != nil {
		return err
	}
	switch t := v.(type) {
	case *Array:
		for i, item := range t.items {
			if err := walk(fmt.Sprintf("%s[%d]", path, i), depth+1, item, fn); err != nil && err != SkipChildren {
				return err
			}
		}
	case *Object:
		it := t.entries.Iterator()
		for it.Next() {
			if err := walk(path+"."+it.Key().(string), depth+1, it.Value().(Value), fn); err != nil && err != SkipChildren {
				return err
			}
		}
	}
	return nil
}

// Stats summarizes the shape of a tree.
type Stats struct {
	Nodes    int
	Integers int
	Arrays   int
	Objects  int
	MaxDepth int // deepest container nesting; 0 for a lone integer
}

// Measure counts the values in the tree rooted at v.
func Measure(v Value) Stats {
	var st Stats
	_ = Walk(v, func(_ string, depth int, v Value) error {
		st.Nodes++
		switch v.Kind() {
		case KindInteger:
			st.Integers++
		case KindArray:
			st.Arrays++
		case KindObject:
			st.Objects++
		}
		if v.Kind() != KindInteger && depth+1 > st.MaxDepth {
			st.MaxDepth = depth + 1
		}
		return nil
	})
	return st
}
