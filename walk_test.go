// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ijson_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mdhender/ijson"
)

func TestWalk_Paths(t *testing.T) {
	v := mustParse(t, "{b:[1,{c:2}],a:3}")
	var got []string
	err := ijson.Walk(v, func(path string, depth int, v ijson.Value) error {
		got = append(got, fmt.Sprintf("%d %s %s", depth, path, v.Kind()))
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	want := []string{
		"0 $ object",
		"1 $.a integer",
		"1 $.b array",
		"2 $.b[0] integer",
		"2 $.b[1] object",
		"3 $.b[1].c integer",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("Walk visited\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestWalk_SkipChildrenAndStop(t *testing.T) {
	v := mustParse(t, "[[1,2],[3],4]")
	var visited []string
	err := ijson.Walk(v, func(path string, _ int, v ijson.Value) error {
		visited = append(visited, path)
		if path == "$[0]" {
			return ijson.SkipChildren
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if got, want := strings.Join(visited, " "), "$ $[0] $[1] $[1][0] $[2]"; got != want {
		t.Fatalf("visited %q, want %q", got, want)
	}

	stop := errors.New("stop")
	count := 0
	err = ijson.Walk(v, func(path string, _ int, _ ijson.Value) error {
		count++
		if path == "$[1]" {
			return stop
		}
		return nil
	})
	if err != stop {
		t.Fatalf("Walk err = %v, want stop", err)
	}
	if count != 5 {
		t.Fatalf("visited %d values, want 5", count)
	}

	if err := ijson.Walk(v, func(string, int, ijson.Value) error { return ijson.SkipChildren }); err != nil {
		t.Fatalf("SkipChildren at root: err = %v, want nil", err)
	}
}

func TestMeasure(t *testing.T) {
	for _, tc := range []struct {
		input string
		want  ijson.Stats
	}{
		{"5", ijson.Stats{Nodes: 1, Integers: 1}},
		{"[]", ijson.Stats{Nodes: 1, Arrays: 1, MaxDepth: 1}},
		{"[1,[2,3],4]", ijson.Stats{Nodes: 6, Integers: 4, Arrays: 2, MaxDepth: 2}},
		{"{a:{b:{c:[]}},d:0}", ijson.Stats{Nodes: 5, Integers: 1, Arrays: 1, Objects: 3, MaxDepth: 4}},
	} {
		if got := ijson.Measure(mustParse(t, tc.input)); got != tc.want {
			t.Fatalf("Measure(%q) = %+v, want %+v", tc.input, got, tc.want)
		}
	}
}
