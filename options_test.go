// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ijson_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/mdhender/ijson"
)

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if _, err := ijson.Parse("[{a:1}]", ijson.WithLogger(logger)); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, want := range []string{"array: 1:1", "object: 1:2"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("log = %q, want it to contain %q", buf.String(), want)
		}
	}

	buf.Reset()
	if _, err := ijson.Parse("[", ijson.WithLogger(logger)); err == nil {
		t.Fatalf("Parse: expected error")
	}
	if !strings.Contains(buf.String(), "unrecognized value") {
		t.Errorf("log = %q, want the error to be traced", buf.String())
	}

	// a nil logger is silent
	if _, err := ijson.Parse("[]", ijson.WithLogger(nil)); err != nil {
		t.Fatalf("Parse with nil logger: %v", err)
	}
}

func TestInvalidOptions(t *testing.T) {
	for _, tc := range []struct {
		name   string
		option ijson.Option
	}{
		{"zero depth", ijson.WithMaxDepth(0)},
		{"negative size", ijson.WithMaxInputSize(-1)},
	} {
		v, err := ijson.Parse("1", tc.option)
		if err == nil {
			t.Errorf("%s: Parse = %v, want error", tc.name, v)
		}
	}
}
