// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package ijson implements a recursive-descent parser for a small
// JSON-like format with three kinds of values: integers, arrays and
// objects whose keys are alphabetic identifiers.
//
//	value   := ws (integer | array | object) ws
//	integer := '0' | ['-'] nonzero_digit digit*
//	array   := '[' ']' | '[' value (',' value)* ']'
//	object  := '{' '}' | '{' member (',' member)* '}'
//	member  := ws identifier ws ':' value
//
// Parse either returns a complete tree or an error; a partial tree is
// never returned.
package ijson

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
)

// Parse converts text into a Value.
//
// Leading and trailing blanks are ignored; anything else after the
// value is an error. All parse failures are *SyntaxError values.
func Parse(text string, options ...Option) (Value, error) {
	cfg := defaultConfig()
	for _, option := range options {
		if err := option(&cfg); err != nil {
			return nil, err
		}
	}

	p := newParser(text, cfg)
	v, err := p.parse()
	if err != nil {
		var se *SyntaxError
		if errors.As(err, &se) {
			se.Source = cfg.source
		}
		p.debug("parse: %v", err)
		return nil, err
	}
	return v, nil
}

type parser struct {
	s        *scanner
	depth    int // current container nesting
	maxDepth int
	maxInput int
	logger   *slog.Logger
}

func newParser(text string, cfg config) *parser {
	return &parser{
		s:        newScanner(text),
		maxDepth: cfg.maxDepth,
		maxInput: cfg.maxInputSize,
		logger:   cfg.logger,
	}
}

func (p *parser) parse() (Value, error) {
	if p.maxInput > 0 && p.s.length > p.maxInput {
		return nil, p.s.errorf("input is too large")
	}

	p.s.skipBlank()
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.s.skipBlank()

	if !p.s.iseof() {
		return nil, p.s.errorf("malformed input string")
	}
	return v, nil
}

// parseValue dispatches on a single character of lookahead.
// It consumes blanks on both sides of the value.
func (p *parser) parseValue() (Value, error) {
	p.s.skipBlank()

	var v Value
	var err error
	switch ch := p.s.peekChar(); {
	case ch == '-' || isdigit(ch):
		var n int64
		n, err = p.parseInteger()
		v = Integer(n)
	case ch == '[':
		v, err = p.parseArray()
	case ch == '{':
		v, err = p.parseObject()
	default:
		return nil, p.s.errorf("unrecognized value")
	}
	if err != nil {
		return nil, err
	}

	p.s.skipBlank()

	return v, nil
}

// parseInteger accepts '0' or an optional minus followed by a non-zero
// digit and any number of digits. "-0" is rejected.
func (p *parser) parseInteger() (int64, error) {
	start := p.s.position()

	if p.s.peekChar() == '0' {
		p.s.advance()
		if isdigit(p.s.peekChar()) {
			return 0, p.errorAt(start, "number starting with 0")
		}
		return 0, nil
	}

	negative := false
	if p.s.peekChar() == '-' {
		negative = true
		p.s.advance()
		if ch := p.s.peekChar(); ch == '0' || !isdigit(ch) {
			return 0, p.errorAt(start, "number isn't valid")
		}
	}

	// the magnitude of math.MinInt64 is one more than math.MaxInt64
	limit := uint64(math.MaxInt64)
	if negative {
		limit++
	}

	var magnitude uint64
	for isdigit(p.s.peekChar()) {
		digit := uint64(p.s.advance() - '0')
		if magnitude > (limit-digit)/10 {
			return 0, p.errorAt(start, "number is out of range")
		}
		magnitude = magnitude*10 + digit
	}

	if negative {
		// wraps correctly for math.MinInt64
		return -int64(magnitude), nil
	}
	return int64(magnitude), nil
}

// parseArray is called with the cursor on the opening bracket.
func (p *parser) parseArray() (Value, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	p.debug("array: %s", p.s.position())
	p.s.advance() // skip the opening bracket

	// only an immediately following bracket is empty; "[ ]" is an error
	if p.s.peekChar() == ']' {
		p.s.advance()
		return newArray(nil), nil
	}

	var items []Value
	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		items = append(items, v)

		switch p.s.peekChar() {
		case ']':
			p.s.advance()
			return newArray(items), nil
		case ',':
			p.s.advance()
		default:
			return nil, p.s.errorf("malformed array")
		}
	}
}

// parseObject is called with the cursor on the opening brace.
func (p *parser) parseObject() (Value, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	p.debug("object: %s", p.s.position())
	p.s.advance() // skip the opening brace

	// as with arrays, "{ }" is an error
	obj := newObject()
	if p.s.peekChar() == '}' {
		p.s.advance()
		return obj, nil
	}

	for {
		keyPos, key, v, err := p.parseMember()
		if err != nil {
			return nil, err
		}
		if !obj.insert(key, v) {
			return nil, p.errorAt(keyPos, "object contains duplicate key")
		}

		switch p.s.peekChar() {
		case '}':
			p.s.advance()
			return obj, nil
		case ',':
			p.s.advance()
		default:
			return nil, p.s.errorf("object isn't comma separated")
		}
	}
}

// parseMember returns the key, its location, and the value of one entry.
func (p *parser) parseMember() (Position, string, Value, error) {
	p.s.skipBlank()

	keyPos := p.s.position()
	if !isalpha(p.s.peekChar()) {
		return keyPos, "", nil, p.s.errorf("malformed key")
	}
	for isalpha(p.s.peekChar()) {
		p.s.advance()
	}
	key := p.s.input[keyPos.Start:p.s.position().Start]

	p.s.skipBlank()

	if err := p.s.expect(':', "key-value pair doesn't contain :"); err != nil {
		return keyPos, key, nil, err
	}

	v, err := p.parseValue()
	if err != nil {
		return keyPos, key, nil, err
	}
	return keyPos, key, v, nil
}

// enter increments the container depth, failing if it exceeds the limit.
func (p *parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return p.s.errorf("value is nested too deeply")
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

func (p *parser) errorAt(pos Position, message string) *SyntaxError {
	return &SyntaxError{Message: message, Pos: pos}
}

func (p *parser) debug(format string, args ...any) {
	if p.logger == nil {
		return
	}
	p.logger.Debug(fmt.Sprintf(format, args...))
}
