// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ijson

import (
	"unicode/utf8"
)

// Scanner invariants and coordinate system
//
// The scanner treats input as an immutable string.
//
// Fields:
//   input       - the original text
//   length      - len(input)
//
//   r           - the current rune, or EOF when we have read past the end.
//                 "\r\n" is seen as a single "\n" rune.
//
//   posCurrRune - index into input of the first byte of r,
//                 or length when r == EOF.
//   posNextRune - index into input of the first byte of the *next* rune,
//                 or length when r == EOF.
//
// Invariants (must always hold):
//   0 <= posCurrRune <= posNextRune <= length
//
//   r == EOF  <=> posCurrRune == posNextRune == length
//
//   r != EOF  => posCurrRune < length && posNextRune > posCurrRune
//                and input[posCurrRune:posNextRune] encodes exactly r.
//
// The grammar only ever looks one rune ahead. peekChar never moves the
// cursor; advance moves it by exactly one rune.

type scanner struct {
	r           rune // current rune
	line        int  // line number of current rune
	column      int  // column number of current rune
	posCurrRune int  // position of current rune
	posNextRune int  // position of next rune
	length      int  // length of input
	input       string
}

func newScanner(input string) *scanner {
	s := &scanner{
		input:  input,
		length: len(input),
		line:   1,
		column: 1,
	}
	// read the first character to initialize the scanner.
	s.advanceRaw()
	return s
}

// peekChar returns the current character without advancing the input.
func (s *scanner) peekChar() rune {
	return s.r
}

// advance consumes the current character and returns it.
// At end of input it returns EOF and does not move.
func (s *scanner) advance() rune {
	ch := s.r
	if ch == EOF {
		return EOF
	}
	if ch == LF {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	s.advanceRaw()
	return ch
}

// advanceRaw reads the rune at posNextRune into r without touching line/col.
// It normalizes "\r\n" into a single LF rune.
func (s *scanner) advanceRaw() {
	if s.posNextRune >= s.length {
		s.posCurrRune, s.posNextRune = s.length, s.length
		s.r = EOF
		return
	}

	s.posCurrRune = s.posNextRune

	// read the next rune, optimizing for ASCII grammars.
	r, w := rune(s.input[s.posCurrRune]), 1
	if r == CR && s.posCurrRune+1 < s.length && s.input[s.posCurrRune+1] == '\n' {
		// merge CR+LF into a single LF rune, but consume both bytes
		r, w = LF, 2
	} else if r >= utf8.RuneSelf {
		// the current rune must be decoded
		r, w = utf8.DecodeRuneInString(s.input[s.posCurrRune:])
	}
	s.posNextRune = s.posCurrRune + w
	s.r = r
}

func (s *scanner) iseof() bool {
	return s.r == EOF
}

// position returns the location of the current rune.
func (s *scanner) position() Position {
	return Position{
		Line:   s.line,
		Column: s.column,
		Start:  s.posCurrRune,
	}
}

// skipBlank consumes a run of zero or more blank characters.
func (s *scanner) skipBlank() {
	for isblank(s.r) {
		s.advance()
	}
}

// expect consumes ch if it is the current character.
// Otherwise, it returns a syntax error carrying message.
func (s *scanner) expect(ch rune, message string) error {
	if s.r != ch {
		return s.errorf(message)
	}
	s.advance()
	return nil
}

// errorf returns a syntax error at the current position.
func (s *scanner) errorf(message string) *SyntaxError {
	return &SyntaxError{
		Message: message,
		Pos:     s.position(),
	}
}
