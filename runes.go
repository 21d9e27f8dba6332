// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ijson

const (
	// CR and LF are control characters, respectively coded 0x0D (13 decimal) and 0x0A (10 decimal).
	// The scanner merges CR+LF into a single LF so that line numbers in diagnostics
	// match what an editor shows. Both are blank, so the grammar never sees the difference.

	// CR is 0x0D or '\r'
	CR rune = rune(13)

	// LF is 0x0A or '\n'
	LF rune = rune(10)

	// EOF is a sentinel for end of input
	EOF rune = rune(-1)
)

func init() {
	for _, ch := range []byte{' ', '\t', '\n', '\v', '\f', '\r'} {
		blanks[ch] = true
	}
	for ch := '0'; ch <= '9'; ch++ {
		digits[ch] = true
	}
	for ch := 'a'; ch <= 'z'; ch++ {
		letters[ch] = true
		letters[ch-'a'+'A'] = true
	}
}

var (
	blanks  = [128]bool{}
	digits  = [128]bool{}
	letters = [128]bool{}
)

// isblank uses the C locale classification: space, tab, newline,
// vertical tab, form feed and carriage return.
func isblank(ch rune) bool {
	return 0 <= ch && ch < 128 && blanks[ch]
}

func isdigit(ch rune) bool {
	return 0 <= ch && ch < 128 && digits[ch]
}

// isalpha accepts ASCII letters only; keys never contain anything else.
func isalpha(ch rune) bool {
	return 0 <= ch && ch < 128 && letters[ch]
}
