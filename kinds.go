// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ijson

// Kind implements enums for values
type Kind int

const (
	KindInvalid Kind = iota // zero value, never produced by the parser

	KindInteger
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "invalid"
}
