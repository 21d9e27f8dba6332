// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ijson

import (
	"github.com/emirpasic/gods/maps/treemap"
)

// Value is the result of parsing. Concrete types:
//
//   - Integer
//   - *Array
//   - *Object
//
// Values are immutable once Parse returns them. Children are owned by
// exactly one parent; there is no sharing and no cycles.
type Value interface {
	// Kind never fails.
	Kind() Kind
	// AsInteger returns the integer stored in an Integer.
	AsInteger() (int64, error)
	// ItemAt returns the i'th child of an Array, or the value of the
	// i'th entry of an Object in key order.
	ItemAt(i int) (Value, error)
	// ItemAtKey returns the value stored under key in an Object.
	ItemAtKey(key string) (Value, error)
	// Len is 0 for Integer, otherwise the number of children.
	Len() int

	value() // sealed, only types in this package implement Value
}

// Integer is a signed 64-bit integer value.
type Integer int64

func (Integer) value() {}

func (Integer) Kind() Kind { return KindInteger }

func (v Integer) AsInteger() (int64, error) { return int64(v), nil }

func (Integer) ItemAt(i int) (Value, error) {
	return nil, &QueryError{Op: "ItemAt", Kind: KindInteger, Index: i, Err: ErrTypeMismatch}
}

func (Integer) ItemAtKey(key string) (Value, error) {
	return nil, &QueryError{Op: "ItemAtKey", Kind: KindInteger, Key: key, Err: ErrTypeMismatch}
}

func (Integer) Len() int { return 0 }

// Array is an ordered sequence of values.
type Array struct {
	items []Value
}

func newArray(items []Value) *Array {
	return &Array{items: items}
}

func (*Array) value() {}

func (*Array) Kind() Kind { return KindArray }

func (*Array) AsInteger() (int64, error) {
	return 0, &QueryError{Op: "AsInteger", Kind: KindArray, Err: ErrTypeMismatch}
}

func (a *Array) ItemAt(i int) (Value, error) {
	if i < 0 || i >= len(a.items) {
		return nil, &QueryError{Op: "ItemAt", Kind: KindArray, Index: i, Err: ErrOutOfRange}
	}
	return a.items[i], nil
}

func (*Array) ItemAtKey(key string) (Value, error) {
	return nil, &QueryError{Op: "ItemAtKey", Kind: KindArray, Key: key, Err: ErrTypeMismatch}
}

func (a *Array) Len() int { return len(a.items) }

// Object maps keys to values.
// Entries are kept in lexicographic (byte-wise) key order, and ItemAt
// walks them in that order regardless of the order they were parsed in.
type Object struct {
	entries *treemap.Map // string -> Value
}

func newObject() *Object {
	return &Object{entries: treemap.NewWithStringComparator()}
}

// insert adds an entry, reporting false if the key is already present.
func (o *Object) insert(key string, v Value) bool {
	if _, found := o.entries.Get(key); found {
		return false
	}
	o.entries.Put(key, v)
	return true
}

func (*Object) value() {}

func (*Object) Kind() Kind { return KindObject }

func (*Object) AsInteger() (int64, error) {
	return 0, &QueryError{Op: "AsInteger", Kind: KindObject, Err: ErrTypeMismatch}
}

func (o *Object) ItemAt(i int) (Value, error) {
	if i < 0 || i >= o.entries.Size() {
		return nil, &QueryError{Op: "ItemAt", Kind: KindObject, Index: i, Err: ErrOutOfRange}
	}
	it := o.entries.Iterator()
	for n := 0; it.Next(); n++ {
		if n == i {
			return it.Value().(Value), nil
		}
	}
	// unreachable
	return nil, &QueryError{Op: "ItemAt", Kind: KindObject, Index: i, Err: ErrOutOfRange}
}

func (o *Object) ItemAtKey(key string) (Value, error) {
	v, found := o.entries.Get(key)
	if !found {
		return nil, &QueryError{Op: "ItemAtKey", Kind: KindObject, Key: key, Err: ErrMissingKey}
	}
	return v.(Value), nil
}

func (o *Object) Len() int { return o.entries.Size() }

// Keys returns the keys of the object in the same order ItemAt uses.
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.entries.Size())
	it := o.entries.Iterator()
	for it.Next() {
		keys = append(keys, it.Key().(string))
	}
	return keys
}
