// Package tzintern assigns small, stable indices to the distinct strings of a scope.
//
// Indices are assigned in order of first sighting, so the same sequence of Intern
// calls always produces the same table. Callers that need reproducible tables must
// intern in a deterministic order.
package tzintern

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrTableOverflow is returned when a new string does not fit the capacity of a table.
	ErrTableOverflow = errors.New("string table overflow")
	// ErrLookupMiss is returned when a string is looked up that was never interned.
	ErrLookupMiss = errors.New("string not interned")
)

// Table is an insertion-ordered set of distinct strings.
// It is not safe for concurrent use.
type Table struct {
	index    map[string]int
	strings  []string
	capacity int // zero means unbounded
	minLen   int

	size     int // bytes of distinct strings, each with a NUL terminator
	origSize int // bytes of all interned occurrences, each with a NUL terminator
}

// Option configures a Table.
type Option func(*Table)

// WithCapacity limits the number of distinct strings of the table.
func WithCapacity(n int) Option {
	return func(t *Table) {
		t.capacity = n
	}
}

// WithMinLength makes the table skip strings shorter than n bytes.
// Skipped strings are stored inline by the caller and need no index.
func WithMinLength(n int) Option {
	return func(t *Table) {
		t.minLen = n
	}
}

// New returns an empty Table.
func New(opts ...Option) *Table {
	t := &Table{index: make(map[string]int)}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Skips reports whether s is too short to be interned.
func (t *Table) Skips(s string) bool {
	return len(s) < t.minLen
}

// Intern returns the index of s, adding s to the table if it is new.
// It returns -1 for strings that the table skips.
func (t *Table) Intern(s string) (int, error) {
	if t.Skips(s) {
		return -1, nil
	}
	i, ok := t.index[s]
	if !ok {
		if t.capacity > 0 && len(t.strings) >= t.capacity {
			return 0, fmt.Errorf("%w: %q would be entry %d, capacity is %d", ErrTableOverflow, s, len(t.strings)+1, t.capacity)
		}
		i = len(t.strings)
		t.index[s] = i
		t.strings = append(t.strings, s)
		t.size += len(s) + 1
	}
	t.origSize += len(s) + 1
	return i, nil
}

// Index returns the index of a string that was interned before.
func (t *Table) Index(s string) (int, error) {
	i, ok := t.index[s]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrLookupMiss, s)
	}
	return i, nil
}

// Contains reports whether s was interned.
func (t *Table) Contains(s string) bool {
	_, ok := t.index[s]
	return ok
}

// Strings returns the distinct strings in index order.
func (t *Table) Strings() []string {
	return slices.Clone(t.strings)
}

// Len returns the number of distinct strings.
func (t *Table) Len() int {
	return len(t.strings)
}

// Size returns the number of bytes of the distinct strings including NUL terminators.
func (t *Table) Size() int {
	return t.size
}

// OrigSize returns the number of bytes that all interned occurrences would need
// without deduplication, including NUL terminators.
func (t *Table) OrigSize() int {
	return t.origSize
}
