// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package memory provides the sparse, word-addressed stores that back the
// instruction and data buses of a co-simulated core.
package memory

import (
	"iter"

	"github.com/ezrec/cosim/internal"
)

// Word is a bus word. A run uses exactly one width for addresses and data.
type Word interface {
	~uint32 | ~uint64
}

// Store is a sparse word-addressed memory. Reading an address that was never
// written returns zero. There is no range checking; the address space is the
// whole of W.
type Store[W Word] struct {
	Name string // Identifier used in logs, e.g. "imem".

	data map[W]W
}

// NewStore creates an empty store.
func NewStore[W Word](name string) (store *Store[W]) {
	store = &Store[W]{
		Name: name,
		data: make(map[W]W),
	}
	return
}

// Write stores value at addr, overwriting any previous value.
func (store *Store[W]) Write(addr W, value W) {
	if store.data == nil {
		store.data = make(map[W]W)
	}
	store.data[addr] = value
}

// Read returns the value at addr, or zero if addr was never written.
func (store *Store[W]) Read(addr W) (value W) {
	value = store.data[addr]
	return
}

// Load writes words sequentially, word n landing at base + n*stride.
func (store *Store[W]) Load(base W, stride W, words []W) {
	addr := base
	for _, word := range words {
		store.Write(addr, word)
		addr += stride
	}
}

// Len returns the number of written addresses.
func (store *Store[W]) Len() int {
	return len(store.data)
}

// Contents iterates over written addresses in ascending order.
func (store *Store[W]) Contents() iter.Seq2[W, W] {
	return internal.IterSorted(store.data)
}

// Reset discards all contents.
func (store *Store[W]) Reset() {
	clear(store.data)
}
