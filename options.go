// Copyright 2024 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package robinhash

import "log/slog"

// Option provides an interface to configure a Table while it is being
// created.
type Option[E any] interface {
	apply(t *Table[E])
}

type loggerOption[E any] struct {
	handler slog.Handler
}

func (op loggerOption[E]) apply(t *Table[E]) {
	t.log = logger{slog.New(op.handler)}
}

// WithLogger attaches a slog handler that the table uses to report rare,
// structurally significant events: rehashes and probe-distance overflow.
// Tables never log on the steady-state insert/lookup path.
func WithLogger[E any](handler slog.Handler) Option[E] {
	return loggerOption[E]{handler}
}

type initialCapacityOption[E any] struct {
	n int
}

func (op initialCapacityOption[E]) apply(t *Table[E]) {
	if op.n > 0 {
		t.pendingCapacity = nextPow2(op.n)
	}
}

// WithInitialCapacity makes New allocate the table's arrays up front with
// n rounded up to a power of two (at least 4) slots, instead of leaving
// the first insert to allocate the default capacity of 8. Unlike
// Reserve(n), it adds no headroom for the 0.875 load factor: inserting
// more than 7/8 of that capacity still triggers a rehash.
func WithInitialCapacity[E any](n int) Option[E] {
	return initialCapacityOption[E]{n}
}

// Allocator specifies an interface for allocating and releasing the
// memory backing a Table's three parallel arrays. The default allocator
// uses Go's builtin make() and allows the GC to reclaim memory.
//
// If the allocator manually manages memory and requires that arrays be
// freed, the caller must invoke Table.Close (or Clear, which releases the
// arrays back to EMPTY) to ensure Free* is called.
type Allocator[E any] interface {
	// AllocValues should return a slice equivalent to make([]E, n).
	AllocValues(n int) []E
	// AllocMeta should return a slice equivalent to make([]uint8, n).
	AllocMeta(n int) []uint8
	// AllocDist should return a slice equivalent to make([]uint8, n).
	AllocDist(n int) []uint8

	// FreeValues can optionally release memory allocated by AllocValues.
	FreeValues(v []E)
	// FreeMeta can optionally release memory allocated by AllocMeta.
	FreeMeta(v []uint8)
	// FreeDist can optionally release memory allocated by AllocDist.
	FreeDist(v []uint8)
}

type defaultAllocator[E any] struct{}

func (defaultAllocator[E]) AllocValues(n int) []E   { return make([]E, n) }
func (defaultAllocator[E]) AllocMeta(n int) []uint8 { return make([]uint8, n) }
func (defaultAllocator[E]) AllocDist(n int) []uint8 { return make([]uint8, n) }
func (defaultAllocator[E]) FreeValues(v []E)        {}
func (defaultAllocator[E]) FreeMeta(v []uint8)      {}
func (defaultAllocator[E]) FreeDist(v []uint8)      {}

type allocatorOption[E any] struct {
	allocator Allocator[E]
}

func (op allocatorOption[E]) apply(t *Table[E]) {
	t.allocator = op.allocator
}

// WithAllocator specifies the Allocator a Table should use for its three
// parallel arrays.
func WithAllocator[E any](allocator Allocator[E]) Option[E] {
	return allocatorOption[E]{allocator}
}
