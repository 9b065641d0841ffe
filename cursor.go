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

// Cursor is an opaque, forward-only iterator produced by Table.Cursor. It
// has no stability guarantees across a mutation of the underlying table.
type Cursor[E any] struct {
	t   *Table[E]
	idx int
}

// Advance moves the cursor to the next OCCUPIED slot, returning whether
// one was found. Call Value to read it. A Cursor starts positioned before
// the first element, so Advance must be called once before the first
// Value.
func (c *Cursor[E]) Advance() bool {
	for i := c.idx + 1; i < c.t.capacity; i++ {
		if c.t.hashmeta[i] != emptyMeta {
			c.idx = i
			return true
		}
	}
	c.idx = c.t.capacity
	return false
}

// Value returns the element at the cursor's current position. It panics
// if called before a successful Advance, or after Advance returned false.
func (c *Cursor[E]) Value() E {
	return c.t.values[c.idx]
}
