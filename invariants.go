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

import (
	"fmt"
	"strings"
)

// checkInvariants re-derives size and Robin-Hood ordering from the live
// arrays and panics on the first inconsistency. It's a no-op unless
// invariants is set to true.
func (t *Table[E]) checkInvariants() {
	if !invariants {
		return
	}
	t.verifyInvariants()
}

// verifyInvariants is checkInvariants without the const guard, for tests
// that want the check unconditionally regardless of the invariants
// build-time toggle.
func (t *Table[E]) verifyInvariants() {
	if t.capacity == 0 {
		if t.size != 0 {
			panic(fmt.Sprintf("invariant failed: zero-capacity table has size %d", t.size))
		}
		return
	}

	mask := t.capacity - 1
	var counted int
	for i := 0; i < t.capacity; i++ {
		if t.hashmeta[i] == emptyMeta {
			if t.dist[i] != 0 {
				panic(fmt.Sprintf("invariant failed: EMPTY slot %d has dist=%d\n%s", i, t.dist[i], t.debugString()))
			}
			continue
		}
		counted++

		slot, meta := slotMeta(t.cmp.Hash(t.values[i]), t.capacity)
		if meta != t.hashmeta[i] {
			panic(fmt.Sprintf("invariant failed: slot %d meta=%02x recomputed=%02x\n%s", i, t.hashmeta[i], meta, t.debugString()))
		}
		if got := (slot + int(t.dist[i])) & mask; got != i {
			panic(fmt.Sprintf("invariant failed: slot %d home=%d dist=%d lands at %d\n%s", i, slot, t.dist[i], got, t.debugString()))
		}

		prev := (i - 1) & mask
		if t.hashmeta[prev] != emptyMeta && int(t.dist[i]) > int(t.dist[prev])+1 {
			panic(fmt.Sprintf("invariant failed: dist(%d)=%d > dist(%d)=%d+1\n%s", i, t.dist[i], prev, t.dist[prev], t.debugString()))
		}
	}
	if counted != t.size {
		panic(fmt.Sprintf("invariant failed: size=%d but counted %d OCCUPIED slots\n%s", t.size, counted, t.debugString()))
	}
	for i := t.capacity; i < t.capacity+groupWidth; i++ {
		if t.hashmeta[i] != emptyMeta {
			panic(fmt.Sprintf("invariant failed: padding byte %d is non-zero\n%s", i, t.debugString()))
		}
	}
}

func (t *Table[E]) debugString() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "capacity=%d size=%d\n", t.capacity, t.size)
	for i := 0; i < t.capacity; i++ {
		if t.hashmeta[i] == emptyMeta {
			fmt.Fprintf(&buf, "  %4d: empty\n", i)
		} else {
			fmt.Fprintf(&buf, "  %4d: %v [meta=%02x dist=%d]\n", i, t.values[i], t.hashmeta[i], t.dist[i])
		}
	}
	return buf.String()
}
