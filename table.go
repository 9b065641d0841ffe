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

// debug is a compile-time toggle that no code in this package reads;
// setting it to true changes nothing.
const debug = false

// invariants, when true, makes Insert, InsertIfAbsent, ComputeIfAbsent,
// ComputeMerge, Remove and RemoveAt re-derive the table's size and
// Robin-Hood ordering from the live arrays afterward and panic on the
// first inconsistency. Clear and Reserve are not checked. Expensive; for
// tests only.
const invariants = false

// maxLoadNumer/maxLoadDenom express the 0.875 growth threshold as an
// integer ratio so the hot insert path never touches floating point.
const (
	maxLoadNumer = 7
	maxLoadDenom = 8
)

// defaultCapacity is the size of the first, lazy allocation made when an
// element is added to a table that has no arrays yet.
const defaultCapacity = 8

// Comparator supplies the equality and hashing policy a Table needs but
// has no opinion of its own about. Two elements that compare Equal must
// produce the same Hash; Hash need not be collision-free.
type Comparator[E any] interface {
	Equals(a, b E) bool
	Hash(a E) uint64
}

// InsertResult reports which of the three possible outcomes Insert took.
type InsertResult int

const (
	Inserted InsertResult = iota
	Replaced
	NotInserted
)

func (r InsertResult) String() string {
	switch r {
	case Inserted:
		return "Inserted"
	case Replaced:
		return "Replaced"
	case NotInserted:
		return "NotInserted"
	default:
		return "InsertResult(?)"
	}
}

// Table is an open-addressed hash table using Robin Hood probing and
// back-shift deletion. It stores elements of type E directly; a Table has
// no notion of a key distinct from the stored element — callers that need
// key/value semantics layer that on top via a Comparator that only looks
// at a key field.
//
// A Table is not safe for concurrent use. All methods assume a single
// owning goroutine.
type Table[E any] struct {
	cmp Comparator[E]

	values   []E
	hashmeta []uint8 // length capacity+groupWidth; trailing bytes always 0
	dist     []uint8 // length capacity

	capacity int // 0, or a power of two >= minCapacity
	size     int

	allocator Allocator[E]
	log       logger

	// pendingCapacity is set by WithInitialCapacity and consumed once by
	// New, before the table is handed back to the caller.
	pendingCapacity int
}

// New constructs an empty Table. The three parallel arrays are not
// allocated until the first insert, Reserve, or WithInitialCapacity
// option forces it.
func New[E any](cmp Comparator[E], opts ...Option[E]) *Table[E] {
	t := &Table[E]{
		cmp:       cmp,
		allocator: defaultAllocator[E]{},
	}
	for _, opt := range opts {
		opt.apply(t)
	}
	if t.pendingCapacity > 0 {
		// Best effort: if the initial allocation fails there's nothing
		// useful to surface from New, so the table just stays at its
		// lazily-allocated zero capacity.
		_ = t.growTo(t.pendingCapacity)
	}
	return t
}

// Len returns the number of elements currently stored.
func (t *Table[E]) Len() int {
	return t.size
}

// Load returns size/capacity, or 0 for a table that hasn't allocated yet.
func (t *Table[E]) Load() float64 {
	if t.capacity == 0 {
		return 0
	}
	return float64(t.size) / float64(t.capacity)
}

// Close releases the table's arrays back to its allocator. It is
// unnecessary for a Table using the default allocator, which lets the GC
// reclaim memory. Close is equivalent to Clear other than leaving the
// table usable afterward either way.
func (t *Table[E]) Close() {
	t.Clear()
}

func (t *Table[E]) allocArrays(n int) (values []E, hashmeta []uint8, dist []uint8, err error) {
	defer func() {
		if r := recover(); r != nil {
			values, hashmeta, dist = nil, nil, nil
			err = ErrAllocationFailure
		}
	}()
	values = t.allocator.AllocValues(n)
	hashmeta = t.allocator.AllocMeta(n + groupWidth)
	dist = t.allocator.AllocDist(n)
	return values, hashmeta, dist, nil
}

// ensureRoom grows the table, if needed, so that one more element can be
// inserted without exceeding the 0.875 load factor. It lazily performs
// the table's very first allocation too.
func (t *Table[E]) ensureRoom() error {
	if t.capacity == 0 {
		return t.growTo(defaultCapacity)
	}
	if (t.size+1)*maxLoadDenom > t.capacity*maxLoadNumer {
		return t.growTo(t.capacity * 2)
	}
	return nil
}

// growTo allocates fresh arrays of capacity newCap and, if the table
// already held elements, reinserts every one of them via insertUnique
// (the old table had no duplicates, so none can arise here). On any
// failure — allocation or probe-distance overflow during reinsertion —
// the table is left exactly as it was before the call.
func (t *Table[E]) growTo(newCap int) error {
	newValues, newMeta, newDist, err := t.allocArrays(newCap)
	if err != nil {
		return err
	}

	oldValues, oldMeta, oldDist := t.values, t.hashmeta, t.dist
	oldCap, oldSize := t.capacity, t.size

	t.values, t.hashmeta, t.dist = newValues, newMeta, newDist
	t.capacity, t.size = newCap, 0

	if oldCap > 0 {
		var walkErr error
		scanOccupiedGroup(oldMeta, oldCap, func(i int) bool {
			elem := oldValues[i]
			slot, meta := slotMeta(t.cmp.Hash(elem), t.capacity)
			if e := t.insertUnique(elem, slot, meta, 0); e != nil {
				walkErr = e
				return false
			}
			return true
		})
		if walkErr != nil {
			t.values, t.hashmeta, t.dist = oldValues, oldMeta, oldDist
			t.capacity, t.size = oldCap, oldSize
			return walkErr
		}
	}

	t.size = oldSize
	t.log.rehash(oldCap, newCap, oldSize)
	if oldCap > 0 {
		t.allocator.FreeValues(oldValues)
		t.allocator.FreeMeta(oldMeta)
		t.allocator.FreeDist(oldDist)
	}
	return nil
}

// insertUnique places elem starting its walk at slot with metadata meta
// and initial probe distance d, under the caller's guarantee that no
// equal element exists anywhere in the table. It never calls the
// comparator.
func (t *Table[E]) insertUnique(elem E, slot int, meta uint8, d int) error {
	mask := t.capacity - 1
	i := slot
	for {
		if t.hashmeta[i] == emptyMeta {
			t.values[i] = elem
			t.hashmeta[i] = meta
			t.dist[i] = uint8(d)
			return nil
		}
		if int(t.dist[i]) < d {
			elem, t.values[i] = t.values[i], elem
			meta, t.hashmeta[i] = t.hashmeta[i], meta
			d, t.dist[i] = int(t.dist[i]), uint8(d)
		}
		d++
		if d > 255 {
			t.log.probeOverflow(meta, d)
			return ErrCapacityOverflow
		}
		i = (i + 1) & mask
	}
}

// Insert adds elem to the table. If an equal element is already present,
// replace controls whether it's overwritten (Replaced) or left alone
// (NotInserted).
func (t *Table[E]) Insert(elem E, replace bool) (InsertResult, error) {
	defer t.checkInvariants()
	if err := t.ensureRoom(); err != nil {
		return NotInserted, err
	}
	mask := t.capacity - 1
	slot, meta := slotMeta(t.cmp.Hash(elem), t.capacity)
	i, d := slot, 0
	for {
		switch {
		case t.hashmeta[i] == emptyMeta:
			t.values[i] = elem
			t.hashmeta[i] = meta
			t.dist[i] = uint8(d)
			t.size++
			return Inserted, nil

		case t.hashmeta[i] == meta && int(t.dist[i]) == d && t.cmp.Equals(elem, t.values[i]):
			if replace {
				t.values[i] = elem
				return Replaced, nil
			}
			return NotInserted, nil

		case int(t.dist[i]) < d:
			elem, t.values[i] = t.values[i], elem
			meta, t.hashmeta[i] = t.hashmeta[i], meta
			d, t.dist[i] = int(t.dist[i]), uint8(d)
			i = (i + 1) & mask
			d++
			if d > 255 {
				t.log.probeOverflow(meta, d)
				return NotInserted, ErrCapacityOverflow
			}
			if err := t.insertUnique(elem, i, meta, d); err != nil {
				return NotInserted, err
			}
			t.size++
			return Inserted, nil
		}

		d++
		if d > 255 {
			t.log.probeOverflow(meta, d)
			return NotInserted, ErrCapacityOverflow
		}
		i = (i + 1) & mask
	}
}

// InsertIfAbsent inserts elem if no equal element is present, and either
// way returns a reference to the element now stored under elem's
// identity. The reference aliases the table's interior array and is only
// valid until the table's next mutation.
func (t *Table[E]) InsertIfAbsent(elem E) (*E, error) {
	defer t.checkInvariants()
	if err := t.ensureRoom(); err != nil {
		return nil, err
	}
	mask := t.capacity - 1
	slot, meta := slotMeta(t.cmp.Hash(elem), t.capacity)
	i, d := slot, 0
	for {
		switch {
		case t.hashmeta[i] == emptyMeta:
			t.values[i] = elem
			t.hashmeta[i] = meta
			t.dist[i] = uint8(d)
			t.size++
			return &t.values[i], nil

		case t.hashmeta[i] == meta && int(t.dist[i]) == d && t.cmp.Equals(elem, t.values[i]):
			return &t.values[i], nil

		case int(t.dist[i]) < d:
			elem, t.values[i] = t.values[i], elem
			meta, t.hashmeta[i] = t.hashmeta[i], meta
			d, t.dist[i] = int(t.dist[i]), uint8(d)
			placedAt := i
			i = (i + 1) & mask
			d++
			if d > 255 {
				t.log.probeOverflow(meta, d)
				return nil, ErrCapacityOverflow
			}
			if err := t.insertUnique(elem, i, meta, d); err != nil {
				return nil, err
			}
			t.size++
			return &t.values[placedAt], nil
		}

		d++
		if d > 255 {
			t.log.probeOverflow(meta, d)
			return nil, ErrCapacityOverflow
		}
		i = (i + 1) & mask
	}
}

// ComputeIfAbsent returns a reference to the element identified by key,
// building it via builder if absent. builder is invoked at most once, and
// not at all if an equal element is already present.
func (t *Table[E]) ComputeIfAbsent(key E, builder func(key E) E) (val *E, err error) {
	defer t.checkInvariants()
	defer recoverCallback(&err)
	if err := t.ensureRoom(); err != nil {
		return nil, err
	}
	mask := t.capacity - 1
	slot, meta := slotMeta(t.cmp.Hash(key), t.capacity)
	i, d := slot, 0
	for {
		switch {
		case t.hashmeta[i] == emptyMeta:
			elem := builder(key)
			t.values[i] = elem
			t.hashmeta[i] = meta
			t.dist[i] = uint8(d)
			t.size++
			return &t.values[i], nil

		case t.hashmeta[i] == meta && int(t.dist[i]) == d && t.cmp.Equals(key, t.values[i]):
			return &t.values[i], nil

		case int(t.dist[i]) < d:
			elem := builder(key)
			elem, t.values[i] = t.values[i], elem
			meta, t.hashmeta[i] = t.hashmeta[i], meta
			d, t.dist[i] = int(t.dist[i]), uint8(d)
			placedAt := i
			i = (i + 1) & mask
			d++
			if d > 255 {
				t.log.probeOverflow(meta, d)
				return nil, ErrCapacityOverflow
			}
			if err := t.insertUnique(elem, i, meta, d); err != nil {
				return nil, err
			}
			t.size++
			return &t.values[placedAt], nil
		}

		d++
		if d > 255 {
			t.log.probeOverflow(meta, d)
			return nil, ErrCapacityOverflow
		}
		i = (i + 1) & mask
	}
}

// ComputeMerge returns a reference to the element identified by key. If
// absent, seed is installed directly. If present, it's replaced by
// mergeFn(current, seed).
func (t *Table[E]) ComputeMerge(key, seed E, mergeFn func(current, seed E) E) (val *E, err error) {
	defer t.checkInvariants()
	defer recoverCallback(&err)
	if err := t.ensureRoom(); err != nil {
		return nil, err
	}
	mask := t.capacity - 1
	slot, meta := slotMeta(t.cmp.Hash(key), t.capacity)
	i, d := slot, 0
	for {
		switch {
		case t.hashmeta[i] == emptyMeta:
			t.values[i] = seed
			t.hashmeta[i] = meta
			t.dist[i] = uint8(d)
			t.size++
			return &t.values[i], nil

		case t.hashmeta[i] == meta && int(t.dist[i]) == d && t.cmp.Equals(key, t.values[i]):
			t.values[i] = mergeFn(t.values[i], seed)
			return &t.values[i], nil

		case int(t.dist[i]) < d:
			elem := seed
			elem, t.values[i] = t.values[i], elem
			meta, t.hashmeta[i] = t.hashmeta[i], meta
			d, t.dist[i] = int(t.dist[i]), uint8(d)
			placedAt := i
			i = (i + 1) & mask
			d++
			if d > 255 {
				t.log.probeOverflow(meta, d)
				return nil, ErrCapacityOverflow
			}
			if err := t.insertUnique(elem, i, meta, d); err != nil {
				return nil, err
			}
			t.size++
			return &t.values[placedAt], nil
		}

		d++
		if d > 255 {
			t.log.probeOverflow(meta, d)
			return nil, ErrCapacityOverflow
		}
		i = (i + 1) & mask
	}
}

// TryGetIndex locates key and returns the slot it's stored at. Facades
// use this to mutate a non-key field of an already-located element
// in place.
func (t *Table[E]) TryGetIndex(key E) (int, bool) {
	if t.size == 0 {
		return 0, false
	}
	mask := t.capacity - 1
	slot, meta := slotMeta(t.cmp.Hash(key), t.capacity)
	base := slot & mask

	// A group that would run past the last slot is cut short there, and
	// the scan resumes at slot 0, so the zero padding lanes never end a
	// probe sequence that wraps around.
	for scanned := 0; scanned < t.capacity; {
		word := loadGroup(t.hashmeta, base)
		lanes := t.capacity - base
		if lanes > groupWidth {
			lanes = groupWidth
		}
		valid := bitmask(1)<<uint(lanes) - 1

		m := groupMatch(word, meta) & valid
		for m.hasCurrent() {
			idx := (base + m.current()) & mask
			if t.cmp.Equals(key, t.values[idx]) {
				return idx, true
			}
			m = m.advance()
		}

		if (groupEmpty(word) & valid).hasCurrent() {
			return 0, false
		}
		scanned += lanes
		base = (base + lanes) & mask
	}
	return 0, false
}

// Contains reports whether an element equal to elem is present.
func (t *Table[E]) Contains(elem E) bool {
	_, ok := t.TryGetIndex(elem)
	return ok
}

// Remove deletes the element equal to elem, if present, and reports
// whether anything was removed.
func (t *Table[E]) Remove(elem E) bool {
	defer t.checkInvariants()
	idx, ok := t.TryGetIndex(elem)
	if !ok {
		return false
	}
	t.removeAtIndex(idx)
	return true
}

// RemoveAt deletes whatever is stored at slot, for callers (facades) that
// already resolved the slot via TryGetIndex. It reports false if slot is
// out of range or already EMPTY.
func (t *Table[E]) RemoveAt(slot int) bool {
	defer t.checkInvariants()
	if slot < 0 || slot >= t.capacity || t.hashmeta[slot] == emptyMeta {
		return false
	}
	t.removeAtIndex(slot)
	return true
}

// removeAtIndex implements back-shift deletion: instead of leaving a
// tombstone at "at", it pulls the trailing cluster back one slot at a
// time until it reaches a slot that is EMPTY or already in its home
// position (dist 0).
func (t *Table[E]) removeAtIndex(at int) {
	t.size--
	if t.size == 0 {
		t.clearSlot(at)
		return
	}

	mask := t.capacity - 1
	cur := at
	for {
		next := (cur + 1) & mask
		if t.hashmeta[next] == emptyMeta || t.dist[next] == 0 {
			t.clearSlot(cur)
			return
		}
		t.values[cur] = t.values[next]
		t.hashmeta[cur] = t.hashmeta[next]
		t.dist[cur] = t.dist[next] - 1
		cur = next
	}
}

func (t *Table[E]) clearSlot(i int) {
	var zero E
	t.values[i] = zero
	t.hashmeta[i] = emptyMeta
	t.dist[i] = 0
}

// Clear removes every element and releases the table's arrays, returning
// it to the same zero-capacity state as a freshly constructed Table.
func (t *Table[E]) Clear() {
	if t.capacity == 0 {
		return
	}
	t.allocator.FreeValues(t.values)
	t.allocator.FreeMeta(t.hashmeta)
	t.allocator.FreeDist(t.dist)
	t.values = nil
	t.hashmeta = nil
	t.dist = nil
	t.capacity = 0
	t.size = 0
}

// Reserve ensures that n additional unique inserts will not trigger a
// rehash, growing the table now if needed. It reports whether a rehash
// occurred.
func (t *Table[E]) Reserve(n int) (bool, error) {
	if n < 0 {
		return false, ErrNegativeReserve
	}
	required := nextPow2(2 * (t.size + n))
	if t.capacity > 0 && t.capacity*maxLoadNumer >= required*maxLoadDenom {
		return false, nil
	}
	if err := t.growTo(required); err != nil {
		return false, err
	}
	return true, nil
}

// scanOccupiedGroup walks hashmeta (of logical length capacity, ignoring
// any trailing padding) one group at a time and invokes visit for every
// OCCUPIED slot in ascending index order. It stops early, and returns the
// count of elements visited so far, the first time visit returns false.
func scanOccupiedGroup(hashmeta []uint8, capacity int, visit func(i int) bool) int {
	visited := 0
	fullGroup := bitmask(1<<groupWidth - 1)
	for base := 0; base < capacity; base += groupWidth {
		word := loadGroup(hashmeta, base)
		occ := fullGroup &^ groupEmpty(word)
		for occ.hasCurrent() {
			i := base + occ.current()
			if !visit(i) {
				return visited
			}
			visited++
			occ = occ.advance()
		}
	}
	return visited
}

// ForEach visits every element in index order, short-circuiting the first
// time visitor returns false, and reports the number of elements visited.
func (t *Table[E]) ForEach(visitor func(E) bool) int {
	if t.capacity == 0 {
		return 0
	}
	return scanOccupiedGroup(t.hashmeta, t.capacity, func(i int) bool {
		return visitor(t.values[i])
	})
}

// Cursor returns a forward-only iterator over the table's current
// elements. A Cursor observes the live arrays: any mutation of the table
// during iteration yields undefined results.
func (t *Table[E]) Cursor() *Cursor[E] {
	return &Cursor[E]{t: t, idx: -1}
}
