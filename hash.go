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

// fibMagic is floor(2^32 / phi), the standard Fibonacci hashing multiplier.
// Multiplying by it spreads the entropy of a weak hash across all 32 bits
// so that both the low bits (used for the slot index) and the high bits
// (used for the metadata tag) come out well distributed.
const fibMagic = 2654435769

// emptyMeta is the reserved hashmeta value for an EMPTY slot. No OCCUPIED
// slot can ever compute to this value because slotMeta always forces the top
// bit of the returned byte to 1.
const emptyMeta = 0

// slotMeta derives the home slot and metadata byte for a user hash h, given
// a table of capacity n (a power of two). The caller applies dist-based
// probing from the returned slot; slotMeta itself never wraps or probes.
func slotMeta(h uint64, n int) (slot int, meta uint8) {
	x := uint32(h) * fibMagic
	slot = int(x) & (n - 1)
	meta = uint8(x>>25) | 0x80
	return slot, meta
}
