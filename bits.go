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

import "math/bits"

// minCapacity is the smallest table size we ever allocate. A single padded
// groupWidth-byte group load covers the whole table at this floor, so the
// group scanner needs no special case for it.
const minCapacity = 4

// nextPow2 returns the smallest power of two that is >= n, with a floor of
// minCapacity.
func nextPow2(n int) int {
	if n <= minCapacity {
		return minCapacity
	}
	// n-1 handles the case where n is already a power of two.
	return 1 << bits.Len(uint(n-1))
}

// bitmask is a set of lane indices packed one bit per lane, consumed
// low-bit first. It backs both the group scanner's match/empty results and
// the metadata scan used by ForEach and the cursor.
type bitmask uint64

func (m bitmask) hasCurrent() bool {
	return m != 0
}

// current returns the lowest set lane index. Only valid when hasCurrent is
// true.
func (m bitmask) current() int {
	return bits.TrailingZeros64(uint64(m))
}

// advance clears the lowest set lane, so the next current() reports the
// next lane in ascending order.
func (m bitmask) advance() bitmask {
	return m & (m - 1)
}

func (m bitmask) count() int {
	return bits.OnesCount64(uint64(m))
}
