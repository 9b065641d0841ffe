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
	"testing"

	"github.com/stretchr/testify/require"
)

func wordOf(bs ...uint8) uint64 {
	var v uint64
	for i, b := range bs {
		v |= uint64(b) << (uint(i) * 8)
	}
	return v
}

func TestGroupMatch(t *testing.T) {
	word := wordOf(0x81, 0x82, 0x81, 0x00, 0x81, 0x00, 0x00, 0x83)
	m := groupMatch(word, 0x81)
	require.Equal(t, []int{0, 2, 4}, bitmaskToSlice(m))
}

func TestGroupEmpty(t *testing.T) {
	word := wordOf(0x81, 0x82, 0x81, 0x00, 0x81, 0x00, 0x00, 0x83)
	m := groupEmpty(word)
	require.Equal(t, []int{3, 5, 6}, bitmaskToSlice(m))
}

func TestGroupMatchAllEmpty(t *testing.T) {
	require.False(t, groupMatch(0, 0x81).hasCurrent())
	require.True(t, groupEmpty(0).hasCurrent())
	require.Equal(t, groupWidth, groupEmpty(0).count())
}

func TestLoadGroupRoundTrip(t *testing.T) {
	hashmeta := make([]uint8, groupWidth+groupWidth)
	for i := range hashmeta[:groupWidth] {
		hashmeta[i] = uint8(0x80 | i)
	}
	word := loadGroup(hashmeta, 0)
	for i := 0; i < groupWidth; i++ {
		require.Equal(t, hashmeta[i], uint8(word>>(uint(i)*8)))
	}
}

func bitmaskToSlice(m bitmask) []int {
	var out []int
	for m.hasCurrent() {
		out = append(out, m.current())
		m = m.advance()
	}
	return out
}
