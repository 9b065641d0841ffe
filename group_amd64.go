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

//go:build amd64

package robinhash

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// hasFastUnalignedLoad is true on amd64 targets where a plain 8-byte
// unsafe.Pointer load at an arbitrary byte offset is both legal and cheap.
// amd64 always permits unaligned loads, but we still gate through a real
// capability probe (mirroring the SSE2 check a true group-width-16
// implementation would need) so the dispatch mechanism is in place for a
// future wide-SIMD group scan without touching table.go.
var hasFastUnalignedLoad bool

func init() {
	hasFastUnalignedLoad = cpu.X86.HasSSE2
	if hasFastUnalignedLoad {
		loadGroupImpl = loadGroupUnsafe
	} else {
		loadGroupImpl = loadGroupScalar
	}
}

func loadGroupUnsafe(hashmeta []uint8, offset int) uint64 {
	return *(*uint64)(unsafe.Pointer(&hashmeta[offset]))
}
