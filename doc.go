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

// Package robinhash implements an in-memory, open-addressed hash table
// engine using Robin Hood probing and back-shift deletion.
//
// Unlike a textbook open-addressed table, this implementation never places
// a tombstone: deletions shift trailing elements back one slot instead,
// which keeps every probe sequence as short as it would be if the removed
// element had never existed. Lookups use a small group scan over a packed
// metadata array (one byte of partial hash per slot) so that most probes
// resolve with a single wide comparison instead of per-slot branching.
//
// This package is deliberately low-level: it has no notion of keys versus
// values, no iteration stability guarantees, and no equality or hashing
// policy of its own. Callers supply both through a Comparator and get back
// a table of elements. A map or set built on top of this engine is
// expected to live in a separate package that layers key-only identity
// (and, for maps, a value payload) over Table's element-oriented API.
package robinhash
