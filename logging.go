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

// logger wraps *slog.Logger with a nil-safe zero value, so a Table that
// never received WithLogger can log unconditionally without a branch at
// every call site.
type logger struct {
	*slog.Logger
}

func (l logger) rehash(oldCap, newCap, size int) {
	if l.Logger == nil {
		return
	}
	l.Debug("rehash", "oldCapacity", oldCap, "newCapacity", newCap, "size", size)
}

func (l logger) probeOverflow(meta uint8, dist int) {
	if l.Logger == nil {
		return
	}
	l.Warn("probe distance overflow", "meta", meta, "dist", dist)
}
