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
	"errors"
	"fmt"
)

var (
	// ErrCapacityOverflow is returned when a probe distance would exceed
	// the byte ceiling of 255. In practice this only happens under a
	// degenerate hash distribution or a pathological comparator.
	ErrCapacityOverflow = errors.New("robinhash: probe distance overflow")

	// ErrNegativeReserve is returned by Reserve when asked to reserve a
	// negative number of additional elements.
	ErrNegativeReserve = errors.New("robinhash: negative Reserve argument")

	// ErrAllocationFailure is returned when the arrays backing a grow or
	// Reserve cannot be allocated. The table is left exactly as it was
	// before the call.
	ErrAllocationFailure = errors.New("robinhash: allocation failure")
)

// CallbackPanic wraps a panic recovered from a user-supplied comparator,
// builder, or merge function. The table's invariants are preserved up to
// the last slot write that completed before the panic.
type CallbackPanic struct {
	// Value is whatever was passed to panic.
	Value any
}

func (e *CallbackPanic) Error() string {
	return fmt.Sprintf("robinhash: callback panicked: %v", e.Value)
}

func (e *CallbackPanic) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// recoverCallback turns a recovered panic value from a user callback into
// a *CallbackPanic, leaving err untouched when there was nothing to
// recover. Call via a deferred closure: defer recoverCallback(&err).
func recoverCallback(err *error) {
	if r := recover(); r != nil {
		*err = &CallbackPanic{Value: r}
	}
}
