// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package counter - concurrency safe counters for queue and
// transport statistics
package counter

import (
	"sync/atomic"
)

// Counter - a 64 bit unsigned counter that can be safely modified
// from multiple goroutines
type Counter uint64

// Increment - add 1 to a counter, returns new value
func (counter *Counter) Increment() uint64 {
	return atomic.AddUint64((*uint64)(counter), 1)
}

// Decrement - subtract 1 from a counter, returns new value
func (counter *Counter) Decrement() uint64 {
	return atomic.AddUint64((*uint64)(counter), ^uint64(0))
}

// Add - add n to a counter, returns new value
func (counter *Counter) Add(n uint64) uint64 {
	return atomic.AddUint64((*uint64)(counter), n)
}

// Uint64 - returns current value
func (counter *Counter) Uint64() uint64 {
	return atomic.LoadUint64((*uint64)(counter))
}

// IsZero - check if zero
func (counter *Counter) IsZero() bool {
	return 0 == atomic.LoadUint64((*uint64)(counter))
}
