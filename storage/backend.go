// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

// Element - one key-value pair from a listing
type Element struct {
	Key   []byte
	Value []byte
}

// Backend - the pluggable key-value store interface
//
// the backend guarantees durability of the last write per key
type Backend interface {

	// Get - fetch a value; fault.ErrKeyNotFound when absent
	Get(key []byte) ([]byte, error)

	// Put - store a value, overwriting any previous one
	Put(key []byte, value []byte) error

	// Has - check presence without fetching
	Has(key []byte) (bool, error)

	// Delete - remove a key; removing an absent key is not an error
	Delete(key []byte) error

	// List - all pairs whose key starts with prefix, in key order
	List(prefix []byte) ([]Element, error)

	// Close - release the backend
	Close() error
}
