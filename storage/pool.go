// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

// Pool - one key namespace inside a backend
//
// all keys in a pool share a one byte prefix so that different
// record kinds and the agreement chains cannot collide
type Pool struct {
	prefix  byte
	backend Backend
}

// NewPool - bind a prefix inside a backend
func NewPool(backend Backend, prefix byte) *Pool {
	return &Pool{
		prefix:  prefix,
		backend: backend,
	}
}

func (pool *Pool) prefixed(key []byte) []byte {
	prefixedKey := make([]byte, 1, 1+len(key))
	prefixedKey[0] = pool.prefix
	return append(prefixedKey, key...)
}

// Get - fetch a value; fault.ErrKeyNotFound when absent
func (pool *Pool) Get(key []byte) ([]byte, error) {
	return pool.backend.Get(pool.prefixed(key))
}

// Put - store a value
func (pool *Pool) Put(key []byte, value []byte) error {
	return pool.backend.Put(pool.prefixed(key), value)
}

// Has - check presence
func (pool *Pool) Has(key []byte) (bool, error) {
	return pool.backend.Has(pool.prefixed(key))
}

// Delete - remove a key
func (pool *Pool) Delete(key []byte) error {
	return pool.backend.Delete(pool.prefixed(key))
}

// List - all pairs in the pool, prefix stripped, in key order
func (pool *Pool) List() ([]Element, error) {

	elements, err := pool.backend.List([]byte{pool.prefix})
	if nil != err {
		return nil, err
	}
	for i := range elements {
		elements[i].Key = elements[i].Key[1:]
	}
	return elements, nil
}
