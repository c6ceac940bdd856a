// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"
	"sort"
	"sync"

	"github.com/bitmark-inc/marketd/fault"
)

// memory - Backend over a plain map, for tests and simulations
type memory struct {
	sync.RWMutex
	data map[string][]byte
}

// NewMemory - create an empty in-memory backend
func NewMemory() Backend {
	return &memory{
		data: make(map[string][]byte),
	}
}

func (store *memory) Get(key []byte) ([]byte, error) {
	store.RLock()
	defer store.RUnlock()

	value, ok := store.data[string(key)]
	if !ok {
		return nil, fault.ErrKeyNotFound
	}
	return append([]byte{}, value...), nil
}

func (store *memory) Put(key []byte, value []byte) error {
	store.Lock()
	defer store.Unlock()

	store.data[string(key)] = append([]byte{}, value...)
	return nil
}

func (store *memory) Has(key []byte) (bool, error) {
	store.RLock()
	defer store.RUnlock()

	_, ok := store.data[string(key)]
	return ok, nil
}

func (store *memory) Delete(key []byte) error {
	store.Lock()
	defer store.Unlock()

	delete(store.data, string(key))
	return nil
}

func (store *memory) List(prefix []byte) ([]Element, error) {
	store.RLock()
	defer store.RUnlock()

	elements := make([]Element, 0, 16)
	for key, value := range store.data {
		if bytes.HasPrefix([]byte(key), prefix) {
			elements = append(elements, Element{
				Key:   []byte(key),
				Value: append([]byte{}, value...),
			})
		}
	}
	sort.Slice(elements, func(i, j int) bool {
		return bytes.Compare(elements[i].Key, elements[j].Key) < 0
	})
	return elements, nil
}

func (store *memory) Close() error {
	return nil
}
