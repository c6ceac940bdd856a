// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/model"
	"github.com/bitmark-inc/marketd/storage"
)

func testHouse(number string) *model.House {
	return &model.House{
		PostalCode:  "2500AA",
		HouseNumber: number,
		Address:     "Aa Weg",
		Price:       1000,
	}
}

func TestPoolIsolation(t *testing.T) {

	backend := storage.NewMemory()
	a := storage.NewPool(backend, 'a')
	b := storage.NewPool(backend, 'b')

	err := a.Put([]byte("key"), []byte("alpha"))
	assert.NoError(t, err, "put")

	_, err = b.Get([]byte("key"))
	assert.Equal(t, fault.ErrKeyNotFound, err, "pools share a namespace")

	value, err := a.Get([]byte("key"))
	assert.NoError(t, err, "get")
	assert.Equal(t, []byte("alpha"), value, "value")
}

func TestPoolList(t *testing.T) {

	backend := storage.NewMemory()
	pool := storage.NewPool(backend, 'x')
	other := storage.NewPool(backend, 'y')

	err := pool.Put([]byte("two"), []byte("2"))
	assert.NoError(t, err, "put")
	err = pool.Put([]byte("one"), []byte("1"))
	assert.NoError(t, err, "put")
	err = other.Put([]byte("three"), []byte("3"))
	assert.NoError(t, err, "put")

	elements, err := pool.List()
	assert.NoError(t, err, "list")
	assert.Equal(t, 2, len(elements), "count")
	assert.Equal(t, "one", string(elements[0].Key), "key order")
	assert.Equal(t, "two", string(elements[1].Key), "key order")
}

func TestStoreRoundTrip(t *testing.T) {

	store := storage.NewStore(storage.NewMemory())

	house := testHouse("34")
	err := store.Put(house)
	assert.NoError(t, err, "put")

	assert.True(t, store.Has(model.HouseKind, house.ID()), "has")

	m, err := store.Get(model.HouseKind, house.ID())
	assert.NoError(t, err, "get")

	fetched, ok := m.(*model.House)
	assert.True(t, ok, "kind")
	assert.Equal(t, house.PostalCode, fetched.PostalCode, "postal code")
	assert.Equal(t, house.HouseNumber, fetched.HouseNumber, "house number")
	assert.Equal(t, house.Address, fetched.Address, "address")
	assert.Equal(t, house.Price, fetched.Price, "price")
}

func TestStoreMissing(t *testing.T) {

	store := storage.NewStore(storage.NewMemory())

	_, err := store.Get(model.HouseKind, "nowhere")
	assert.Equal(t, fault.ErrModelNotFound, err, "get")

	assert.False(t, store.Has(model.HouseKind, "nowhere"), "has")

	err = store.Update(model.HouseKind, "nowhere", func(model.Model) error {
		t.Fatal("updater ran on a missing record")
		return nil
	})
	assert.Equal(t, fault.ErrModelNotFound, err, "update")
}

func TestStoreKindMismatch(t *testing.T) {

	store := storage.NewStore(storage.NewMemory())

	house := testHouse("34")
	err := store.Put(house)
	assert.NoError(t, err, "put")

	_, err = store.Get(model.UserKind, house.ID())
	assert.Equal(t, fault.ErrModelNotFound, err, "wrong kind namespace")
}

func TestStoreUpdate(t *testing.T) {

	store := storage.NewStore(storage.NewMemory())

	house := testHouse("34")
	err := store.Put(house)
	assert.NoError(t, err, "put")

	err = store.Update(model.HouseKind, house.ID(), func(m model.Model) error {
		h := m.(*model.House)
		h.Price = 2000
		return nil
	})
	assert.NoError(t, err, "update")

	m, err := store.Get(model.HouseKind, house.ID())
	assert.NoError(t, err, "get")
	assert.Equal(t, uint64(2000), m.(*model.House).Price, "updated price")
}

func TestStoreUpdateError(t *testing.T) {

	store := storage.NewStore(storage.NewMemory())

	house := testHouse("34")
	err := store.Put(house)
	assert.NoError(t, err, "put")

	err = store.Update(model.HouseKind, house.ID(), func(model.Model) error {
		return fault.ErrInvalidStatus
	})
	assert.Equal(t, fault.ErrInvalidStatus, err, "update error passes through")

	m, err := store.Get(model.HouseKind, house.ID())
	assert.NoError(t, err, "get")
	assert.Equal(t, uint64(1000), m.(*model.House).Price, "record unchanged")
}

func TestStoreDeleteAndList(t *testing.T) {

	store := storage.NewStore(storage.NewMemory())

	one := testHouse("34")
	two := testHouse("35")
	err := store.Put(one)
	assert.NoError(t, err, "put")
	err = store.Put(two)
	assert.NoError(t, err, "put")

	records, err := store.List(model.HouseKind)
	assert.NoError(t, err, "list")
	assert.Equal(t, 2, len(records), "count")

	err = store.Delete(one)
	assert.NoError(t, err, "delete")

	records, err = store.List(model.HouseKind)
	assert.NoError(t, err, "list")
	assert.Equal(t, 1, len(records), "count after delete")
	assert.Equal(t, two.ID(), records[0].ID(), "survivor")
}
