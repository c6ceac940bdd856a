// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/marketd/fault"
)

// levelDB - Backend over a LevelDB database directory
type levelDB struct {
	db *leveldb.DB
}

// NewLevelDB - open or create the database directory
func NewLevelDB(directory string) (Backend, error) {

	db, err := leveldb.OpenFile(directory, nil)
	if nil != err {
		return nil, err
	}
	return &levelDB{db: db}, nil
}

func (store *levelDB) Get(key []byte) ([]byte, error) {
	value, err := store.db.Get(key, nil)
	if leveldb.ErrNotFound == err {
		return nil, fault.ErrKeyNotFound
	}
	if nil != err {
		return nil, err
	}
	return value, nil
}

func (store *levelDB) Put(key []byte, value []byte) error {
	return store.db.Put(key, value, nil)
}

func (store *levelDB) Has(key []byte) (bool, error) {
	return store.db.Has(key, nil)
}

func (store *levelDB) Delete(key []byte) error {
	return store.db.Delete(key, nil)
}

func (store *levelDB) List(prefix []byte) ([]Element, error) {

	elements := make([]Element, 0, 16)

	iterator := store.db.NewIterator(ldb_util.BytesPrefix(prefix), nil)
	defer iterator.Release()

	for iterator.Next() {
		// iterator buffers are reused, copy out
		key := append([]byte{}, iterator.Key()...)
		value := append([]byte{}, iterator.Value()...)
		elements = append(elements, Element{Key: key, Value: value})
	}
	return elements, iterator.Error()
}

func (store *levelDB) Close() error {
	return store.db.Close()
}
