// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sync"

	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/model"
)

// one byte key prefix per record kind
//
// note: 'G', 'R' and 'T' are reserved for the agreement chain pool
var kindPrefix = map[model.Kind]byte{
	model.UserKind:             'U',
	model.HouseKind:            'H',
	model.LoanRequestKind:      'L',
	model.MortgageKind:         'M',
	model.CampaignKind:         'C',
	model.BorrowersProfileKind: 'P',
	model.InvestmentKind:       'I',
	model.SignedAgreementKind:  'S',
}

// Store - typed record access over a backend
//
// writes go through one mutex: concurrent handlers must not
// interleave read-modify-write cycles on the same record id, and a
// single writer lock is the simplest discipline that guarantees that
type Store struct {
	sync.Mutex
	backend Backend
	pools   map[model.Kind]*Pool
}

// NewStore - wrap a backend
func NewStore(backend Backend) *Store {

	pools := make(map[model.Kind]*Pool, len(kindPrefix))
	for kind, prefix := range kindPrefix {
		pools[kind] = NewPool(backend, prefix)
	}
	return &Store{
		backend: backend,
		pools:   pools,
	}
}

// Pool - direct access to one kind's namespace
func (store *Store) Pool(kind model.Kind) *Pool {
	return store.pools[kind]
}

// Backend - the underlying backend, for auxiliary pools
func (store *Store) Backend() Backend {
	return store.backend
}

// Get - fetch and unpack one record; fault.ErrModelNotFound when
// absent
func (store *Store) Get(kind model.Kind, id string) (model.Model, error) {

	pool, ok := store.pools[kind]
	if !ok {
		return nil, fault.ErrInvalidKindTag
	}

	packed, err := pool.Get([]byte(id))
	if fault.ErrKeyNotFound == err {
		return nil, fault.ErrModelNotFound
	}
	if nil != err {
		return nil, err
	}

	m, _, err := model.Packed(packed).Unpack()
	if nil != err {
		return nil, err
	}
	if m.Kind() != kind {
		return nil, fault.ErrUnexpectedModelKind
	}
	return m, nil
}

// Has - check presence of a record
func (store *Store) Has(kind model.Kind, id string) bool {

	pool, ok := store.pools[kind]
	if !ok {
		return false
	}
	present, err := pool.Has([]byte(id))
	return nil == err && present
}

// Put - pack and store one record, overwriting any previous version
func (store *Store) Put(m model.Model) error {

	pool, ok := store.pools[m.Kind()]
	if !ok {
		return fault.ErrInvalidKindTag
	}

	packed, err := m.Pack()
	if nil != err {
		return err
	}

	store.Lock()
	defer store.Unlock()
	return pool.Put([]byte(m.ID()), packed)
}

// Delete - remove one record
func (store *Store) Delete(m model.Model) error {

	pool, ok := store.pools[m.Kind()]
	if !ok {
		return fault.ErrInvalidKindTag
	}

	store.Lock()
	defer store.Unlock()
	return pool.Delete([]byte(m.ID()))
}

// Update - atomic read-modify-write of one record
//
// the updater receives the current record and mutates it in place;
// the whole cycle holds the write lock so two handlers cannot
// interleave on the same id
func (store *Store) Update(kind model.Kind, id string, updater func(model.Model) error) error {

	store.Lock()
	defer store.Unlock()

	pool, ok := store.pools[kind]
	if !ok {
		return fault.ErrInvalidKindTag
	}

	packed, err := pool.Get([]byte(id))
	if fault.ErrKeyNotFound == err {
		return fault.ErrModelNotFound
	}
	if nil != err {
		return err
	}

	m, _, err := model.Packed(packed).Unpack()
	if nil != err {
		return err
	}

	err = updater(m)
	if nil != err {
		return err
	}

	repacked, err := m.Pack()
	if nil != err {
		return err
	}
	return pool.Put([]byte(id), repacked)
}

// List - unpack every record of one kind, in id order
func (store *Store) List(kind model.Kind) ([]model.Model, error) {

	pool, ok := store.pools[kind]
	if !ok {
		return nil, fault.ErrInvalidKindTag
	}

	elements, err := pool.List()
	if nil != err {
		return nil, err
	}

	records := make([]model.Model, 0, len(elements))
	for _, element := range elements {
		m, _, err := model.Packed(element.Value).Unpack()
		if nil != err {
			return nil, err
		}
		records = append(records, m)
	}
	return records, nil
}
