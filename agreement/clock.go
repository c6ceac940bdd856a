// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package agreement

import (
	"encoding/binary"
	"sync"

	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/storage"
)

// persisted logical clock
//
// tick before signing a new record, observe on accepting a foreign
// one; survives restarts so local time never runs backwards
type clock struct {
	sync.Mutex
	pool *storage.Pool
	now  uint64
}

var clockKey = []byte("clock")

func newClock(pool *storage.Pool) (*clock, error) {

	c := &clock{
		pool: pool,
	}

	value, err := pool.Get(clockKey)
	if fault.ErrKeyNotFound == err {
		return c, nil
	}
	if nil != err {
		return nil, err
	}
	if 8 != len(value) {
		return nil, fault.ErrMessageTooShort
	}
	c.now = binary.BigEndian.Uint64(value)
	return c, nil
}

func (c *clock) save() error {
	value := make([]byte, 8)
	binary.BigEndian.PutUint64(value, c.now)
	return c.pool.Put(clockKey, value)
}

// current logical time
func (c *clock) time() uint64 {
	c.Lock()
	defer c.Unlock()
	return c.now
}

// advance for a local event and return the new time
func (c *clock) tick() (uint64, error) {
	c.Lock()
	defer c.Unlock()
	c.now += 1
	return c.now, c.save()
}

// merge a remote timestamp and advance past it
func (c *clock) observe(remote uint64) error {
	c.Lock()
	defer c.Unlock()
	if remote > c.now {
		c.now = remote
	}
	c.now += 1
	return c.save()
}
