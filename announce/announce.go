// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package announce - registry mapping market identities to transport
// addresses
//
// peers announce themselves on every message; entries age out unless
// refreshed so a departed peer stops receiving directed sends and the
// queue falls back to retrying
package announce

import (
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/fault"
)

// lifetime of a peer entry without refresh
const (
	peerExpiry      = 2 * time.Hour
	cleanupInterval = 10 * time.Minute
)

// Entry - one known peer
type Entry struct {
	Identity string
	Address  string
}

type announceData struct {
	sync.RWMutex

	log      *logger.L
	registry *cache.Cache

	identity string
	address  string

	initialised bool
}

var globalData announceData

// Initialise - set up the registry with this node's own entry
func Initialise(identity string, address string) error {

	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}

	globalData.log = logger.New("announce")
	globalData.log.Info("starting…")

	globalData.registry = cache.New(peerExpiry, cleanupInterval)
	globalData.identity = identity
	globalData.address = address

	// own entry never expires
	globalData.registry.Set(identity, address, cache.NoExpiration)

	globalData.initialised = true

	globalData.log.Infof("self: %s @ %s", identity, address)
	return nil
}

// Finalise - stop the registry
func Finalise() error {

	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	globalData.registry.Flush()
	globalData.initialised = false

	globalData.log.Info("finished")
	globalData.log.Flush()
	return nil
}

// Self - this node's identity and address
func Self() (string, string) {
	globalData.RLock()
	defer globalData.RUnlock()
	return globalData.identity, globalData.address
}

// Set - record or refresh a peer's address
func Set(identity string, address string) {

	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised || identity == globalData.identity {
		return
	}

	globalData.registry.Set(identity, address, cache.DefaultExpiration)
	globalData.log.Debugf("set: %s @ %s", identity, address)
}

// Resolve - look up the address of an identity
func Resolve(identity string) (string, error) {

	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return "", fault.ErrNotInitialised
	}

	address, found := globalData.registry.Get(identity)
	if !found {
		return "", fault.ErrKeyNotFound
	}
	return address.(string), nil
}

// All - every known peer except this node, in no particular order
func All() []Entry {

	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return nil
	}

	items := globalData.registry.Items()
	entries := make([]Entry, 0, len(items))
	for identity, item := range items {
		if identity == globalData.identity {
			continue
		}
		entries = append(entries, Entry{
			Identity: identity,
			Address:  item.Object.(string),
		})
	}
	return entries
}
