// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package queue

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/counter"
	"github.com/bitmark-inc/marketd/payload"
)

// Resolver - maps market identities to transport addresses
type Resolver interface {
	Resolve(identity string) (string, error)
	All() []string
}

// Sender - delivers one packed message to one address
type Sender interface {
	Send(address string, packed []byte) error
}

type outgoingItem struct {
	request   string
	packed    []byte
	receivers []string
}

// Outgoing - messages waiting for delivery
//
// an item with named receivers stays queued whole until every
// receiver resolves and accepts the send on a single pass; no
// receivers means broadcast to every known peer, sent once
type Outgoing struct {
	sync.Mutex
	log       *logger.L
	items     []*outgoingItem
	delivered counter.Counter
}

// NewOutgoing - create an empty outgoing queue
func NewOutgoing(log *logger.L) *Outgoing {
	return &Outgoing{
		log: log,
	}
}

// Push - pack a message now and queue it for delivery
//
// packing errors surface here, at the call site that built the
// message, not later in the delivery loop
func (queue *Outgoing) Push(message *payload.API, receivers []string) error {

	packed, err := message.Pack()
	if nil != err {
		return err
	}

	queue.Lock()
	queue.items = append(queue.items, &outgoingItem{
		request:   message.Request(),
		packed:    packed,
		receivers: receivers,
	})
	queue.Unlock()
	return nil
}

// Length - number of items still queued
func (queue *Outgoing) Length() int {
	queue.Lock()
	defer queue.Unlock()
	return len(queue.items)
}

// Delivered - lifetime count of fully delivered items
func (queue *Outgoing) Delivered() uint64 {
	return queue.delivered.Uint64()
}

// Process - attempt delivery of every queued item
//
// returns the number of items fully delivered and removed
func (queue *Outgoing) Process(resolver Resolver, sender Sender) int {

	queue.Lock()
	items := queue.items
	queue.items = nil
	queue.Unlock()

	retained := make([]*outgoingItem, 0, len(items))
	delivered := 0

	for _, item := range items {
		if queue.deliver(item, resolver, sender) {
			delivered += 1
			queue.delivered.Increment()
		} else {
			retained = append(retained, item)
		}
	}

	if 0 != len(retained) {
		queue.Lock()
		queue.items = append(retained, queue.items...)
		queue.Unlock()
	}

	return delivered
}

// one delivery attempt; true removes the item from the queue
func (queue *Outgoing) deliver(item *outgoingItem, resolver Resolver, sender Sender) bool {

	// broadcast
	if 0 == len(item.receivers) {
		for _, address := range resolver.All() {
			err := sender.Send(address, item.packed)
			if nil != err {
				queue.log.Warnf("broadcast: request: %s  address: %s  error: %s", item.request, address, err)
			}
		}
		return true
	}

	done := true
	for _, receiver := range item.receivers {

		address, err := resolver.Resolve(receiver)
		if nil != err {
			queue.log.Debugf("unresolved: request: %s  receiver: %s", item.request, receiver)
			done = false
			continue
		}

		err = sender.Send(address, item.packed)
		if nil != err {
			queue.log.Warnf("send: request: %s  receiver: %s  error: %s", item.request, receiver, err)
			done = false
		}
	}
	return done
}
