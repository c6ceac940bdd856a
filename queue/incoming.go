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

// Dispatcher - handles one incoming message
type Dispatcher interface {
	Dispatch(message *payload.API) error
}

// Incoming - FIFO of received messages awaiting dispatch
type Incoming struct {
	sync.Mutex
	log       *logger.L
	messages  []*payload.API
	processed counter.Counter
}

// NewIncoming - create an empty incoming queue
func NewIncoming(log *logger.L) *Incoming {
	return &Incoming{
		log: log,
	}
}

// Enqueue - append one message
func (queue *Incoming) Enqueue(message *payload.API) {
	queue.Lock()
	queue.messages = append(queue.messages, message)
	queue.Unlock()
}

// EnqueuePacked - unpack a wire message and append it
func (queue *Incoming) EnqueuePacked(packed []byte) error {
	message, err := payload.UnpackAPI(packed)
	if nil != err {
		return err
	}
	queue.Enqueue(message)
	return nil
}

// Length - number of messages waiting
func (queue *Incoming) Length() int {
	queue.Lock()
	defer queue.Unlock()
	return len(queue.messages)
}

// Processed - lifetime count of dispatched messages
func (queue *Incoming) Processed() uint64 {
	return queue.processed.Uint64()
}

// Process - dispatch everything queued so far, in arrival order
//
// a handler error or panic is logged and the next message still runs;
// messages enqueued while processing wait for the next pass
func (queue *Incoming) Process(dispatcher Dispatcher) {

	queue.Lock()
	messages := queue.messages
	queue.messages = nil
	queue.Unlock()

	for _, message := range messages {
		queue.dispatch(dispatcher, message)
		queue.processed.Increment()
	}
}

func (queue *Incoming) dispatch(dispatcher Dispatcher, message *payload.API) {

	defer func() {
		if r := recover(); nil != r {
			queue.log.Criticalf("dispatch panic: request: %s  error: %v", message.Request(), r)
		}
	}()

	err := dispatcher.Dispatch(message)
	if nil != err {
		queue.log.Warnf("dispatch: request: %s  error: %s", message.Request(), err)
	}
}
