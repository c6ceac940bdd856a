// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transport

import (
	"time"

	zmq "github.com/pebbe/zmq4"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/announce"
	"github.com/bitmark-inc/marketd/queue"
)

const (
	pollInterval = 100 * time.Millisecond

	// sustained and burst message limits for the whole listen socket
	receiveRate  = 100
	receiveBurst = 200
)

// Receiver - background process pulling signed messages off the
// listen socket
//
// an unverifiable or over-limit message is dropped and logged, never
// queued
type Receiver struct {
	log      *logger.L
	socket   *zmq.Socket
	incoming *queue.Incoming
	limiter  *rate.Limiter
}

// NewReceiver - bind the listen socket
func NewReceiver(listenAddress string, incoming *queue.Incoming) (*Receiver, error) {

	socket, err := zmq.NewSocket(zmq.PULL)
	if nil != err {
		return nil, err
	}
	_ = socket.SetLinger(0)

	err = socket.Bind(listenAddress)
	if nil != err {
		_ = socket.Close()
		return nil, err
	}

	return &Receiver{
		log:      logger.New("transport-receiver"),
		socket:   socket,
		incoming: incoming,
		limiter:  rate.NewLimiter(rate.Limit(receiveRate), receiveBurst),
	}, nil
}

// Run - background processing entry point
func (receiver *Receiver) Run(args interface{}, shutdown <-chan struct{}) {

	log := receiver.log
	log.Info("starting…")

	poller := zmq.NewPoller()
	poller.Add(receiver.socket, zmq.POLLIN)

loop:
	for {
		select {
		case <-shutdown:
			break loop
		default:
		}

		polled, err := poller.Poll(pollInterval)
		if nil != err {
			log.Errorf("poll: error: %s", err)
			continue loop
		}
		if 0 == len(polled) {
			continue loop
		}

		frames, err := receiver.socket.RecvMessageBytes(0)
		if nil != err {
			log.Errorf("receive: error: %s", err)
			continue loop
		}

		if !receiver.limiter.Allow() {
			log.Warn("rate limit exceeded, dropping message")
			continue loop
		}

		receiver.accept(frames)
	}

	_ = receiver.socket.Close()
	log.Info("stopped")
}

func (receiver *Receiver) accept(frames [][]byte) {

	identity, listenAddress, payload, err := Verify(frames)
	if nil != err {
		receiver.log.Warnf("verify: error: %s", err)
		return
	}

	// every valid message refreshes the sender's registry entry
	announce.Set(identity, listenAddress)

	err = receiver.incoming.EnqueuePacked(payload)
	if nil != err {
		receiver.log.Warnf("enqueue: identity: %s  error: %s", identity, err)
	}
}
