// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package queue

import (
	"time"

	"github.com/bitmark-inc/logger"
)

// Poller - background process draining both queues on a fixed cycle
type Poller struct {
	log        *logger.L
	incoming   *Incoming
	outgoing   *Outgoing
	dispatcher Dispatcher
	resolver   Resolver
	sender     Sender
	interval   time.Duration
}

// NewPoller - bind the queues to their handlers
func NewPoller(
	incoming *Incoming,
	outgoing *Outgoing,
	dispatcher Dispatcher,
	resolver Resolver,
	sender Sender,
	interval time.Duration,
) *Poller {
	return &Poller{
		log:        logger.New("poller"),
		incoming:   incoming,
		outgoing:   outgoing,
		dispatcher: dispatcher,
		resolver:   resolver,
		sender:     sender,
		interval:   interval,
	}
}

// Run - background processing entry point
func (poller *Poller) Run(args interface{}, shutdown <-chan struct{}) {

	log := poller.log
	log.Info("starting…")

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case <-time.After(poller.interval):
			poller.incoming.Process(poller.dispatcher)
			delivered := poller.outgoing.Process(poller.resolver, poller.sender)
			if 0 != delivered {
				log.Debugf("delivered: %d", delivered)
			}
		}
	}

	log.Info("stopped")
}
