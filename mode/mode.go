// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mode - the node's current operational state
//
// handlers that mutate shared records only run in Normal mode; during
// Resynchronise incoming records are replayed without producing
// outgoing traffic
package mode

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/fault"
)

// Mode - type to hold the operational mode
type Mode int

// all possible modes
const (
	Stopped Mode = iota
	Resynchronise
	Normal
	maximum
)

// network names
const (
	Live    = "live"
	Testing = "testing"
	Local   = "local"
)

type modeData struct {
	sync.RWMutex

	log     *logger.L
	mode    Mode
	testing bool
	network string

	initialised bool
}

var globalData modeData

// Initialise - set up the mode system
func Initialise(network string) error {

	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}

	globalData.log = logger.New("mode")
	globalData.log.Info("starting…")

	testing := false
	switch network {
	case Live:
	case Testing, Local:
		testing = true
	default:
		return fault.ErrInvalidChain
	}

	globalData.mode = Stopped
	globalData.testing = testing
	globalData.network = network
	globalData.initialised = true

	globalData.log.Infof("network: %s  testing: %v", network, testing)
	return nil
}

// Finalise - shutdown mode handling
func Finalise() error {

	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	globalData.mode = Stopped
	globalData.initialised = false

	globalData.log.Info("finished")
	globalData.log.Flush()
	return nil
}

// Set - change mode
func Set(mode Mode) {

	if mode >= Stopped && mode < maximum {
		globalData.Lock()
		globalData.mode = mode
		globalData.Unlock()
		globalData.log.Infof("set: %s", mode)
	} else {
		globalData.log.Errorf("ignore invalid set: %d", mode)
	}
}

// Is - detect the current mode
func Is(mode Mode) bool {
	globalData.RLock()
	defer globalData.RUnlock()
	return mode == globalData.mode
}

// IsNot - detect the current mode is not a particular mode
func IsNot(mode Mode) bool {
	globalData.RLock()
	defer globalData.RUnlock()
	return mode != globalData.mode
}

// IsTesting - detect testing mode
func IsTesting() bool {
	globalData.RLock()
	defer globalData.RUnlock()
	return globalData.testing
}

// Network - the name the node was started with
func Network() string {
	globalData.RLock()
	defer globalData.RUnlock()
	return globalData.network
}

// String - current mode represented as a string
func (m Mode) String() string {
	switch m {
	case Stopped:
		return "Stopped"
	case Resynchronise:
		return "Resynchronise"
	case Normal:
		return "Normal"
	default:
		return "*Unknown*"
	}
}
