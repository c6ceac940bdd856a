// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package background - runs a set of background processes and stops
// them as a group
package background

// Process - the interface for a background process
type Process interface {
	Run(args interface{}, shutdown <-chan struct{})
}

// Processes - list of processes to start
type Processes []Process

// T - handle for the started set
type T struct {
	processes Processes
	shutdown  chan struct{}
	finished  chan struct{}
}

// Start - start up all background processes
func Start(processes Processes, args interface{}) *T {

	register := &T{
		processes: processes,
		shutdown:  make(chan struct{}),
		finished:  make(chan struct{}),
	}

	// start each background
	for _, p := range processes {
		go func(p Process) {
			p.Run(args, register.shutdown)
			register.finished <- struct{}{}
		}(p)
	}
	return register
}

// Stop - stop all background processes and wait for them to finish
func (t *T) Stop() {

	if nil == t {
		return
	}

	close(t.shutdown)

	for range t.processes {
		<-t.finished
	}
}
