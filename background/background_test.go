// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package background_test

import (
	"testing"
	"time"

	"github.com/bitmark-inc/marketd/background"
)

type bg struct {
	count   int
	initial int
	final   int
}

func TestBackground(t *testing.T) {

	proc1 := &bg{count: 100, initial: 100, final: 1000}
	proc2 := &bg{count: 200, initial: 200, final: 2000}

	processes := background.Processes{
		proc1,
		proc2,
	}

	p := background.Start(processes, t)
	time.Sleep(50 * time.Millisecond)
	p.Stop()

	if proc1.final != proc1.count {
		t.Fatalf("stop failed: final value expected: %d  actual: %d", proc1.final, proc1.count)
	}
	if proc2.final != proc2.count {
		t.Fatalf("stop failed: final value expected: %d  actual: %d", proc2.final, proc2.count)
	}
}

func (state *bg) Run(args interface{}, shutdown <-chan struct{}) {

	t := args.(*testing.T)

	if state.initial != state.count {
		t.Errorf("initialisation failed: unexpected initial count: %d", state.count)
	}

loop:
	for {
		select {
		case <-shutdown:
			break loop
		default:
			state.count += 1
		}
	}
	state.count = state.final
}

// Stop on a nil handle must not panic
func TestStopNil(t *testing.T) {
	var p *background.T
	p.Stop()
}
