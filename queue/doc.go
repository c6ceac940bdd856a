// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package queue - per node incoming and outgoing message queues
//
// incoming messages are dispatched strictly in arrival order; a
// failing or panicking handler never blocks the messages behind it
//
// outgoing messages stay queued as one unit until every named
// receiver has a known address: receivers reached on an earlier pass
// are sent to again on later passes, so every handler must tolerate
// duplicate delivery
package queue
