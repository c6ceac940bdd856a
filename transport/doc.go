// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package transport - ZeroMQ push/pull message exchange between
// market nodes
//
// every frame set is signed by the sending identity and carries the
// sender's own listen address, so receiving a message is also an
// implicit announcement of the sender's location
package transport
