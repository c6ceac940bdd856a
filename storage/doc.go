// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - the local persistence layer
//
// a pluggable key-value Backend (LevelDB for the daemon, memory for
// tests), namespaced into one Pool per record kind by a one byte key
// prefix, with a Store facade converting between records and their
// canonical packed form
//
// every peer exclusively owns its local store; records received over
// the wire are copied in, never shared
package storage
