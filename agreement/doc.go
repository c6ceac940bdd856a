// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package agreement - the local store of bilateral signed agreement
// chains
//
// every ordered (benefactor, beneficiary) pair has its own append
// only chain of countersigned agreement records; each record carries
// a per side sequence number and the digest of the previous record on
// that side, so either party can detect reordering or tampering by
// replaying its copy
//
// ordering across peers uses a logical clock, not wall time; the
// clock value at signing time is embedded in the record and advances
// on every accepted foreign record
package agreement
