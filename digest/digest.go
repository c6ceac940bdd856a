// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package digest - the digest type linking agreement chains
//
// each record in a pairwise agreement chain carries the digest of the
// preceding record; the first record of a chain carries the genesis
// digest
package digest

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/marketd/fault"
)

// Length - number of bytes in the digest
const Length = 32

// genesis previous-hash label, digested once at start up
const genesisLabel = "marketd.agreement.genesis"

// Digest - type for a digest
//
// SHA3-256 of the canonical packed record
type Digest [Length]byte

// Genesis - the previous digest required at sequence number zero
//
// a derived constant rather than all zero bytes so that a cleared
// field cannot validate as a chain start
var Genesis = NewDigest([]byte(genesisLabel))

// NewDigest - create a digest from a byte slice
func NewDigest(record []byte) Digest {
	return sha3.Sum256(record)
}

// String - convert a binary digest to hex string for use by the fmt package (for %s)
func (digest Digest) String() string {
	return hex.EncodeToString(digest[:])
}

// GoString - convert a binary digest to hex string for use by the fmt package (for %#v)
func (digest Digest) GoString() string {
	return "<SHA3-256:" + hex.EncodeToString(digest[:]) + ">"
}

// MarshalText - convert digest to hex text
func (digest Digest) MarshalText() ([]byte, error) {
	size := hex.EncodedLen(Length)
	buffer := make([]byte, size)
	hex.Encode(buffer, digest[:])
	return buffer, nil
}

// UnmarshalText - convert hex text into a digest
func (digest *Digest) UnmarshalText(s []byte) error {
	if hex.EncodedLen(Length) != len(s) {
		return fault.ErrInvalidKeyLength
	}
	buffer := make([]byte, Length)
	_, err := hex.Decode(buffer, s)
	if nil != err {
		return err
	}
	copy(digest[:], buffer)
	return nil
}
