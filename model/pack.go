// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package model

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/bitmark-inc/marketd/fault"
)

// canonical packing helpers
//
// all variable length items are Varint64 length prefixed; maps are
// emitted in sorted key order so that packing is deterministic -
// agreement digests depend on this

// maximum possible number of bytes in a Varint64
const varint64MaximumBytes = 9

// convert a 64 bit unsigned integer to Varint64
func toVarint64(value uint64) []byte {
	result := make([]byte, 0, varint64MaximumBytes)
	if value < 0x80 {
		return append(result, byte(value))
	}
	for i := 0; i < varint64MaximumBytes && value != 0; i += 1 {
		ext := uint64(0x80)
		if value < 0x80 {
			ext = 0x00
		}
		result = append(result, byte(value|ext))
		value >>= 7
	}
	return result
}

// convert a buffer back to a uint64, returning the byte count used
// returns 0, 0 if the buffer is truncated
func fromVarint64(buffer []byte) (uint64, int) {
	result := uint64(0)
	shift := uint(0)
	for i, b := range buffer {
		if i >= varint64MaximumBytes {
			return 0, 0
		}
		result |= uint64(b&0x7f) << shift
		if 0 == b&0x80 {
			return result, i + 1
		}
		shift += 7
	}
	return 0, 0
}

func appendUint64(buffer []byte, value uint64) []byte {
	return append(buffer, toVarint64(value)...)
}

func appendString(buffer []byte, s string) []byte {
	buffer = appendUint64(buffer, uint64(len(s)))
	return append(buffer, s...)
}

func appendBytes(buffer []byte, data []byte) []byte {
	buffer = appendUint64(buffer, uint64(len(data)))
	return append(buffer, data...)
}

func appendStringList(buffer []byte, list []string) []byte {
	buffer = appendUint64(buffer, uint64(len(list)))
	for _, s := range list {
		buffer = appendString(buffer, s)
	}
	return buffer
}

// emitted in sorted key order
func appendStatusMap(buffer []byte, statuses map[string]Status) []byte {
	keys := make([]string, 0, len(statuses))
	for k := range statuses {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buffer = appendUint64(buffer, uint64(len(keys)))
	for _, k := range keys {
		buffer = appendString(buffer, k)
		buffer = appendUint64(buffer, uint64(statuses[k]))
	}
	return buffer
}

// IEEE 754 bits, fixed 8 bytes big endian
func appendFloat64(buffer []byte, value float64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(value))
	return append(buffer, b[:]...)
}

func appendBool(buffer []byte, value bool) []byte {
	if value {
		return append(buffer, 0x01)
	}
	return append(buffer, 0x00)
}

// limits to stop a corrupt length prefix from allocating without bound
const (
	maxItemLength = 65536
	maxListLength = 4096
)

// unpacker - cursor over a packed buffer
//
// the first error sticks; every later accessor returns a zero value
// so that unpack routines can read all fields and check err once
type unpacker struct {
	buffer []byte
	n      int
	err    error
}

func (u *unpacker) uint64() uint64 {
	if nil != u.err {
		return 0
	}
	value, count := fromVarint64(u.buffer[u.n:])
	if 0 == count {
		u.err = fault.ErrMessageTooShort
		return 0
	}
	u.n += count
	return value
}

func (u *unpacker) text() string {
	return string(u.bytes())
}

func (u *unpacker) bytes() []byte {
	length := u.uint64()
	if nil != u.err {
		return nil
	}
	if length > maxItemLength || u.n+int(length) > len(u.buffer) {
		u.err = fault.ErrMessageTooShort
		return nil
	}
	data := u.buffer[u.n : u.n+int(length)]
	u.n += int(length)
	return data
}

func (u *unpacker) stringList() []string {
	count := u.uint64()
	if nil != u.err {
		return nil
	}
	if count > maxListLength {
		u.err = fault.ErrInvalidCount
		return nil
	}
	list := make([]string, 0, count)
	for i := uint64(0); i < count; i += 1 {
		list = append(list, u.text())
	}
	return list
}

func (u *unpacker) statusMap() map[string]Status {
	count := u.uint64()
	if nil != u.err {
		return nil
	}
	if count > maxListLength {
		u.err = fault.ErrInvalidCount
		return nil
	}
	statuses := make(map[string]Status, count)
	for i := uint64(0); i < count; i += 1 {
		key := u.text()
		status := Status(u.uint64())
		if nil != u.err {
			return nil
		}
		if !status.IsValid() {
			u.err = fault.ErrInvalidStatus
			return nil
		}
		statuses[key] = status
	}
	return statuses
}

func (u *unpacker) float64() float64 {
	if nil != u.err {
		return 0
	}
	if u.n+8 > len(u.buffer) {
		u.err = fault.ErrMessageTooShort
		return 0
	}
	bits := binary.BigEndian.Uint64(u.buffer[u.n : u.n+8])
	u.n += 8
	return math.Float64frombits(bits)
}

func (u *unpacker) bool() bool {
	if nil != u.err {
		return false
	}
	if u.n+1 > len(u.buffer) {
		u.err = fault.ErrMessageTooShort
		return false
	}
	value := u.buffer[u.n]
	u.n += 1
	return 0 != value
}
