// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package payload

import (
	"github.com/bitmark-inc/marketd/fault"
)

// envelope level packing helpers; record internals are handled by the
// model package

const (
	varint64MaximumBytes = 9
	maxFieldCount        = 256
	maxStringLength      = 65536
)

func appendUint64(buffer []byte, value uint64) []byte {
	if value < 0x80 {
		return append(buffer, byte(value))
	}
	for i := 0; i < varint64MaximumBytes && value != 0; i += 1 {
		ext := uint64(0x80)
		if value < 0x80 {
			ext = 0x00
		}
		buffer = append(buffer, byte(value|ext))
		value >>= 7
	}
	return buffer
}

func appendString(buffer []byte, s string) []byte {
	buffer = appendUint64(buffer, uint64(len(s)))
	return append(buffer, s...)
}

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

func nextString(buffer []byte) (string, int, error) {
	length, n := fromVarint64(buffer)
	if 0 == n {
		return "", 0, fault.ErrMessageTooShort
	}
	if length > maxStringLength || n+int(length) > len(buffer) {
		return "", 0, fault.ErrMessageTooShort
	}
	return string(buffer[n : n+int(length)]), n + int(length), nil
}
