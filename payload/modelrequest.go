// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package payload

import (
	"github.com/bitmark-inc/marketd/fault"
)

// ModelRequest - a pull style "give me these ids" envelope; carries
// only record ids, no record bodies
type ModelRequest struct {
	ModelIDs []string
}

// Pack - canonical byte encoding
func (p *ModelRequest) Pack() ([]byte, error) {

	buffer := appendUint64(nil, uint64(len(p.ModelIDs)))
	for _, id := range p.ModelIDs {
		buffer = appendString(buffer, id)
	}
	return buffer, nil
}

// UnpackModelRequest - decode a pull request envelope
func UnpackModelRequest(buffer []byte) (*ModelRequest, error) {

	count, n := fromVarint64(buffer)
	if 0 == n {
		return nil, fault.ErrMessageTooShort
	}
	if count > maxFieldCount {
		return nil, fault.ErrInvalidCount
	}

	ids := make([]string, 0, count)
	for i := uint64(0); i < count; i += 1 {
		id, length, err := nextString(buffer[n:])
		if nil != err {
			return nil, err
		}
		n += length
		ids = append(ids, id)
	}
	if n != len(buffer) {
		return nil, fault.ErrMalformedPayload
	}
	return &ModelRequest{ModelIDs: ids}, nil
}
