// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transport

import (
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
)

// wire layout: identity, listen address, signature, payload
const frameCount = 4

// Frames - assemble and sign one outgoing message
//
// the signature covers the listen address and the payload so a relay
// cannot redirect announcements elsewhere
func Frames(privateKey *account.PrivateKey, listenAddress string, payload []byte) [][]byte {

	message := append([]byte(listenAddress), payload...)
	signature := privateKey.Sign(message)

	return [][]byte{
		[]byte(privateKey.Account().String()),
		[]byte(listenAddress),
		signature,
		payload,
	}
}

// Verify - check an incoming message and take it apart
//
// returns the sender's identity, its listen address and the payload
func Verify(frames [][]byte) (string, string, []byte, error) {

	if frameCount != len(frames) {
		return "", "", nil, fault.ErrMalformedPayload
	}

	identity := string(frames[0])
	listenAddress := string(frames[1])
	signature := account.Signature(frames[2])
	payload := frames[3]

	sender, err := account.AccountFromBase58(identity)
	if nil != err {
		return "", "", nil, err
	}

	message := append([]byte(listenAddress), payload...)
	err = sender.CheckSignature(message, signature)
	if nil != err {
		return "", "", nil, err
	}

	return identity, listenAddress, payload, nil
}
