// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"crypto/rand"
	"encoding/hex"

	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/marketd/fault"
)

// PrivateKey - the secret half of a market identity
type PrivateKey struct {
	Test       bool
	PrivateKey []byte
}

// NewAccount - generate a new key pair
func NewAccount(test bool) (*Account, *PrivateKey, error) {

	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if nil != err {
		return nil, nil, err
	}

	account := &Account{
		Test:      test,
		PublicKey: publicKey,
	}
	private := &PrivateKey{
		Test:       test,
		PrivateKey: privateKey,
	}
	return account, private, nil
}

// PrivateKeyFromHex - decode a private key from its hex file form
//
// form: variant byte + ed25519 private key, hex encoded
func PrivateKeyFromHex(privateKeyHexEncoded string) (*PrivateKey, error) {

	b, err := hex.DecodeString(privateKeyHexEncoded)
	if nil != err {
		return nil, fault.ErrCannotDecodePrivateKey
	}
	if 1+ed25519.PrivateKeySize != len(b) {
		return nil, fault.ErrCannotDecodePrivateKey
	}

	keyVariant := b[0]
	if keyVariant&publicKeyCode != publicKeyCode {
		return nil, fault.ErrCannotDecodePrivateKey
	}

	return &PrivateKey{
		Test:       keyVariant&testKeyCode == testKeyCode,
		PrivateKey: b[1:],
	}, nil
}

// String - hex encoded variant byte + private key
func (privateKey *PrivateKey) String() string {
	keyVariant := byte(publicKeyCode)
	if privateKey.Test {
		keyVariant |= testKeyCode
	}
	return hex.EncodeToString(append([]byte{keyVariant}, privateKey.PrivateKey...))
}

// Account - derive the public account from a private key
func (privateKey *PrivateKey) Account() *Account {
	return &Account{
		Test:      privateKey.Test,
		PublicKey: []byte(ed25519.PrivateKey(privateKey.PrivateKey).Public().(ed25519.PublicKey)),
	}
}

// Sign - sign a message with this private key
func (privateKey *PrivateKey) Sign(message []byte) Signature {
	return Signature(ed25519.Sign(privateKey.PrivateKey, message))
}
