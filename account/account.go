// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"bytes"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ed25519"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/marketd/fault"
)

// miscellaneous constants
const (
	checksumLength = 4

	// bits in the key variant byte starting from LSB
	publicKeyCode = 0x01
	testKeyCode   = 0x02
)

// Account - the public identity of one market participant
//
// the textual form of an account is the globally unique identifier
// used as the User model key and as benefactor/beneficiary in
// agreement records
type Account struct {
	Test      bool
	PublicKey []byte
}

// Bytes - the key variant byte followed by the raw public key
func (account *Account) Bytes() []byte {
	keyVariant := byte(publicKeyCode)
	if account.Test {
		keyVariant |= testKeyCode
	}
	return append([]byte{keyVariant}, account.PublicKey...)
}

// String - base58 encoded key variant + public key + checksum
func (account *Account) String() string {
	buffer := account.Bytes()
	checksum := sha3.Sum256(buffer)
	buffer = append(buffer, checksum[:checksumLength]...)
	return base58.Encode(buffer)
}

// GoString - for the fmt package (for %#v)
func (account *Account) GoString() string {
	return "<account:" + account.String() + ">"
}

// MarshalText - convert an account to its textual form
func (account Account) MarshalText() ([]byte, error) {
	return []byte(account.String()), nil
}

// UnmarshalText - convert a textual form back to an account
func (account *Account) UnmarshalText(s []byte) error {
	a, err := AccountFromBase58(string(s))
	if nil != err {
		return err
	}
	account.Test = a.Test
	account.PublicKey = a.PublicKey
	return nil
}

// AccountFromBase58 - convert a Base58 encoded string to an account
func AccountFromBase58(accountBase58Encoded string) (*Account, error) {

	accountDecoded, err := base58.Decode(accountBase58Encoded)
	if nil != err {
		return nil, fault.ErrCannotDecodeAccount
	}

	if len(accountDecoded) != 1+ed25519.PublicKeySize+checksumLength {
		return nil, fault.ErrCannotDecodeAccount
	}

	keyVariant := accountDecoded[0]
	if keyVariant&publicKeyCode != publicKeyCode {
		return nil, fault.ErrCannotDecodeAccount
	}

	// verify checksum
	checksumStart := len(accountDecoded) - checksumLength
	checksum := sha3.Sum256(accountDecoded[:checksumStart])
	if !bytes.Equal(checksum[:checksumLength], accountDecoded[checksumStart:]) {
		return nil, fault.ErrChecksumMismatch
	}

	return &Account{
		Test:      keyVariant&testKeyCode == testKeyCode,
		PublicKey: accountDecoded[1:checksumStart],
	}, nil
}

// CheckSignature - verify a signature over a message against this account
func (account *Account) CheckSignature(message []byte, signature Signature) error {

	if ed25519.PublicKeySize != len(account.PublicKey) {
		return fault.ErrInvalidKeyLength
	}
	if ed25519.SignatureSize != len(signature) {
		return fault.ErrInvalidSignature
	}
	if !ed25519.Verify(account.PublicKey, message, signature) {
		return fault.ErrInvalidSignature
	}
	return nil
}

// IsSame - compare accounts by public key
func (account *Account) IsSame(other *Account) bool {
	if nil == account || nil == other {
		return false
	}
	return account.Test == other.Test && bytes.Equal(account.PublicKey, other.PublicKey)
}
