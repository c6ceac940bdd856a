// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order
var (
	ErrAgreementIsIncomplete         = InvalidError("agreement is incomplete")
	ErrAlreadyInitialised            = ProcessError("already initialised")
	ErrCannotDecodeAccount           = InvalidError("cannot decode account")
	ErrCannotDecodePrivateKey        = InvalidError("cannot decode private key")
	ErrChecksumMismatch              = ProcessError("checksum mismatch")
	ErrInvalidChain                  = InvalidError("invalid chain")
	ErrInvalidCount                  = InvalidError("invalid count")
	ErrInvalidKeyLength              = InvalidError("invalid key length")
	ErrInvalidKindTag                = InvalidError("invalid kind tag")
	ErrInvalidMortgageType           = InvalidError("invalid mortgage type")
	ErrInvalidPortNumber             = InvalidError("invalid port number")
	ErrInvalidSignature              = InvalidError("invalid signature")
	ErrInvalidStatus                 = InvalidError("invalid status")
	ErrKeyNotFound                   = NotFoundError("key not found")
	ErrLoanRequestAlreadyExists      = ExistsError("loan request already exists")
	ErrMalformedPayload              = InvalidError("malformed payload")
	ErrMessageTooShort               = InvalidError("message too short")
	ErrModelNotFound                 = NotFoundError("model not found")
	ErrNotAgreementParty             = InvalidError("not agreement party")
	ErrNotAvailableDuringSynchronise = ProcessError("not available during synchronise")
	ErrNotInitialised                = ProcessError("not initialised")
	ErrPreviousHashMismatch          = InvalidError("previous hash mismatch")
	ErrSequenceOutOfOrder            = InvalidError("sequence out of order")
	ErrUnexpectedModelKind           = InvalidError("unexpected model kind")
	ErrUnknownRequest                = InvalidError("unknown request")
	ErrWrongNetworkForPublicKey      = InvalidError("wrong network for public key")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
