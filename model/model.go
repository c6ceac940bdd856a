// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package model - the typed market records exchanged between peers
//
// every record has a globally unique string key, a kind tag used for
// queue routing and storage namespacing, and a canonical byte
// encoding with an exact round trip: Unpack(Pack(x)) == x for all
// fields
package model

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/bitmark-inc/marketd/fault"
)

// Kind - type code for records
//
// this is encoded as a Varint64 at the start of the packed form
type Kind uint64

// enumerate the possible record kinds
const (
	// null marks beginning of list - not used as a record kind
	nullKind Kind = iota

	// valid record kinds
	UserKind
	HouseKind
	LoanRequestKind
	MortgageKind
	CampaignKind
	BorrowersProfileKind
	InvestmentKind
	SignedAgreementKind

	// this item must be last
	invalidKind
)

// String - the kind tag also acts as the conventional payload field
// name for a record of that kind
func (kind Kind) String() string {
	switch kind {
	case UserKind:
		return "user"
	case HouseKind:
		return "house"
	case LoanRequestKind:
		return "loan_request"
	case MortgageKind:
		return "mortgage"
	case CampaignKind:
		return "campaign"
	case BorrowersProfileKind:
		return "borrowers_profile"
	case InvestmentKind:
		return "investment"
	case SignedAgreementKind:
		return "signed_agreement"
	default:
		return "*unknown*"
	}
}

// Model - generic record interface
type Model interface {
	Kind() Kind
	ID() string
	Pack() (Packed, error)
}

// Packed - packed records are just a byte slice
type Packed []byte

// Unpack - decode one record from the start of a packed buffer
//
// returns the record and the number of bytes consumed so that
// several packed records can be concatenated
func (packed Packed) Unpack() (Model, int, error) {

	u := &unpacker{buffer: packed}
	tag := u.uint64()
	if nil != u.err {
		return nil, 0, u.err
	}

	switch Kind(tag) {
	case UserKind:
		return unpackUser(u)
	case HouseKind:
		return unpackHouse(u)
	case LoanRequestKind:
		return unpackLoanRequest(u)
	case MortgageKind:
		return unpackMortgage(u)
	case CampaignKind:
		return unpackCampaign(u)
	case BorrowersProfileKind:
		return unpackBorrowersProfile(u)
	case InvestmentKind:
		return unpackInvestment(u)
	case SignedAgreementKind:
		return unpackSignedAgreement(u)
	default:
		return nil, 0, fault.ErrInvalidKindTag
	}
}

// NewID - generate a fresh record key
//
// 128 random bits, hex encoded; used for every record that is not
// keyed by an account or by its physical attributes
func NewID() string {
	buffer := make([]byte, 16)
	_, err := rand.Read(buffer)
	if nil != err {
		// entropy exhaustion is not recoverable here
		panic("model: random id generation failed: " + err.Error())
	}
	return hex.EncodeToString(buffer)
}
