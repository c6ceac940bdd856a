// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package model

import (
	"fmt"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/digest"
	"github.com/bitmark-inc/marketd/fault"
)

// SignedAgreement - one link in the bilateral tamper evident ledger
// between a benefactor and a beneficiary
//
// the initiator fills the benefactor fields and signs; the
// counterparty fills the beneficiary fields and countersigns over the
// whole record including the first signature; the record is valid
// only once both signatures are present
//
// each holder keeps its own copy; one independent chain exists per
// ordered (benefactor, beneficiary) pair
type SignedAgreement struct {
	Benefactor           *account.Account
	Beneficiary          *account.Account
	AgreementBenefactor  []byte // packed record committed by the benefactor
	AgreementBeneficiary []byte // packed record committed by the beneficiary
	SequenceBenefactor   uint64
	SequenceBeneficiary  uint64
	PreviousBenefactor   digest.Digest
	PreviousBeneficiary  digest.Digest
	Time                 uint64 // logical time, not wall clock
	SignatureBenefactor  account.Signature
	SignatureBeneficiary account.Signature
}

// Kind - record kind tag
func (agreement *SignedAgreement) Kind() Kind {
	return SignedAgreementKind
}

// ID - record key
//
// stable across countersigning, so an in-progress record and its
// completed form share one key
func (agreement *SignedAgreement) ID() string {
	return fmt.Sprintf("%s:%s:%d",
		agreement.Benefactor.String(),
		agreement.Beneficiary.String(),
		agreement.SequenceBenefactor)
}

// the message signed by the benefactor: only the benefactor half
func (agreement *SignedAgreement) packBenefactorHalf() []byte {
	buffer := toVarint64(uint64(SignedAgreementKind))
	buffer = appendBytes(buffer, agreement.Benefactor.Bytes())
	buffer = appendBytes(buffer, agreement.Beneficiary.Bytes())
	buffer = appendBytes(buffer, agreement.AgreementBenefactor)
	buffer = appendUint64(buffer, agreement.SequenceBenefactor)
	buffer = append(buffer, agreement.PreviousBenefactor[:]...)
	buffer = appendUint64(buffer, agreement.Time)
	return buffer
}

// the message countersigned by the beneficiary: the whole record with
// the benefactor's signature, beneficiary signature excluded
func (agreement *SignedAgreement) packCountersigned() []byte {
	buffer := agreement.packBenefactorHalf()
	buffer = appendBytes(buffer, agreement.AgreementBeneficiary)
	buffer = appendUint64(buffer, agreement.SequenceBeneficiary)
	buffer = append(buffer, agreement.PreviousBeneficiary[:]...)
	buffer = appendBytes(buffer, agreement.SignatureBenefactor)
	return buffer
}

// Pack - canonical byte encoding, signatures last
func (agreement *SignedAgreement) Pack() (Packed, error) {
	if nil == agreement.Benefactor || nil == agreement.Beneficiary {
		return nil, fault.ErrNotAgreementParty
	}
	buffer := agreement.packCountersigned()
	buffer = appendBytes(buffer, agreement.SignatureBeneficiary)
	return Packed(buffer), nil
}

func unpackSignedAgreement(u *unpacker) (Model, int, error) {

	unpackAccount := func() *account.Account {
		b := u.bytes()
		if nil != u.err {
			return nil
		}
		if len(b) < 2 {
			u.err = fault.ErrCannotDecodeAccount
			return nil
		}
		return &account.Account{
			Test:      0 != b[0]&0x02,
			PublicKey: b[1:],
		}
	}

	unpackDigest := func() digest.Digest {
		var d digest.Digest
		if nil != u.err {
			return d
		}
		if u.n+digest.Length > len(u.buffer) {
			u.err = fault.ErrMessageTooShort
			return d
		}
		copy(d[:], u.buffer[u.n:u.n+digest.Length])
		u.n += digest.Length
		return d
	}

	agreement := &SignedAgreement{}
	agreement.Benefactor = unpackAccount()
	agreement.Beneficiary = unpackAccount()
	agreement.AgreementBenefactor = append([]byte{}, u.bytes()...)
	agreement.SequenceBenefactor = u.uint64()
	agreement.PreviousBenefactor = unpackDigest()
	agreement.Time = u.uint64()
	agreement.AgreementBeneficiary = append([]byte{}, u.bytes()...)
	agreement.SequenceBeneficiary = u.uint64()
	agreement.PreviousBeneficiary = unpackDigest()
	agreement.SignatureBenefactor = account.Signature(append([]byte{}, u.bytes()...))
	agreement.SignatureBeneficiary = account.Signature(append([]byte{}, u.bytes()...))
	if nil != u.err {
		return nil, 0, u.err
	}
	return agreement, u.n, nil
}

// SignBenefactor - sign the benefactor half
func (agreement *SignedAgreement) SignBenefactor(privateKey *account.PrivateKey) {
	agreement.SignatureBenefactor = privateKey.Sign(agreement.packBenefactorHalf())
}

// SignBeneficiary - countersign the whole record
//
// call only after the beneficiary fields are filled in
func (agreement *SignedAgreement) SignBeneficiary(privateKey *account.PrivateKey) {
	agreement.SignatureBeneficiary = privateKey.Sign(agreement.packCountersigned())
}

// IsComplete - both signatures present
func (agreement *SignedAgreement) IsComplete() bool {
	return 0 != len(agreement.SignatureBenefactor) && 0 != len(agreement.SignatureBeneficiary)
}

// Verify - check whichever signatures are present
//
// a record with no benefactor signature is never valid: the
// benefactor initiates every agreement
func (agreement *SignedAgreement) Verify() error {

	if nil == agreement.Benefactor || nil == agreement.Beneficiary {
		return fault.ErrNotAgreementParty
	}

	if 0 == len(agreement.SignatureBenefactor) {
		return fault.ErrAgreementIsIncomplete
	}

	err := agreement.Benefactor.CheckSignature(agreement.packBenefactorHalf(), agreement.SignatureBenefactor)
	if nil != err {
		return err
	}

	if 0 != len(agreement.SignatureBeneficiary) {
		err = agreement.Beneficiary.CheckSignature(agreement.packCountersigned(), agreement.SignatureBeneficiary)
		if nil != err {
			return err
		}
	}

	return nil
}

// Digest - the chain digest of the complete canonical record
func (agreement *SignedAgreement) Digest() (digest.Digest, error) {
	packed, err := agreement.Pack()
	if nil != err {
		return digest.Digest{}, err
	}
	return digest.NewDigest(packed), nil
}
