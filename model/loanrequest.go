// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package model

import (
	"github.com/bitmark-inc/marketd/fault"
)

// LoanRequest - a borrower's request for mortgage offers
//
// sent to a chosen set of banks; each bank tracks its own decision in
// the per-bank status map and must only ever write its own entry
type LoanRequest struct {
	RequestID    string
	UserKey      string
	HouseID      string
	HouseLink    string
	SellerPhone  string
	SellerEmail  string
	MortgageType MortgageType
	Banks        []string
	Description  string
	AmountWanted uint64
	Status       map[string]Status
}

// Kind - record kind tag
func (request *LoanRequest) Kind() Kind {
	return LoanRequestKind
}

// ID - record key
func (request *LoanRequest) ID() string {
	return request.RequestID
}

// Pack - canonical byte encoding
func (request *LoanRequest) Pack() (Packed, error) {
	buffer := toVarint64(uint64(LoanRequestKind))
	buffer = appendString(buffer, request.RequestID)
	buffer = appendString(buffer, request.UserKey)
	buffer = appendString(buffer, request.HouseID)
	buffer = appendString(buffer, request.HouseLink)
	buffer = appendString(buffer, request.SellerPhone)
	buffer = appendString(buffer, request.SellerEmail)
	buffer = appendUint64(buffer, uint64(request.MortgageType))
	buffer = appendStringList(buffer, request.Banks)
	buffer = appendString(buffer, request.Description)
	buffer = appendUint64(buffer, request.AmountWanted)
	buffer = appendStatusMap(buffer, request.Status)
	return buffer, nil
}

func unpackLoanRequest(u *unpacker) (Model, int, error) {
	request := &LoanRequest{
		RequestID:    u.text(),
		UserKey:      u.text(),
		HouseID:      u.text(),
		HouseLink:    u.text(),
		SellerPhone:  u.text(),
		SellerEmail:  u.text(),
		MortgageType: MortgageType(u.uint64()),
		Banks:        u.stringList(),
		Description:  u.text(),
		AmountWanted: u.uint64(),
		Status:       u.statusMap(),
	}
	if nil != u.err {
		return nil, 0, u.err
	}
	if !request.MortgageType.IsValid() {
		return nil, 0, fault.ErrInvalidMortgageType
	}
	return request, u.n, nil
}

// SetBankStatus - record one bank's decision
//
// a handler applying a remote stamp must use this so that only the
// stamping bank's entry changes
func (request *LoanRequest) SetBankStatus(bank string, status Status) {
	if nil == request.Status {
		request.Status = make(map[string]Status)
	}
	request.Status[bank] = status
}

// BankStatus - one bank's decision, NoStatus when absent
func (request *LoanRequest) BankStatus(bank string) Status {
	return request.Status[bank]
}
