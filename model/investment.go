// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package model

import (
	"github.com/bitmark-inc/marketd/fault"
)

// Investment - an investor's bid into a running campaign
type Investment struct {
	InvestmentID string
	InvestorKey  string
	MortgageID   string
	CampaignID   string
	Amount       uint64
	InterestRate float64
	Duration     uint64 // months
	Status       Status
}

// Kind - record kind tag
func (investment *Investment) Kind() Kind {
	return InvestmentKind
}

// ID - record key
func (investment *Investment) ID() string {
	return investment.InvestmentID
}

// Pack - canonical byte encoding
func (investment *Investment) Pack() (Packed, error) {
	buffer := toVarint64(uint64(InvestmentKind))
	buffer = appendString(buffer, investment.InvestmentID)
	buffer = appendString(buffer, investment.InvestorKey)
	buffer = appendString(buffer, investment.MortgageID)
	buffer = appendString(buffer, investment.CampaignID)
	buffer = appendUint64(buffer, investment.Amount)
	buffer = appendFloat64(buffer, investment.InterestRate)
	buffer = appendUint64(buffer, investment.Duration)
	buffer = appendUint64(buffer, uint64(investment.Status))
	return buffer, nil
}

func unpackInvestment(u *unpacker) (Model, int, error) {
	investment := &Investment{
		InvestmentID: u.text(),
		InvestorKey:  u.text(),
		MortgageID:   u.text(),
		CampaignID:   u.text(),
		Amount:       u.uint64(),
		InterestRate: u.float64(),
		Duration:     u.uint64(),
		Status:       Status(u.uint64()),
	}
	if nil != u.err {
		return nil, 0, u.err
	}
	if !investment.Status.IsValid() {
		return nil, 0, fault.ErrInvalidStatus
	}
	return investment, u.n, nil
}
