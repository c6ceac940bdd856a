// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package model

import (
	"github.com/bitmark-inc/marketd/fault"
)

// Mortgage - a bank's offer against a loan request
//
// the investor list is ordered and duplicate free; mutation goes
// through AddInvestor only
type Mortgage struct {
	MortgageID    string
	RequestID     string
	HouseID       string
	Bank          string
	Amount        uint64
	MortgageType  MortgageType
	InterestRate  float64
	MaxInvestRate float64
	DefaultRate   float64
	Duration      uint64 // months
	Risk          string
	Investors     []string
	Status        Status
}

// Kind - record kind tag
func (mortgage *Mortgage) Kind() Kind {
	return MortgageKind
}

// ID - record key
func (mortgage *Mortgage) ID() string {
	return mortgage.MortgageID
}

// Pack - canonical byte encoding
func (mortgage *Mortgage) Pack() (Packed, error) {
	buffer := toVarint64(uint64(MortgageKind))
	buffer = appendString(buffer, mortgage.MortgageID)
	buffer = appendString(buffer, mortgage.RequestID)
	buffer = appendString(buffer, mortgage.HouseID)
	buffer = appendString(buffer, mortgage.Bank)
	buffer = appendUint64(buffer, mortgage.Amount)
	buffer = appendUint64(buffer, uint64(mortgage.MortgageType))
	buffer = appendFloat64(buffer, mortgage.InterestRate)
	buffer = appendFloat64(buffer, mortgage.MaxInvestRate)
	buffer = appendFloat64(buffer, mortgage.DefaultRate)
	buffer = appendUint64(buffer, mortgage.Duration)
	buffer = appendString(buffer, mortgage.Risk)
	buffer = appendStringList(buffer, mortgage.Investors)
	buffer = appendUint64(buffer, uint64(mortgage.Status))
	return buffer, nil
}

func unpackMortgage(u *unpacker) (Model, int, error) {
	mortgage := &Mortgage{
		MortgageID:    u.text(),
		RequestID:     u.text(),
		HouseID:       u.text(),
		Bank:          u.text(),
		Amount:        u.uint64(),
		MortgageType:  MortgageType(u.uint64()),
		InterestRate:  u.float64(),
		MaxInvestRate: u.float64(),
		DefaultRate:   u.float64(),
		Duration:      u.uint64(),
		Risk:          u.text(),
		Investors:     u.stringList(),
		Status:        Status(u.uint64()),
	}
	if nil != u.err {
		return nil, 0, u.err
	}
	if !mortgage.MortgageType.IsValid() {
		return nil, 0, fault.ErrInvalidMortgageType
	}
	if !mortgage.Status.IsValid() {
		return nil, 0, fault.ErrInvalidStatus
	}
	return mortgage, u.n, nil
}

// AddInvestor - record an investor id, once
func (mortgage *Mortgage) AddInvestor(id string) bool {
	changed := false
	mortgage.Investors, changed = addToList(mortgage.Investors, id)
	return changed
}
