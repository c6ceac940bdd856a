// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package model

// User - one market participant as known by some peer
//
// the key is the textual account of the participant's public key;
// the id lists are ordered and duplicate free and must only be
// changed through the update methods below, which is what keeps the
// protocol handlers idempotent
type User struct {
	UserID         string
	LoanRequestIDs []string
	MortgageIDs    []string
	CampaignIDs    []string
	InvestmentIDs  []string
}

// Kind - record kind tag
func (user *User) Kind() Kind {
	return UserKind
}

// ID - record key
func (user *User) ID() string {
	return user.UserID
}

// Pack - canonical byte encoding
func (user *User) Pack() (Packed, error) {
	buffer := toVarint64(uint64(UserKind))
	buffer = appendString(buffer, user.UserID)
	buffer = appendStringList(buffer, user.LoanRequestIDs)
	buffer = appendStringList(buffer, user.MortgageIDs)
	buffer = appendStringList(buffer, user.CampaignIDs)
	buffer = appendStringList(buffer, user.InvestmentIDs)
	return buffer, nil
}

func unpackUser(u *unpacker) (Model, int, error) {
	user := &User{
		UserID:         u.text(),
		LoanRequestIDs: u.stringList(),
		MortgageIDs:    u.stringList(),
		CampaignIDs:    u.stringList(),
		InvestmentIDs:  u.stringList(),
	}
	if nil != u.err {
		return nil, 0, u.err
	}
	return user, u.n, nil
}

// de-duplicating append; reports whether the list changed
func addToList(list []string, id string) ([]string, bool) {
	for _, existing := range list {
		if existing == id {
			return list, false
		}
	}
	return append(list, id), true
}

// remove an id from a list; reports whether the list changed
func removeFromList(list []string, id string) ([]string, bool) {
	for i, existing := range list {
		if existing == id {
			return append(list[:i], list[i+1:]...), true
		}
	}
	return list, false
}

// AddLoanRequest - record a loan request id, once
func (user *User) AddLoanRequest(id string) bool {
	changed := false
	user.LoanRequestIDs, changed = addToList(user.LoanRequestIDs, id)
	return changed
}

// RemoveLoanRequest - drop a loan request id
func (user *User) RemoveLoanRequest(id string) bool {
	changed := false
	user.LoanRequestIDs, changed = removeFromList(user.LoanRequestIDs, id)
	return changed
}

// AddMortgage - record a mortgage id, once
func (user *User) AddMortgage(id string) bool {
	changed := false
	user.MortgageIDs, changed = addToList(user.MortgageIDs, id)
	return changed
}

// RemoveMortgage - drop a mortgage id
func (user *User) RemoveMortgage(id string) bool {
	changed := false
	user.MortgageIDs, changed = removeFromList(user.MortgageIDs, id)
	return changed
}

// AddCampaign - record a campaign id, once
func (user *User) AddCampaign(id string) bool {
	changed := false
	user.CampaignIDs, changed = addToList(user.CampaignIDs, id)
	return changed
}

// AddInvestment - record an investment id, once
func (user *User) AddInvestment(id string) bool {
	changed := false
	user.InvestmentIDs, changed = addToList(user.InvestmentIDs, id)
	return changed
}
