// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package model

// BorrowersProfile - identity details attached to a loan request
// transfer; never mutated by a remote peer
type BorrowersProfile struct {
	ProfileID          string
	FirstName          string
	LastName           string
	Email              string
	IBAN               string
	PhoneNumber        string
	CurrentPostalCode  string
	CurrentHouseNumber string
	CurrentAddress     string
	DocumentList       []string
}

// Kind - record kind tag
func (profile *BorrowersProfile) Kind() Kind {
	return BorrowersProfileKind
}

// ID - record key
func (profile *BorrowersProfile) ID() string {
	return profile.ProfileID
}

// Pack - canonical byte encoding
func (profile *BorrowersProfile) Pack() (Packed, error) {
	buffer := toVarint64(uint64(BorrowersProfileKind))
	buffer = appendString(buffer, profile.ProfileID)
	buffer = appendString(buffer, profile.FirstName)
	buffer = appendString(buffer, profile.LastName)
	buffer = appendString(buffer, profile.Email)
	buffer = appendString(buffer, profile.IBAN)
	buffer = appendString(buffer, profile.PhoneNumber)
	buffer = appendString(buffer, profile.CurrentPostalCode)
	buffer = appendString(buffer, profile.CurrentHouseNumber)
	buffer = appendString(buffer, profile.CurrentAddress)
	buffer = appendStringList(buffer, profile.DocumentList)
	return buffer, nil
}

func unpackBorrowersProfile(u *unpacker) (Model, int, error) {
	profile := &BorrowersProfile{
		ProfileID:          u.text(),
		FirstName:          u.text(),
		LastName:           u.text(),
		Email:              u.text(),
		IBAN:               u.text(),
		PhoneNumber:        u.text(),
		CurrentPostalCode:  u.text(),
		CurrentHouseNumber: u.text(),
		CurrentAddress:     u.text(),
		DocumentList:       u.stringList(),
	}
	if nil != u.err {
		return nil, 0, u.err
	}
	return profile, u.n, nil
}
