// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package model

// House - the property a loan request is for
//
// keyed by its physical attributes; immutable once a LoanRequest
// references it
type House struct {
	PostalCode  string
	HouseNumber string
	Address     string
	Price       uint64
}

// Kind - record kind tag
func (house *House) Kind() Kind {
	return HouseKind
}

// ID - record key derived from the physical attributes
func (house *House) ID() string {
	return house.PostalCode + "-" + house.HouseNumber
}

// Pack - canonical byte encoding
func (house *House) Pack() (Packed, error) {
	buffer := toVarint64(uint64(HouseKind))
	buffer = appendString(buffer, house.PostalCode)
	buffer = appendString(buffer, house.HouseNumber)
	buffer = appendString(buffer, house.Address)
	buffer = appendUint64(buffer, house.Price)
	return buffer, nil
}

func unpackHouse(u *unpacker) (Model, int, error) {
	house := &House{
		PostalCode:  u.text(),
		HouseNumber: u.text(),
		Address:     u.text(),
		Price:       u.uint64(),
	}
	if nil != u.err {
		return nil, 0, u.err
	}
	return house, u.n, nil
}
