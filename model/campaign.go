// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package model

// Campaign - an investment round over an accepted, mutually signed
// mortgage
//
// Amount is the amount still wanted; the campaign completes when it
// reaches zero or the end date passes
type Campaign struct {
	CampaignID string
	MortgageID string
	UserKey    string // the borrower running the campaign
	Amount     uint64
	EndDate    uint64 // unix seconds
	Completed  bool
}

// Kind - record kind tag
func (campaign *Campaign) Kind() Kind {
	return CampaignKind
}

// ID - record key
func (campaign *Campaign) ID() string {
	return campaign.CampaignID
}

// Pack - canonical byte encoding
func (campaign *Campaign) Pack() (Packed, error) {
	buffer := toVarint64(uint64(CampaignKind))
	buffer = appendString(buffer, campaign.CampaignID)
	buffer = appendString(buffer, campaign.MortgageID)
	buffer = appendString(buffer, campaign.UserKey)
	buffer = appendUint64(buffer, campaign.Amount)
	buffer = appendUint64(buffer, campaign.EndDate)
	buffer = appendBool(buffer, campaign.Completed)
	return buffer, nil
}

func unpackCampaign(u *unpacker) (Model, int, error) {
	campaign := &Campaign{
		CampaignID: u.text(),
		MortgageID: u.text(),
		UserKey:    u.text(),
		Amount:     u.uint64(),
		EndDate:    u.uint64(),
		Completed:  u.bool(),
	}
	if nil != u.err {
		return nil, 0, u.err
	}
	return campaign, u.n, nil
}

// Invest - reduce the amount still wanted
//
// marks the campaign completed when fully subscribed
func (campaign *Campaign) Invest(amount uint64) {
	if amount >= campaign.Amount {
		campaign.Amount = 0
		campaign.Completed = true
		return
	}
	campaign.Amount -= amount
}
