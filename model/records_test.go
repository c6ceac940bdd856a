// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/model"
)

// pack one record, unpack it, require the identical structure and
// that the whole buffer was consumed
func roundTrip(t *testing.T, m model.Model) model.Model {
	t.Helper()

	packed, err := m.Pack()
	assert.NoError(t, err, "pack failed")

	back, n, err := packed.Unpack()
	assert.NoError(t, err, "unpack failed")
	assert.Equal(t, len(packed), n, "unpack did not consume whole buffer")
	assert.Equal(t, m.Kind(), back.Kind(), "kind changed")
	assert.Equal(t, m.ID(), back.ID(), "id changed")
	return back
}

func TestUserRoundTrip(t *testing.T) {

	user := &model.User{
		UserID:         "some-account-text",
		LoanRequestIDs: []string{"r1"},
		MortgageIDs:    []string{"m1", "m2"},
		CampaignIDs:    []string{},
		InvestmentIDs:  []string{"i9"},
	}

	back := roundTrip(t, user).(*model.User)
	assert.Equal(t, user.LoanRequestIDs, back.LoanRequestIDs, "loan request ids changed")
	assert.Equal(t, user.MortgageIDs, back.MortgageIDs, "mortgage ids changed")
	assert.Equal(t, user.InvestmentIDs, back.InvestmentIDs, "investment ids changed")
}

func TestHouseRoundTrip(t *testing.T) {

	house := &model.House{
		PostalCode:  "2500AA",
		HouseNumber: "34",
		Address:     "Aa Weg",
		Price:       1000,
	}

	back := roundTrip(t, house).(*model.House)
	assert.Equal(t, house, back, "house changed")
	assert.Equal(t, "2500AA-34", house.ID(), "wrong derived id")
}

func TestLoanRequestRoundTrip(t *testing.T) {

	request := &model.LoanRequest{
		RequestID:    model.NewID(),
		UserKey:      "user-key",
		HouseID:      "2500AA-34",
		HouseLink:    "http://www.example.com",
		SellerPhone:  "06000000",
		SellerEmail:  "example@email.com",
		MortgageType: model.Linear,
		Banks:        []string{"bank-1", "bank-2"},
		Description:  "unicode description ð",
		AmountWanted: 10000,
		Status: map[string]model.Status{
			"bank-1": model.Pending,
			"bank-2": model.Rejected,
		},
	}

	back := roundTrip(t, request).(*model.LoanRequest)
	assert.Equal(t, request.Banks, back.Banks, "banks changed")
	assert.Equal(t, request.Status, back.Status, "status map changed")
	assert.Equal(t, request.AmountWanted, back.AmountWanted, "amount changed")
	assert.Equal(t, request.Description, back.Description, "description changed")
}

func TestLoanRequestStatusMapDeterministic(t *testing.T) {

	request := &model.LoanRequest{
		RequestID:    "fixed",
		MortgageType: model.FixedRate,
		Status: map[string]model.Status{
			"zebra": model.Accepted,
			"alpha": model.Pending,
			"milan": model.Rejected,
		},
	}

	first, err := request.Pack()
	assert.NoError(t, err, "pack failed")

	// map iteration order must not leak into the packing
	for i := 0; i < 32; i += 1 {
		again, err := request.Pack()
		assert.NoError(t, err, "pack failed")
		assert.Equal(t, []byte(first), []byte(again), "packing is not deterministic")
	}
}

func TestMortgageRoundTrip(t *testing.T) {

	mortgage := &model.Mortgage{
		MortgageID:    model.NewID(),
		RequestID:     "req-1",
		HouseID:       "2500AA-34",
		Bank:          "bank-1",
		Amount:        10000,
		MortgageType:  model.Linear,
		InterestRate:  1.0,
		MaxInvestRate: 2.0,
		DefaultRate:   3.0,
		Duration:      60,
		Risk:          "A",
		Investors:     []string{},
		Status:        model.Pending,
	}

	back := roundTrip(t, mortgage).(*model.Mortgage)
	assert.Equal(t, mortgage.InterestRate, back.InterestRate, "interest rate changed")
	assert.Equal(t, mortgage.Duration, back.Duration, "duration changed")
	assert.Equal(t, mortgage.Status, back.Status, "status changed")
}

func TestCampaignRoundTrip(t *testing.T) {

	campaign := &model.Campaign{
		CampaignID: model.NewID(),
		MortgageID: "m-1",
		UserKey:    "owner-key",
		Amount:     10000,
		EndDate:    1579000000,
		Completed:  false,
	}

	back := roundTrip(t, campaign).(*model.Campaign)
	assert.Equal(t, campaign.UserKey, back.UserKey, "user key changed")
	assert.Equal(t, campaign.Amount, back.Amount, "amount changed")
	assert.Equal(t, campaign.EndDate, back.EndDate, "end date changed")
	assert.Equal(t, campaign.Completed, back.Completed, "completed flag changed")
}

func TestBorrowersProfileRoundTrip(t *testing.T) {

	profile := &model.BorrowersProfile{
		ProfileID:          model.NewID(),
		FirstName:          "Jebediah",
		LastName:           "Kerman",
		Email:              "example@example.com",
		IBAN:               "NL00BANK0123456789",
		PhoneNumber:        "213131",
		CurrentPostalCode:  "2312AA",
		CurrentHouseNumber: "2132",
		CurrentAddress:     "Damstraat 1",
		DocumentList:       []string{"passport.pdf"},
	}

	back := roundTrip(t, profile).(*model.BorrowersProfile)
	assert.Equal(t, profile.IBAN, back.IBAN, "iban changed")
	assert.Equal(t, profile.DocumentList, back.DocumentList, "documents changed")
}

func TestInvestmentRoundTrip(t *testing.T) {

	investment := &model.Investment{
		InvestmentID: model.NewID(),
		InvestorKey:  "investor-key",
		MortgageID:   "m-1",
		CampaignID:   "c-1",
		Amount:       2500,
		InterestRate: 2.5,
		Duration:     24,
		Status:       model.Pending,
	}

	back := roundTrip(t, investment).(*model.Investment)
	assert.Equal(t, investment.Amount, back.Amount, "amount changed")
	assert.Equal(t, investment.InterestRate, back.InterestRate, "rate changed")
}

func TestUnpackRejectsUnknownTag(t *testing.T) {

	// varint tag 0x7f is beyond the defined kinds
	_, _, err := model.Packed{0x7f, 0x00}.Unpack()
	assert.Equal(t, fault.ErrInvalidKindTag, err, "unknown tag accepted")
}

func TestUnpackRejectsTruncated(t *testing.T) {

	house := &model.House{PostalCode: "2500AA", HouseNumber: "34", Address: "Aa Weg", Price: 1000}
	packed, _ := house.Pack()

	_, _, err := packed[:len(packed)-3].Unpack()
	assert.Error(t, err, "truncated record accepted")
}

func TestListUpdatesDeduplicate(t *testing.T) {

	user := &model.User{UserID: "u"}

	assert.True(t, user.AddLoanRequest("r1"), "first add did not change")
	assert.False(t, user.AddLoanRequest("r1"), "second add changed the list")
	assert.Equal(t, []string{"r1"}, user.LoanRequestIDs, "unexpected list")

	assert.True(t, user.RemoveLoanRequest("r1"), "remove did not change")
	assert.False(t, user.RemoveLoanRequest("r1"), "second remove changed the list")
	assert.Empty(t, user.LoanRequestIDs, "list not empty")

	mortgage := &model.Mortgage{MortgageID: "m"}
	assert.True(t, mortgage.AddInvestor("i1"), "first add did not change")
	assert.False(t, mortgage.AddInvestor("i1"), "second add changed the list")
}

func TestCampaignInvest(t *testing.T) {

	campaign := &model.Campaign{CampaignID: "c", Amount: 1000}

	campaign.Invest(400)
	assert.Equal(t, uint64(600), campaign.Amount, "wrong remaining amount")
	assert.False(t, campaign.Completed, "campaign completed early")

	campaign.Invest(600)
	assert.Equal(t, uint64(0), campaign.Amount, "wrong remaining amount")
	assert.True(t, campaign.Completed, "campaign not completed")
}
