// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package community

import (
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/model"
	"github.com/bitmark-inc/marketd/payload"
)

// a borrower asks this bank for mortgage offers
//
// the request arrives pre-stamped Pending for this bank; an already
// stored request is left untouched so a duplicate delivery cannot
// clobber a decision made in between
func (c *Community) onLoanRequest(message *payload.API) error {

	user, err := getUser(message)
	if nil != err {
		return err
	}
	house, err := getHouse(message)
	if nil != err {
		return err
	}
	profile, err := getProfile(message)
	if nil != err {
		return err
	}
	request, err := getLoanRequest(message)
	if nil != err {
		return err
	}

	err = c.store.Put(user)
	if nil != err {
		return err
	}
	err = c.store.Put(house)
	if nil != err {
		return err
	}
	err = c.store.Put(profile)
	if nil != err {
		return err
	}

	if c.store.Has(model.LoanRequestKind, request.ID()) {
		return nil
	}

	request.SetBankStatus(c.identity.String(), model.Pending)
	return c.store.Put(request)
}

// a bank declined this borrower's loan request
//
// only the stamping bank's entry of the status map is merged; the
// decisions of the other banks stay whatever the local copy says
func (c *Community) onLoanRequestReject(message *payload.API) error {

	bank, err := getUser(message)
	if nil != err {
		return err
	}
	remote, err := getLoanRequest(message)
	if nil != err {
		return err
	}

	err = c.store.Update(model.LoanRequestKind, remote.ID(), func(m model.Model) error {
		local := m.(*model.LoanRequest)
		local.SetBankStatus(bank.UserID, remote.BankStatus(bank.UserID))
		return nil
	})
	if nil != err {
		return err
	}

	// the request no longer counts towards the one-open-request rule
	return c.updateOwnUser(func(user *model.User) {
		user.RemoveLoanRequest(remote.ID())
	})
}

// a bank answered this borrower's loan request with an offer
func (c *Community) onMortgageOffer(message *payload.API) error {

	remote, err := getLoanRequest(message)
	if nil != err {
		return err
	}
	mortgage, err := getMortgage(message)
	if nil != err {
		return err
	}

	err = c.store.Update(model.LoanRequestKind, remote.ID(), func(m model.Model) error {
		local := m.(*model.LoanRequest)
		local.SetBankStatus(mortgage.Bank, remote.BankStatus(mortgage.Bank))
		return nil
	})
	if nil != err {
		return err
	}

	if !c.store.Has(model.MortgageKind, mortgage.ID()) {
		err = c.store.Put(mortgage)
		if nil != err {
			return err
		}
	}

	return c.updateOwnUser(func(user *model.User) {
		user.AddMortgage(mortgage.ID())
	})
}

// the borrower turned down this bank's offer
func (c *Community) onMortgageReject(message *payload.API) error {

	remote, err := getMortgage(message)
	if nil != err {
		return err
	}

	return c.store.Update(model.MortgageKind, remote.ID(), func(m model.Model) error {
		m.(*model.Mortgage).Status = model.Rejected
		return nil
	})
}

// the signed half of a mortgage acceptance
//
// the same message kind carries both directions of the exchange: the
// bank receives the half signed record, countersigns, appends and
// replies with the completed record; the borrower receives the
// completed record and appends its copy
func (c *Community) onMortgageAcceptSigned(message *payload.API) error {

	record, err := getSignedAgreement(message)
	if nil != err {
		return err
	}

	// completed record returning to the borrower
	if record.IsComplete() {
		if nil == record.Benefactor || !record.Benefactor.IsSame(c.identity) {
			return fault.ErrNotAgreementParty
		}
		return c.chain.Append(record)
	}

	// half signed record arriving at the bank
	if nil == record.Beneficiary || !record.Beneficiary.IsSame(c.identity) {
		return fault.ErrNotAgreementParty
	}

	user, err := getUser(message)
	if nil != err {
		return err
	}
	campaign, err := getCampaign(message)
	if nil != err {
		return err
	}
	mortgage, err := getMortgage(message)
	if nil != err {
		return err
	}

	err = c.store.Put(user)
	if nil != err {
		return err
	}
	err = c.store.Put(campaign)
	if nil != err {
		return err
	}
	err = c.store.Put(mortgage)
	if nil != err {
		return err
	}
	err = c.updateOwnUser(func(user *model.User) {
		user.AddCampaign(campaign.ID())
	})
	if nil != err {
		return err
	}

	// the request is fulfilled; it no longer awaits a decision here
	if c.store.Has(model.LoanRequestKind, mortgage.RequestID) {
		err = c.store.Delete(&model.LoanRequest{RequestID: mortgage.RequestID})
		if nil != err {
			return err
		}
	}

	// a duplicate delivery arrives already countersigned in the chain
	head, err := c.chain.Head(record.Benefactor, record.Beneficiary)
	if nil == err && head.SequenceBenefactor >= record.SequenceBenefactor {
		return nil
	}

	packed, err := mortgage.Pack()
	if nil != err {
		return err
	}
	err = c.chain.Countersign(record, packed)
	if nil != err {
		return err
	}
	err = c.chain.Append(record)
	if nil != err {
		return err
	}

	return c.send(MortgageAcceptSigned, []string{record.Benefactor.String()}, record)
}

// market wide announcement of an accepted mortgage and its campaign
//
// investors need the loan request and the borrower's record to judge
// the campaign; the two parties of the signed exchange already
// resolved the request and must not get it back
func (c *Community) onMortgageAcceptUnsigned(message *payload.API) error {

	borrower, err := getUser(message)
	if nil != err {
		return err
	}
	request, err := getLoanRequest(message)
	if nil != err {
		return err
	}
	campaign, err := getCampaign(message)
	if nil != err {
		return err
	}
	mortgage, err := getMortgage(message)
	if nil != err {
		return err
	}

	err = c.store.Put(borrower)
	if nil != err {
		return err
	}
	self := c.identity.String()
	if mortgage.Bank != self && request.UserKey != self && !c.store.Has(model.LoanRequestKind, request.ID()) {
		err = c.store.Put(request)
		if nil != err {
			return err
		}
	}
	if !c.store.Has(model.MortgageKind, mortgage.ID()) {
		err = c.store.Put(mortgage)
		if nil != err {
			return err
		}
	}
	if !c.store.Has(model.CampaignKind, campaign.ID()) {
		err = c.store.Put(campaign)
		if nil != err {
			return err
		}
	}

	return c.store.Update(model.UserKind, borrower.ID(), func(m model.Model) error {
		m.(*model.User).AddCampaign(campaign.ID())
		return nil
	})
}

// an investor bids into this borrower's campaign
func (c *Community) onInvestmentOffer(message *payload.API) error {

	investment, err := getInvestment(message)
	if nil != err {
		return err
	}

	if !c.store.Has(model.CampaignKind, investment.CampaignID) {
		return fault.ErrModelNotFound
	}

	if profile, err := getProfile(message); nil == err {
		err = c.store.Put(profile)
		if nil != err {
			return err
		}
	}

	if c.store.Has(model.InvestmentKind, investment.ID()) {
		return nil
	}
	return c.store.Put(investment)
}

// the campaign owner took this investor's bid
func (c *Community) onInvestmentAccept(message *payload.API) error {

	investment, err := getInvestment(message)
	if nil != err {
		return err
	}
	campaign, err := getCampaign(message)
	if nil != err {
		return err
	}

	err = c.store.Put(investment)
	if nil != err {
		return err
	}
	err = c.store.Put(campaign)
	if nil != err {
		return err
	}

	return c.updateOwnUser(func(user *model.User) {
		user.AddInvestment(investment.ID())
	})
}

// the campaign owner declined this investor's bid
func (c *Community) onInvestmentReject(message *payload.API) error {

	remote, err := getInvestment(message)
	if nil != err {
		return err
	}

	return c.store.Update(model.InvestmentKind, remote.ID(), func(m model.Model) error {
		m.(*model.Investment).Status = model.Rejected
		return nil
	})
}
