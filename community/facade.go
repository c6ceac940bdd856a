// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package community

import (
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/mode"
	"github.com/bitmark-inc/marketd/model"
)

// local operations initiated on this node; all refuse to run outside
// Normal mode since they generate market traffic

func (c *Community) guard() error {
	if mode.IsNot(mode.Normal) {
		return fault.ErrNotAvailableDuringSynchronise
	}
	return nil
}

// SubmitLoanRequest - ask a set of banks for mortgage offers
//
// one open request per borrower: a second submission is refused until
// the first one is resolved
func (c *Community) SubmitLoanRequest(
	house *model.House,
	profile *model.BorrowersProfile,
	request *model.LoanRequest,
) error {

	err := c.guard()
	if nil != err {
		return err
	}
	if 0 == len(request.Banks) {
		return fault.ErrInvalidCount
	}

	// rejected or fulfilled requests drop off the own id list, so
	// the list holds at most the one still open request
	if 0 != len(c.ownUser().LoanRequestIDs) {
		return fault.ErrLoanRequestAlreadyExists
	}

	if "" == request.RequestID {
		request.RequestID = model.NewID()
	}
	request.UserKey = c.identity.String()
	request.HouseID = house.ID()
	request.Status = nil
	for _, bank := range request.Banks {
		request.SetBankStatus(bank, model.Pending)
	}

	err = c.store.Put(house)
	if nil != err {
		return err
	}
	err = c.store.Put(profile)
	if nil != err {
		return err
	}
	err = c.store.Put(request)
	if nil != err {
		return err
	}
	err = c.updateOwnUser(func(user *model.User) {
		user.AddLoanRequest(request.ID())
	})
	if nil != err {
		return err
	}

	return c.send(LoanRequest, request.Banks, c.ownUser(), house, profile, request)
}

// RejectLoanRequest - decline a borrower's request (bank side)
func (c *Community) RejectLoanRequest(requestID string) error {

	err := c.guard()
	if nil != err {
		return err
	}

	err = c.store.Update(model.LoanRequestKind, requestID, func(m model.Model) error {
		m.(*model.LoanRequest).SetBankStatus(c.identity.String(), model.Rejected)
		return nil
	})
	if nil != err {
		return err
	}

	m, err := c.store.Get(model.LoanRequestKind, requestID)
	if nil != err {
		return err
	}
	request := m.(*model.LoanRequest)

	return c.send(LoanRequestReject, []string{request.UserKey}, c.ownUser(), request)
}

// OfferMortgage - answer a borrower's request with an offer (bank
// side); fills the linkage fields from the request
func (c *Community) OfferMortgage(requestID string, mortgage *model.Mortgage) error {

	err := c.guard()
	if nil != err {
		return err
	}

	err = c.store.Update(model.LoanRequestKind, requestID, func(m model.Model) error {
		m.(*model.LoanRequest).SetBankStatus(c.identity.String(), model.Accepted)
		return nil
	})
	if nil != err {
		return err
	}

	m, err := c.store.Get(model.LoanRequestKind, requestID)
	if nil != err {
		return err
	}
	request := m.(*model.LoanRequest)

	if "" == mortgage.MortgageID {
		mortgage.MortgageID = model.NewID()
	}
	mortgage.RequestID = request.ID()
	mortgage.HouseID = request.HouseID
	mortgage.Bank = c.identity.String()
	mortgage.Status = model.Pending

	err = c.store.Put(mortgage)
	if nil != err {
		return err
	}
	err = c.updateOwnUser(func(user *model.User) {
		user.AddMortgage(mortgage.ID())
	})
	if nil != err {
		return err
	}

	return c.send(MortgageOffer, []string{request.UserKey}, request, mortgage)
}

// AcceptMortgage - take a bank's offer (borrower side)
//
// opens the investment campaign, signs the benefactor half of the
// agreement towards the bank and announces the accepted mortgage to
// the whole market
func (c *Community) AcceptMortgage(mortgageID string, amount uint64, endDate uint64) (*model.Campaign, error) {

	err := c.guard()
	if nil != err {
		return nil, err
	}

	m, err := c.store.Get(model.MortgageKind, mortgageID)
	if nil != err {
		return nil, err
	}
	mortgage := m.(*model.Mortgage)
	if model.Pending != mortgage.Status {
		return nil, fault.ErrInvalidStatus
	}

	mortgage.Status = model.Accepted
	err = c.store.Put(mortgage)
	if nil != err {
		return nil, err
	}

	// the request is fulfilled, stop tracking it locally; the market
	// announcement still carries it for the investors
	m, err = c.store.Get(model.LoanRequestKind, mortgage.RequestID)
	if nil != err {
		return nil, err
	}
	request := m.(*model.LoanRequest)
	err = c.store.Delete(request)
	if nil != err {
		return nil, err
	}

	campaign := &model.Campaign{
		CampaignID: model.NewID(),
		MortgageID: mortgage.ID(),
		UserKey:    c.identity.String(),
		Amount:     amount,
		EndDate:    endDate,
	}
	err = c.store.Put(campaign)
	if nil != err {
		return nil, err
	}

	err = c.updateOwnUser(func(user *model.User) {
		user.RemoveLoanRequest(request.ID())
		user.AddCampaign(campaign.ID())
	})
	if nil != err {
		return nil, err
	}

	bank, err := account.AccountFromBase58(mortgage.Bank)
	if nil != err {
		return nil, err
	}
	packed, err := mortgage.Pack()
	if nil != err {
		return nil, err
	}
	record, err := c.chain.NewRecord(bank, packed)
	if nil != err {
		return nil, err
	}

	err = c.send(MortgageAcceptSigned, []string{mortgage.Bank}, c.ownUser(), campaign, mortgage, record)
	if nil != err {
		return nil, err
	}
	err = c.send(MortgageAcceptUnsigned, nil, c.ownUser(), request, campaign, mortgage)
	if nil != err {
		return nil, err
	}
	return campaign, nil
}

// RejectMortgage - turn down a bank's offer (borrower side)
func (c *Community) RejectMortgage(mortgageID string) error {

	err := c.guard()
	if nil != err {
		return err
	}

	err = c.store.Update(model.MortgageKind, mortgageID, func(m model.Model) error {
		m.(*model.Mortgage).Status = model.Rejected
		return nil
	})
	if nil != err {
		return err
	}

	m, err := c.store.Get(model.MortgageKind, mortgageID)
	if nil != err {
		return err
	}
	mortgage := m.(*model.Mortgage)

	return c.send(MortgageReject, []string{mortgage.Bank}, mortgage)
}

// OfferInvestment - bid into a running campaign (investor side)
func (c *Community) OfferInvestment(
	campaignID string,
	amount uint64,
	interestRate float64,
	duration uint64,
) (*model.Investment, error) {

	err := c.guard()
	if nil != err {
		return nil, err
	}

	m, err := c.store.Get(model.CampaignKind, campaignID)
	if nil != err {
		return nil, err
	}
	campaign := m.(*model.Campaign)
	if campaign.Completed {
		return nil, fault.ErrInvalidStatus
	}

	investment := &model.Investment{
		InvestmentID: model.NewID(),
		InvestorKey:  c.identity.String(),
		MortgageID:   campaign.MortgageID,
		CampaignID:   campaign.ID(),
		Amount:       amount,
		InterestRate: interestRate,
		Duration:     duration,
		Status:       model.Pending,
	}
	err = c.store.Put(investment)
	if nil != err {
		return nil, err
	}
	err = c.updateOwnUser(func(user *model.User) {
		user.AddInvestment(investment.ID())
	})
	if nil != err {
		return nil, err
	}

	err = c.send(InvestmentOffer, []string{campaign.UserKey}, investment)
	if nil != err {
		return nil, err
	}
	return investment, nil
}

// AcceptInvestment - take an investor's bid (campaign owner side)
func (c *Community) AcceptInvestment(investmentID string) error {

	err := c.guard()
	if nil != err {
		return err
	}

	m, err := c.store.Get(model.InvestmentKind, investmentID)
	if nil != err {
		return err
	}
	investment := m.(*model.Investment)
	if model.Pending != investment.Status {
		return fault.ErrInvalidStatus
	}

	m, err = c.store.Get(model.CampaignKind, investment.CampaignID)
	if nil != err {
		return err
	}
	campaign := m.(*model.Campaign)
	if campaign.UserKey != c.identity.String() {
		return fault.ErrNotAgreementParty
	}

	campaign.Invest(investment.Amount)
	err = c.store.Put(campaign)
	if nil != err {
		return err
	}

	investment.Status = model.Accepted
	err = c.store.Put(investment)
	if nil != err {
		return err
	}

	err = c.store.Update(model.MortgageKind, investment.MortgageID, func(m model.Model) error {
		m.(*model.Mortgage).AddInvestor(investment.InvestorKey)
		return nil
	})
	if nil != err {
		return err
	}

	return c.send(InvestmentAccept, []string{investment.InvestorKey}, investment, campaign)
}

// RejectInvestment - decline an investor's bid (campaign owner side)
func (c *Community) RejectInvestment(investmentID string) error {

	err := c.guard()
	if nil != err {
		return err
	}

	err = c.store.Update(model.InvestmentKind, investmentID, func(m model.Model) error {
		m.(*model.Investment).Status = model.Rejected
		return nil
	})
	if nil != err {
		return err
	}

	m, err := c.store.Get(model.InvestmentKind, investmentID)
	if nil != err {
		return err
	}
	investment := m.(*model.Investment)

	return c.send(InvestmentReject, []string{investment.InvestorKey}, investment)
}

// PendingLoanRequests - requests still awaiting this bank's decision
func (c *Community) PendingLoanRequests() ([]*model.LoanRequest, error) {

	records, err := c.store.List(model.LoanRequestKind)
	if nil != err {
		return nil, err
	}

	pending := make([]*model.LoanRequest, 0, len(records))
	for _, m := range records {
		request := m.(*model.LoanRequest)
		if model.Pending == request.BankStatus(c.identity.String()) {
			pending = append(pending, request)
		}
	}
	return pending, nil
}

// OpenMarket - campaigns still accepting investments
func (c *Community) OpenMarket() ([]*model.Campaign, error) {

	records, err := c.store.List(model.CampaignKind)
	if nil != err {
		return nil, err
	}

	open := make([]*model.Campaign, 0, len(records))
	for _, m := range records {
		campaign := m.(*model.Campaign)
		if !campaign.Completed {
			open = append(open, campaign)
		}
	}
	return open, nil
}
