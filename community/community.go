// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package community - protocol handlers of the mortgage marketplace
//
// every node runs the same handler set; the role a node plays in an
// exchange follows from which side of a message it is on, not from
// configuration
//
// handlers are idempotent: the delivery layer re-sends a message to
// receivers it already reached whenever a later receiver is still
// unknown, so every handler may run more than once per message
package community

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/agreement"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/mode"
	"github.com/bitmark-inc/marketd/model"
	"github.com/bitmark-inc/marketd/payload"
	"github.com/bitmark-inc/marketd/queue"
	"github.com/bitmark-inc/marketd/storage"
)

// Community - one node's view of the marketplace
type Community struct {
	log        *logger.L
	store      *storage.Store
	outgoing   *queue.Outgoing
	chain      *agreement.Chain
	identity   *account.Account
	privateKey *account.PrivateKey
}

// New - bind the handlers to their collaborators
func New(
	store *storage.Store,
	outgoing *queue.Outgoing,
	chain *agreement.Chain,
	privateKey *account.PrivateKey,
) *Community {
	return &Community{
		log:        logger.New("community"),
		store:      store,
		outgoing:   outgoing,
		chain:      chain,
		identity:   privateKey.Account(),
		privateKey: privateKey,
	}
}

// Identity - this node's market identity
func (c *Community) Identity() *account.Account {
	return c.identity
}

// Dispatch - route one incoming message to its handler
//
// satisfies the incoming queue's dispatcher; the request tag set is
// closed so anything unrecognised fails here
func (c *Community) Dispatch(message *payload.API) error {

	if mode.Is(mode.Stopped) {
		return fault.ErrNotAvailableDuringSynchronise
	}

	request, err := RequestFromString(message.Request())
	if nil != err {
		return err
	}

	c.log.Debugf("dispatch: %s", request)

	switch request {
	case LoanRequest:
		return c.onLoanRequest(message)
	case LoanRequestReject:
		return c.onLoanRequestReject(message)
	case MortgageOffer:
		return c.onMortgageOffer(message)
	case MortgageReject:
		return c.onMortgageReject(message)
	case MortgageAcceptSigned:
		return c.onMortgageAcceptSigned(message)
	case MortgageAcceptUnsigned:
		return c.onMortgageAcceptUnsigned(message)
	case InvestmentOffer:
		return c.onInvestmentOffer(message)
	case InvestmentAccept:
		return c.onInvestmentAccept(message)
	case InvestmentReject:
		return c.onInvestmentReject(message)
	default:
		return fault.ErrUnknownRequest
	}
}

// build an envelope from models, field names taken from the record
// kinds, and queue it
//
// during resynchronise replayed messages must not generate traffic,
// so sends silently drop outside Normal mode
func (c *Community) send(request Request, receivers []string, models ...model.Model) error {

	if mode.IsNot(mode.Normal) {
		c.log.Debugf("send suppressed: %s", request)
		return nil
	}

	fields := make([]string, 0, len(models))
	byField := make(map[string]model.Model, len(models))
	for _, m := range models {
		field := m.Kind().String()
		fields = append(fields, field)
		byField[field] = m
	}

	message, err := payload.NewAPI(request.String(), fields, byField)
	if nil != err {
		return err
	}
	return c.outgoing.Push(message, receivers)
}

// update this node's own user record, creating it on first use
func (c *Community) updateOwnUser(updater func(*model.User)) error {

	id := c.identity.String()

	err := c.store.Update(model.UserKind, id, func(m model.Model) error {
		updater(m.(*model.User))
		return nil
	})
	if fault.ErrModelNotFound == err {
		user := &model.User{UserID: id}
		updater(user)
		return c.store.Put(user)
	}
	return err
}

// ownUser - this node's user record, empty when nothing stored yet
func (c *Community) ownUser() *model.User {

	m, err := c.store.Get(model.UserKind, c.identity.String())
	if nil != err {
		return &model.User{UserID: c.identity.String()}
	}
	return m.(*model.User)
}

// typed payload extraction; a missing or mistyped field is a
// malformed message, not a handler bug

func getUser(message *payload.API) (*model.User, error) {
	m, ok := message.Get(model.UserKind.String())
	if !ok {
		return nil, fault.ErrMalformedPayload
	}
	user, ok := m.(*model.User)
	if !ok {
		return nil, fault.ErrUnexpectedModelKind
	}
	return user, nil
}

func getHouse(message *payload.API) (*model.House, error) {
	m, ok := message.Get(model.HouseKind.String())
	if !ok {
		return nil, fault.ErrMalformedPayload
	}
	house, ok := m.(*model.House)
	if !ok {
		return nil, fault.ErrUnexpectedModelKind
	}
	return house, nil
}

func getLoanRequest(message *payload.API) (*model.LoanRequest, error) {
	m, ok := message.Get(model.LoanRequestKind.String())
	if !ok {
		return nil, fault.ErrMalformedPayload
	}
	request, ok := m.(*model.LoanRequest)
	if !ok {
		return nil, fault.ErrUnexpectedModelKind
	}
	return request, nil
}

func getMortgage(message *payload.API) (*model.Mortgage, error) {
	m, ok := message.Get(model.MortgageKind.String())
	if !ok {
		return nil, fault.ErrMalformedPayload
	}
	mortgage, ok := m.(*model.Mortgage)
	if !ok {
		return nil, fault.ErrUnexpectedModelKind
	}
	return mortgage, nil
}

func getCampaign(message *payload.API) (*model.Campaign, error) {
	m, ok := message.Get(model.CampaignKind.String())
	if !ok {
		return nil, fault.ErrMalformedPayload
	}
	campaign, ok := m.(*model.Campaign)
	if !ok {
		return nil, fault.ErrUnexpectedModelKind
	}
	return campaign, nil
}

func getProfile(message *payload.API) (*model.BorrowersProfile, error) {
	m, ok := message.Get(model.BorrowersProfileKind.String())
	if !ok {
		return nil, fault.ErrMalformedPayload
	}
	profile, ok := m.(*model.BorrowersProfile)
	if !ok {
		return nil, fault.ErrUnexpectedModelKind
	}
	return profile, nil
}

func getInvestment(message *payload.API) (*model.Investment, error) {
	m, ok := message.Get(model.InvestmentKind.String())
	if !ok {
		return nil, fault.ErrMalformedPayload
	}
	investment, ok := m.(*model.Investment)
	if !ok {
		return nil, fault.ErrUnexpectedModelKind
	}
	return investment, nil
}

func getSignedAgreement(message *payload.API) (*model.SignedAgreement, error) {
	m, ok := message.Get(model.SignedAgreementKind.String())
	if !ok {
		return nil, fault.ErrMalformedPayload
	}
	record, ok := m.(*model.SignedAgreement)
	if !ok {
		return nil, fault.ErrUnexpectedModelKind
	}
	return record, nil
}
