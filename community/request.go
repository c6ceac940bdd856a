// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package community

import (
	"github.com/bitmark-inc/marketd/fault"
)

// Request - the kind of a community message
//
// the set is closed: an unrecognised tag is rejected at dispatch and
// never reaches a handler
type Request int

// all possible message kinds
const (
	InvalidRequest Request = iota
	LoanRequest
	LoanRequestReject
	MortgageOffer
	MortgageReject
	MortgageAcceptSigned
	MortgageAcceptUnsigned
	InvestmentOffer
	InvestmentAccept
	InvestmentReject
)

var requestTags = map[Request]string{
	LoanRequest:            "loan_request",
	LoanRequestReject:      "loan_request_reject",
	MortgageOffer:          "mortgage_offer",
	MortgageReject:         "mortgage_reject",
	MortgageAcceptSigned:   "mortgage_accept_signed",
	MortgageAcceptUnsigned: "mortgage_accept_unsigned",
	InvestmentOffer:        "investment_offer",
	InvestmentAccept:       "investment_accept",
	InvestmentReject:       "investment_reject",
}

var tagRequests = map[string]Request{}

func init() {
	for request, tag := range requestTags {
		tagRequests[tag] = request
	}
}

// String - the wire tag of a request
func (request Request) String() string {
	tag, ok := requestTags[request]
	if !ok {
		return "*unknown*"
	}
	return tag
}

// RequestFromString - parse a wire tag
func RequestFromString(tag string) (Request, error) {
	request, ok := tagRequests[tag]
	if !ok {
		return InvalidRequest, fault.ErrUnknownRequest
	}
	return request, nil
}
