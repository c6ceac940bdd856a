// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package payload

import (
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/model"
)

// API - an envelope routed through the single generic message
// channel: a model envelope plus the free text request tag naming the
// message kind
type API struct {
	Model
	request string
}

// NewAPI - build a tagged envelope
func NewAPI(request string, fields []string, models map[string]model.Model) (*API, error) {

	if "" == request {
		return nil, fault.ErrMalformedPayload
	}

	inner, err := New(fields, models)
	if nil != err {
		return nil, err
	}

	return &API{
		Model:   *inner,
		request: request,
	}, nil
}

// Request - the message kind tag
func (p *API) Request() string {
	return p.request
}

// Pack - canonical byte encoding: request tag then the model envelope
func (p *API) Pack() ([]byte, error) {

	inner, err := p.Model.Pack()
	if nil != err {
		return nil, err
	}

	buffer := appendString(nil, p.request)
	return append(buffer, inner...), nil
}

// UnpackAPI - decode a tagged envelope
func UnpackAPI(buffer []byte) (*API, error) {

	request, n, err := nextString(buffer)
	if nil != err {
		return nil, err
	}

	fields, models, innerLength, err := unpackModels(buffer[n:])
	if nil != err {
		return nil, err
	}
	if n+innerLength != len(buffer) {
		return nil, fault.ErrMalformedPayload
	}
	return NewAPI(request, fields, models)
}
