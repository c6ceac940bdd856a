// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package payload - the generic envelopes moving records between
// peers
//
// one envelope shape carries any subset of record kinds for any
// message kind: the caller names the fields it is sending and the
// field list, not the record map, determines transmitted order and
// count
package payload

import (
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/model"
)

// Model - an envelope carrying a named subset of records
type Model struct {
	fields []string
	models map[string]model.Model
}

// New - build an envelope
//
// every name in fields must be present in models and refer to an
// actual record, otherwise construction fails with a malformed
// payload error; duplicate field names are malformed too
func New(fields []string, models map[string]model.Model) (*Model, error) {

	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if _, ok := seen[field]; ok {
			return nil, fault.ErrMalformedPayload
		}
		seen[field] = struct{}{}

		m, ok := models[field]
		if !ok || nil == m {
			return nil, fault.ErrMalformedPayload
		}
	}

	return &Model{
		fields: fields,
		models: models,
	}, nil
}

// Fields - the ordered field names
func (p *Model) Fields() []string {
	return p.fields
}

// Models - the carried records
func (p *Model) Models() map[string]model.Model {
	return p.models
}

// Get - the record for a field
func (p *Model) Get(field string) (model.Model, bool) {
	m, ok := p.models[field]
	return m, ok
}

// Pack - canonical byte encoding
//
// only the records named by the field list are transmitted, in field
// list order; records are self delimiting so no per-record length is
// needed
func (p *Model) Pack() ([]byte, error) {

	buffer := appendUint64(nil, uint64(len(p.fields)))
	for _, field := range p.fields {
		m, ok := p.models[field]
		if !ok || nil == m {
			return nil, fault.ErrMalformedPayload
		}
		packed, err := m.Pack()
		if nil != err {
			return nil, err
		}
		buffer = appendString(buffer, field)
		buffer = append(buffer, packed...)
	}
	return buffer, nil
}

// unpack the (fields, models) tail shared by both envelope forms
func unpackModels(buffer []byte) ([]string, map[string]model.Model, int, error) {

	count, n := fromVarint64(buffer)
	if 0 == n {
		return nil, nil, 0, fault.ErrMessageTooShort
	}
	if count > maxFieldCount {
		return nil, nil, 0, fault.ErrInvalidCount
	}

	fields := make([]string, 0, count)
	models := make(map[string]model.Model, count)

	for i := uint64(0); i < count; i += 1 {
		field, fieldLength, err := nextString(buffer[n:])
		if nil != err {
			return nil, nil, 0, err
		}
		n += fieldLength

		m, modelLength, err := model.Packed(buffer[n:]).Unpack()
		if nil != err {
			return nil, nil, 0, err
		}
		n += modelLength

		if _, ok := models[field]; ok {
			return nil, nil, 0, fault.ErrMalformedPayload
		}
		fields = append(fields, field)
		models[field] = m
	}
	return fields, models, n, nil
}

// Unpack - decode an envelope
func Unpack(buffer []byte) (*Model, error) {

	fields, models, n, err := unpackModels(buffer)
	if nil != err {
		return nil, err
	}
	if n != len(buffer) {
		return nil, fault.ErrMalformedPayload
	}
	return New(fields, models)
}
