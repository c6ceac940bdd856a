// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package model

import (
	"fmt"

	"github.com/bitmark-inc/marketd/fault"
)

// Status - state of a loan request entry, mortgage or investment
type Status uint64

// possible status values
const (
	NoStatus Status = iota // this must be the first value
	Pending
	Accepted
	Rejected
	maximumStatus // this must be the last value
)

// IsValid - check a decoded status value
func (status Status) IsValid() bool {
	return status < maximumStatus
}

// String - convert a status to its string form
func (status Status) String() string {
	switch status {
	case NoStatus:
		return ""
	case Pending:
		return "pending"
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	default:
		return "*invalid*"
	}
}

// GoString - status value and name, for debugging
func (status Status) GoString() string {
	return fmt.Sprintf("<Status#%d:%q>", uint64(status), status.String())
}

// MortgageType - repayment scheme of a requested mortgage
type MortgageType uint64

// possible mortgage types
const (
	NoMortgageType MortgageType = iota // this must be the first value
	Linear
	FixedRate
	maximumMortgageType // this must be the last value
)

// IsValid - check a decoded mortgage type
func (mortgageType MortgageType) IsValid() bool {
	return mortgageType > NoMortgageType && mortgageType < maximumMortgageType
}

// String - convert a mortgage type to its string form
func (mortgageType MortgageType) String() string {
	switch mortgageType {
	case Linear:
		return "linear"
	case FixedRate:
		return "fixed-rate"
	default:
		return "*invalid*"
	}
}

// MortgageTypeFromString - convert a string to a mortgage type
func MortgageTypeFromString(s string) (MortgageType, error) {
	switch s {
	case "linear":
		return Linear, nil
	case "fixed-rate":
		return FixedRate, nil
	default:
		return NoMortgageType, fault.ErrInvalidMortgageType
	}
}
