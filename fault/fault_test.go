// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault_test

import (
	"testing"

	"github.com/bitmark-inc/marketd/fault"
)

// test that errors can be compared by identity
func TestErrorComparison(t *testing.T) {
	e1 := error(fault.ErrMalformedPayload)
	e2 := error(fault.ErrMalformedPayload)
	if e1 != e2 {
		t.Fatalf("identical errors do not compare equal")
	}
	if fault.ErrMalformedPayload == fault.ErrInvalidSignature {
		t.Fatalf("different errors compare equal")
	}
}

// test class detection by type assertion
func TestErrorClasses(t *testing.T) {
	if _, ok := error(fault.ErrLoanRequestAlreadyExists).(fault.ExistsError); !ok {
		t.Errorf("duplicate submission is not an exists error")
	}
	if _, ok := error(fault.ErrMalformedPayload).(fault.InvalidError); !ok {
		t.Errorf("malformed payload is not an invalid error")
	}
	if _, ok := error(fault.ErrModelNotFound).(fault.NotFoundError); !ok {
		t.Errorf("model not found is not a not-found error")
	}
	if _, ok := error(fault.ErrNotInitialised).(fault.ProcessError); !ok {
		t.Errorf("not initialised is not a process error")
	}
}
