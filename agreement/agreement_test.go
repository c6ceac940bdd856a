// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package agreement_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/agreement"
	"github.com/bitmark-inc/marketd/digest"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/model"
	"github.com/bitmark-inc/marketd/storage"
)

const testingDirName = "testing"

func TestMain(m *testing.M) {

	_ = os.Mkdir(testingDirName, 0700)
	logging := logger.Configuration{
		Directory: testingDirName,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}
	_ = logger.Initialise(logging)

	rc := m.Run()

	logger.Finalise()
	_ = os.RemoveAll(testingDirName)
	os.Exit(rc)
}

// one party with its own chain over its own backend
type party struct {
	backend    storage.Backend
	privateKey *account.PrivateKey
	chain      *agreement.Chain
}

func newParty(t *testing.T) *party {
	t.Helper()

	_, privateKey, err := account.NewAccount(true)
	assert.NoError(t, err, "new account")

	backend := storage.NewMemory()
	chain, err := agreement.New(backend, privateKey)
	assert.NoError(t, err, "new chain")

	return &party{
		backend:    backend,
		privateKey: privateKey,
		chain:      chain,
	}
}

// run one full agreement exchange and append the result on both ends
func exchange(t *testing.T, user *party, bank *party, terms string) *model.SignedAgreement {
	t.Helper()

	record, err := user.chain.NewRecord(bank.chain.Identity(), []byte(terms))
	assert.NoError(t, err, "new record")
	assert.False(t, record.IsComplete(), "half signed")

	err = bank.chain.Countersign(record, []byte("accepted"))
	assert.NoError(t, err, "countersign")
	assert.True(t, record.IsComplete(), "complete")

	err = bank.chain.Append(record)
	assert.NoError(t, err, "append at bank")
	err = user.chain.Append(record)
	assert.NoError(t, err, "append at user")

	return record
}

func TestGenesisExchange(t *testing.T) {

	user := newParty(t)
	bank := newParty(t)

	record := exchange(t, user, bank, "mortgage terms")

	assert.Equal(t, uint64(0), record.SequenceBenefactor, "benefactor sequence")
	assert.Equal(t, uint64(0), record.SequenceBeneficiary, "beneficiary sequence")
	assert.Equal(t, digest.Genesis, record.PreviousBenefactor, "benefactor genesis link")
	assert.Equal(t, digest.Genesis, record.PreviousBeneficiary, "beneficiary genesis link")

	userHead, err := user.chain.Head(user.chain.Identity(), bank.chain.Identity())
	assert.NoError(t, err, "user head")
	bankHead, err := bank.chain.Head(user.chain.Identity(), bank.chain.Identity())
	assert.NoError(t, err, "bank head")

	userDigest, err := userHead.Digest()
	assert.NoError(t, err, "user digest")
	bankDigest, err := bankHead.Digest()
	assert.NoError(t, err, "bank digest")
	assert.Equal(t, userDigest, bankDigest, "both ends hold the same head")
}

func TestChainGrowth(t *testing.T) {

	user := newParty(t)
	bank := newParty(t)

	first := exchange(t, user, bank, "first")
	second := exchange(t, user, bank, "second")

	assert.Equal(t, uint64(1), second.SequenceBenefactor, "sequence")

	firstDigest, err := first.Digest()
	assert.NoError(t, err, "digest")
	assert.Equal(t, firstDigest, second.PreviousBenefactor, "hash link")
	assert.Equal(t, firstDigest, second.PreviousBeneficiary, "hash link")

	records, err := user.chain.Records(user.chain.Identity(), bank.chain.Identity())
	assert.NoError(t, err, "records")
	assert.Equal(t, 2, len(records), "record count")
	assert.Equal(t, []byte("first"), records[0].AgreementBenefactor, "order")
	assert.Equal(t, []byte("second"), records[1].AgreementBenefactor, "order")
}

func TestAppendIncomplete(t *testing.T) {

	user := newParty(t)
	bank := newParty(t)

	record, err := user.chain.NewRecord(bank.chain.Identity(), []byte("terms"))
	assert.NoError(t, err, "new record")

	err = user.chain.Append(record)
	assert.Equal(t, fault.ErrAgreementIsIncomplete, err, "append half signed")
}

func TestAppendDuplicate(t *testing.T) {

	user := newParty(t)
	bank := newParty(t)

	record := exchange(t, user, bank, "terms")

	err := user.chain.Append(record)
	assert.NoError(t, err, "re-append current head")

	records, err := user.chain.Records(user.chain.Identity(), bank.chain.Identity())
	assert.NoError(t, err, "records")
	assert.Equal(t, 1, len(records), "no duplicate stored")
}

func TestAppendStaleSequence(t *testing.T) {

	user := newParty(t)
	bank := newParty(t)

	// signed before the first exchange, delivered after it
	stale, err := user.chain.NewRecord(bank.chain.Identity(), []byte("stale"))
	assert.NoError(t, err, "new record")

	exchange(t, user, bank, "current")

	err = bank.chain.Countersign(stale, []byte("accepted"))
	assert.NoError(t, err, "countersign")

	err = bank.chain.Append(stale)
	assert.Equal(t, fault.ErrSequenceOutOfOrder, err, "stale record rejected")
}

func TestAppendBrokenHashLink(t *testing.T) {

	user := newParty(t)
	bank := newParty(t)

	exchange(t, user, bank, "first")

	// right sequence, wrong previous digest
	forged := &model.SignedAgreement{
		Benefactor:          user.chain.Identity(),
		Beneficiary:         bank.chain.Identity(),
		AgreementBenefactor: []byte("forged"),
		SequenceBenefactor:  1,
		PreviousBenefactor:  digest.Genesis,
		Time:                user.chain.Time() + 1,
	}
	forged.SignBenefactor(user.privateKey)

	err := bank.chain.Countersign(forged, []byte("accepted"))
	assert.NoError(t, err, "countersign")

	err = bank.chain.Append(forged)
	assert.Equal(t, fault.ErrPreviousHashMismatch, err, "broken link rejected")
}

func TestAppendTampered(t *testing.T) {

	user := newParty(t)
	bank := newParty(t)

	record, err := user.chain.NewRecord(bank.chain.Identity(), []byte("terms"))
	assert.NoError(t, err, "new record")
	err = bank.chain.Countersign(record, []byte("accepted"))
	assert.NoError(t, err, "countersign")

	record.AgreementBenefactor = []byte("better terms")

	err = bank.chain.Append(record)
	assert.Equal(t, fault.ErrInvalidSignature, err, "tampered record rejected")
}

func TestCountersignWrongParty(t *testing.T) {

	user := newParty(t)
	bank := newParty(t)
	other := newParty(t)

	record, err := user.chain.NewRecord(bank.chain.Identity(), []byte("terms"))
	assert.NoError(t, err, "new record")

	err = other.chain.Countersign(record, []byte("accepted"))
	assert.Equal(t, fault.ErrNotAgreementParty, err, "wrong beneficiary")
}

func TestAudit(t *testing.T) {

	user := newParty(t)
	bank := newParty(t)

	exchange(t, user, bank, "first")
	exchange(t, user, bank, "second")
	exchange(t, user, bank, "third")

	err := user.chain.Audit(user.chain.Identity(), bank.chain.Identity())
	assert.NoError(t, err, "audit at user")
	err = bank.chain.AuditAll()
	assert.NoError(t, err, "audit at bank")

	// a pair with no chain audits clean
	err = user.chain.Audit(bank.chain.Identity(), user.chain.Identity())
	assert.NoError(t, err, "empty chain")
}

func TestLogicalClock(t *testing.T) {

	user := newParty(t)
	bank := newParty(t)

	record := exchange(t, user, bank, "terms")

	assert.True(t, user.chain.Time() > record.Time, "sender advanced past signing time")
	assert.True(t, bank.chain.Time() > record.Time, "receiver advanced past signing time")

	// clock survives a reopen on the same backend
	reopened, err := agreement.New(user.backend, user.privateKey)
	assert.NoError(t, err, "reopen")
	assert.Equal(t, user.chain.Time(), reopened.Time(), "clock persisted")

	head, err := reopened.Head(user.chain.Identity(), bank.chain.Identity())
	assert.NoError(t, err, "head persisted")
	assert.Equal(t, record.SequenceBenefactor, head.SequenceBenefactor, "sequence persisted")
}
