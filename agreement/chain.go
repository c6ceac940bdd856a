// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package agreement

import (
	"encoding/binary"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/digest"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/model"
	"github.com/bitmark-inc/marketd/storage"
)

// key prefixes inside the backend, disjoint from the record store
const (
	headPrefix   = 'G'
	recordPrefix = 'R'
	statePrefix  = 'T'
)

// Chain - the local holder's view of all its pairwise agreement
// chains
type Chain struct {
	sync.Mutex
	log        *logger.L
	records    *storage.Pool
	heads      *storage.Pool
	clock      *clock
	identity   *account.Account
	privateKey *account.PrivateKey
}

// New - open the chains stored in a backend on behalf of one identity
func New(backend storage.Backend, privateKey *account.PrivateKey) (*Chain, error) {

	clock, err := newClock(storage.NewPool(backend, statePrefix))
	if nil != err {
		return nil, err
	}

	return &Chain{
		log:        logger.New("agreement"),
		records:    storage.NewPool(backend, recordPrefix),
		heads:      storage.NewPool(backend, headPrefix),
		clock:      clock,
		identity:   privateKey.Account(),
		privateKey: privateKey,
	}, nil
}

// Identity - the account this chain signs for
func (chain *Chain) Identity() *account.Account {
	return chain.identity
}

// Time - current logical time
func (chain *Chain) Time() uint64 {
	return chain.clock.time()
}

// one chain per ordered pair
func pairKey(benefactor *account.Account, beneficiary *account.Account) []byte {
	return []byte(benefactor.String() + "|" + beneficiary.String())
}

// pair key and sequence number, big endian so List returns records in
// chain order
func recordKey(pair []byte, sequence uint64) []byte {
	key := make([]byte, 0, len(pair)+9)
	key = append(key, pair...)
	key = append(key, 0x00)
	seq := make([]byte, 8)
	binary.BigEndian.PutUint64(seq, sequence)
	return append(key, seq...)
}

func unpackRecord(packed []byte) (*model.SignedAgreement, error) {
	m, _, err := model.Packed(packed).Unpack()
	if nil != err {
		return nil, err
	}
	record, ok := m.(*model.SignedAgreement)
	if !ok {
		return nil, fault.ErrUnexpectedModelKind
	}
	return record, nil
}

// head of one pair chain without taking the lock
func (chain *Chain) head(pair []byte) (*model.SignedAgreement, error) {
	packed, err := chain.heads.Get(pair)
	if fault.ErrKeyNotFound == err {
		return nil, fault.ErrModelNotFound
	}
	if nil != err {
		return nil, err
	}
	return unpackRecord(packed)
}

// Head - the most recent record of one pair chain;
// fault.ErrModelNotFound when the pair has no chain yet
func (chain *Chain) Head(benefactor *account.Account, beneficiary *account.Account) (*model.SignedAgreement, error) {
	chain.Lock()
	defer chain.Unlock()
	return chain.head(pairKey(benefactor, beneficiary))
}

// NewRecord - build and sign the benefactor half of the next record
// on the chain towards a beneficiary
//
// the record is not stored here; it enters the chain through Append
// once the beneficiary has countersigned it
func (chain *Chain) NewRecord(beneficiary *account.Account, commitment []byte) (*model.SignedAgreement, error) {

	if nil == beneficiary || beneficiary.IsSame(chain.identity) {
		return nil, fault.ErrNotAgreementParty
	}

	chain.Lock()
	defer chain.Unlock()

	sequence := uint64(0)
	previous := digest.Genesis

	head, err := chain.head(pairKey(chain.identity, beneficiary))
	if nil == err {
		sequence = head.SequenceBenefactor + 1
		previous, err = head.Digest()
		if nil != err {
			return nil, err
		}
	} else if fault.ErrModelNotFound != err {
		return nil, err
	}

	now, err := chain.clock.tick()
	if nil != err {
		return nil, err
	}

	record := &model.SignedAgreement{
		Benefactor:          chain.identity,
		Beneficiary:         beneficiary,
		AgreementBenefactor: commitment,
		SequenceBenefactor:  sequence,
		PreviousBenefactor:  previous,
		Time:                now,
	}
	record.SignBenefactor(chain.privateKey)

	chain.log.Infof("new record: pair: %s -> %s  sequence: %d", chain.identity, beneficiary, sequence)
	return record, nil
}

// Countersign - complete a half signed record addressed to this
// identity
//
// fills the beneficiary side from the local view of the pair chain
// and countersigns over the whole record; merges the sender's logical
// time
func (chain *Chain) Countersign(record *model.SignedAgreement, commitment []byte) error {

	if nil == record || nil == record.Beneficiary || !record.Beneficiary.IsSame(chain.identity) {
		return fault.ErrNotAgreementParty
	}

	err := record.Verify()
	if nil != err {
		return err
	}

	chain.Lock()
	defer chain.Unlock()

	sequence := uint64(0)
	previous := digest.Genesis

	head, err := chain.head(pairKey(record.Benefactor, record.Beneficiary))
	if nil == err {
		sequence = head.SequenceBeneficiary + 1
		previous, err = head.Digest()
		if nil != err {
			return err
		}
	} else if fault.ErrModelNotFound != err {
		return err
	}

	err = chain.clock.observe(record.Time)
	if nil != err {
		return err
	}

	record.AgreementBeneficiary = commitment
	record.SequenceBeneficiary = sequence
	record.PreviousBeneficiary = previous
	record.SignBeneficiary(chain.privateKey)

	chain.log.Infof("countersigned: pair: %s -> %s  sequence: %d", record.Benefactor, record.Beneficiary, record.SequenceBenefactor)
	return nil
}

// Append - validate a completed record and make it the new head of
// its pair chain
//
// validation order: completeness, signatures, sequence continuity,
// previous digest links; re-appending the current head is a no-op so
// duplicate deliveries are harmless
func (chain *Chain) Append(record *model.SignedAgreement) error {

	if nil == record {
		return fault.ErrAgreementIsIncomplete
	}
	if !record.IsComplete() {
		return fault.ErrAgreementIsIncomplete
	}

	err := record.Verify()
	if nil != err {
		return err
	}

	recordDigest, err := record.Digest()
	if nil != err {
		return err
	}

	chain.Lock()
	defer chain.Unlock()

	pair := pairKey(record.Benefactor, record.Beneficiary)

	head, err := chain.head(pair)
	switch err {

	case nil:
		headDigest, err := head.Digest()
		if nil != err {
			return err
		}
		if recordDigest == headDigest {
			return nil
		}
		if record.SequenceBenefactor != head.SequenceBenefactor+1 ||
			record.SequenceBeneficiary != head.SequenceBeneficiary+1 {
			return fault.ErrSequenceOutOfOrder
		}
		if record.PreviousBenefactor != headDigest ||
			record.PreviousBeneficiary != headDigest {
			return fault.ErrPreviousHashMismatch
		}

	case fault.ErrModelNotFound:
		if 0 != record.SequenceBenefactor || 0 != record.SequenceBeneficiary {
			return fault.ErrSequenceOutOfOrder
		}
		if digest.Genesis != record.PreviousBenefactor ||
			digest.Genesis != record.PreviousBeneficiary {
			return fault.ErrPreviousHashMismatch
		}

	default:
		return err
	}

	packed, err := record.Pack()
	if nil != err {
		return err
	}

	err = chain.records.Put(recordKey(pair, record.SequenceBenefactor), packed)
	if nil != err {
		return err
	}
	err = chain.heads.Put(pair, packed)
	if nil != err {
		return err
	}

	err = chain.clock.observe(record.Time)
	if nil != err {
		return err
	}

	chain.log.Infof("appended: pair: %s -> %s  sequence: %d  digest: %s",
		record.Benefactor, record.Beneficiary, record.SequenceBenefactor, recordDigest)
	return nil
}

// Records - all records of one pair chain in sequence order
func (chain *Chain) Records(benefactor *account.Account, beneficiary *account.Account) ([]*model.SignedAgreement, error) {

	chain.Lock()
	defer chain.Unlock()

	pair := append(pairKey(benefactor, beneficiary), 0x00)

	elements, err := chain.records.List()
	if nil != err {
		return nil, err
	}

	records := make([]*model.SignedAgreement, 0, len(elements))
	for _, element := range elements {
		if len(element.Key) != len(pair)+8 || string(element.Key[:len(pair)]) != string(pair) {
			continue
		}
		record, err := unpackRecord(element.Value)
		if nil != err {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// Pairs - the pair labels of every chain held locally
func (chain *Chain) Pairs() ([]string, error) {

	chain.Lock()
	defer chain.Unlock()

	elements, err := chain.heads.List()
	if nil != err {
		return nil, err
	}

	pairs := make([]string, 0, len(elements))
	for _, element := range elements {
		pairs = append(pairs, string(element.Key))
	}
	return pairs, nil
}

// Audit - replay one pair chain from genesis and verify every link
//
// any gap, broken digest link, bad signature or head divergence
// yields an error; an empty chain audits clean
func (chain *Chain) Audit(benefactor *account.Account, beneficiary *account.Account) error {

	records, err := chain.Records(benefactor, beneficiary)
	if nil != err {
		return err
	}

	chain.Lock()
	defer chain.Unlock()

	head, err := chain.head(pairKey(benefactor, beneficiary))
	if fault.ErrModelNotFound == err {
		if 0 != len(records) {
			return fault.ErrInvalidChain
		}
		return nil
	}
	if nil != err {
		return err
	}

	if 0 == len(records) {
		return fault.ErrInvalidChain
	}

	previous := digest.Genesis
	for i, record := range records {

		if uint64(i) != record.SequenceBenefactor || uint64(i) != record.SequenceBeneficiary {
			return fault.ErrSequenceOutOfOrder
		}
		if previous != record.PreviousBenefactor || previous != record.PreviousBeneficiary {
			return fault.ErrPreviousHashMismatch
		}
		if !record.IsComplete() {
			return fault.ErrAgreementIsIncomplete
		}
		err = record.Verify()
		if nil != err {
			return err
		}

		previous, err = record.Digest()
		if nil != err {
			return err
		}
	}

	headDigest, err := head.Digest()
	if nil != err {
		return err
	}
	if previous != headDigest {
		return fault.ErrInvalidChain
	}
	return nil
}

// AuditAll - audit every pair chain held locally
func (chain *Chain) AuditAll() error {

	pairs, err := chain.Pairs()
	if nil != err {
		return err
	}

	for _, pair := range pairs {

		i := 0
		for ; i < len(pair); i += 1 {
			if '|' == pair[i] {
				break
			}
		}
		if i >= len(pair) {
			return fault.ErrInvalidChain
		}

		benefactor, err := account.AccountFromBase58(pair[:i])
		if nil != err {
			return err
		}
		beneficiary, err := account.AccountFromBase58(pair[i+1:])
		if nil != err {
			return err
		}

		err = chain.Audit(benefactor, beneficiary)
		if nil != err {
			chain.log.Errorf("audit failed: pair: %s  error: %s", pair, err)
			return err
		}
	}
	return nil
}
