// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package queue_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/model"
	"github.com/bitmark-inc/marketd/payload"
	"github.com/bitmark-inc/marketd/queue"
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

func message(t *testing.T, request string, userID string) *payload.API {
	t.Helper()
	api, err := payload.NewAPI(
		request,
		[]string{"user"},
		map[string]model.Model{"user": &model.User{UserID: userID}},
	)
	assert.NoError(t, err, "new api payload")
	return api
}

// records every dispatched request, optionally misbehaving on some
type stubDispatcher struct {
	handled []string
	failOn  string
	panicOn string
}

func (d *stubDispatcher) Dispatch(message *payload.API) error {
	user, _ := message.Get("user")
	d.handled = append(d.handled, user.ID())
	if d.failOn == message.Request() {
		return fault.ErrUnknownRequest
	}
	if d.panicOn == message.Request() {
		panic("handler exploded")
	}
	return nil
}

type stubResolver struct {
	addresses map[string]string
	peers     []string
}

func (r *stubResolver) Resolve(identity string) (string, error) {
	address, ok := r.addresses[identity]
	if !ok {
		return "", fault.ErrKeyNotFound
	}
	return address, nil
}

func (r *stubResolver) All() []string {
	return r.peers
}

type stubSender struct {
	sent map[string]int
	fail map[string]bool
}

func newStubSender() *stubSender {
	return &stubSender{
		sent: make(map[string]int),
		fail: make(map[string]bool),
	}
}

func (s *stubSender) Send(address string, packed []byte) error {
	if s.fail[address] {
		return fault.ErrKeyNotFound
	}
	s.sent[address] += 1
	return nil
}

func TestIncomingOrder(t *testing.T) {

	incoming := queue.NewIncoming(logger.New("test-incoming"))

	incoming.Enqueue(message(t, "loan_request", "alice"))
	incoming.Enqueue(message(t, "loan_request", "bob"))
	incoming.Enqueue(message(t, "mortgage_offer", "carol"))
	assert.Equal(t, 3, incoming.Length(), "queued")

	dispatcher := &stubDispatcher{}
	incoming.Process(dispatcher)

	assert.Equal(t, []string{"alice", "bob", "carol"}, dispatcher.handled, "arrival order")
	assert.Equal(t, 0, incoming.Length(), "drained")
	assert.Equal(t, uint64(3), incoming.Processed(), "processed count")
}

func TestIncomingErrorIsolation(t *testing.T) {

	incoming := queue.NewIncoming(logger.New("test-incoming"))

	incoming.Enqueue(message(t, "loan_request", "alice"))
	incoming.Enqueue(message(t, "bad_request", "bob"))
	incoming.Enqueue(message(t, "loan_request", "carol"))

	dispatcher := &stubDispatcher{failOn: "bad_request"}
	incoming.Process(dispatcher)

	assert.Equal(t, []string{"alice", "bob", "carol"}, dispatcher.handled, "error does not block later messages")
}

func TestIncomingPanicIsolation(t *testing.T) {

	incoming := queue.NewIncoming(logger.New("test-incoming"))

	incoming.Enqueue(message(t, "explosive", "alice"))
	incoming.Enqueue(message(t, "loan_request", "bob"))

	dispatcher := &stubDispatcher{panicOn: "explosive"}
	incoming.Process(dispatcher)

	assert.Equal(t, []string{"alice", "bob"}, dispatcher.handled, "panic does not block later messages")
}

func TestIncomingPacked(t *testing.T) {

	incoming := queue.NewIncoming(logger.New("test-incoming"))

	packed, err := message(t, "loan_request", "alice").Pack()
	assert.NoError(t, err, "pack")

	err = incoming.EnqueuePacked(packed)
	assert.NoError(t, err, "enqueue packed")
	assert.Equal(t, 1, incoming.Length(), "queued")

	err = incoming.EnqueuePacked([]byte{0xff, 0x01, 0x02})
	assert.Error(t, err, "garbage rejected")
	assert.Equal(t, 1, incoming.Length(), "garbage not queued")
}

func TestOutgoingDelivery(t *testing.T) {

	outgoing := queue.NewOutgoing(logger.New("test-outgoing"))

	err := outgoing.Push(message(t, "loan_request", "alice"), []string{"bank1", "bank2"})
	assert.NoError(t, err, "push")

	resolver := &stubResolver{addresses: map[string]string{
		"bank1": "addr1",
		"bank2": "addr2",
	}}
	sender := newStubSender()

	delivered := outgoing.Process(resolver, sender)
	assert.Equal(t, 1, delivered, "delivered")
	assert.Equal(t, 0, outgoing.Length(), "removed")
	assert.Equal(t, 1, sender.sent["addr1"], "bank1 reached")
	assert.Equal(t, 1, sender.sent["addr2"], "bank2 reached")
	assert.Equal(t, uint64(1), outgoing.Delivered(), "delivered count")
}

func TestOutgoingPartialDelivery(t *testing.T) {

	outgoing := queue.NewOutgoing(logger.New("test-outgoing"))

	err := outgoing.Push(message(t, "mortgage_offer", "alice"), []string{"bank1", "bank2"})
	assert.NoError(t, err, "push")

	// only bank1 is known yet
	resolver := &stubResolver{addresses: map[string]string{
		"bank1": "addr1",
	}}
	sender := newStubSender()

	delivered := outgoing.Process(resolver, sender)
	assert.Equal(t, 0, delivered, "not fully delivered")
	assert.Equal(t, 1, outgoing.Length(), "whole item retained")
	assert.Equal(t, 1, sender.sent["addr1"], "resolved receiver reached")

	// bank2 appears; bank1 receives a second copy
	resolver.addresses["bank2"] = "addr2"

	delivered = outgoing.Process(resolver, sender)
	assert.Equal(t, 1, delivered, "delivered")
	assert.Equal(t, 0, outgoing.Length(), "removed")
	assert.Equal(t, 2, sender.sent["addr1"], "duplicate to already reached receiver")
	assert.Equal(t, 1, sender.sent["addr2"], "late receiver reached")
}

func TestOutgoingSendFailureRetained(t *testing.T) {

	outgoing := queue.NewOutgoing(logger.New("test-outgoing"))

	err := outgoing.Push(message(t, "investment_offer", "alice"), []string{"bank1"})
	assert.NoError(t, err, "push")

	resolver := &stubResolver{addresses: map[string]string{
		"bank1": "addr1",
	}}
	sender := newStubSender()
	sender.fail["addr1"] = true

	delivered := outgoing.Process(resolver, sender)
	assert.Equal(t, 0, delivered, "send failed")
	assert.Equal(t, 1, outgoing.Length(), "retained for retry")

	sender.fail["addr1"] = false
	delivered = outgoing.Process(resolver, sender)
	assert.Equal(t, 1, delivered, "delivered on retry")
	assert.Equal(t, 0, outgoing.Length(), "removed")
}

func TestOutgoingBroadcast(t *testing.T) {

	outgoing := queue.NewOutgoing(logger.New("test-outgoing"))

	err := outgoing.Push(message(t, "loan_request", "alice"), nil)
	assert.NoError(t, err, "push")

	resolver := &stubResolver{peers: []string{"addr1", "addr2", "addr3"}}
	sender := newStubSender()

	delivered := outgoing.Process(resolver, sender)
	assert.Equal(t, 1, delivered, "broadcast counts as delivered")
	assert.Equal(t, 0, outgoing.Length(), "broadcast sent once")
	assert.Equal(t, 1, sender.sent["addr1"], "peer reached")
	assert.Equal(t, 1, sender.sent["addr2"], "peer reached")
	assert.Equal(t, 1, sender.sent["addr3"], "peer reached")
}

func TestOutgoingOrderPreserved(t *testing.T) {

	outgoing := queue.NewOutgoing(logger.New("test-outgoing"))

	// first item cannot resolve, second can
	err := outgoing.Push(message(t, "mortgage_offer", "alice"), []string{"unknown"})
	assert.NoError(t, err, "push")
	err = outgoing.Push(message(t, "loan_request", "bob"), []string{"bank1"})
	assert.NoError(t, err, "push")

	resolver := &stubResolver{addresses: map[string]string{
		"bank1": "addr1",
	}}
	sender := newStubSender()

	delivered := outgoing.Process(resolver, sender)
	assert.Equal(t, 1, delivered, "second item delivered past the stuck first")
	assert.Equal(t, 1, outgoing.Length(), "stuck item retained")
}
