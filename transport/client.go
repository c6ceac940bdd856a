// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transport

import (
	"sync"
	"time"

	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
)

const sendTimeout = 5 * time.Second

// Client - delivers signed messages to peer addresses
//
// push sockets are cached per address; ZeroMQ reconnects under the
// hood so a cached socket survives a peer restart
type Client struct {
	sync.Mutex
	log           *logger.L
	privateKey    *account.PrivateKey
	listenAddress string
	sockets       map[string]*zmq.Socket
}

// NewClient - create a sender for one identity
func NewClient(privateKey *account.PrivateKey, listenAddress string) *Client {
	return &Client{
		log:           logger.New("transport-client"),
		privateKey:    privateKey,
		listenAddress: listenAddress,
		sockets:       make(map[string]*zmq.Socket),
	}
}

// Send - deliver one packed message to one address
func (client *Client) Send(address string, packed []byte) error {

	client.Lock()
	defer client.Unlock()

	socket, err := client.socket(address)
	if nil != err {
		return err
	}

	frames := Frames(client.privateKey, client.listenAddress, packed)
	_, err = socket.SendMessage(frames)
	if nil != err {
		client.log.Warnf("send: address: %s  error: %s", address, err)
		client.drop(address)
	}
	return err
}

// cached or freshly connected push socket; caller holds the lock
func (client *Client) socket(address string) (*zmq.Socket, error) {

	socket, ok := client.sockets[address]
	if ok {
		return socket, nil
	}

	socket, err := zmq.NewSocket(zmq.PUSH)
	if nil != err {
		return nil, err
	}
	_ = socket.SetLinger(0)
	_ = socket.SetSndtimeo(sendTimeout)

	err = socket.Connect(address)
	if nil != err {
		_ = socket.Close()
		return nil, err
	}

	client.sockets[address] = socket
	client.log.Debugf("connect: %s", address)
	return socket, nil
}

// caller holds the lock
func (client *Client) drop(address string) {
	socket, ok := client.sockets[address]
	if !ok {
		return
	}
	_ = socket.Close()
	delete(client.sockets, address)
}

// Close - release all sockets
func (client *Client) Close() {
	client.Lock()
	defer client.Unlock()
	for address := range client.sockets {
		client.drop(address)
	}
}
