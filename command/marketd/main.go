// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/agreement"
	"github.com/bitmark-inc/marketd/announce"
	"github.com/bitmark-inc/marketd/background"
	"github.com/bitmark-inc/marketd/community"
	"github.com/bitmark-inc/marketd/mode"
	"github.com/bitmark-inc/marketd/queue"
	"github.com/bitmark-inc/marketd/storage"
	"github.com/bitmark-inc/marketd/transport"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// delivery cycle of the queue poller
const pollInterval = 100 * time.Millisecond

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// set the initial system mode - before any background tasks are started
	err = mode.Initialise(theConfiguration.Network)
	if nil != err {
		log.Criticalf("mode initialise error: %s", err)
		exitwithstatus.Message("mode initialise error: %s", err)
	}
	defer mode.Finalise()

	// the node identity
	privateKey, err := account.PrivateKeyFromHex(theConfiguration.PrivateKey)
	if nil != err {
		log.Criticalf("private key decode error: %s", err)
		exitwithstatus.Message("private key decode error: %s", err)
	}
	identity := privateKey.Account()
	if identity.Test != mode.IsTesting() {
		log.Critical("private key does not match the configured network")
		exitwithstatus.Message("private key does not match the configured network")
	}
	log.Infof("identity: %s", identity)

	// general info
	log.Infof("test mode: %v", mode.IsTesting())
	log.Infof("database: %q", theConfiguration.Database)

	// open the data storage
	log.Info("initialise storage")
	backend, err := storage.NewLevelDB(theConfiguration.Database.Name)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer backend.Close()
	store := storage.NewStore(backend)

	// the agreement chains share the record backend
	chain, err := agreement.New(backend, privateKey)
	if nil != err {
		log.Criticalf("agreement initialise error: %s", err)
		exitwithstatus.Message("agreement initialise error: %s", err)
	}

	// verify local chains before going near the network
	err = chain.AuditAll()
	if nil != err {
		log.Criticalf("agreement audit error: %s", err)
		exitwithstatus.Message("agreement audit error: %s", err)
	}

	// the peer registry, seeded from the static peer list
	log.Info("initialise announce")
	err = announce.Initialise(identity.String(), theConfiguration.Announce)
	if nil != err {
		log.Criticalf("announce initialise error: %s", err)
		exitwithstatus.Message("announce initialise error: %s", err)
	}
	defer announce.Finalise()
	for _, peer := range theConfiguration.Peers {
		announce.Set(peer.Identity, peer.Address)
	}

	// queues and transport
	incoming := queue.NewIncoming(logger.New("incoming"))
	outgoing := queue.NewOutgoing(logger.New("outgoing"))

	client := transport.NewClient(privateKey, theConfiguration.Announce)
	defer client.Close()

	receiver, err := transport.NewReceiver(theConfiguration.Listen, incoming)
	if nil != err {
		log.Criticalf("receiver initialise error: %s", err)
		exitwithstatus.Message("receiver initialise error: %s", err)
	}

	marketplace := community.New(store, outgoing, chain, privateKey)

	poller := queue.NewPoller(incoming, outgoing, marketplace, registryResolver{}, client, pollInterval)

	// start up the background processes
	processes := background.Processes{
		receiver,
		poller,
	}
	bg := background.Start(processes, nil)
	defer bg.Stop()

	mode.Set(mode.Normal)

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
	mode.Set(mode.Stopped)
}

// adapt the announce registry to the queue's resolver
type registryResolver struct{}

func (registryResolver) Resolve(identity string) (string, error) {
	return announce.Resolve(identity)
}

func (registryResolver) All() []string {
	entries := announce.All()
	addresses := make([]string, 0, len(entries))
	for _, entry := range entries {
		addresses = append(addresses, entry.Address)
	}
	return addresses
}
