// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// offline companion tool for marketd: key generation, account
// inspection and agreement chain auditing
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/agreement"
	"github.com/bitmark-inc/marketd/configuration"
	"github.com/bitmark-inc/marketd/mode"
	"github.com/bitmark-inc/marketd/storage"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	defer exitwithstatus.Handler()

	app := cli.NewApp()
	app.Name = "market-cli"
	app.Usage = "mortgage market maintenance tool"
	app.Version = version

	app.Commands = []cli.Command{
		{
			Name:      "generate",
			Usage:     "create a signing key for a network (live, testing, local)",
			ArgsUsage: "NETWORK",
			Action:    runGenerate,
		},
		{
			Name:      "account",
			Usage:     "decode a base58 account",
			ArgsUsage: "ACCOUNT",
			Action:    runAccount,
		},
		{
			Name:  "audit",
			Usage: "verify every local agreement chain (marketd must not be running)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "config-file, c",
					Usage: "marketd configuration `FILE`",
				},
			},
			Action: runAudit,
		},
	}

	if err := app.Run(os.Args); nil != err {
		exitwithstatus.Message("market-cli: error: %s", err)
	}
}

func runGenerate(c *cli.Context) error {

	network := c.Args().First()
	test := false
	switch network {
	case mode.Live:
	case mode.Testing, mode.Local:
		test = true
	default:
		return fmt.Errorf("unknown network: %q", network)
	}

	identity, privateKey, err := account.NewAccount(test)
	if nil != err {
		return err
	}
	fmt.Printf("identity:    %s\n", identity)
	fmt.Printf("private_key: %s\n", privateKey)
	return nil
}

func runAccount(c *cli.Context) error {

	identity, err := account.AccountFromBase58(c.Args().First())
	if nil != err {
		return err
	}
	fmt.Printf("test network: %v\n", identity.Test)
	fmt.Printf("public key:   %s\n", hex.EncodeToString(identity.PublicKey))
	return nil
}

// subset of the daemon configuration the audit needs
type auditConfiguration struct {
	DataDirectory string               `gluamapper:"data_directory"`
	Network       string               `gluamapper:"network"`
	PrivateKey    string               `gluamapper:"private_key"`
	Database      auditDatabase        `gluamapper:"database"`
	Logging       logger.Configuration `gluamapper:"logging"`
}

type auditDatabase struct {
	Directory string `gluamapper:"directory"`
	Name      string `gluamapper:"name"`
}

func runAudit(c *cli.Context) error {

	configurationFile := c.String("config-file")
	if "" == configurationFile {
		return fmt.Errorf("a config-file is required")
	}
	configurationFile, err := filepath.Abs(filepath.Clean(configurationFile))
	if nil != err {
		return err
	}
	configDirectory, _ := filepath.Split(configurationFile)

	config := &auditConfiguration{}
	err = configuration.ParseConfigurationFile(configurationFile, config)
	if nil != err {
		return err
	}

	dataDirectory := config.DataDirectory
	if "." == dataDirectory || "" == dataDirectory {
		dataDirectory = configDirectory
	}
	databasePath := config.Database.Name
	if !filepath.IsAbs(databasePath) {
		databasePath = filepath.Join(dataDirectory, config.Database.Directory, config.Database.Name)
	}

	logging := config.Logging
	if "" == logging.Directory {
		logging.Directory = os.TempDir()
	} else if !filepath.IsAbs(logging.Directory) {
		logging.Directory = filepath.Join(dataDirectory, logging.Directory)
	}
	if "" == logging.File {
		logging.File = "market-cli.log"
	}
	if 0 == logging.Size {
		logging.Size = 1024 * 1024
	}
	if 0 == logging.Count {
		logging.Count = 10
	}
	err = logger.Initialise(logging)
	if nil != err {
		return err
	}
	defer logger.Finalise()

	privateKey, err := account.PrivateKeyFromHex(config.PrivateKey)
	if nil != err {
		return err
	}

	backend, err := storage.NewLevelDB(databasePath)
	if nil != err {
		return err
	}
	defer backend.Close()

	chain, err := agreement.New(backend, privateKey)
	if nil != err {
		return err
	}

	pairs, err := chain.Pairs()
	if nil != err {
		return err
	}
	if 0 == len(pairs) {
		fmt.Println("no agreement chains")
		return nil
	}

	err = chain.AuditAll()
	if nil != err {
		return fmt.Errorf("audit failed: %s", err)
	}

	for _, pair := range pairs {
		fmt.Printf("ok: %s\n", pair)
	}
	fmt.Printf("%d chain(s) verified\n", len(pairs))
	return nil
}
