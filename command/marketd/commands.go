// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/bitmark-inc/exitwithstatus"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/mode"
)

// commands that run before the configuration is loaded; returns true
// when the command was handled
func processSetupCommand(program string, arguments []string) bool {

	command := arguments[0]

	switch command {

	case "version":
		fmt.Println(version)
		return true

	case "help", "h", "?":
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [command]\n", program)
		fmt.Println()
		fmt.Println("commands:")
		fmt.Println("  help                    show this message")
		fmt.Println("  version                 show the version")
		fmt.Println("  generate-identity NET   create a signing key for a network (live, testing, local)")
		return true

	case "generate-identity":
		if 2 != len(arguments) {
			exitwithstatus.Message("%s: generate-identity needs a network name: live, testing or local", program)
		}
		network := arguments[1]
		test := false
		switch network {
		case mode.Live:
		case mode.Testing, mode.Local:
			test = true
		default:
			exitwithstatus.Message("%s: unknown network: %q", program, network)
		}

		identity, privateKey, err := account.NewAccount(test)
		if nil != err {
			exitwithstatus.Message("%s: identity generation failed: %s", program, err)
		}
		fmt.Printf("identity:    %s\n", identity)
		fmt.Printf("private_key: %s\n", privateKey)
		return true

	default:
		return false
	}
}
