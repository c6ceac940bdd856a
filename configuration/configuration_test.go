// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/marketd/configuration"
)

type testPeer struct {
	Identity string `gluamapper:"identity"`
	Address  string `gluamapper:"address"`
}

type testConfiguration struct {
	Network string     `gluamapper:"network"`
	Listen  string     `gluamapper:"listen"`
	Peers   []testPeer `gluamapper:"peers"`
}

const sampleLua = `
local M = {}

M.network = "local"
M.listen = "tcp://127.0.0.1:7050"

M.peers = {
    {
        identity = "bank-identity",
        address = "tcp://127.0.0.1:7051",
    },
}

return M
`

func TestParseConfigurationFile(t *testing.T) {

	dir, err := ioutil.TempDir("", "configuration")
	assert.NoError(t, err, "temp dir")
	defer os.RemoveAll(dir)

	fileName := filepath.Join(dir, "marketd.conf")
	err = ioutil.WriteFile(fileName, []byte(sampleLua), 0600)
	assert.NoError(t, err, "write config")

	config := &testConfiguration{}
	err = configuration.ParseConfigurationFile(fileName, config)
	assert.NoError(t, err, "parse")

	assert.Equal(t, "local", config.Network, "network")
	assert.Equal(t, "tcp://127.0.0.1:7050", config.Listen, "listen")
	assert.Equal(t, 1, len(config.Peers), "peer count")
	assert.Equal(t, "bank-identity", config.Peers[0].Identity, "peer identity")
	assert.Equal(t, "tcp://127.0.0.1:7051", config.Peers[0].Address, "peer address")
}

func TestParseMissingFile(t *testing.T) {

	config := &testConfiguration{}
	err := configuration.ParseConfigurationFile("/nonexistent/marketd.conf", config)
	assert.Error(t, err, "missing file")
}
