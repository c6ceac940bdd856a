// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/configuration"
	"github.com/bitmark-inc/marketd/mode"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultLevelDBDirectory = "data"
	defaultLiveDatabase     = mode.Live + ".leveldb"
	defaultTestingDatabase  = mode.Testing + ".leveldb"
	defaultLocalDatabase    = mode.Local + ".leveldb"

	defaultLogDirectory = "log"
	defaultLogFile      = "marketd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultListen = "tcp://127.0.0.1:7050"
)

// to hold log levels
type LoglevelMap map[string]string

var defaultLogLevels = LoglevelMap{
	logger.DefaultTag: "critical",
}

type PeerType struct {
	Identity string `gluamapper:"identity" json:"identity"`
	Address  string `gluamapper:"address" json:"address"`
}

type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

type Configuration struct {
	DataDirectory string `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string `gluamapper:"pidfile" json:"pidfile"`
	Network       string `gluamapper:"network" json:"network"`

	// hex encoded node signing key, see: marketd generate-identity
	PrivateKey string `gluamapper:"private_key" json:"private_key"`

	Listen   string `gluamapper:"listen" json:"listen"`
	Announce string `gluamapper:"announce" json:"announce"`

	Peers []PeerType `gluamapper:"peers" json:"peers"`

	Database DatabaseType         `gluamapper:"database" json:"database"`
	Logging  logger.Configuration `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default
		Network:       mode.Live,
		Listen:        defaultListen,

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      defaultLiveDatabase,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); err != nil {
		return nil, err
	}

	options.Network = strings.ToLower(options.Network)
	switch options.Network {
	case mode.Live:
		// already correct default
	case mode.Testing:
		if defaultLiveDatabase == options.Database.Name {
			options.Database.Name = defaultTestingDatabase
		}
	case mode.Local:
		if defaultLiveDatabase == options.Database.Name {
			options.Database.Name = defaultLocalDatabase
		}
	default:
		return nil, fmt.Errorf("network: %q is not supported", options.Network)
	}

	if "" == options.PrivateKey {
		return nil, fmt.Errorf("private_key is not set, run: marketd generate-identity")
	}

	if err := validateListen(options.Listen); nil != err {
		return nil, err
	}

	// peers announced as this node's own address default to the
	// listen address
	if "" == options.Announce {
		options.Announce = options.Listen
	}
	for i, peer := range options.Peers {
		if "" == peer.Identity || "" == peer.Address {
			return nil, fmt.Errorf("peers[%d]: identity and address are both required", i)
		}
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("path: %q is not a directory", options.DataDirectory)
	}

	// optional absolute paths i.e. blank or an absolute path
	if "" != options.PidFile {
		options.PidFile = ensureAbsolute(options.DataDirectory, options.PidFile)
	}

	// fail if the database name is not a simple name
	switch filepath.Dir(options.Database.Name) {
	case "", ".":
	default:
		return nil, fmt.Errorf("database name: %q is not a plain name", options.Database.Name)
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	} {
		*d = ensureAbsolute(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0700); nil != err {
			return nil, err
		}
	}
	options.Database.Name = ensureAbsolute(options.Database.Directory, options.Database.Name)

	// done
	return options, nil
}

// a zmq endpoint like: tcp://host:port
func validateListen(listen string) error {

	if !strings.HasPrefix(listen, "tcp://") {
		return fmt.Errorf("listen: %q must be a tcp:// endpoint", listen)
	}

	_, port, err := net.SplitHostPort(strings.TrimPrefix(listen, "tcp://"))
	if nil != err {
		return err
	}
	number, err := strconv.Atoi(port)
	if nil != err || number < 1 || number > 65535 {
		return fmt.Errorf("listen: %q has an invalid port number", listen)
	}
	return nil
}

// prepend the directory to a relative path
func ensureAbsolute(directory string, filePath string) string {
	if filepath.IsAbs(filePath) {
		return filepath.Clean(filePath)
	}
	return filepath.Clean(filepath.Join(directory, filePath))
}
