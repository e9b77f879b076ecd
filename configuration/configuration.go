// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/logger"

	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/automation"
	"github.com/splinglabs/splingd/engine"
	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/publish"
	"github.com/splinglabs/splingd/rpc/listeners"
	"github.com/splinglabs/splingd/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultPublicKeyFile   = "publish.public"
	defaultPrivateKeyFile  = "publish.private"
	defaultKeyFile         = "rpc.key"
	defaultCertificateFile = "rpc.crt"

	defaultLevelDBDirectory = "data"
	defaultDatabase         = "splingd.leveldb"

	defaultLogDirectory = "log"
	defaultLogFile      = "splingd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultRPCClients = 10
)

// LoglevelMap - to hold log levels
type LoglevelMap map[string]string

// fresh map each time as the mapper merges into it
func defaultLogLevels() LoglevelMap {
	return LoglevelMap{
		"main":            "info",
		logger.DefaultTag: "critical",
	}
}

// DatabaseType - location of the LevelDB store
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// AutomationType - the expiry caller and its sweep timing
type AutomationType struct {
	Identity string                   `gluamapper:"identity" json:"identity"`
	Sweep    automation.Configuration `gluamapper:"sweep" json:"sweep"`
}

// AllocationType - one genesis balance, large values may be strings
type AllocationType struct {
	Owner  string `gluamapper:"owner" json:"owner"`
	Native uint64 `gluamapper:"native" json:"native"`
	Tokens uint64 `gluamapper:"tokens" json:"tokens"`
}

// Configuration - the whole daemon configuration
type Configuration struct {
	DataDirectory string       `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string       `gluamapper:"pidfile" json:"pidfile"`
	Database      DatabaseType `gluamapper:"database" json:"database"`

	Program    string         `gluamapper:"program" json:"program"`
	Treasury   string         `gluamapper:"treasury" json:"treasury"`
	Strict     bool           `gluamapper:"strict" json:"strict"`
	Automation AutomationType `gluamapper:"automation" json:"automation"`

	ClientRPC  listeners.RPCConfiguration   `gluamapper:"client_rpc" json:"client_rpc"`
	HttpsRPC   listeners.HTTPSConfiguration `gluamapper:"https_rpc" json:"https_rpc"`
	Publishing publish.Configuration        `gluamapper:"publishing" json:"publishing"`
	Genesis    []AllocationType             `gluamapper:"genesis" json:"genesis"`
	Logging    logger.Configuration         `gluamapper:"logging" json:"logging"`
}

// Get - will read decode and verify the configuration
func Get(configurationFileName string, variables map[string]string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      defaultDatabase,
		},

		ClientRPC: listeners.RPCConfiguration{
			MaximumConnections: defaultRPCClients,
			Certificate:        defaultCertificateFile,
			PrivateKey:         defaultKeyFile,
		},

		// default: share config with normal RPC
		HttpsRPC: listeners.HTTPSConfiguration{
			MaximumConnections: defaultRPCClients,
			Certificate:        defaultCertificateFile,
			PrivateKey:         defaultKeyFile,
		},

		Publishing: publish.Configuration{
			PublicKey:  defaultPublicKeyFile,
			PrivateKey: defaultPrivateKeyFile,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels(),
		},
	}

	if err := ParseConfigurationFile(configurationFileName, options, variables); err != nil {
		return nil, err
	}

	// identities are checked here so a bad file never opens the database
	if _, err := options.Engine(); nil != err {
		return nil, err
	}
	if _, err := options.Allocations(); nil != err {
		return nil, err
	}
	if _, err := automation.ParseInterval(options.Automation.Sweep.Interval); nil != err {
		return nil, fmt.Errorf("automation sweep interval: %q  error: %s", options.Automation.Sweep.Interval, err)
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fault.InvalidDataDirectory
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fault.InvalidDataDirectory
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Database.Directory,
		&options.ClientRPC.Certificate,
		&options.ClientRPC.PrivateKey,
		&options.HttpsRPC.Certificate,
		&options.HttpsRPC.PrivateKey,
		&options.Publishing.PublicKey,
		&options.Publishing.PrivateKey,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// fail if any of these are not simple file names i.e. must
	// not contain path seperator, then add the correct directory
	// prefix, file item is first and corresponding directory is
	// second (or nil if no prefix can be added)
	mustNotBePaths := [][2]*string{
		{&options.Database.Name, &options.Database.Directory},
		{&options.Logging.File, nil},
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(*f[0]) {
		case "", ".":
			if nil != f[1] {
				*f[0] = util.EnsureAbsolute(*f[1], *f[0])
			}
		default:
			return nil, fault.InvalidFileName
		}
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	} {
		*d = util.EnsureAbsolute(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0700); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}

// Engine - the fixed identities decoded for the engine
func (c *Configuration) Engine() (*engine.Configuration, error) {
	program, err := decodeIdentity("program", c.Program)
	if nil != err {
		return nil, err
	}
	treasury, err := decodeIdentity("treasury", c.Treasury)
	if nil != err {
		return nil, err
	}
	automationIdentity, err := decodeIdentity("automation identity", c.Automation.Identity)
	if nil != err {
		return nil, err
	}
	return &engine.Configuration{
		Program:    program,
		Treasury:   treasury,
		Automation: automationIdentity,
		Strict:     c.Strict,
	}, nil
}

// Allocations - the genesis balances with decoded owners
func (c *Configuration) Allocations() ([]engine.Allocation, error) {
	allocations := make([]engine.Allocation, 0, len(c.Genesis))
	for i, g := range c.Genesis {
		owner, err := decodeIdentity(fmt.Sprintf("genesis[%d] owner", i+1), g.Owner)
		if nil != err {
			return nil, err
		}
		allocations = append(allocations, engine.Allocation{
			Owner:  owner,
			Native: g.Native,
			Tokens: g.Tokens,
		})
	}
	return allocations, nil
}

func decodeIdentity(name string, text string) (address.Address, error) {
	if "" == text {
		return address.Address{}, fmt.Errorf("%s: %s", name, fault.MissingParameters)
	}
	a, err := address.FromBase58(text)
	if nil != err {
		return address.Address{}, fmt.Errorf("%s: %q  error: %s", name, text, err)
	}
	return a, nil
}
