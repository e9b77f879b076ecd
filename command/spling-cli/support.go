// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strconv"

	"github.com/urfave/cli"
	"golang.org/x/crypto/ed25519"
	"golang.org/x/crypto/sha3"

	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/command/spling-cli/configuration"
	"github.com/splinglabs/splingd/command/spling-cli/rpccalls"
	"github.com/splinglabs/splingd/fault"
)

var (
	ErrIncompatibleOptions = fault.InvalidError("incompatible options")
	ErrPasswordMismatch    = fault.InvalidError("password mismatch")
	ErrRequiredAmount      = fault.InvalidError("amount is required")
	ErrRequiredConnect     = fault.InvalidError("connect is required")
	ErrRequiredContent     = fault.InvalidError("content or file is required")
	ErrRequiredDescription = fault.InvalidError("description is required")
	ErrRequiredId          = fault.InvalidError("id is required")
	ErrRequiredIdentity    = fault.InvalidError("identity is required")
	ErrRequiredKind        = fault.InvalidError("record kind is required")
)

// identity is required, but not check the config file
func checkName(name string) (string, error) {
	if "" == name {
		return "", ErrRequiredIdentity
	}

	return name, nil
}

// connect is required.
func checkConnect(connect string) (string, error) {
	if "" == connect {
		return "", ErrRequiredConnect
	}

	return connect, nil
}

// description is required
func checkDescription(description string) (string, error) {
	if "" == description {
		return "", ErrRequiredDescription
	}

	return description, nil
}

// blank seed makes a new one
func checkSeed(seed string) (string, error) {
	if "" == seed {
		return configuration.NewSeed()
	}
	return seed, nil
}

// identity flag or the configured default
func identityName(c *cli.Context, m *metadata) (string, error) {
	name := c.GlobalString("identity")
	if "" == name {
		name = m.config.DefaultIdentity
	}
	return checkName(name)
}

// decrypt the selected identity, prompting when no password was given
func privateKey(c *cli.Context, m *metadata) (*configuration.Private, error) {
	name, err := identityName(c, m)
	if nil != err {
		return nil, err
	}

	password := c.GlobalString("password")
	if "" == password {
		password, err = promptCheckPassword()
		if nil != err {
			return nil, err
		}
	}

	private, err := m.config.Private(password, name)
	if nil != err {
		return nil, err
	}
	if m.verbose {
		fmt.Fprintf(m.e, "identity: %s  account: %s\n", name, private.Account)
	}
	return private, nil
}

// connect to the node, global flag overrides the configuration
func getClient(c *cli.Context, m *metadata) (*rpccalls.Client, error) {
	connect := c.GlobalString("connect")
	if "" == connect {
		connect = m.config.Connect
	}
	connect, err := checkConnect(connect)
	if nil != err {
		return nil, err
	}

	return rpccalls.NewClient(connect, c.GlobalString("fingerprint"), m.verbose, m.e)
}

// optional token payment
func optionalAmount(c *cli.Context) (*uint64, error) {
	s := c.String("amount")
	if "" == s {
		return nil, nil
	}
	amount, err := strconv.ParseUint(s, 10, 64)
	if nil != err {
		return nil, err
	}
	return &amount, nil
}

// required native amount as the first argument
func requiredAmount(c *cli.Context) (uint64, error) {
	s := c.Args().First()
	if "" == s {
		return 0, ErrRequiredAmount
	}
	return strconv.ParseUint(s, 10, 64)
}

// content hash from --content or the SHA3-256 of --file
func contentAddress(c *cli.Context) (address.Address, error) {
	content := c.String("content")
	file := c.String("file")

	switch {
	case "" != content && "" != file:
		return address.Address{}, ErrIncompatibleOptions
	case "" != content:
		return address.FromBase58(content)
	case "" != file:
		data, err := ioutil.ReadFile(file)
		if nil != err {
			return address.Address{}, err
		}
		return address.Address(sha3.Sum256(data)), nil
	default:
		return address.Address{}, ErrRequiredContent
	}
}

// identity name, base58 address or blank for the default identity
func accountArgument(c *cli.Context, m *metadata) (address.Address, error) {
	s := c.Args().First()
	if "" == s {
		name, err := identityName(c, m)
		if nil != err {
			return address.Address{}, err
		}
		s = name
	}
	return m.config.Account(s)
}

// the derived key of a record kind, not needed for singletons
func recordKey(c *cli.Context, m *metadata) (string, address.Address, error) {
	kind := c.Args().Get(0)
	if "" == kind {
		return "", address.Address{}, ErrRequiredKind
	}
	key := c.Args().Get(1)
	if "" == key {
		return kind, address.Address{}, nil
	}
	a, err := m.config.Account(key)
	return kind, a, err
}

// sign with the private key of the selected identity
type signer func(client *rpccalls.Client, key ed25519.PrivateKey) (interface{}, error)

// decrypt, connect, call and print
func signed(c *cli.Context, f signer) error {
	m := c.App.Metadata["config"].(*metadata)

	private, err := privateKey(c, m)
	if nil != err {
		return err
	}

	client, err := getClient(c, m)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := f(client, private.PrivateKey)
	if nil != err {
		return err
	}
	if nil != response {
		printJson(m.w, response)
	}
	return nil
}

// connect, call and print
func unsigned(c *cli.Context, f func(client *rpccalls.Client) (interface{}, error)) error {
	m := c.App.Metadata["config"].(*metadata)

	client, err := getClient(c, m)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := f(client)
	if nil != err {
		return err
	}
	printJson(m.w, response)
	return nil
}

func printJson(handle io.Writer, message interface{}) error {

	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		return err
	}

	fmt.Fprintf(handle, "%s\n", b)
	return nil
}

// true if path is a directory
func checkFileExists(name string) (bool, error) {
	s, err := os.Stat(name)
	if nil != err {
		return false, err
	}
	return s.IsDir(), nil
}
