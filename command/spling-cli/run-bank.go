// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"
	"golang.org/x/crypto/ed25519"

	"github.com/splinglabs/splingd/command/spling-cli/rpccalls"
	"github.com/splinglabs/splingd/rpc/bank"
)

func runBankCreate(c *cli.Context) error {
	return signed(c, func(client *rpccalls.Client, key ed25519.PrivateKey) (interface{}, error) {
		return client.CreateBank(key)
	})
}

func runBankCreateWell(c *cli.Context) error {
	return signed(c, func(client *rpccalls.Client, key ed25519.PrivateKey) (interface{}, error) {
		return client.CreateWell(key)
	})
}

func runBankReset(c *cli.Context) error {
	return signed(c, func(client *rpccalls.Client, key ed25519.PrivateKey) (interface{}, error) {
		return client.ResetBank(key)
	})
}

func runBankExtract(c *cli.Context) error {
	return bankAmount(c, bank.MethodExtract)
}

func runBankFundWell(c *cli.Context) error {
	return bankAmount(c, bank.MethodFundWell)
}

func bankAmount(c *cli.Context, method string) error {
	amount, err := requiredAmount(c)
	if nil != err {
		return err
	}
	return signed(c, func(client *rpccalls.Client, key ed25519.PrivateKey) (interface{}, error) {
		return nil, client.BankAmount(method, key, amount)
	})
}
