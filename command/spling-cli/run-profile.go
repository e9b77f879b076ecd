// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"
	"golang.org/x/crypto/ed25519"

	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/command/spling-cli/rpccalls"
	"github.com/splinglabs/splingd/rpc/profile"
)

func runInitialiseRegistry(c *cli.Context) error {
	return signed(c, func(client *rpccalls.Client, key ed25519.PrivateKey) (interface{}, error) {
		return client.InitialiseRegistry(key)
	})
}

func runInitialiseTags(c *cli.Context) error {
	return signed(c, func(client *rpccalls.Client, key ed25519.PrivateKey) (interface{}, error) {
		return client.InitialiseTags(key)
	})
}

func runCreateUser(c *cli.Context) error {
	content, err := contentAddress(c)
	if nil != err {
		return err
	}
	amount, err := optionalAmount(c)
	if nil != err {
		return err
	}
	return signed(c, func(client *rpccalls.Client, key ed25519.PrivateKey) (interface{}, error) {
		return client.CreateUser(key, content, amount)
	})
}

func runCreateGroup(c *cli.Context) error {
	content, err := contentAddress(c)
	if nil != err {
		return err
	}
	amount, err := optionalAmount(c)
	if nil != err {
		return err
	}
	return signed(c, func(client *rpccalls.Client, key ed25519.PrivateKey) (interface{}, error) {
		return client.CreateGroup(key, content, amount)
	})
}

func runJoinGroup(c *cli.Context) error {
	return changeList(c, profile.MethodJoinGroup)
}

func runLeaveGroup(c *cli.Context) error {
	return changeList(c, profile.MethodLeaveGroup)
}

func runFollow(c *cli.Context) error {
	return changeList(c, profile.MethodFollow)
}

func runUnfollow(c *cli.Context) error {
	return changeList(c, profile.MethodUnfollow)
}

func changeList(c *cli.Context, method string) error {
	id := c.Uint("id")
	if 0 == id {
		return ErrRequiredId
	}
	amount, err := optionalAmount(c)
	if nil != err {
		return err
	}
	return signed(c, func(client *rpccalls.Client, key ed25519.PrivateKey) (interface{}, error) {
		return client.ChangeList(method, key, uint32(id), amount)
	})
}

func runDeleteUser(c *cli.Context) error {
	return deleteProfile(c, profile.MethodDeleteUser)
}

func runDeleteGroup(c *cli.Context) error {
	return deleteProfile(c, profile.MethodDeleteGroup)
}

// profiles are keyed by their owner so the caller names itself
func deleteProfile(c *cli.Context, method string) error {
	amount, err := optionalAmount(c)
	if nil != err {
		return err
	}
	return signed(c, func(client *rpccalls.Client, key ed25519.PrivateKey) (interface{}, error) {
		owner, err := address.FromBytes(key.Public().(ed25519.PublicKey))
		if nil != err {
			return nil, err
		}
		return nil, client.DeleteProfile(method, key, owner, amount)
	})
}
