// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"
	"golang.org/x/crypto/ed25519"

	"github.com/splinglabs/splingd/command/spling-cli/rpccalls"
	"github.com/splinglabs/splingd/rpc/content"
)

func runPost(c *cli.Context) error {
	group := c.Uint("group")
	if 0 == group {
		return ErrRequiredId
	}
	contentHash, err := contentAddress(c)
	if nil != err {
		return err
	}
	amount, err := optionalAmount(c)
	if nil != err {
		return err
	}
	tag := c.String("tag")
	schedule := c.String("schedule")

	return signed(c, func(client *rpccalls.Client, key ed25519.PrivateKey) (interface{}, error) {
		return client.SubmitPost(key, uint32(group), contentHash, tag, schedule, amount)
	})
}

func runReply(c *cli.Context) error {
	post := c.Uint("post")
	if 0 == post {
		return ErrRequiredId
	}
	contentHash, err := contentAddress(c)
	if nil != err {
		return err
	}
	amount, err := optionalAmount(c)
	if nil != err {
		return err
	}

	return signed(c, func(client *rpccalls.Client, key ed25519.PrivateKey) (interface{}, error) {
		return client.SubmitReply(key, uint32(post), contentHash, amount)
	})
}

// the post and likes addresses are derived by the node from the post's
// content hash
func runLike(c *cli.Context) error {
	contentHash, err := contentAddress(c)
	if nil != err {
		return err
	}
	amount, err := optionalAmount(c)
	if nil != err {
		return err
	}

	return signed(c, func(client *rpccalls.Client, key ed25519.PrivateKey) (interface{}, error) {
		post, err := client.Derive("post", contentHash)
		if nil != err {
			return nil, err
		}
		likes, err := client.Derive("likes", post.Address)
		if nil != err {
			return nil, err
		}
		return client.Like(key, post.Address, likes.Address, amount)
	})
}

func runDeletePost(c *cli.Context) error {
	return deleteContent(c, content.MethodDeletePost)
}

func runDeleteReply(c *cli.Context) error {
	return deleteContent(c, content.MethodDeleteReply)
}

func deleteContent(c *cli.Context, method string) error {
	contentHash, err := contentAddress(c)
	if nil != err {
		return err
	}
	amount, err := optionalAmount(c)
	if nil != err {
		return err
	}

	return signed(c, func(client *rpccalls.Client, key ed25519.PrivateKey) (interface{}, error) {
		return nil, client.DeleteContent(method, key, contentHash, amount)
	})
}
