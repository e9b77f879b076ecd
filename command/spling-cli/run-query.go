// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli"

	"github.com/splinglabs/splingd/command/spling-cli/rpccalls"
)

func runQuery(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	kind, key, err := recordKey(c, m)
	if nil != err {
		return fmt.Errorf("%s, one of: %s", err, strings.Join(rpccalls.QueryKinds(), ", "))
	}

	return unsigned(c, func(client *rpccalls.Client) (interface{}, error) {
		return client.Record(kind, key)
	})
}

func runBalance(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	owner, err := accountArgument(c, m)
	if nil != err {
		return err
	}

	return unsigned(c, func(client *rpccalls.Client) (interface{}, error) {
		return client.Balance(owner)
	})
}

func runDerive(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	kind, key, err := recordKey(c, m)
	if nil != err {
		return err
	}

	return unsigned(c, func(client *rpccalls.Client) (interface{}, error) {
		return client.Derive(kind, key)
	})
}

func runDue(c *cli.Context) error {
	count := c.Int("count")

	return unsigned(c, func(client *rpccalls.Client) (interface{}, error) {
		return client.Due(count)
	})
}

func runNodeInfo(c *cli.Context) error {
	return unsigned(c, func(client *rpccalls.Client) (interface{}, error) {
		return client.Info()
	})
}
