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
)

type expired struct {
	Post   address.Address `json:"post"`
	Result string          `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// act as an external scheduler: list what is due and fire each one,
// the identity must be the node's automation identity
func runExpire(c *cli.Context) error {
	count := c.Int("count")

	return signed(c, func(client *rpccalls.Client, key ed25519.PrivateKey) (interface{}, error) {
		due, err := client.Due(count)
		if nil != err {
			return nil, err
		}

		results := make([]expired, 0, len(due.Due))
		for _, entry := range due.Due {
			result, err := client.Expire(key, entry)
			r := expired{
				Post:   entry.Post,
				Result: result,
			}
			if nil != err {
				r.Result = ""
				r.Error = err.Error()
			}
			results = append(results, r)
		}
		return results, nil
	})
}
