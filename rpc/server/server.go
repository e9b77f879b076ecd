// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server

import (
	"net/rpc"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/splinglabs/splingd/counter"
	"github.com/splinglabs/splingd/rpc/bank"
	"github.com/splinglabs/splingd/rpc/content"
	"github.com/splinglabs/splingd/rpc/expiry"
	"github.com/splinglabs/splingd/rpc/node"
	"github.com/splinglabs/splingd/rpc/profile"
	"github.com/splinglabs/splingd/rpc/query"
	"github.com/splinglabs/splingd/rpc/registry"
)

// Ledger - everything the services need from the engine
type Ledger interface {
	registry.Ledger
	profile.Ledger
	content.Ledger
	bank.Ledger
	expiry.Ledger
	query.Ledger
	node.Ledger
}

// Create - an RPC server with every service registered
//
// the node service is also returned for the HTTPS details page
func Create(log *logger.L, ledger Ledger, version string, rpcCount *counter.Counter, published *counter.Counter) (*rpc.Server, *node.Node) {
	start := time.Now().UTC()

	server := rpc.NewServer()

	n := node.New(log, ledger, start, version, rpcCount, published)

	_ = server.Register(registry.New(log, ledger))
	_ = server.Register(profile.New(log, ledger))
	_ = server.Register(content.New(log, ledger))
	_ = server.Register(bank.New(log, ledger))
	_ = server.Register(expiry.New(log, ledger))
	_ = server.Register(query.New(log, ledger))
	_ = server.Register(n)

	return server, n
}
