// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node

import (
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/counter"
	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/records"
	"github.com/splinglabs/splingd/rpc/ratelimit"
)

const (
	rateLimitNode = 200
	rateBurstNode = 100
)

// Ledger - node level state
type Ledger interface {
	Program() address.Address
	Registry() (*records.Registry, error)
}

// Node - type for RPC calls
type Node struct {
	Log       *logger.L
	Limiter   *rate.Limiter
	Start     time.Time
	Version   string
	Ledger    Ledger
	rpcs      *counter.Counter
	published *counter.Counter
}

// New - create the node service; published may be nil
func New(log *logger.L, ledger Ledger, start time.Time, version string, rpcs *counter.Counter, published *counter.Counter) *Node {
	return &Node{
		Log:       log,
		Limiter:   ratelimit.New(rateLimitNode, rateBurstNode),
		Start:     start,
		Version:   version,
		Ledger:    ledger,
		rpcs:      rpcs,
		published: published,
	}
}

// InfoArguments - empty arguments for info request
type InfoArguments struct{}

// InfoReply - results from info request
type InfoReply struct {
	Program   address.Address   `json:"program"`
	Registry  *records.Registry `json:"registry,omitempty"`
	RPCs      uint64            `json:"rpcs"`
	Published uint64            `json:"published"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
}

// Info - return some information about this node
//
// the registry is omitted until it has been initialised
func (node *Node) Info(_ *InfoArguments, reply *InfoReply) error {
	if err := ratelimit.Limit(node.Limiter); nil != err {
		return err
	}

	if nil == node.Ledger {
		return fault.DatabaseIsNotSet
	}

	r, err := node.Ledger.Registry()
	if nil != err && !fault.IsErrNotFound(err) {
		return err
	}

	reply.Program = node.Ledger.Program()
	reply.Registry = r
	reply.RPCs = node.rpcs.Uint64()
	if nil != node.published {
		reply.Published = node.published.Uint64()
	}
	reply.Version = node.Version
	reply.Uptime = time.Since(node.Start).String()
	return nil
}
