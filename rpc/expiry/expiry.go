// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package expiry

import (
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/expiry"
	"github.com/splinglabs/splingd/rpc/auth"
	"github.com/splinglabs/splingd/rpc/ratelimit"
)

const (
	rateLimitExpiry = 100
	rateBurstExpiry = 100
)

// MethodCallback - external expiry trigger
const MethodCallback = "Expiry.Callback"

// Ledger - the engine operation used
type Ledger interface {
	Now() time.Time
	ExpiryCallback(caller address.Address, content address.Address, author address.Address, post address.Address, thread address.Address) (expiry.Result, error)
}

// Expiry - type for RPC calls
type Expiry struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Replays *auth.Replays
	Ledger  Ledger
}

// New - create the expiry service
func New(log *logger.L, ledger Ledger) *Expiry {
	return &Expiry{
		Log:     log,
		Limiter: ratelimit.New(rateLimitExpiry, rateBurstExpiry),
		Replays: auth.NewReplays(),
		Ledger:  ledger,
	}
}

// CallbackParams - the accounts named by the registration
type CallbackParams struct {
	Content address.Address `json:"content"`
	Author  address.Address `json:"author"`
	Post    address.Address `json:"post"`
	Thread  address.Address `json:"thread"`
}

// CallbackArguments - signed callback request
type CallbackArguments struct {
	Auth   auth.Envelope  `json:"auth"`
	Params CallbackParams `json:"params"`
}

// CallbackReply - outcome of the callback
type CallbackReply struct {
	Result string `json:"result"`
}

// Callback - fire the expiry of a post, for an external scheduler
// signing as the automation identity
func (e *Expiry) Callback(arguments *CallbackArguments, reply *CallbackReply) error {
	caller, err := auth.Authenticate(e.Limiter, e.Replays, MethodCallback, arguments.Params, &arguments.Auth, e.Ledger.Now())
	if nil != err {
		return err
	}

	p := arguments.Params
	e.Log.Infof("callback: caller: %s  post: %s", caller, p.Post)

	result, err := e.Ledger.ExpiryCallback(caller, p.Content, p.Author, p.Post, p.Thread)
	if nil != err {
		return err
	}
	reply.Result = result.String()
	return nil
}
