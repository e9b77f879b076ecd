// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package registry

import (
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/records"
	"github.com/splinglabs/splingd/rpc/auth"
	"github.com/splinglabs/splingd/rpc/ratelimit"
)

const (
	rateLimitRegistry = 10
	rateBurstRegistry = 5
)

// method names
const (
	MethodInitialise     = "Registry.Initialise"
	MethodInitialiseTags = "Registry.InitialiseTags"
)

// Ledger - the engine operations used
type Ledger interface {
	Now() time.Time
	InitialiseRegistry(caller address.Address) (*records.Registry, error)
	InitialiseTags(caller address.Address) (*records.TagList, error)
}

// Registry - type for RPC calls
type Registry struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Replays *auth.Replays
	Ledger  Ledger
}

// New - create the registry service
func New(log *logger.L, ledger Ledger) *Registry {
	return &Registry{
		Log:     log,
		Limiter: ratelimit.New(rateLimitRegistry, rateBurstRegistry),
		Replays: auth.NewReplays(),
		Ledger:  ledger,
	}
}

// Params - no parameters are needed
type Params struct{}

// Arguments - signed empty request
type Arguments struct {
	Auth   auth.Envelope `json:"auth"`
	Params Params        `json:"params"`
}

// InitialiseReply - the new registry
type InitialiseReply struct {
	Registry *records.Registry `json:"registry"`
}

// InitialiseTagsReply - the new tag index
type InitialiseTagsReply struct {
	Tags *records.TagList `json:"tags"`
}

// Initialise - create the global counters
func (r *Registry) Initialise(arguments *Arguments, reply *InitialiseReply) error {
	caller, err := auth.Authenticate(r.Limiter, r.Replays, MethodInitialise, arguments.Params, &arguments.Auth, r.Ledger.Now())
	if nil != err {
		return err
	}

	r.Log.Infof("initialise registry: caller: %s", caller)

	registry, err := r.Ledger.InitialiseRegistry(caller)
	if nil != err {
		return err
	}
	reply.Registry = registry
	return nil
}

// InitialiseTags - create the tag index
func (r *Registry) InitialiseTags(arguments *Arguments, reply *InitialiseTagsReply) error {
	caller, err := auth.Authenticate(r.Limiter, r.Replays, MethodInitialiseTags, arguments.Params, &arguments.Auth, r.Ledger.Now())
	if nil != err {
		return err
	}

	r.Log.Infof("initialise tags: caller: %s", caller)

	tags, err := r.Ledger.InitialiseTags(caller)
	if nil != err {
		return err
	}
	reply.Tags = tags
	return nil
}
