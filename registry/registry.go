// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package registry

import (
	"math"

	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/ledger"
	"github.com/splinglabs/splingd/records"
)

// Kind - which counter to advance
type Kind int

// counter kinds
const (
	Users Kind = iota
	Groups
	Posts
	Tags
)

// String - name for logging
func (k Kind) String() string {
	switch k {
	case Users:
		return "users"
	case Groups:
		return "groups"
	case Posts:
		return "posts"
	case Tags:
		return "tags"
	default:
		return "*unknown*"
	}
}

// Initialise - create the counters singleton with all counters zero
func Initialise(ctx *ledger.Context, payer address.Address) (*records.Registry, error) {
	a, canonical, err := ctx.Derive(address.Registry())
	if nil != err {
		return nil, err
	}

	r := &records.Registry{
		Canonical: canonical,
	}
	err = ctx.Allocate(ctx.Pool.Registry, a, r, payer, fault.AlreadyInitialised)
	if nil != err {
		return nil, err
	}
	return r, nil
}

// Load - read the verified counters singleton
func Load(ctx *ledger.Context) (*records.Registry, address.Address, error) {
	r, a, err := ctx.Load(ctx.Pool.Registry, address.Registry(), fault.NotInitialised)
	if nil != err {
		return nil, a, err
	}
	registry, ok := r.(*records.Registry)
	if !ok {
		return nil, a, fault.RecordTypeMismatch
	}
	return registry, a, nil
}

// Next - issue the next identifier of a kind
//
// returns the old counter plus one and stores that value, so ids start
// at one and the counter always equals the most recently issued id
func Next(ctx *ledger.Context, kind Kind) (uint32, error) {
	r, a, err := Load(ctx)
	if nil != err {
		return 0, err
	}

	var id uint32
	switch kind {
	case Users:
		if math.MaxUint32 == r.Users {
			return 0, ctx.Critical(fault.CounterOverflow, "registry: %s counter overflow", kind)
		}
		r.Users += 1
		id = r.Users
	case Groups:
		if math.MaxUint32 == r.Groups {
			return 0, ctx.Critical(fault.CounterOverflow, "registry: %s counter overflow", kind)
		}
		r.Groups += 1
		id = r.Groups
	case Posts:
		if math.MaxUint32 == r.Posts {
			return 0, ctx.Critical(fault.CounterOverflow, "registry: %s counter overflow", kind)
		}
		r.Posts += 1
		id = r.Posts
	case Tags:
		if math.MaxUint16 == r.Tags {
			return 0, ctx.Critical(fault.CounterOverflow, "registry: %s counter overflow", kind)
		}
		r.Tags += 1
		id = uint32(r.Tags)
	default:
		return 0, fault.InvalidCount
	}

	if err := ctx.Update(ctx.Pool.Registry, a, r); nil != err {
		return 0, err
	}
	return id, nil
}
