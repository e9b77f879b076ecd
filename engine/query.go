// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package engine

import (
	"time"

	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/content"
	"github.com/splinglabs/splingd/expiry"
	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/feebank"
	"github.com/splinglabs/splingd/ledger"
	"github.com/splinglabs/splingd/profile"
	"github.com/splinglabs/splingd/records"
	"github.com/splinglabs/splingd/registry"
	"github.com/splinglabs/splingd/token"
)

// read only lookups by direct address, no listing or search

// Registry - the counters singleton
func (e *Engine) Registry() (*records.Registry, error) {
	var r *records.Registry
	err := e.read(func(ctx *ledger.Context) error {
		var err error
		r, _, err = registry.Load(ctx)
		return err
	})
	return r, err
}

// Tags - the tag index
func (e *Engine) Tags() (*records.TagList, error) {
	var tags *records.TagList
	err := e.read(func(ctx *ledger.Context) error {
		var err error
		tags, _, err = content.LoadTags(ctx)
		return err
	})
	return tags, err
}

// UserProfile - profile of an owner identity and its address
func (e *Engine) UserProfile(owner address.Address) (*records.UserProfile, address.Address, error) {
	var p *records.UserProfile
	var a address.Address
	err := e.read(func(ctx *ledger.Context) error {
		var err error
		p, a, err = profile.LoadUser(ctx, owner)
		return err
	})
	return p, a, err
}

// GroupProfile - group of a creator identity and its address
func (e *Engine) GroupProfile(creator address.Address) (*records.GroupProfile, address.Address, error) {
	var g *records.GroupProfile
	var a address.Address
	err := e.read(func(ctx *ledger.Context) error {
		var err error
		g, a, err = profile.LoadGroup(ctx, creator)
		return err
	})
	return g, a, err
}

// Post - post for a content hash and its address
func (e *Engine) Post(contentAddress address.Address) (*records.Post, address.Address, error) {
	var post *records.Post
	var a address.Address
	err := e.read(func(ctx *ledger.Context) error {
		var err error
		post, a, err = content.LoadPost(ctx, contentAddress)
		return err
	})
	return post, a, err
}

// Reply - reply for a content hash and its address
func (e *Engine) Reply(contentAddress address.Address) (*records.Reply, address.Address, error) {
	var reply *records.Reply
	var a address.Address
	err := e.read(func(ctx *ledger.Context) error {
		var err error
		reply, a, err = content.LoadReply(ctx, contentAddress)
		return err
	})
	return reply, a, err
}

// Likes - likes of a post address and their address
func (e *Engine) Likes(post address.Address) (*records.Likes, address.Address, error) {
	var likes *records.Likes
	var a address.Address
	err := e.read(func(ctx *ledger.Context) error {
		var err error
		likes, a, err = content.LoadLikes(ctx, post)
		return err
	})
	return likes, a, err
}

// Bank - the storage fee reserve and its address
func (e *Engine) Bank() (*records.Bank, address.Address, error) {
	var bank *records.Bank
	var a address.Address
	err := e.read(func(ctx *ledger.Context) error {
		var err error
		bank, a, err = feebank.LoadBank(ctx)
		return err
	})
	return bank, a, err
}

// Thread - expiry registration of a post address and its address
func (e *Engine) Thread(post address.Address) (*records.Thread, address.Address, error) {
	var thread *records.Thread
	var a address.Address
	err := e.read(func(ctx *ledger.Context) error {
		r, threadAddress, err := ctx.Load(ctx.Pool.Threads, address.Thread(post), fault.ThreadNotFound)
		a = threadAddress
		if nil != err {
			return err
		}
		t, ok := r.(*records.Thread)
		if !ok {
			return fault.RecordTypeMismatch
		}
		thread = t
		return nil
	})
	return thread, a, err
}

// Derive - address and canonical byte for a set of seeds
func (e *Engine) Derive(seeds address.Seeds) (address.Address, byte, error) {
	return e.space.Find(seeds)
}

// Balance - native balance of any address
func (e *Engine) Balance(a address.Address) (uint64, error) {
	var balance uint64
	err := e.read(func(ctx *ledger.Context) error {
		balance = ctx.Balance(a)
		return nil
	})
	return balance, err
}

// TokenBalance - token balance of an owner when tokens are local
func (e *Engine) TokenBalance(owner address.Address) (uint64, error) {
	issuer, ok := e.tokens.(token.Issuer)
	if !ok {
		return 0, fault.MissingParameters
	}
	e.Lock()
	defer e.Unlock()
	return issuer.Balance(owner), nil
}

// Due - committed expiry registrations due at the given time
func (e *Engine) Due(now time.Time, limit int) ([]expiry.Pending, error) {
	e.Lock()
	defer e.Unlock()
	return expiry.Due(&e.db.Pool, now, limit)
}

// Now - current transition time
func (e *Engine) Now() time.Time {
	return e.clock.Now().UTC()
}
