// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package engine

import (
	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/content"
	"github.com/splinglabs/splingd/expiry"
	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/feebank"
	"github.com/splinglabs/splingd/ledger"
	"github.com/splinglabs/splingd/records"
	"github.com/splinglabs/splingd/registry"
	"github.com/splinglabs/splingd/token"
)

// operation names used in logs and events
const (
	OpInitialiseRegistry = "initRegistry"
	OpInitialiseTags     = "initTagIndex"
	OpCreateUser         = "createUserProfile"
	OpCreateGroup        = "createGroupProfile"
	OpJoinGroup          = "joinGroup"
	OpLeaveGroup         = "leaveGroup"
	OpFollow             = "followUser"
	OpUnfollow           = "unfollowUser"
	OpDeleteUser         = "deleteUserProfile"
	OpDeleteGroup        = "deleteGroupProfile"
	OpSubmitPost         = "submitPost"
	OpSubmitReply        = "submitReply"
	OpLikePost           = "likePost"
	OpDeletePost         = "deletePost"
	OpDeleteReply        = "deleteReply"
	OpCreateBank         = "createBank"
	OpCreateWell         = "createWell"
	OpResetBank          = "resetBank"
	OpExtractBank        = "extractBank"
	OpFundWell           = "fundWell"
	OpExpiryCallback     = "expiryCallback"
	OpGenesis            = "genesis"
)

// InitialiseRegistry - create the counters singleton
func (e *Engine) InitialiseRegistry(caller address.Address) (*records.Registry, error) {
	var r *records.Registry
	err := e.transition(OpInitialiseRegistry, caller, func(ctx *ledger.Context) (address.Address, error) {
		var err error
		r, err = registry.Initialise(ctx, caller)
		if nil != err {
			return address.Address{}, err
		}
		a, _, err := ctx.Derive(address.Registry())
		return a, err
	})
	return r, err
}

// every operation except the registry's own creation needs the registry
func initialised(ctx *ledger.Context) error {
	_, _, err := registry.Load(ctx)
	return err
}

// InitialiseTags - create the tag index
func (e *Engine) InitialiseTags(caller address.Address) (*records.TagList, error) {
	var tags *records.TagList
	err := e.transition(OpInitialiseTags, caller, func(ctx *ledger.Context) (address.Address, error) {
		err := initialised(ctx)
		if nil != err {
			return address.Address{}, err
		}
		tags, err = content.InitialiseTags(ctx, caller)
		if nil != err {
			return address.Address{}, err
		}
		a, _, err := ctx.Derive(address.Tags())
		return a, err
	})
	return tags, err
}

// CreateUserProfile - profile for the caller
func (e *Engine) CreateUserProfile(caller address.Address, contentAddress address.Address, amount *uint64) (*records.UserProfile, error) {
	var p *records.UserProfile
	err := e.transition(OpCreateUser, caller, func(ctx *ledger.Context) (address.Address, error) {
		var err error
		p, err = e.profiles.CreateUser(ctx, caller, contentAddress, amount)
		if nil != err {
			return address.Address{}, err
		}
		a, _, err := ctx.Derive(address.UserProfile(caller))
		return a, err
	})
	return p, err
}

// CreateGroupProfile - group created by the caller
func (e *Engine) CreateGroupProfile(caller address.Address, contentAddress address.Address, amount *uint64) (*records.GroupProfile, error) {
	var g *records.GroupProfile
	err := e.transition(OpCreateGroup, caller, func(ctx *ledger.Context) (address.Address, error) {
		var err error
		g, err = e.profiles.CreateGroup(ctx, caller, contentAddress, amount)
		if nil != err {
			return address.Address{}, err
		}
		a, _, err := ctx.Derive(address.GroupProfile(caller))
		return a, err
	})
	return g, err
}

// list mutation on the caller's profile
type listChange func(ctx *ledger.Context, owner address.Address, id uint32, amount *uint64) (*records.UserProfile, error)

func (e *Engine) changeList(operation string, change listChange, caller address.Address, id uint32, amount *uint64) (*records.UserProfile, error) {
	var p *records.UserProfile
	err := e.transition(operation, caller, func(ctx *ledger.Context) (address.Address, error) {
		var err error
		p, err = change(ctx, caller, id, amount)
		if nil != err {
			return address.Address{}, err
		}
		a, _, err := ctx.Derive(address.UserProfile(caller))
		return a, err
	})
	return p, err
}

// JoinGroup - add a group id to the caller's memberships
func (e *Engine) JoinGroup(caller address.Address, groupID uint32, amount *uint64) (*records.UserProfile, error) {
	return e.changeList(OpJoinGroup, e.profiles.JoinGroup, caller, groupID, amount)
}

// LeaveGroup - remove a group id from the caller's memberships
func (e *Engine) LeaveGroup(caller address.Address, groupID uint32, amount *uint64) (*records.UserProfile, error) {
	return e.changeList(OpLeaveGroup, e.profiles.LeaveGroup, caller, groupID, amount)
}

// FollowUser - add a user id to the caller's following list
func (e *Engine) FollowUser(caller address.Address, userID uint32, amount *uint64) (*records.UserProfile, error) {
	return e.changeList(OpFollow, e.profiles.Follow, caller, userID, amount)
}

// UnfollowUser - remove a user id from the caller's following list
func (e *Engine) UnfollowUser(caller address.Address, userID uint32, amount *uint64) (*records.UserProfile, error) {
	return e.changeList(OpUnfollow, e.profiles.Unfollow, caller, userID, amount)
}

// DeleteUserProfile - close the caller's own profile
//
// owner selects the profile, it must be the caller
func (e *Engine) DeleteUserProfile(caller address.Address, owner address.Address, amount *uint64) error {
	return e.transition(OpDeleteUser, caller, func(ctx *ledger.Context) (address.Address, error) {
		a, _, err := ctx.Derive(address.UserProfile(owner))
		if nil != err {
			return a, err
		}
		return a, e.profiles.DeleteUser(ctx, caller, owner, amount)
	})
}

// DeleteGroupProfile - close a group created by the caller
func (e *Engine) DeleteGroupProfile(caller address.Address, creator address.Address, amount *uint64) error {
	return e.transition(OpDeleteGroup, caller, func(ctx *ledger.Context) (address.Address, error) {
		a, _, err := ctx.Derive(address.GroupProfile(creator))
		if nil != err {
			return a, err
		}
		return a, e.profiles.DeleteGroup(ctx, caller, creator, amount)
	})
}

// SubmitPost - new post by the caller
func (e *Engine) SubmitPost(caller address.Address, groupID uint32, contentAddress address.Address, tagName string, schedule string, amount *uint64) (*records.Post, error) {
	var post *records.Post
	err := e.transition(OpSubmitPost, caller, func(ctx *ledger.Context) (address.Address, error) {
		var err error
		post, err = e.content.SubmitPost(ctx, caller, groupID, contentAddress, tagName, schedule, amount)
		if nil != err {
			return address.Address{}, err
		}
		a, _, err := ctx.Derive(address.Post(contentAddress))
		return a, err
	})
	return post, err
}

// SubmitReply - new reply by the caller
func (e *Engine) SubmitReply(caller address.Address, postID uint32, contentAddress address.Address, amount *uint64) (*records.Reply, error) {
	var reply *records.Reply
	err := e.transition(OpSubmitReply, caller, func(ctx *ledger.Context) (address.Address, error) {
		var err error
		reply, err = e.content.SubmitReply(ctx, caller, postID, contentAddress, amount)
		if nil != err {
			return address.Address{}, err
		}
		a, _, err := ctx.Derive(address.Reply(contentAddress))
		return a, err
	})
	return reply, err
}

// LikePost - toggle the caller's like of a post
func (e *Engine) LikePost(caller address.Address, post address.Address, likes address.Address, amount *uint64) (*records.Likes, error) {
	var l *records.Likes
	err := e.transition(OpLikePost, caller, func(ctx *ledger.Context) (address.Address, error) {
		var err error
		l, err = e.content.LikePost(ctx, caller, post, likes, amount)
		return likes, err
	})
	return l, err
}

// DeletePost - close a post written by the caller
func (e *Engine) DeletePost(caller address.Address, contentAddress address.Address, amount *uint64) error {
	return e.transition(OpDeletePost, caller, func(ctx *ledger.Context) (address.Address, error) {
		a, _, err := ctx.Derive(address.Post(contentAddress))
		if nil != err {
			return a, err
		}
		return a, e.content.DeletePost(ctx, caller, contentAddress, amount)
	})
}

// DeleteReply - close a reply written by the caller
func (e *Engine) DeleteReply(caller address.Address, contentAddress address.Address, amount *uint64) error {
	return e.transition(OpDeleteReply, caller, func(ctx *ledger.Context) (address.Address, error) {
		a, _, err := ctx.Derive(address.Reply(contentAddress))
		if nil != err {
			return a, err
		}
		return a, e.content.DeleteReply(ctx, caller, contentAddress, amount)
	})
}

// CreateBank - one time creation of the storage fee reserve
func (e *Engine) CreateBank(caller address.Address) (*records.Bank, error) {
	var bank *records.Bank
	err := e.transition(OpCreateBank, caller, func(ctx *ledger.Context) (address.Address, error) {
		err := initialised(ctx)
		if nil != err {
			return address.Address{}, err
		}
		bank, err = e.fees.CreateBank(ctx, caller)
		if nil != err {
			return address.Address{}, err
		}
		a, _, err := ctx.Derive(address.Bank())
		return a, err
	})
	return bank, err
}

// CreateWell - one time creation of the fee well placeholder
func (e *Engine) CreateWell(caller address.Address) (*records.Well, error) {
	var well *records.Well
	err := e.transition(OpCreateWell, caller, func(ctx *ledger.Context) (address.Address, error) {
		err := initialised(ctx)
		if nil != err {
			return address.Address{}, err
		}
		well, err = e.fees.CreateWell(ctx, caller)
		if nil != err {
			return address.Address{}, err
		}
		return feebank.WellAddress(ctx)
	})
	return well, err
}

// ResetBank - restore the bank to full capacity
func (e *Engine) ResetBank(caller address.Address) (*records.Bank, error) {
	var bank *records.Bank
	err := e.transition(OpResetBank, caller, func(ctx *ledger.Context) (address.Address, error) {
		err := initialised(ctx)
		if nil != err {
			return address.Address{}, err
		}
		var a address.Address
		bank, a, err = feebank.LoadBank(ctx)
		if nil != err {
			return a, err
		}
		bank, err = e.fees.ResetBank(ctx, caller)
		return a, err
	})
	return bank, err
}

// ExtractBank - operator token payment mirrored from the well
func (e *Engine) ExtractBank(caller address.Address, amount uint64) error {
	return e.transition(OpExtractBank, caller, func(ctx *ledger.Context) (address.Address, error) {
		err := initialised(ctx)
		if nil != err {
			return address.Address{}, err
		}
		a, _, err := ctx.Derive(address.Bank())
		if nil != err {
			return a, err
		}
		return a, e.fees.ExtractBank(ctx, caller, amount)
	})
}

// FundWell - move native units from the caller into the well
func (e *Engine) FundWell(caller address.Address, amount uint64) error {
	return e.transition(OpFundWell, caller, func(ctx *ledger.Context) (address.Address, error) {
		err := initialised(ctx)
		if nil != err {
			return address.Address{}, err
		}
		a, err := feebank.WellAddress(ctx)
		if nil != err {
			return a, err
		}
		return a, e.fees.FundWell(ctx, caller, amount)
	})
}

// ExpiryCallback - close an expired post
//
// only the automation identity may call this; a post that was already
// deleted gives AlreadyGone and no error
func (e *Engine) ExpiryCallback(caller address.Address, contentAddress address.Address, author address.Address, post address.Address, thread address.Address) (expiry.Result, error) {
	if caller != e.automation {
		e.log.Warnf("%s: caller: %s  is not the automation identity", OpExpiryCallback, caller)
		return expiry.AlreadyGone, fault.Unauthorised
	}

	result := expiry.AlreadyGone
	err := e.transition(OpExpiryCallback, caller, func(ctx *ledger.Context) (address.Address, error) {
		var err error
		result, err = expiry.Expire(ctx, contentAddress, author, post, thread)
		return post, err
	})
	return result, err
}

// Allocation - initial balances for one identity
type Allocation struct {
	Owner  address.Address `gluamapper:"owner" json:"owner"`
	Native uint64          `gluamapper:"native" json:"native"`
	Tokens uint64          `gluamapper:"tokens" json:"tokens"`
}

// genesis marker key
var genesisKey = []byte("genesis")

// Genesis - apply initial balances exactly once per database
//
// returns fault.AlreadyInitialised on later calls
func (e *Engine) Genesis(allocations []Allocation) error {
	return e.transition(OpGenesis, e.space.Program(), func(ctx *ledger.Context) (address.Address, error) {
		if ctx.Trx.Has(ctx.Pool.Markers, genesisKey) {
			return address.Address{}, fault.AlreadyInitialised
		}

		issuer, canMint := e.tokens.(token.Issuer)

		for _, allocation := range allocations {
			if err := ctx.Deposit(allocation.Owner, allocation.Native); nil != err {
				return allocation.Owner, err
			}
			if 0 == allocation.Tokens {
				continue
			}
			if !canMint {
				return allocation.Owner, fault.MissingParameters
			}
			if err := issuer.Mint(ctx.Trx, allocation.Owner, allocation.Tokens); nil != err {
				return allocation.Owner, err
			}
		}
		ctx.Trx.PutN(ctx.Pool.Markers, genesisKey, uint64(ctx.Now.Unix()))
		return address.Address{}, nil
	})
}
