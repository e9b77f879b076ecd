// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package profile

import (
	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/feebank"
	"github.com/splinglabs/splingd/ledger"
	"github.com/splinglabs/splingd/records"
	"github.com/splinglabs/splingd/registry"
)

// Store - user and group profiles
//
// with Strict false the group and follow lists behave as multisets:
// no duplicate or existence check on the ids appended
type Store struct {
	Fees   *feebank.Fees
	Strict bool
}

// New - profile store paying through fees
func New(fees *feebank.Fees, strict bool) *Store {
	return &Store{
		Fees:   fees,
		Strict: strict,
	}
}

// LoadUser - verified user profile of an owner identity
func LoadUser(ctx *ledger.Context, owner address.Address) (*records.UserProfile, address.Address, error) {
	r, a, err := ctx.Load(ctx.Pool.UserProfiles, address.UserProfile(owner), fault.UserProfileNotFound)
	if nil != err {
		return nil, a, err
	}
	profile, ok := r.(*records.UserProfile)
	if !ok {
		return nil, a, fault.RecordTypeMismatch
	}
	return profile, a, nil
}

// LoadGroup - verified group profile of a creator identity
func LoadGroup(ctx *ledger.Context, creator address.Address) (*records.GroupProfile, address.Address, error) {
	r, a, err := ctx.Load(ctx.Pool.GroupProfiles, address.GroupProfile(creator), fault.GroupProfileNotFound)
	if nil != err {
		return nil, a, err
	}
	profile, ok := r.(*records.GroupProfile)
	if !ok {
		return nil, a, fault.RecordTypeMismatch
	}
	return profile, a, nil
}

// CreateUser - new profile for the caller
//
// without an amount the caller receives the profile subsidy from the
// well, with one the incentive payment is settled
func (s *Store) CreateUser(ctx *ledger.Context, owner address.Address, content address.Address, amount *uint64) (*records.UserProfile, error) {
	a, canonical, err := ctx.Derive(address.UserProfile(owner))
	if nil != err {
		return nil, err
	}
	if ctx.Exists(ctx.Pool.UserProfiles, a) {
		return nil, fault.UserProfileAlreadyExists
	}

	id, err := registry.Next(ctx, registry.Users)
	if nil != err {
		return nil, err
	}

	profile := &records.UserProfile{
		Timestamp: ctx.Now.Unix(),
		Owner:     owner,
		UserID:    id,
		Status:    records.Active,
		Content:   content,
		Canonical: canonical,
	}
	err = ctx.Allocate(ctx.Pool.UserProfiles, a, profile, owner, fault.UserProfileAlreadyExists)
	if nil != err {
		return nil, err
	}

	if err := s.Fees.SettleOrSubsidise(ctx, owner, amount, feebank.ProfileSubsidy); nil != err {
		return nil, err
	}
	return profile, nil
}

// CreateGroup - new group profile for the caller
func (s *Store) CreateGroup(ctx *ledger.Context, creator address.Address, content address.Address, amount *uint64) (*records.GroupProfile, error) {
	a, canonical, err := ctx.Derive(address.GroupProfile(creator))
	if nil != err {
		return nil, err
	}
	if ctx.Exists(ctx.Pool.GroupProfiles, a) {
		return nil, fault.GroupProfileAlreadyExists
	}

	id, err := registry.Next(ctx, registry.Groups)
	if nil != err {
		return nil, err
	}

	profile := &records.GroupProfile{
		Timestamp: ctx.Now.Unix(),
		Creator:   creator,
		GroupID:   id,
		Status:    records.Active,
		Content:   content,
		Canonical: canonical,
	}
	err = ctx.Allocate(ctx.Pool.GroupProfiles, a, profile, creator, fault.GroupProfileAlreadyExists)
	if nil != err {
		return nil, err
	}

	if err := s.Fees.Settle(ctx, creator, amount); nil != err {
		return nil, err
	}
	return profile, nil
}

// DeleteUser - remove a user profile; only its owner may do this
//
// the registry is not changed, user ids are never reused
func (s *Store) DeleteUser(ctx *ledger.Context, caller address.Address, owner address.Address, amount *uint64) error {
	profile, a, err := LoadUser(ctx, owner)
	if nil != err {
		return err
	}
	if profile.Owner != caller {
		return fault.Unauthorised
	}
	if err := feebank.Reclaim(ctx, ctx.Pool.UserProfiles, a); nil != err {
		return err
	}
	return s.Fees.Settle(ctx, caller, amount)
}

// DeleteGroup - remove a group profile; only its creator may do this
func (s *Store) DeleteGroup(ctx *ledger.Context, caller address.Address, creator address.Address, amount *uint64) error {
	profile, a, err := LoadGroup(ctx, creator)
	if nil != err {
		return err
	}
	if profile.Creator != caller {
		return fault.Unauthorised
	}
	if err := feebank.Reclaim(ctx, ctx.Pool.GroupProfiles, a); nil != err {
		return err
	}
	return s.Fees.Settle(ctx, caller, amount)
}
