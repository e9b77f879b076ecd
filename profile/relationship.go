// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package profile

import (
	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/ledger"
	"github.com/splinglabs/splingd/records"
	"github.com/splinglabs/splingd/registry"
)

// which list of a user profile is changed
type list int

const (
	groupList list = iota
	followingList
)

// JoinGroup - append a group id to the caller's memberships
func (s *Store) JoinGroup(ctx *ledger.Context, owner address.Address, groupID uint32, amount *uint64) (*records.UserProfile, error) {
	return s.add(ctx, owner, groupList, groupID, amount)
}

// LeaveGroup - remove every occurrence of a group id
func (s *Store) LeaveGroup(ctx *ledger.Context, owner address.Address, groupID uint32, amount *uint64) (*records.UserProfile, error) {
	return s.remove(ctx, owner, groupList, groupID, amount)
}

// Follow - append a user id to the caller's following list
func (s *Store) Follow(ctx *ledger.Context, owner address.Address, userID uint32, amount *uint64) (*records.UserProfile, error) {
	return s.add(ctx, owner, followingList, userID, amount)
}

// Unfollow - remove every occurrence of a user id
func (s *Store) Unfollow(ctx *ledger.Context, owner address.Address, userID uint32, amount *uint64) (*records.UserProfile, error) {
	return s.remove(ctx, owner, followingList, userID, amount)
}

// grow the profile by one id; the larger storage fee is charged to
// the owner before the record is written
func (s *Store) add(ctx *ledger.Context, owner address.Address, which list, id uint32, amount *uint64) (*records.UserProfile, error) {
	profile, a, err := LoadUser(ctx, owner)
	if nil != err {
		return nil, err
	}

	target := selectList(profile, which)
	if s.Strict {
		if err := s.checkTarget(ctx, which, id); nil != err {
			return nil, err
		}
		for _, existing := range *target {
			if existing == id {
				return nil, fault.DuplicateListEntry
			}
		}
	}
	*target = append(*target, id)

	if err := ctx.Store(ctx.Pool.UserProfiles, a, profile, owner); nil != err {
		return nil, err
	}
	if err := s.Fees.Settle(ctx, owner, amount); nil != err {
		return nil, err
	}
	return profile, nil
}

// drop all occurrences of an id keeping the order of the rest; the
// released storage fee returns to the owner
func (s *Store) remove(ctx *ledger.Context, owner address.Address, which list, id uint32, amount *uint64) (*records.UserProfile, error) {
	profile, a, err := LoadUser(ctx, owner)
	if nil != err {
		return nil, err
	}

	target := selectList(profile, which)
	kept := (*target)[:0]
	for _, existing := range *target {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	if 0 == len(kept) {
		kept = nil
	}
	*target = kept

	if err := ctx.Store(ctx.Pool.UserProfiles, a, profile, owner); nil != err {
		return nil, err
	}
	if err := s.Fees.Settle(ctx, owner, amount); nil != err {
		return nil, err
	}
	return profile, nil
}

// in strict mode only issued ids may be added
func (s *Store) checkTarget(ctx *ledger.Context, which list, id uint32) error {
	r, _, err := registry.Load(ctx)
	if nil != err {
		return err
	}
	issued := r.Users
	if groupList == which {
		issued = r.Groups
	}
	if 0 == id || id > issued {
		return fault.UnissuedIdentifier
	}
	return nil
}

func selectList(profile *records.UserProfile, which list) *[]uint32 {
	if groupList == which {
		return &profile.Groups
	}
	return &profile.Following
}
