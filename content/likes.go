// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package content

import (
	"math"

	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/ledger"
	"github.com/splinglabs/splingd/profile"
	"github.com/splinglabs/splingd/records"
)

// LoadLikes - verified likes of a post address
func LoadLikes(ctx *ledger.Context, post address.Address) (*records.Likes, address.Address, error) {
	r, a, err := ctx.Load(ctx.Pool.Likes, address.Likes(post), fault.LikesNotFound)
	if nil != err {
		return nil, a, err
	}
	likes, ok := r.(*records.Likes)
	if !ok {
		return nil, a, fault.RecordTypeMismatch
	}
	return likes, a, nil
}

// LikePost - toggle the liker's user id in the likes of a post
//
// the declared likes address must be the one derived from the post
func (s *Store) LikePost(ctx *ledger.Context, liker address.Address, post address.Address, declaredLikes address.Address, amount *uint64) (*records.Likes, error) {
	user, _, err := profile.LoadUser(ctx, liker)
	if nil != err {
		return nil, err
	}

	r, err := ctx.LoadAt(ctx.Pool.Posts, post, fault.PostNotFound)
	if nil != err {
		return nil, err
	}
	if _, ok := r.(*records.Post); !ok {
		return nil, fault.RecordTypeMismatch
	}

	likes, a, err := LoadLikes(ctx, post)
	if nil != err {
		return nil, err
	}
	if a != declaredLikes {
		return nil, fault.AddressMismatch
	}

	if err := toggle(ctx, likes, user.UserID); nil != err {
		return nil, err
	}

	if err := ctx.Store(ctx.Pool.Likes, a, likes, liker); nil != err {
		return nil, err
	}
	if err := s.Fees.Settle(ctx, liker, amount); nil != err {
		return nil, err
	}
	return likes, nil
}

// remove the id if present otherwise append it
func toggle(ctx *ledger.Context, likes *records.Likes, id uint32) error {
	for i, existing := range likes.Users {
		if existing != id {
			continue
		}
		if 0 == likes.Counter {
			return ctx.Critical(fault.LikeCounterUnderflow, "likes: counter zero with user: %d present", id)
		}
		likes.Users = append(likes.Users[:i], likes.Users[i+1:]...)
		if 0 == len(likes.Users) {
			likes.Users = nil
		}
		likes.Counter -= 1
		return nil
	}

	if math.MaxUint16 == likes.Counter {
		return ctx.Critical(fault.LikeCounterOverflow, "likes: counter overflow adding user: %d", id)
	}
	likes.Users = append(likes.Users, id)
	likes.Counter += 1
	return nil
}
