// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package content - posts, replies, likes and the tag index
//
// posts and replies are stored at addresses derived from the hash of
// their off-ledger content; the numeric post id is only an ordinal
package content

import (
	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/expiry"
	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/feebank"
	"github.com/splinglabs/splingd/ledger"
	"github.com/splinglabs/splingd/profile"
	"github.com/splinglabs/splingd/records"
	"github.com/splinglabs/splingd/registry"
)

// Store - content operations paying through fees
type Store struct {
	Fees *feebank.Fees
}

// New - content store
func New(fees *feebank.Fees) *Store {
	return &Store{
		Fees: fees,
	}
}

// LoadPost - verified post for a content hash
func LoadPost(ctx *ledger.Context, content address.Address) (*records.Post, address.Address, error) {
	r, a, err := ctx.Load(ctx.Pool.Posts, address.Post(content), fault.PostNotFound)
	if nil != err {
		return nil, a, err
	}
	post, ok := r.(*records.Post)
	if !ok {
		return nil, a, fault.RecordTypeMismatch
	}
	return post, a, nil
}

// LoadReply - verified reply for a content hash
func LoadReply(ctx *ledger.Context, content address.Address) (*records.Reply, address.Address, error) {
	r, a, err := ctx.Load(ctx.Pool.Replies, address.Reply(content), fault.ReplyNotFound)
	if nil != err {
		return nil, a, err
	}
	reply, ok := r.(*records.Reply)
	if !ok {
		return nil, a, fault.RecordTypeMismatch
	}
	return reply, a, nil
}

// SubmitPost - new post with its likes and expiry registration
//
// the author pays for all three records and for any new tag
func (s *Store) SubmitPost(ctx *ledger.Context, author address.Address, groupID uint32, content address.Address, tagName string, schedule string, amount *uint64) (*records.Post, error) {
	user, _, err := profile.LoadUser(ctx, author)
	if nil != err {
		return nil, err
	}

	a, canonical, err := ctx.Derive(address.Post(content))
	if nil != err {
		return nil, err
	}
	if ctx.Exists(ctx.Pool.Posts, a) {
		return nil, fault.PostAlreadyExists
	}

	tagID, err := ResolveTag(ctx, tagName, author)
	if nil != err {
		return nil, err
	}

	id, err := registry.Next(ctx, registry.Posts)
	if nil != err {
		return nil, err
	}

	post := &records.Post{
		Timestamp: ctx.Now.Unix(),
		UserID:    user.UserID,
		PostID:    id,
		GroupID:   groupID,
		TagID:     tagID,
		Status:    records.Active,
		Canonical: canonical,
	}
	err = ctx.Allocate(ctx.Pool.Posts, a, post, author, fault.PostAlreadyExists)
	if nil != err {
		return nil, err
	}

	likesAddress, likesCanonical, err := ctx.Derive(address.Likes(a))
	if nil != err {
		return nil, err
	}
	likes := &records.Likes{
		Canonical: likesCanonical,
	}
	err = ctx.Allocate(ctx.Pool.Likes, likesAddress, likes, author, fault.LikesAlreadyExists)
	if nil != err {
		return nil, err
	}

	_, err = expiry.Register(ctx, a, canonical, content, author, schedule, author)
	if nil != err {
		return nil, err
	}

	if err := s.Fees.Settle(ctx, author, amount); nil != err {
		return nil, err
	}
	return post, nil
}

// SubmitReply - new reply to a post id
//
// the post id is not checked, a reply may refer to a deleted post
func (s *Store) SubmitReply(ctx *ledger.Context, author address.Address, postID uint32, content address.Address, amount *uint64) (*records.Reply, error) {
	user, _, err := profile.LoadUser(ctx, author)
	if nil != err {
		return nil, err
	}

	a, canonical, err := ctx.Derive(address.Reply(content))
	if nil != err {
		return nil, err
	}

	reply := &records.Reply{
		Timestamp: ctx.Now.Unix(),
		UserID:    user.UserID,
		PostID:    postID,
		Status:    records.Active,
		Canonical: canonical,
	}
	err = ctx.Allocate(ctx.Pool.Replies, a, reply, author, fault.ReplyAlreadyExists)
	if nil != err {
		return nil, err
	}

	if err := s.Fees.SettleOrSubsidise(ctx, author, amount, feebank.ReplySubsidy); nil != err {
		return nil, err
	}
	return reply, nil
}

// DeletePost - author only; closes the post, its likes and any
// pending expiry registration
func (s *Store) DeletePost(ctx *ledger.Context, author address.Address, content address.Address, amount *uint64) error {
	user, _, err := profile.LoadUser(ctx, author)
	if nil != err {
		return err
	}
	post, a, err := LoadPost(ctx, content)
	if nil != err {
		return err
	}
	if post.UserID != user.UserID {
		return fault.Unauthorised
	}

	if err := feebank.Reclaim(ctx, ctx.Pool.Posts, a); nil != err {
		return err
	}

	likes, _, err := ctx.Derive(address.Likes(a))
	if nil != err {
		return err
	}
	if ctx.Exists(ctx.Pool.Likes, likes) {
		if err := feebank.Reclaim(ctx, ctx.Pool.Likes, likes); nil != err {
			return err
		}
	}

	if _, err := expiry.Cancel(ctx, a); nil != err {
		return err
	}
	return s.Fees.Settle(ctx, author, amount)
}

// DeleteReply - author only
func (s *Store) DeleteReply(ctx *ledger.Context, author address.Address, content address.Address, amount *uint64) error {
	user, _, err := profile.LoadUser(ctx, author)
	if nil != err {
		return err
	}
	reply, a, err := LoadReply(ctx, content)
	if nil != err {
		return err
	}
	if reply.UserID != user.UserID {
		return fault.Unauthorised
	}

	if err := feebank.Reclaim(ctx, ctx.Pool.Replies, a); nil != err {
		return err
	}
	return s.Fees.Settle(ctx, author, amount)
}
