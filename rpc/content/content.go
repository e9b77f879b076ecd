// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package content

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
	rateLimitContent = 200
	rateBurstContent = 100
)

// method names
const (
	MethodSubmitPost  = "Content.SubmitPost"
	MethodSubmitReply = "Content.SubmitReply"
	MethodLike        = "Content.Like"
	MethodDeletePost  = "Content.DeletePost"
	MethodDeleteReply = "Content.DeleteReply"
)

// Ledger - the engine operations used
type Ledger interface {
	Now() time.Time
	SubmitPost(caller address.Address, groupID uint32, content address.Address, tagName string, schedule string, amount *uint64) (*records.Post, error)
	SubmitReply(caller address.Address, postID uint32, content address.Address, amount *uint64) (*records.Reply, error)
	LikePost(caller address.Address, post address.Address, likes address.Address, amount *uint64) (*records.Likes, error)
	DeletePost(caller address.Address, content address.Address, amount *uint64) error
	DeleteReply(caller address.Address, content address.Address, amount *uint64) error
}

// Content - type for RPC calls
type Content struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Replays *auth.Replays
	Ledger  Ledger
}

// New - create the content service
func New(log *logger.L, ledger Ledger) *Content {
	return &Content{
		Log:     log,
		Limiter: ratelimit.New(rateLimitContent, rateBurstContent),
		Replays: auth.NewReplays(),
		Ledger:  ledger,
	}
}

// ---

// PostParams - a new post; blank schedule uses the default expiry
type PostParams struct {
	GroupID  uint32          `json:"groupId"`
	Content  address.Address `json:"content"`
	Tag      string          `json:"tag"`
	Schedule string          `json:"schedule"`
	Amount   *uint64         `json:"amount,omitempty"`
}

// PostArguments - signed post request
type PostArguments struct {
	Auth   auth.Envelope `json:"auth"`
	Params PostParams    `json:"params"`
}

// PostReply - the stored post
type PostReply struct {
	Post *records.Post `json:"post"`
}

// SubmitPost - store a post and register its expiry
func (c *Content) SubmitPost(arguments *PostArguments, reply *PostReply) error {
	caller, err := auth.Authenticate(c.Limiter, c.Replays, MethodSubmitPost, arguments.Params, &arguments.Auth, c.Ledger.Now())
	if nil != err {
		return err
	}

	p := arguments.Params
	c.Log.Infof("submit post: caller: %s  content: %s  group: %d  tag: %q", caller, p.Content, p.GroupID, p.Tag)

	post, err := c.Ledger.SubmitPost(caller, p.GroupID, p.Content, p.Tag, p.Schedule, p.Amount)
	if nil != err {
		return err
	}
	reply.Post = post
	return nil
}

// ---

// ReplyParams - a reply to a post id
type ReplyParams struct {
	PostID  uint32          `json:"postId"`
	Content address.Address `json:"content"`
	Amount  *uint64         `json:"amount,omitempty"`
}

// ReplyArguments - signed reply request
type ReplyArguments struct {
	Auth   auth.Envelope `json:"auth"`
	Params ReplyParams   `json:"params"`
}

// ReplyReply - the stored reply
type ReplyReply struct {
	Reply *records.Reply `json:"reply"`
}

// SubmitReply - store a reply
func (c *Content) SubmitReply(arguments *ReplyArguments, reply *ReplyReply) error {
	caller, err := auth.Authenticate(c.Limiter, c.Replays, MethodSubmitReply, arguments.Params, &arguments.Auth, c.Ledger.Now())
	if nil != err {
		return err
	}

	p := arguments.Params
	c.Log.Infof("submit reply: caller: %s  content: %s  post: %d", caller, p.Content, p.PostID)

	r, err := c.Ledger.SubmitReply(caller, p.PostID, p.Content, p.Amount)
	if nil != err {
		return err
	}
	reply.Reply = r
	return nil
}

// ---

// LikeParams - the post and its likes record
type LikeParams struct {
	Post   address.Address `json:"post"`
	Likes  address.Address `json:"likes"`
	Amount *uint64         `json:"amount,omitempty"`
}

// LikeArguments - signed like toggle request
type LikeArguments struct {
	Auth   auth.Envelope `json:"auth"`
	Params LikeParams    `json:"params"`
}

// LikeReply - the likes record after the toggle
type LikeReply struct {
	Likes *records.Likes `json:"likes"`
}

// Like - toggle the caller's like on a post
func (c *Content) Like(arguments *LikeArguments, reply *LikeReply) error {
	caller, err := auth.Authenticate(c.Limiter, c.Replays, MethodLike, arguments.Params, &arguments.Auth, c.Ledger.Now())
	if nil != err {
		return err
	}

	c.Log.Infof("like: caller: %s  post: %s", caller, arguments.Params.Post)

	likes, err := c.Ledger.LikePost(caller, arguments.Params.Post, arguments.Params.Likes, arguments.Params.Amount)
	if nil != err {
		return err
	}
	reply.Likes = likes
	return nil
}

// ---

// DeleteParams - content hash of the post or reply
type DeleteParams struct {
	Content address.Address `json:"content"`
	Amount  *uint64         `json:"amount,omitempty"`
}

// DeleteArguments - signed delete request
type DeleteArguments struct {
	Auth   auth.Envelope `json:"auth"`
	Params DeleteParams  `json:"params"`
}

// DeleteReply - empty result
type DeleteReply struct{}

// DeletePost - remove the caller's post
func (c *Content) DeletePost(arguments *DeleteArguments, reply *DeleteReply) error {
	caller, err := auth.Authenticate(c.Limiter, c.Replays, MethodDeletePost, arguments.Params, &arguments.Auth, c.Ledger.Now())
	if nil != err {
		return err
	}

	c.Log.Infof("delete post: caller: %s  content: %s", caller, arguments.Params.Content)

	return c.Ledger.DeletePost(caller, arguments.Params.Content, arguments.Params.Amount)
}

// DeleteReply - remove the caller's reply
func (c *Content) DeleteReply(arguments *DeleteArguments, reply *DeleteReply) error {
	caller, err := auth.Authenticate(c.Limiter, c.Replays, MethodDeleteReply, arguments.Params, &arguments.Auth, c.Ledger.Now())
	if nil != err {
		return err
	}

	c.Log.Infof("delete reply: caller: %s  content: %s", caller, arguments.Params.Content)

	return c.Ledger.DeleteReply(caller, arguments.Params.Content, arguments.Params.Amount)
}
