// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"sort"

	"golang.org/x/crypto/ed25519"

	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/rpc/bank"
	"github.com/splinglabs/splingd/rpc/content"
	"github.com/splinglabs/splingd/rpc/expiry"
	"github.com/splinglabs/splingd/rpc/node"
	"github.com/splinglabs/splingd/rpc/profile"
	"github.com/splinglabs/splingd/rpc/query"
	"github.com/splinglabs/splingd/rpc/registry"
)

// InitialiseRegistry - create the counters singleton
func (c *Client) InitialiseRegistry(key ed25519.PrivateKey) (*registry.InitialiseReply, error) {
	var reply registry.InitialiseReply
	err := c.Signed(registry.MethodInitialise, key, registry.Params{}, &reply)
	return &reply, err
}

// InitialiseTags - create the tag index
func (c *Client) InitialiseTags(key ed25519.PrivateKey) (*registry.InitialiseTagsReply, error) {
	var reply registry.InitialiseTagsReply
	err := c.Signed(registry.MethodInitialiseTags, key, registry.Params{}, &reply)
	return &reply, err
}

// CreateUser - profile for the caller
func (c *Client) CreateUser(key ed25519.PrivateKey, contentAddress address.Address, amount *uint64) (*profile.UserReply, error) {
	var reply profile.UserReply
	params := profile.CreateParams{Content: contentAddress, Amount: amount}
	err := c.Signed(profile.MethodCreateUser, key, params, &reply)
	return &reply, err
}

// CreateGroup - group created by the caller
func (c *Client) CreateGroup(key ed25519.PrivateKey, contentAddress address.Address, amount *uint64) (*profile.GroupReply, error) {
	var reply profile.GroupReply
	params := profile.CreateParams{Content: contentAddress, Amount: amount}
	err := c.Signed(profile.MethodCreateGroup, key, params, &reply)
	return &reply, err
}

// ChangeList - join, leave, follow or unfollow by numeric id
func (c *Client) ChangeList(method string, key ed25519.PrivateKey, id uint32, amount *uint64) (*profile.UserReply, error) {
	var reply profile.UserReply
	params := profile.ListParams{ID: id, Amount: amount}
	err := c.Signed(method, key, params, &reply)
	return &reply, err
}

// DeleteProfile - remove the user or group profile owned by the caller
func (c *Client) DeleteProfile(method string, key ed25519.PrivateKey, owner address.Address, amount *uint64) error {
	var reply profile.DeleteReply
	params := profile.DeleteParams{Owner: owner, Amount: amount}
	return c.Signed(method, key, params, &reply)
}

// SubmitPost - post into a group with an expiry schedule
func (c *Client) SubmitPost(key ed25519.PrivateKey, groupID uint32, contentAddress address.Address, tag string, schedule string, amount *uint64) (*content.PostReply, error) {
	var reply content.PostReply
	params := content.PostParams{
		GroupID:  groupID,
		Content:  contentAddress,
		Tag:      tag,
		Schedule: schedule,
		Amount:   amount,
	}
	err := c.Signed(content.MethodSubmitPost, key, params, &reply)
	return &reply, err
}

// SubmitReply - reply to a post by numeric id
func (c *Client) SubmitReply(key ed25519.PrivateKey, postID uint32, contentAddress address.Address, amount *uint64) (*content.ReplyReply, error) {
	var reply content.ReplyReply
	params := content.ReplyParams{PostID: postID, Content: contentAddress, Amount: amount}
	err := c.Signed(content.MethodSubmitReply, key, params, &reply)
	return &reply, err
}

// Like - like a post
func (c *Client) Like(key ed25519.PrivateKey, post address.Address, likes address.Address, amount *uint64) (*content.LikeReply, error) {
	var reply content.LikeReply
	params := content.LikeParams{Post: post, Likes: likes, Amount: amount}
	err := c.Signed(content.MethodLike, key, params, &reply)
	return &reply, err
}

// DeleteContent - remove a post or reply by content address
func (c *Client) DeleteContent(method string, key ed25519.PrivateKey, contentAddress address.Address, amount *uint64) error {
	var reply content.DeleteReply
	params := content.DeleteParams{Content: contentAddress, Amount: amount}
	return c.Signed(method, key, params, &reply)
}

// CreateBank - the fee bank singleton
func (c *Client) CreateBank(key ed25519.PrivateKey) (*bank.BankReply, error) {
	var reply bank.BankReply
	err := c.Signed(bank.MethodCreate, key, bank.Params{}, &reply)
	return &reply, err
}

// ResetBank - clear the bank counters
func (c *Client) ResetBank(key ed25519.PrivateKey) (*bank.BankReply, error) {
	var reply bank.BankReply
	err := c.Signed(bank.MethodReset, key, bank.Params{}, &reply)
	return &reply, err
}

// CreateWell - the subsidy account
func (c *Client) CreateWell(key ed25519.PrivateKey) (*bank.WellReply, error) {
	var reply bank.WellReply
	err := c.Signed(bank.MethodCreateWell, key, bank.Params{}, &reply)
	return &reply, err
}

// BankAmount - extract from the bank or fund the well
func (c *Client) BankAmount(method string, key ed25519.PrivateKey, amount uint64) error {
	var reply bank.EmptyReply
	return c.Signed(method, key, bank.AmountParams{Amount: amount}, &reply)
}

// Expire - fire the expiry callback for one post
func (c *Client) Expire(key ed25519.PrivateKey, entry query.DueEntry) (string, error) {
	var reply expiry.CallbackReply
	params := expiry.CallbackParams{
		Content: entry.Content,
		Author:  entry.Author,
		Post:    entry.Post,
		Thread:  entry.Thread,
	}
	err := c.Signed(expiry.MethodCallback, key, params, &reply)
	return reply.Result, err
}

// lookup kinds to method names
var queryMethods = map[string]string{
	"registry": "Query.Registry",
	"tags":     "Query.Tags",
	"user":     "Query.User",
	"group":    "Query.Group",
	"post":     "Query.Post",
	"reply":    "Query.Reply",
	"likes":    "Query.Likes",
	"bank":     "Query.Bank",
	"thread":   "Query.Thread",
}

// QueryKinds - the kinds accepted by Record, sorted
func QueryKinds() []string {
	kinds := make([]string, 0, len(queryMethods))
	for k := range queryMethods {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Record - one of the Query.* direct lookups
//
// singleton kinds ignore key
func (c *Client) Record(kind string, key address.Address) (*query.RecordReply, error) {
	method, ok := queryMethods[kind]
	if !ok {
		return nil, fault.RecordUnknown
	}

	var reply query.RecordReply
	var err error
	switch kind {
	case "registry", "tags", "bank":
		err = c.Call(method, &query.EmptyArguments{}, &reply)
	default:
		err = c.Call(method, &query.KeyArguments{Key: key}, &reply)
	}
	return &reply, err
}

// Balance - native and token balances
func (c *Client) Balance(owner address.Address) (*query.BalanceReply, error) {
	var reply query.BalanceReply
	err := c.Call("Query.Balance", &query.KeyArguments{Key: owner}, &reply)
	return &reply, err
}

// Derive - record address for a kind and key
func (c *Client) Derive(kind string, key address.Address) (*query.DeriveReply, error) {
	var reply query.DeriveReply
	err := c.Call("Query.Derive", &query.DeriveArguments{Kind: kind, Key: key}, &reply)
	return &reply, err
}

// Due - registrations that can be fired now
func (c *Client) Due(count int) (*query.DueReply, error) {
	var reply query.DueReply
	err := c.Call("Query.Due", &query.DueArguments{Count: count}, &reply)
	return &reply, err
}

// Info - node status
func (c *Client) Info() (*node.InfoReply, error) {
	var reply node.InfoReply
	err := c.Call("Node.Info", &node.InfoArguments{}, &reply)
	return &reply, err
}
