// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package content_test

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/content"
	"github.com/splinglabs/splingd/expiry"
	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/feebank"
	"github.com/splinglabs/splingd/ledger"
	"github.com/splinglabs/splingd/ledger/fixtures"
	"github.com/splinglabs/splingd/profile"
	"github.com/splinglabs/splingd/records"
	"github.com/splinglabs/splingd/registry"
	"github.com/splinglabs/splingd/storage"
	"github.com/splinglabs/splingd/token/mocks"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

var (
	alice    = fixtures.Account("alice")
	bob      = fixtures.Account("bob")
	treasury = fixtures.Account("treasury")
)

func hash(s string) address.Address {
	var a address.Address
	copy(a[:], s)
	return a
}

// registry, tag index, funded well and a profile per actor
func setup(t *testing.T, actors ...address.Address) (*storage.Database, *ledger.Context) {
	db := fixtures.NewDatabase(t)
	ctx := fixtures.NewContext(t, db)
	fixtures.FundWell(t, ctx)
	operator := fixtures.Account("operator")
	fixtures.Fund(t, ctx, append(actors, operator)...)

	_, err := registry.Initialise(ctx, operator)
	require.NoError(t, err)
	_, err = content.InitialiseTags(ctx, operator)
	require.NoError(t, err)

	profiles := profile.New(feebank.New(nil, treasury), false)
	for _, actor := range actors {
		_, err := profiles.CreateUser(ctx, actor, hash("profile"), nil)
		require.NoError(t, err)
	}
	return db, ctx
}

func TestInitialiseTagsOnce(t *testing.T) {
	db, ctx := setup(t)
	defer db.Close()
	defer ctx.Trx.Abort()

	tags, _, err := content.LoadTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{records.DefaultTag}, tags.Names)

	_, err = content.InitialiseTags(ctx, alice)
	assert.Equal(t, fault.TagsAlreadyExist, err)
}

func TestTagResolutionIsCaseInsensitive(t *testing.T) {
	db, ctx := setup(t, alice)
	defer db.Close()
	defer ctx.Trx.Abort()

	id, err := content.ResolveTag(ctx, "", alice)
	require.NoError(t, err)
	assert.Equal(t, uint16(0), id, "untagged")

	rust, err := content.ResolveTag(ctx, "Rust", alice)
	require.NoError(t, err)
	again, err := content.ResolveTag(ctx, "rust", alice)
	require.NoError(t, err)
	assert.Equal(t, rust, again)

	tags, _, err := content.LoadTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{records.DefaultTag, "rust"}, tags.Names, "index grows by one")

	id, err = content.ResolveTag(ctx, "SPLING", alice)
	require.NoError(t, err)
	assert.Equal(t, uint16(0), id, "default tag is found too")

	_, err = content.ResolveTag(ctx, strings.Repeat("x", records.MaxTagNameLength+1), alice)
	assert.Equal(t, fault.TagNameTooLong, err)
}

func TestSubmitPostsShareTag(t *testing.T) {
	db, ctx := setup(t, alice)
	defer db.Close()
	defer ctx.Trx.Abort()

	store := content.New(feebank.New(nil, treasury))
	first, err := store.SubmitPost(ctx, alice, 0, hash("first"), "news", "", nil)
	require.NoError(t, err)
	second, err := store.SubmitPost(ctx, alice, 0, hash("second"), "News", "", nil)
	require.NoError(t, err)

	assert.Equal(t, uint16(1), first.TagID)
	assert.Equal(t, first.TagID, second.TagID)
	assert.Equal(t, uint32(1), first.PostID)
	assert.Equal(t, uint32(2), second.PostID)

	r, _, err := registry.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint16(1), r.Tags)
	assert.Equal(t, uint32(2), r.Posts)

	_, a, err := content.LoadPost(ctx, hash("first"))
	require.NoError(t, err)
	likes, _, err := content.LoadLikes(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, uint16(0), likes.Counter)

	thread, _, err := ctx.Derive(address.Thread(a))
	require.NoError(t, err)
	assert.True(t, ctx.Exists(ctx.Pool.Threads, thread), "expiry registered")

	_, err = store.SubmitPost(ctx, alice, 0, hash("first"), "", "", nil)
	assert.Equal(t, fault.PostAlreadyExists, err)
}

func TestSubmitPostRequiresProfile(t *testing.T) {
	db, ctx := setup(t)
	defer db.Close()
	defer ctx.Trx.Abort()
	fixtures.Fund(t, ctx, bob)

	store := content.New(feebank.New(nil, treasury))
	_, err := store.SubmitPost(ctx, bob, 0, hash("post"), "", "", nil)
	assert.Equal(t, fault.UserProfileNotFound, err)

	_, err = store.SubmitReply(ctx, bob, 1, hash("reply"), nil)
	assert.Equal(t, fault.UserProfileNotFound, err)
}

func TestSubmitReply(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	db, ctx := setup(t, alice)
	defer db.Close()
	defer ctx.Trx.Abort()

	tokens := mocks.NewMockGateway(ctl)
	store := content.New(feebank.New(tokens, treasury))

	before := ctx.Balance(alice)
	reply, err := store.SubmitReply(ctx, alice, 42, hash("reply"), nil)
	require.NoError(t, err, "dangling post id is allowed")
	assert.Equal(t, uint32(42), reply.PostID)
	packed, _ := reply.Pack()
	assert.Equal(t, before-ledger.StorageFee(len(packed))+feebank.ReplySubsidy, ctx.Balance(alice))

	amount := uint64(5)
	tokens.EXPECT().Transfer(ctx.Trx, alice, treasury, amount).Return(nil)
	_, err = store.SubmitReply(ctx, alice, 42, hash("other"), &amount)
	require.NoError(t, err)

	_, err = store.SubmitReply(ctx, alice, 42, hash("reply"), nil)
	assert.Equal(t, fault.ReplyAlreadyExists, err)
}

func TestLikeToggle(t *testing.T) {
	users := make([]address.Address, 0, 9)
	for i := 1; i <= 9; i += 1 {
		users = append(users, fixtures.Account(fmt.Sprintf("user-%d", i)))
	}
	seven := users[6]
	nine := users[8]

	db, ctx := setup(t, users...)
	defer db.Close()
	defer ctx.Trx.Abort()

	store := content.New(feebank.New(nil, treasury))
	_, err := store.SubmitPost(ctx, users[0], 0, hash("post"), "", "", nil)
	require.NoError(t, err)
	_, post, err := content.LoadPost(ctx, hash("post"))
	require.NoError(t, err)
	likesAddress, _, err := ctx.Derive(address.Likes(post))
	require.NoError(t, err)

	likes, err := store.LikePost(ctx, seven, post, likesAddress, nil)
	require.NoError(t, err)
	assert.Equal(t, uint16(1), likes.Counter)
	assert.Equal(t, []uint32{7}, likes.Users)

	likes, err = store.LikePost(ctx, seven, post, likesAddress, nil)
	require.NoError(t, err)
	assert.Equal(t, uint16(0), likes.Counter)
	assert.Empty(t, likes.Users)

	_, err = store.LikePost(ctx, seven, post, likesAddress, nil)
	require.NoError(t, err)
	likes, err = store.LikePost(ctx, nine, post, likesAddress, nil)
	require.NoError(t, err)
	assert.Equal(t, uint16(2), likes.Counter)
	assert.Equal(t, []uint32{7, 9}, likes.Users, "insertion order")

	stored, _, err := content.LoadLikes(ctx, post)
	require.NoError(t, err)
	assert.Equal(t, likes.Users, stored.Users)

	_, err = store.LikePost(ctx, seven, post, post, nil)
	assert.Equal(t, fault.AddressMismatch, err)

	_, err = store.LikePost(ctx, seven, likesAddress, likesAddress, nil)
	assert.Equal(t, fault.PostNotFound, err)
}

func TestDeletePost(t *testing.T) {
	db, ctx := setup(t, alice, bob)
	defer db.Close()
	defer ctx.Trx.Abort()

	store := content.New(feebank.New(nil, treasury))
	_, err := store.SubmitPost(ctx, alice, 0, hash("post"), "", "", nil)
	require.NoError(t, err)
	_, post, err := content.LoadPost(ctx, hash("post"))
	require.NoError(t, err)
	likes, _, err := ctx.Derive(address.Likes(post))
	require.NoError(t, err)
	thread, _, err := ctx.Derive(address.Thread(post))
	require.NoError(t, err)

	err = store.DeletePost(ctx, bob, hash("post"), nil)
	assert.Equal(t, fault.Unauthorised, err)

	require.NoError(t, store.DeletePost(ctx, alice, hash("post"), nil))
	assert.False(t, ctx.Exists(ctx.Pool.Posts, post))
	assert.False(t, ctx.Exists(ctx.Pool.Likes, likes))
	assert.False(t, ctx.Exists(ctx.Pool.Threads, thread), "registration cancelled")

	err = store.DeletePost(ctx, alice, hash("post"), nil)
	assert.Equal(t, fault.PostNotFound, err)

	// a callback racing the delete is a no-op
	result, err := expiry.Expire(ctx, hash("post"), alice, post, thread)
	require.NoError(t, err)
	assert.Equal(t, expiry.AlreadyGone, result)
}

func TestDeleteReply(t *testing.T) {
	db, ctx := setup(t, alice, bob)
	defer db.Close()
	defer ctx.Trx.Abort()

	store := content.New(feebank.New(nil, treasury))
	_, err := store.SubmitReply(ctx, alice, 1, hash("reply"), nil)
	require.NoError(t, err)

	assert.Equal(t, fault.Unauthorised, store.DeleteReply(ctx, bob, hash("reply"), nil))

	well, err := feebank.WellAddress(ctx)
	require.NoError(t, err)
	before := ctx.Balance(well)

	require.NoError(t, store.DeleteReply(ctx, alice, hash("reply"), nil))
	_, _, err = content.LoadReply(ctx, hash("reply"))
	assert.Equal(t, fault.ReplyNotFound, err)
	assert.True(t, ctx.Balance(well) > before)
}
