// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package profile_test

import (
	"os"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/records"
	"github.com/splinglabs/splingd/rpc/fixtures"
	"github.com/splinglabs/splingd/rpc/profile"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func createUser(t *testing.T, p *profile.Profile, actor fixtures.Actor, c *fixtures.Clock) *records.UserProfile {
	params := profile.CreateParams{Content: fixtures.Content(actor.Account.String())}
	arguments := profile.CreateArguments{
		Auth:   fixtures.Sign(t, actor, profile.MethodCreateUser, params, c),
		Params: params,
	}
	var reply profile.UserReply
	require.NoError(t, p.CreateUser(&arguments, &reply))
	return reply.Profile
}

func TestCreateAndFollow(t *testing.T) {
	db, e, c := fixtures.NewEngine(t)
	defer db.Close()

	p := profile.New(logger.New(fixtures.LogCategory), e)

	alice := createUser(t, p, fixtures.Alice, c)
	bob := createUser(t, p, fixtures.Bob, c)
	assert.Equal(t, uint32(1), alice.UserID)
	assert.Equal(t, uint32(2), bob.UserID)
	assert.Equal(t, fixtures.Alice.Account, alice.Owner)

	params := profile.ListParams{ID: bob.UserID}
	arguments := profile.ListArguments{
		Auth:   fixtures.Sign(t, fixtures.Alice, profile.MethodFollow, params, c),
		Params: params,
	}
	var reply profile.UserReply
	require.NoError(t, p.Follow(&arguments, &reply))
	assert.Equal(t, []uint32{2}, reply.Profile.Following)

	arguments.Auth = fixtures.Sign(t, fixtures.Alice, profile.MethodUnfollow, params, c)
	require.NoError(t, p.Unfollow(&arguments, &reply))
	assert.Empty(t, reply.Profile.Following)
}

func TestGroupMembership(t *testing.T) {
	db, e, c := fixtures.NewEngine(t)
	defer db.Close()

	p := profile.New(logger.New(fixtures.LogCategory), e)
	createUser(t, p, fixtures.Alice, c)

	params := profile.CreateParams{Content: fixtures.Content("group")}
	arguments := profile.CreateArguments{
		Auth:   fixtures.Sign(t, fixtures.Bob, profile.MethodCreateGroup, params, c),
		Params: params,
	}
	var groupReply profile.GroupReply
	require.NoError(t, p.CreateGroup(&arguments, &groupReply))
	assert.Equal(t, uint32(1), groupReply.Profile.GroupID)

	join := profile.ListParams{ID: groupReply.Profile.GroupID}
	joinArguments := profile.ListArguments{
		Auth:   fixtures.Sign(t, fixtures.Alice, profile.MethodJoinGroup, join, c),
		Params: join,
	}
	var reply profile.UserReply
	require.NoError(t, p.JoinGroup(&joinArguments, &reply))
	assert.Equal(t, []uint32{1}, reply.Profile.Groups)

	joinArguments.Auth = fixtures.Sign(t, fixtures.Alice, profile.MethodLeaveGroup, join, c)
	require.NoError(t, p.LeaveGroup(&joinArguments, &reply))
	assert.Empty(t, reply.Profile.Groups)
}

func TestDeleteRequiresOwner(t *testing.T) {
	db, e, c := fixtures.NewEngine(t)
	defer db.Close()

	p := profile.New(logger.New(fixtures.LogCategory), e)
	createUser(t, p, fixtures.Alice, c)

	params := profile.DeleteParams{Owner: fixtures.Alice.Account}
	arguments := profile.DeleteArguments{
		Auth:   fixtures.Sign(t, fixtures.Bob, profile.MethodDeleteUser, params, c),
		Params: params,
	}
	var reply profile.DeleteReply
	assert.Equal(t, fault.Unauthorised, p.DeleteUser(&arguments, &reply))

	arguments.Auth = fixtures.Sign(t, fixtures.Alice, profile.MethodDeleteUser, params, c)
	require.NoError(t, p.DeleteUser(&arguments, &reply))

	_, _, err := e.UserProfile(fixtures.Alice.Account)
	assert.Equal(t, fault.UserProfileNotFound, err)
}

func TestStaleRequestRejected(t *testing.T) {
	db, e, c := fixtures.NewEngine(t)
	defer db.Close()

	p := profile.New(logger.New(fixtures.LogCategory), e)

	params := profile.CreateParams{Content: fixtures.Content("alice")}
	arguments := profile.CreateArguments{
		Auth:   fixtures.Sign(t, fixtures.Alice, profile.MethodCreateUser, params, c),
		Params: params,
	}

	c.Time = c.Time.Add(10 * time.Minute)

	var reply profile.UserReply
	assert.Equal(t, fault.InvalidTimestamp, p.CreateUser(&arguments, &reply))

	_, _, err := e.UserProfile(fixtures.Alice.Account)
	assert.Equal(t, fault.UserProfileNotFound, err)
}
