// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package profile

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
	rateLimitProfile = 100
	rateBurstProfile = 50
)

// method names
const (
	MethodCreateUser  = "Profile.CreateUser"
	MethodCreateGroup = "Profile.CreateGroup"
	MethodJoinGroup   = "Profile.JoinGroup"
	MethodLeaveGroup  = "Profile.LeaveGroup"
	MethodFollow      = "Profile.Follow"
	MethodUnfollow    = "Profile.Unfollow"
	MethodDeleteUser  = "Profile.DeleteUser"
	MethodDeleteGroup = "Profile.DeleteGroup"
)

// Ledger - the engine operations used
type Ledger interface {
	Now() time.Time
	CreateUserProfile(caller address.Address, content address.Address, amount *uint64) (*records.UserProfile, error)
	CreateGroupProfile(caller address.Address, content address.Address, amount *uint64) (*records.GroupProfile, error)
	JoinGroup(caller address.Address, groupID uint32, amount *uint64) (*records.UserProfile, error)
	LeaveGroup(caller address.Address, groupID uint32, amount *uint64) (*records.UserProfile, error)
	FollowUser(caller address.Address, userID uint32, amount *uint64) (*records.UserProfile, error)
	UnfollowUser(caller address.Address, userID uint32, amount *uint64) (*records.UserProfile, error)
	DeleteUserProfile(caller address.Address, owner address.Address, amount *uint64) error
	DeleteGroupProfile(caller address.Address, creator address.Address, amount *uint64) error
}

// Profile - type for RPC calls
type Profile struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Replays *auth.Replays
	Ledger  Ledger
}

// New - create the profile service
func New(log *logger.L, ledger Ledger) *Profile {
	return &Profile{
		Log:     log,
		Limiter: ratelimit.New(rateLimitProfile, rateBurstProfile),
		Replays: auth.NewReplays(),
		Ledger:  ledger,
	}
}

// ---

// CreateParams - content hash of the off-chain profile document
type CreateParams struct {
	Content address.Address `json:"content"`
	Amount  *uint64         `json:"amount,omitempty"`
}

// CreateArguments - signed create request
type CreateArguments struct {
	Auth   auth.Envelope `json:"auth"`
	Params CreateParams  `json:"params"`
}

// UserReply - the resulting user profile
type UserReply struct {
	Profile *records.UserProfile `json:"profile"`
}

// GroupReply - the resulting group profile
type GroupReply struct {
	Profile *records.GroupProfile `json:"profile"`
}

// CreateUser - create the caller's user profile
func (p *Profile) CreateUser(arguments *CreateArguments, reply *UserReply) error {
	caller, err := auth.Authenticate(p.Limiter, p.Replays, MethodCreateUser, arguments.Params, &arguments.Auth, p.Ledger.Now())
	if nil != err {
		return err
	}

	p.Log.Infof("create user: caller: %s  content: %s", caller, arguments.Params.Content)

	profile, err := p.Ledger.CreateUserProfile(caller, arguments.Params.Content, arguments.Params.Amount)
	if nil != err {
		return err
	}
	reply.Profile = profile
	return nil
}

// CreateGroup - create the caller's group profile
func (p *Profile) CreateGroup(arguments *CreateArguments, reply *GroupReply) error {
	caller, err := auth.Authenticate(p.Limiter, p.Replays, MethodCreateGroup, arguments.Params, &arguments.Auth, p.Ledger.Now())
	if nil != err {
		return err
	}

	p.Log.Infof("create group: caller: %s  content: %s", caller, arguments.Params.Content)

	profile, err := p.Ledger.CreateGroupProfile(caller, arguments.Params.Content, arguments.Params.Amount)
	if nil != err {
		return err
	}
	reply.Profile = profile
	return nil
}

// ---

// ListParams - a group or user id
type ListParams struct {
	ID     uint32  `json:"id"`
	Amount *uint64 `json:"amount,omitempty"`
}

// ListArguments - signed membership or follow request
type ListArguments struct {
	Auth   auth.Envelope `json:"auth"`
	Params ListParams    `json:"params"`
}

type listChange func(caller address.Address, id uint32, amount *uint64) (*records.UserProfile, error)

func (p *Profile) change(method string, f listChange, arguments *ListArguments, reply *UserReply) error {
	caller, err := auth.Authenticate(p.Limiter, p.Replays, method, arguments.Params, &arguments.Auth, p.Ledger.Now())
	if nil != err {
		return err
	}

	p.Log.Infof("%s: caller: %s  id: %d", method, caller, arguments.Params.ID)

	profile, err := f(caller, arguments.Params.ID, arguments.Params.Amount)
	if nil != err {
		return err
	}
	reply.Profile = profile
	return nil
}

// JoinGroup - add a group id to the caller's profile
func (p *Profile) JoinGroup(arguments *ListArguments, reply *UserReply) error {
	return p.change(MethodJoinGroup, p.Ledger.JoinGroup, arguments, reply)
}

// LeaveGroup - remove a group id from the caller's profile
func (p *Profile) LeaveGroup(arguments *ListArguments, reply *UserReply) error {
	return p.change(MethodLeaveGroup, p.Ledger.LeaveGroup, arguments, reply)
}

// Follow - add a user id to the caller's profile
func (p *Profile) Follow(arguments *ListArguments, reply *UserReply) error {
	return p.change(MethodFollow, p.Ledger.FollowUser, arguments, reply)
}

// Unfollow - remove a user id from the caller's profile
func (p *Profile) Unfollow(arguments *ListArguments, reply *UserReply) error {
	return p.change(MethodUnfollow, p.Ledger.UnfollowUser, arguments, reply)
}

// ---

// DeleteParams - the owner or creator of the profile to delete
type DeleteParams struct {
	Owner  address.Address `json:"owner"`
	Amount *uint64         `json:"amount,omitempty"`
}

// DeleteArguments - signed delete request
type DeleteArguments struct {
	Auth   auth.Envelope `json:"auth"`
	Params DeleteParams  `json:"params"`
}

// DeleteReply - empty result
type DeleteReply struct{}

// DeleteUser - close a user profile
func (p *Profile) DeleteUser(arguments *DeleteArguments, reply *DeleteReply) error {
	caller, err := auth.Authenticate(p.Limiter, p.Replays, MethodDeleteUser, arguments.Params, &arguments.Auth, p.Ledger.Now())
	if nil != err {
		return err
	}

	p.Log.Infof("delete user: caller: %s  owner: %s", caller, arguments.Params.Owner)

	return p.Ledger.DeleteUserProfile(caller, arguments.Params.Owner, arguments.Params.Amount)
}

// DeleteGroup - close a group profile
func (p *Profile) DeleteGroup(arguments *DeleteArguments, reply *DeleteReply) error {
	caller, err := auth.Authenticate(p.Limiter, p.Replays, MethodDeleteGroup, arguments.Params, &arguments.Auth, p.Ledger.Now())
	if nil != err {
		return err
	}

	p.Log.Infof("delete group: caller: %s  creator: %s", caller, arguments.Params.Owner)

	return p.Ledger.DeleteGroupProfile(caller, arguments.Params.Owner, arguments.Params.Amount)
}
