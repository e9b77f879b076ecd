// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/ledger/fixtures"
	"github.com/splinglabs/splingd/rpc/auth"
)

type params struct {
	GroupID uint32 `json:"groupId"`
}

func TestSignVerify(t *testing.T) {
	alice, key := fixtures.Identity("alice")

	envelope, err := auth.Sign("Profile.JoinGroup", params{GroupID: 3}, key, fixtures.Now)
	require.NoError(t, err)
	assert.Equal(t, alice, envelope.Caller)

	caller, err := auth.Verify("Profile.JoinGroup", params{GroupID: 3}, &envelope, fixtures.Now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, alice, caller)
}

func TestVerifyRejects(t *testing.T) {
	_, key := fixtures.Identity("alice")
	bob := fixtures.Account("bob")

	envelope, err := auth.Sign("Profile.JoinGroup", params{GroupID: 3}, key, fixtures.Now)
	require.NoError(t, err)

	_, err = auth.Verify("Profile.JoinGroup", params{GroupID: 4}, &envelope, fixtures.Now)
	assert.Equal(t, fault.InvalidSignature, err, "changed params")

	_, err = auth.Verify("Profile.LeaveGroup", params{GroupID: 3}, &envelope, fixtures.Now)
	assert.Equal(t, fault.InvalidSignature, err, "changed method")

	_, err = auth.Verify("Profile.JoinGroup", params{GroupID: 3}, &envelope, fixtures.Now.Add(6*time.Minute))
	assert.Equal(t, fault.InvalidTimestamp, err, "stale")

	_, err = auth.Verify("Profile.JoinGroup", params{GroupID: 3}, &envelope, fixtures.Now.Add(-6*time.Minute))
	assert.Equal(t, fault.InvalidTimestamp, err, "future")

	forged := envelope
	forged.Caller = bob
	_, err = auth.Verify("Profile.JoinGroup", params{GroupID: 3}, &forged, fixtures.Now)
	assert.Equal(t, fault.InvalidSignature, err, "other caller")

	truncated := envelope
	truncated.Signature = truncated.Signature[:10]
	_, err = auth.Verify("Profile.JoinGroup", params{GroupID: 3}, &truncated, fixtures.Now)
	assert.Equal(t, fault.InvalidSignature, err, "short signature")

	_, err = auth.Verify("Profile.JoinGroup", params{GroupID: 3}, nil, fixtures.Now)
	assert.Equal(t, fault.MissingParameters, err, "no envelope")
}

func TestAuthenticateRateLimited(t *testing.T) {
	_, key := fixtures.Identity("alice")
	envelope, err := auth.Sign("Bank.Create", struct{}{}, key, fixtures.Now)
	require.NoError(t, err)

	// a zero burst limiter can never grant a reservation
	limiter := rate.NewLimiter(1, 0)
	replays := auth.NewReplays()
	_, err = auth.Authenticate(limiter, replays, "Bank.Create", struct{}{}, &envelope, fixtures.Now)
	assert.Equal(t, fault.RateLimiting, err)

	limiter = rate.NewLimiter(100, 10)
	_, err = auth.Authenticate(limiter, replays, "Bank.Create", struct{}{}, &envelope, fixtures.Now)
	assert.NoError(t, err, "refused requests are not recorded")
}

func TestAuthenticateRefusesRepeat(t *testing.T) {
	alice, key := fixtures.Identity("alice")
	limiter := rate.NewLimiter(100, 10)
	replays := auth.NewReplays()

	envelope, err := auth.Sign("Bank.FundWell", params{GroupID: 7}, key, fixtures.Now)
	require.NoError(t, err)

	caller, err := auth.Authenticate(limiter, replays, "Bank.FundWell", params{GroupID: 7}, &envelope, fixtures.Now)
	require.NoError(t, err)
	assert.Equal(t, alice, caller)

	_, err = auth.Authenticate(limiter, replays, "Bank.FundWell", params{GroupID: 7}, &envelope, fixtures.Now.Add(time.Minute))
	assert.Equal(t, fault.ReplayedRequest, err, "same envelope")

	// upper case hex decodes to the same signature
	recoded := envelope
	recoded.Signature = strings.ToUpper(envelope.Signature)
	_, err = auth.Authenticate(limiter, replays, "Bank.FundWell", params{GroupID: 7}, &recoded, fixtures.Now)
	assert.Equal(t, fault.ReplayedRequest, err, "re-encoded signature")

	// a forged envelope must not use up the genuine one
	other, err := auth.Sign("Bank.FundWell", params{GroupID: 8}, key, fixtures.Now)
	require.NoError(t, err)
	forged := other
	forged.Signature = envelope.Signature
	_, err = auth.Authenticate(limiter, replays, "Bank.FundWell", params{GroupID: 8}, &forged, fixtures.Now)
	assert.Equal(t, fault.InvalidSignature, err)
	_, err = auth.Authenticate(limiter, replays, "Bank.FundWell", params{GroupID: 8}, &other, fixtures.Now)
	assert.NoError(t, err)

	// a new timestamp is a new request
	later, err := auth.Sign("Bank.FundWell", params{GroupID: 7}, key, fixtures.Now.Add(time.Second))
	require.NoError(t, err)
	_, err = auth.Authenticate(limiter, replays, "Bank.FundWell", params{GroupID: 7}, &later, fixtures.Now)
	assert.NoError(t, err)
}
