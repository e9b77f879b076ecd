// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package registry_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/ledger/fixtures"
	"github.com/splinglabs/splingd/registry"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func TestNextBeforeInitialise(t *testing.T) {
	db := fixtures.NewDatabase(t)
	defer db.Close()
	ctx := fixtures.NewContext(t, db)
	defer ctx.Trx.Abort()

	_, err := registry.Next(ctx, registry.Users)
	assert.Equal(t, fault.NotInitialised, err)
}

func TestInitialiseOnce(t *testing.T) {
	db := fixtures.NewDatabase(t)
	defer db.Close()
	ctx := fixtures.NewContext(t, db)
	defer ctx.Trx.Abort()

	operator := fixtures.Account("operator")
	fixtures.Fund(t, ctx, operator)

	r, err := registry.Initialise(ctx, operator)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), r.Users)
	assert.Equal(t, uint16(0), r.Tags)

	_, err = registry.Initialise(ctx, operator)
	assert.Equal(t, fault.AlreadyInitialised, err)
}

func TestNextIssuesSequentialIDs(t *testing.T) {
	db := fixtures.NewDatabase(t)
	defer db.Close()
	ctx := fixtures.NewContext(t, db)

	operator := fixtures.Account("operator")
	fixtures.Fund(t, ctx, operator)
	_, err := registry.Initialise(ctx, operator)
	require.NoError(t, err)

	for expected := uint32(1); expected <= 5; expected += 1 {
		id, err := registry.Next(ctx, registry.Users)
		require.NoError(t, err)
		assert.Equal(t, expected, id, "user id")
	}

	id, err := registry.Next(ctx, registry.Posts)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), id, "counters are independent")

	id, err = registry.Next(ctx, registry.Tags)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), id)

	require.NoError(t, ctx.Trx.Commit())

	ctx = fixtures.NewContext(t, db)
	defer ctx.Trx.Abort()
	r, _, err := registry.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), r.Users)
	assert.Equal(t, uint32(0), r.Groups)
	assert.Equal(t, uint32(1), r.Posts)
	assert.Equal(t, uint16(1), r.Tags)
}

func TestAbortLeavesCountersUnchanged(t *testing.T) {
	db := fixtures.NewDatabase(t)
	defer db.Close()
	ctx := fixtures.NewContext(t, db)

	operator := fixtures.Account("operator")
	fixtures.Fund(t, ctx, operator)
	_, err := registry.Initialise(ctx, operator)
	require.NoError(t, err)
	require.NoError(t, ctx.Trx.Commit())

	ctx = fixtures.NewContext(t, db)
	_, err = registry.Next(ctx, registry.Groups)
	require.NoError(t, err)
	ctx.Trx.Abort()

	ctx = fixtures.NewContext(t, db)
	defer ctx.Trx.Abort()
	r, _, err := registry.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), r.Groups)
}
