// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node_test

import (
	"os"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splinglabs/splingd/counter"
	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/records"
	"github.com/splinglabs/splingd/rpc/fixtures"
	"github.com/splinglabs/splingd/rpc/node"
	"github.com/splinglabs/splingd/rpc/node/mocks"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func TestInfo(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	ledger := mocks.NewMockLedger(ctl)
	program := fixtures.Content("program")
	registry := &records.Registry{Users: 3, Posts: 7}

	ledger.EXPECT().Registry().Return(registry, nil).Times(1)
	ledger.EXPECT().Program().Return(program).Times(1)

	rpcs := counter.Counter(4)
	published := counter.Counter(9)
	n := node.New(logger.New(fixtures.LogCategory), ledger, time.Now().Add(-time.Minute), "v1.2.3", &rpcs, &published)

	var reply node.InfoReply
	require.NoError(t, n.Info(&node.InfoArguments{}, &reply))

	assert.Equal(t, program, reply.Program)
	assert.Equal(t, registry, reply.Registry)
	assert.Equal(t, uint64(4), reply.RPCs)
	assert.Equal(t, uint64(9), reply.Published)
	assert.Equal(t, "v1.2.3", reply.Version)
	assert.NotEmpty(t, reply.Uptime)
}

func TestInfoBeforeRegistry(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	ledger := mocks.NewMockLedger(ctl)
	ledger.EXPECT().Registry().Return(nil, fault.NotInitialised).Times(1)
	ledger.EXPECT().Program().Return(fixtures.Content("program")).Times(1)

	rpcs := counter.Counter(0)
	n := node.New(logger.New(fixtures.LogCategory), ledger, time.Now(), "dev", &rpcs, nil)

	var reply node.InfoReply
	require.NoError(t, n.Info(&node.InfoArguments{}, &reply))
	assert.Nil(t, reply.Registry)
	assert.Equal(t, uint64(0), reply.Published)
}

func TestInfoStorageError(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	ledger := mocks.NewMockLedger(ctl)
	ledger.EXPECT().Registry().Return(nil, fault.RecordTruncated).Times(1)

	rpcs := counter.Counter(0)
	n := node.New(logger.New(fixtures.LogCategory), ledger, time.Now(), "dev", &rpcs, nil)

	var reply node.InfoReply
	assert.Equal(t, fault.RecordTruncated, n.Info(&node.InfoArguments{}, &reply))
}
