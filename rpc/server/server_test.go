// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server_test

import (
	"net"
	"net/rpc/jsonrpc"
	"os"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splinglabs/splingd/counter"
	"github.com/splinglabs/splingd/rpc/fixtures"
	"github.com/splinglabs/splingd/rpc/node"
	"github.com/splinglabs/splingd/rpc/profile"
	"github.com/splinglabs/splingd/rpc/query"
	"github.com/splinglabs/splingd/rpc/server"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func TestServicesOverJSON(t *testing.T) {
	db, e, c := fixtures.NewEngine(t)
	defer db.Close()

	rpcs := counter.Counter(1)
	s, _ := server.Create(logger.New(fixtures.LogCategory), e, "test", &rpcs, nil)

	serverSide, clientSide := net.Pipe()
	go s.ServeCodec(jsonrpc.NewServerCodec(serverSide))

	client := jsonrpc.NewClient(clientSide)
	defer client.Close()

	params := profile.CreateParams{Content: fixtures.Content("alice")}
	arguments := profile.CreateArguments{
		Auth:   fixtures.Sign(t, fixtures.Alice, profile.MethodCreateUser, params, c),
		Params: params,
	}
	var created profile.UserReply
	require.NoError(t, client.Call(profile.MethodCreateUser, &arguments, &created))
	assert.Equal(t, uint32(1), created.Profile.UserID)

	// replayed requests are rejected by the ledger
	err := client.Call(profile.MethodCreateUser, &arguments, &created)
	require.Error(t, err)
	assert.Equal(t, "user profile already exists", err.Error())

	var balance query.BalanceReply
	require.NoError(t, client.Call("Query.Balance", &query.KeyArguments{Key: fixtures.Alice.Account}, &balance))
	assert.Equal(t, uint64(fixtures.InitialTokens), balance.Tokens)

	var info node.InfoReply
	require.NoError(t, client.Call("Node.Info", &node.InfoArguments{}, &info))
	assert.Equal(t, "test", info.Version)
	assert.Equal(t, uint64(1), info.RPCs)
	require.NotNil(t, info.Registry)
	assert.Equal(t, uint32(1), info.Registry.Users)
}
