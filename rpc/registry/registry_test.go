// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package registry_test

import (
	"os"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/rpc/fixtures"
	"github.com/splinglabs/splingd/rpc/registry"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func TestInitialiseOnlyOnce(t *testing.T) {
	db, e, c := fixtures.NewEngine(t)
	defer db.Close()

	r := registry.New(logger.New(fixtures.LogCategory), e)

	arguments := registry.Arguments{
		Auth: fixtures.Sign(t, fixtures.Bob, registry.MethodInitialise, registry.Params{}, c),
	}
	var reply registry.InitialiseReply
	assert.Equal(t, fault.AlreadyInitialised, r.Initialise(&arguments, &reply))
	assert.Nil(t, reply.Registry)

	tagArguments := registry.Arguments{
		Auth: fixtures.Sign(t, fixtures.Bob, registry.MethodInitialiseTags, registry.Params{}, c),
	}
	var tagReply registry.InitialiseTagsReply
	assert.Equal(t, fault.TagsAlreadyExist, r.InitialiseTags(&tagArguments, &tagReply))
}

func TestSignatureBoundToMethod(t *testing.T) {
	db, e, c := fixtures.NewEngine(t)
	defer db.Close()

	r := registry.New(logger.New(fixtures.LogCategory), e)

	// signed for the tag index but sent to the registry
	arguments := registry.Arguments{
		Auth: fixtures.Sign(t, fixtures.Bob, registry.MethodInitialiseTags, registry.Params{}, c),
	}
	var reply registry.InitialiseReply
	require.Equal(t, fault.InvalidSignature, r.Initialise(&arguments, &reply))
}
