// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fixtures - a ready to use engine for rpc service tests
package fixtures

import (
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ed25519"

	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/engine"
	ledgerfixtures "github.com/splinglabs/splingd/ledger/fixtures"
	"github.com/splinglabs/splingd/rpc/auth"
	"github.com/splinglabs/splingd/storage"
	"github.com/splinglabs/splingd/token"
)

// LogCategory - shared with the ledger fixtures
const LogCategory = ledgerfixtures.LogCategory

// InitialTokens - incentive tokens given to alice and bob
const InitialTokens = 1000

// Actor - a named signing identity
type Actor struct {
	Account    address.Address
	PrivateKey ed25519.PrivateKey
}

// NewActor - deterministic actor for a name
func NewActor(name string) Actor {
	a, key := ledgerfixtures.Identity(name)
	return Actor{Account: a, PrivateKey: key}
}

// standard actors
var (
	Alice      = NewActor("alice")
	Bob        = NewActor("bob")
	Operator   = NewActor("operator")
	Treasury   = NewActor("treasury")
	Automation = NewActor("automation")
)

// Clock - manually advanced time
type Clock struct {
	Time time.Time
}

// Now - current fixed time
func (c *Clock) Now() time.Time {
	return c.Time
}

// SetupTestLogger - start logging to the test directory
func SetupTestLogger() {
	ledgerfixtures.SetupTestLogger()
}

// TeardownTestLogger - stop logging and remove the test directory
func TeardownTestLogger() {
	ledgerfixtures.TeardownTestLogger()
}

// Content - a content address made from a short string
func Content(s string) address.Address {
	var a address.Address
	copy(a[:], s)
	return a
}

// NewEngine - memory backed engine with funded actors, registry, tag
// index and a funded well
func NewEngine(t *testing.T) (*storage.Database, *engine.Engine, *Clock) {
	db := ledgerfixtures.NewDatabase(t)
	c := &Clock{Time: ledgerfixtures.Now}

	configuration := &engine.Configuration{
		Program:    ledgerfixtures.Program,
		Treasury:   Treasury.Account,
		Automation: Automation.Account,
	}
	e := engine.New(logger.New(LogCategory), db, configuration, token.NewLedger(db.Pool.TokenAccounts), c, nil)

	allocations := []engine.Allocation{
		{Owner: Alice.Account, Native: ledgerfixtures.Rich, Tokens: InitialTokens},
		{Owner: Bob.Account, Native: ledgerfixtures.Rich, Tokens: InitialTokens},
		{Owner: Operator.Account, Native: ledgerfixtures.Rich},
	}
	require.NoError(t, e.Genesis(allocations), "genesis")

	_, err := e.InitialiseRegistry(Operator.Account)
	require.NoError(t, err, "registry")
	_, err = e.InitialiseTags(Operator.Account)
	require.NoError(t, err, "tags")
	_, err = e.CreateWell(Operator.Account)
	require.NoError(t, err, "well")
	require.NoError(t, e.FundWell(Operator.Account, ledgerfixtures.Rich/2), "fund well")

	return db, e, c
}

// Sign - envelope for a request by actor at the clock time
func Sign(t *testing.T, actor Actor, method string, params interface{}, c *Clock) auth.Envelope {
	envelope, err := auth.Sign(method, params, actor.PrivateKey, c.Now())
	require.NoError(t, err, "sign")
	return envelope
}
