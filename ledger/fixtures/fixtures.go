// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fixtures

import (
	"crypto/sha256"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ed25519"

	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/ledger"
	"github.com/splinglabs/splingd/storage"
)

const (
	dir         = "testing"
	LogCategory = "testing"
)

// Program - identity all test addresses are derived under
var Program = address.Address{
	0x53, 0x70, 0x6c, 0x69, 0x6e, 0x67, 0x20, 0x74,
	0x65, 0x73, 0x74, 0x20, 0x70, 0x72, 0x6f, 0x67,
	0x72, 0x61, 0x6d, 0x20, 0x69, 0x64, 0x65, 0x6e,
	0x74, 0x69, 0x74, 0x79, 0x20, 0x30, 0x30, 0x31,
}

// Now - fixed transition time for tests
var Now = time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)

// Rich - initial native balance given to funded identities
const Rich = 1000000000000

func SetupTestLogger() {
	removeFiles()
	_ = os.Mkdir(dir, 0700)

	logging := logger.Configuration{
		Directory: dir,
		File:      fmt.Sprintf("%s.log", LogCategory),
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

func TeardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

func removeFiles() {
	err := os.RemoveAll(dir)
	if nil != err {
		fmt.Println("remove dir with error: ", err)
	}
}

// Identity - deterministic ed25519 key pair for a test actor
func Identity(name string) (address.Address, ed25519.PrivateKey) {
	seed := sha256.Sum256([]byte(name))
	privateKey := ed25519.NewKeyFromSeed(seed[:])
	a, _ := address.FromBytes(privateKey.Public().(ed25519.PublicKey))
	return a, privateKey
}

// Account - public identity of a test actor
func Account(name string) address.Address {
	a, _ := Identity(name)
	return a
}

// NewDatabase - empty memory database
func NewDatabase(t *testing.T) *storage.Database {
	db, err := storage.Open("", storage.ReadWrite)
	require.NoError(t, err, "open memory database")
	return db
}

// NewContext - a transition context with an open transaction on db
func NewContext(t *testing.T, db *storage.Database) *ledger.Context {
	trx, err := db.Begin()
	require.NoError(t, err, "begin transaction")

	return &ledger.Context{
		Trx:   trx,
		Pool:  &db.Pool,
		Space: address.NewSpace(Program),
		Now:   Now,
		Log:   logger.New(LogCategory),
	}
}

// Fund - give each named actor a large native balance
func Fund(t *testing.T, ctx *ledger.Context, accounts ...address.Address) {
	for _, a := range accounts {
		require.NoError(t, ctx.Deposit(a, Rich), "deposit")
	}
}

// FundWell - give the fee well a large native balance
func FundWell(t *testing.T, ctx *ledger.Context) {
	well, _, err := ctx.Derive(address.Well())
	require.NoError(t, err, "derive well")
	Fund(t, ctx, well)
}
