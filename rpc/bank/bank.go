// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bank

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
	rateLimitBank = 10
	rateBurstBank = 5
)

// method names
const (
	MethodCreate     = "Bank.Create"
	MethodCreateWell = "Bank.CreateWell"
	MethodReset      = "Bank.Reset"
	MethodExtract    = "Bank.Extract"
	MethodFundWell   = "Bank.FundWell"
)

// Ledger - the engine operations used
type Ledger interface {
	Now() time.Time
	CreateBank(caller address.Address) (*records.Bank, error)
	CreateWell(caller address.Address) (*records.Well, error)
	ResetBank(caller address.Address) (*records.Bank, error)
	ExtractBank(caller address.Address, amount uint64) error
	FundWell(caller address.Address, amount uint64) error
}

// Bank - type for RPC calls
type Bank struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Replays *auth.Replays
	Ledger  Ledger
}

// New - create the bank service
func New(log *logger.L, ledger Ledger) *Bank {
	return &Bank{
		Log:     log,
		Limiter: ratelimit.New(rateLimitBank, rateBurstBank),
		Replays: auth.NewReplays(),
		Ledger:  ledger,
	}
}

// Params - no parameters are needed
type Params struct{}

// Arguments - signed empty request
type Arguments struct {
	Auth   auth.Envelope `json:"auth"`
	Params Params        `json:"params"`
}

// AmountParams - native amount to move
type AmountParams struct {
	Amount uint64 `json:"amount,string"`
}

// AmountArguments - signed transfer request
type AmountArguments struct {
	Auth   auth.Envelope `json:"auth"`
	Params AmountParams  `json:"params"`
}

// BankReply - the bank after the operation
type BankReply struct {
	Bank *records.Bank `json:"bank"`
}

// WellReply - the created well
type WellReply struct {
	Well *records.Well `json:"well"`
}

// EmptyReply - no result
type EmptyReply struct{}

// Create - create the storage fee bank operated by the caller
func (b *Bank) Create(arguments *Arguments, reply *BankReply) error {
	caller, err := auth.Authenticate(b.Limiter, b.Replays, MethodCreate, arguments.Params, &arguments.Auth, b.Ledger.Now())
	if nil != err {
		return err
	}

	b.Log.Infof("create bank: operator: %s", caller)

	bank, err := b.Ledger.CreateBank(caller)
	if nil != err {
		return err
	}
	reply.Bank = bank
	return nil
}

// CreateWell - create the fee well
func (b *Bank) CreateWell(arguments *Arguments, reply *WellReply) error {
	caller, err := auth.Authenticate(b.Limiter, b.Replays, MethodCreateWell, arguments.Params, &arguments.Auth, b.Ledger.Now())
	if nil != err {
		return err
	}

	b.Log.Infof("create well: caller: %s", caller)

	well, err := b.Ledger.CreateWell(caller)
	if nil != err {
		return err
	}
	reply.Well = well
	return nil
}

// Reset - restore the bank to full capacity
func (b *Bank) Reset(arguments *Arguments, reply *BankReply) error {
	caller, err := auth.Authenticate(b.Limiter, b.Replays, MethodReset, arguments.Params, &arguments.Auth, b.Ledger.Now())
	if nil != err {
		return err
	}

	b.Log.Infof("reset bank: caller: %s", caller)

	bank, err := b.Ledger.ResetBank(caller)
	if nil != err {
		return err
	}
	reply.Bank = bank
	return nil
}

// Extract - move native balance from the bank to the operator
func (b *Bank) Extract(arguments *AmountArguments, reply *EmptyReply) error {
	caller, err := auth.Authenticate(b.Limiter, b.Replays, MethodExtract, arguments.Params, &arguments.Auth, b.Ledger.Now())
	if nil != err {
		return err
	}

	b.Log.Infof("extract bank: caller: %s  amount: %d", caller, arguments.Params.Amount)

	return b.Ledger.ExtractBank(caller, arguments.Params.Amount)
}

// FundWell - move native balance from the caller to the well
func (b *Bank) FundWell(arguments *AmountArguments, reply *EmptyReply) error {
	caller, err := auth.Authenticate(b.Limiter, b.Replays, MethodFundWell, arguments.Params, &arguments.Auth, b.Ledger.Now())
	if nil != err {
		return err
	}

	b.Log.Infof("fund well: caller: %s  amount: %d", caller, arguments.Params.Amount)

	return b.Ledger.FundWell(caller, arguments.Params.Amount)
}
