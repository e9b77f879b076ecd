// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package feebank

import (
	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/ledger"
	"github.com/splinglabs/splingd/records"
	"github.com/splinglabs/splingd/storage"
	"github.com/splinglabs/splingd/token"
)

// fixed amounts in native units
const (
	BankCapacity   = 9900    // bytes of storage the bank can sponsor
	ProfileSubsidy = 1000000 // paid to a new user without a payment
	ReplySubsidy   = 2000000 // paid to a replier without a payment
)

// Fees - storage fee reserve, fee well and incentive payments
type Fees struct {
	Tokens   token.Gateway
	Treasury address.Address
}

// New - fee handling with a token rail and the treasury that receives
// incentive payments
func New(tokens token.Gateway, treasury address.Address) *Fees {
	return &Fees{
		Tokens:   tokens,
		Treasury: treasury,
	}
}

// WellAddress - address of the fee well whether or not it exists yet
func WellAddress(ctx *ledger.Context) (address.Address, error) {
	a, _, err := ctx.Derive(address.Well())
	return a, err
}

// CreateBank - one time creation of the storage fee reserve
//
// the operator pays for the record and for the full sponsored capacity
func (f *Fees) CreateBank(ctx *ledger.Context, operator address.Address) (*records.Bank, error) {
	a, canonical, err := ctx.Derive(address.Bank())
	if nil != err {
		return nil, err
	}

	bank := &records.Bank{
		Size:      BankCapacity,
		Operator:  operator,
		Canonical: canonical,
	}
	if err := ctx.Allocate(ctx.Pool.Banks, a, bank, operator, fault.BankAlreadyExists); nil != err {
		return nil, err
	}
	if err := ctx.Transfer(operator, a, uint64(BankCapacity)*ledger.ByteFee); nil != err {
		return nil, err
	}
	return bank, nil
}

// CreateWell - one time creation of the fee well placeholder
func (f *Fees) CreateWell(ctx *ledger.Context, operator address.Address) (*records.Well, error) {
	a, canonical, err := ctx.Derive(address.Well())
	if nil != err {
		return nil, err
	}

	well := &records.Well{
		Canonical: canonical,
	}
	if err := ctx.Allocate(ctx.Pool.Wells, a, well, operator, fault.WellAlreadyExists); nil != err {
		return nil, err
	}
	return well, nil
}

// LoadBank - read the verified bank
func LoadBank(ctx *ledger.Context) (*records.Bank, address.Address, error) {
	r, a, err := ctx.Load(ctx.Pool.Banks, address.Bank(), fault.BankNotFound)
	if nil != err {
		return nil, a, err
	}
	bank, ok := r.(*records.Bank)
	if !ok {
		return nil, a, fault.RecordTypeMismatch
	}
	return bank, a, nil
}

// ResetBank - restore the bank to full capacity
//
// only the operator may reset; the spent reserve is topped up from the
// operator
func (f *Fees) ResetBank(ctx *ledger.Context, operator address.Address) (*records.Bank, error) {
	bank, a, err := LoadBank(ctx)
	if nil != err {
		return nil, err
	}
	if bank.Operator != operator {
		return nil, fault.Unauthorised
	}

	spent := uint64(BankCapacity-bank.Size) * ledger.ByteFee
	if err := ctx.Transfer(operator, a, spent); nil != err {
		return nil, err
	}

	bank.Size = BankCapacity
	if err := ctx.Update(ctx.Pool.Banks, a, bank); nil != err {
		return nil, err
	}
	return bank, nil
}

// ExtractBank - operator token payment mirrored by a native transfer
// of the same amount from the well to the operator
func (f *Fees) ExtractBank(ctx *ledger.Context, operator address.Address, amount uint64) error {
	bank, _, err := LoadBank(ctx)
	if nil != err {
		return err
	}
	if bank.Operator != operator {
		return fault.Unauthorised
	}
	return f.Settle(ctx, operator, &amount)
}

// FundWell - move native units from a funder into the well
func (f *Fees) FundWell(ctx *ledger.Context, funder address.Address, amount uint64) error {
	well, err := WellAddress(ctx)
	if nil != err {
		return err
	}
	return ctx.Transfer(funder, well, amount)
}

// Sponsor - let the bank pay for size bytes of a new record
//
// the bank shrinks and releases the fee for those bytes to the payer;
// when the bank is absent or too small the payer pays alone
func (f *Fees) Sponsor(ctx *ledger.Context, payer address.Address, size int) error {
	bank, a, err := LoadBank(ctx)
	if fault.BankNotFound == err {
		return nil
	}
	if nil != err {
		return err
	}
	if int(bank.Size) < size {
		return nil
	}

	bank.Size -= uint16(size)
	if err := ctx.Update(ctx.Pool.Banks, a, bank); nil != err {
		return err
	}
	return ctx.Transfer(a, payer, uint64(size)*ledger.ByteFee)
}

// Subsidise - pay a fixed amount from the well
func (f *Fees) Subsidise(ctx *ledger.Context, to address.Address, amount uint64) error {
	well, err := WellAddress(ctx)
	if nil != err {
		return err
	}
	return ctx.Transfer(well, to, amount)
}

// Settle - the optional incentive payment carried by most operations
//
// nil amount does nothing; otherwise the payer sends the amount in
// tokens to the treasury and receives the same amount in native units
// from the well
func (f *Fees) Settle(ctx *ledger.Context, payer address.Address, amount *uint64) error {
	if nil == amount {
		return nil
	}
	if nil == f.Tokens {
		return fault.MissingParameters
	}
	if err := f.Tokens.Transfer(ctx.Trx, payer, f.Treasury, *amount); nil != err {
		return err
	}
	return f.Subsidise(ctx, payer, *amount)
}

// SettleOrSubsidise - payment when an amount is given, else a fixed
// subsidy from the well
func (f *Fees) SettleOrSubsidise(ctx *ledger.Context, payer address.Address, amount *uint64, subsidy uint64) error {
	if nil == amount {
		return f.Subsidise(ctx, payer, subsidy)
	}
	return f.Settle(ctx, payer, amount)
}

// Reclaim - close a record and return its storage fee to the well
func Reclaim(ctx *ledger.Context, pool *storage.PoolHandle, a address.Address) error {
	well, err := WellAddress(ctx)
	if nil != err {
		return err
	}
	return ctx.Close(pool, a, well)
}
