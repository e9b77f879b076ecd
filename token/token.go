// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package token

import (
	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/storage"
)

// Gateway - the token rail used for incentive payments
//
// a failed transfer aborts the whole transition, so implementations
// must write through the transaction they are given
type Gateway interface {
	Transfer(trx storage.Transaction, from address.Address, to address.Address, amount uint64) error
}

// Issuer - a gateway that can also create tokens and report balances
type Issuer interface {
	Gateway
	Mint(trx storage.Transaction, to address.Address, amount uint64) error
	Balance(owner address.Address) uint64
}

// Ledger - token balances kept in the local database
type Ledger struct {
	pool *storage.PoolHandle
}

// NewLedger - token ledger over a balance pool
func NewLedger(pool *storage.PoolHandle) *Ledger {
	return &Ledger{
		pool: pool,
	}
}

// Transfer - move tokens between two owners
func (l *Ledger) Transfer(trx storage.Transaction, from address.Address, to address.Address, amount uint64) error {
	if 0 == amount || from == to {
		return nil
	}

	fromBalance, _ := trx.GetN(l.pool, from[:])
	if fromBalance < amount {
		return fault.InsufficientTokens
	}
	toBalance, _ := trx.GetN(l.pool, to[:])
	if toBalance+amount < toBalance {
		return fault.CounterOverflow
	}

	trx.PutN(l.pool, from[:], fromBalance-amount)
	trx.PutN(l.pool, to[:], toBalance+amount)
	return nil
}

// Mint - create tokens for an owner
func (l *Ledger) Mint(trx storage.Transaction, to address.Address, amount uint64) error {
	balance, _ := trx.GetN(l.pool, to[:])
	if balance+amount < balance {
		return fault.CounterOverflow
	}
	trx.PutN(l.pool, to[:], balance+amount)
	return nil
}

// Balance - committed token balance of an owner
func (l *Ledger) Balance(owner address.Address) uint64 {
	n, _ := l.pool.GetN(owner[:])
	return n
}
