// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/fault"
)

// storage fee parameters
const (
	RecordOverhead = 128      // bytes charged in addition to the record
	ByteFee        = 3480 * 2 // native units per byte
)

// StorageFee - refundable deposit for holding size bytes
func StorageFee(size int) uint64 {
	return uint64(RecordOverhead+size) * ByteFee
}

// Balance - native balance of an address
func (c *Context) Balance(a address.Address) uint64 {
	n, _ := c.Trx.GetN(c.Pool.Balances, a[:])
	return n
}

// Transfer - move native units between two addresses
func (c *Context) Transfer(from address.Address, to address.Address, amount uint64) error {
	if 0 == amount || from == to {
		return nil
	}

	fromBalance := c.Balance(from)
	if fromBalance < amount {
		return fault.InsufficientFunds
	}
	toBalance := c.Balance(to)
	if toBalance+amount < toBalance {
		return fault.CounterOverflow
	}

	c.setBalance(from, fromBalance-amount)
	c.setBalance(to, toBalance+amount)
	return nil
}

// Deposit - create native units, only for genesis allocations
func (c *Context) Deposit(to address.Address, amount uint64) error {
	balance := c.Balance(to)
	if balance+amount < balance {
		return fault.CounterOverflow
	}
	c.setBalance(to, balance+amount)
	return nil
}

// zero balances are removed
func (c *Context) setBalance(a address.Address, amount uint64) {
	if 0 == amount {
		c.Trx.Delete(c.Pool.Balances, a[:])
		return
	}
	c.Trx.PutN(c.Pool.Balances, a[:], amount)
}
