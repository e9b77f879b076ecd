// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/records"
	"github.com/splinglabs/splingd/storage"
)

// SponsorFunc - optional source of storage fees for new records
//
// called before the payer is charged for a new record of size bytes
type SponsorFunc func(ctx *Context, payer address.Address, size int) error

// Context - everything one state transition may touch
//
// a context lives for exactly one storage transaction
type Context struct {
	Trx     storage.Transaction
	Pool    *storage.Pools
	Space   *address.Space
	Now     time.Time
	Log     *logger.L
	Sponsor SponsorFunc
}

// Derive - canonical address for a set of seeds
func (c *Context) Derive(seeds address.Seeds) (address.Address, byte, error) {
	return c.Space.Find(seeds)
}

// Exists - check whether a record is present
func (c *Context) Exists(pool *storage.PoolHandle, a address.Address) bool {
	return c.Trx.Has(pool, a[:])
}

// LoadAt - read and unpack the record at an address
//
// no derivation check is made, use Load when the seeds are known
func (c *Context) LoadAt(pool *storage.PoolHandle, a address.Address, notFound error) (records.Record, error) {
	packed := c.Trx.Get(pool, a[:])
	if nil == packed {
		return nil, notFound
	}
	r, _, err := records.Packed(packed).Unpack()
	if nil != err {
		return nil, err
	}
	return r, nil
}

// Load - derive the address for seeds, read the record and verify
// its stored canonical byte reproduces the address
func (c *Context) Load(pool *storage.PoolHandle, seeds address.Seeds, notFound error) (records.Record, address.Address, error) {
	a, _, err := c.Derive(seeds)
	if nil != err {
		return nil, address.Address{}, err
	}
	r, err := c.LoadAt(pool, a, notFound)
	if nil != err {
		return nil, a, err
	}
	if err := c.Space.Verify(a, seeds, r.CanonicalByte()); nil != err {
		return nil, a, err
	}
	return r, a, nil
}

// Allocate - store a new record and charge its storage fee to the payer
//
// the fee is held as the balance of the record address until Close
func (c *Context) Allocate(pool *storage.PoolHandle, a address.Address, r records.Record, payer address.Address, exists error) error {
	if c.Exists(pool, a) {
		return exists
	}

	packed, err := r.Pack()
	if nil != err {
		return err
	}

	if nil != c.Sponsor {
		if err := c.Sponsor(c, payer, len(packed)); nil != err {
			return err
		}
	}

	if err := c.Transfer(payer, a, StorageFee(len(packed))); nil != err {
		return err
	}

	c.Trx.Put(pool, a[:], packed)
	return nil
}

// Store - rewrite an existing record, resizing its storage fee
//
// growth is charged to the payer, shrinkage refunded to the payer
func (c *Context) Store(pool *storage.PoolHandle, a address.Address, r records.Record, payer address.Address) error {
	packed, err := r.Pack()
	if nil != err {
		return err
	}

	old := c.Trx.Get(pool, a[:])
	oldFee := StorageFee(len(old))
	newFee := StorageFee(len(packed))

	switch {
	case newFee > oldFee:
		err = c.Transfer(payer, a, newFee-oldFee)
	case newFee < oldFee:
		err = c.Transfer(a, payer, oldFee-newFee)
	}
	if nil != err {
		return err
	}

	c.Trx.Put(pool, a[:], packed)
	return nil
}

// Update - rewrite a fixed size record in place
func (c *Context) Update(pool *storage.PoolHandle, a address.Address, r records.Record) error {
	packed, err := r.Pack()
	if nil != err {
		return err
	}
	if len(packed) != len(c.Trx.Get(pool, a[:])) {
		return fault.WrongRecordSize
	}
	c.Trx.Put(pool, a[:], packed)
	return nil
}

// Close - remove a record and move its whole balance to destination
func (c *Context) Close(pool *storage.PoolHandle, a address.Address, destination address.Address) error {
	c.Trx.Delete(pool, a[:])
	return c.Transfer(a, destination, c.Balance(a))
}

// Critical - log an invariant violation and return it unchanged
func (c *Context) Critical(err error, format string, arguments ...interface{}) error {
	if nil != c.Log {
		c.Log.Criticalf(format, arguments...)
	}
	return err
}
