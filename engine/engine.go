// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package engine - the single entry point for all state transitions
//
// one transition executes at a time; each runs inside its own storage
// transaction which is committed only if every step succeeds, so a
// failed transition leaves no partial write
package engine

import (
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/google/uuid"

	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/content"
	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/feebank"
	"github.com/splinglabs/splingd/ledger"
	"github.com/splinglabs/splingd/profile"
	"github.com/splinglabs/splingd/storage"
	"github.com/splinglabs/splingd/token"
)

// Configuration - fixed identities and policy
type Configuration struct {
	Program    address.Address // all record addresses are derived under this
	Treasury   address.Address // receives incentive token payments
	Automation address.Address // the only caller allowed to fire expiry
	Strict     bool            // set semantics for group and follow lists
}

// Clock - source of transition time
type Clock interface {
	Now() time.Time
}

// SystemClock - wall clock time
type SystemClock struct{}

// Now - current UTC time
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Event - a committed transition
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Operation string          `json:"operation"`
	Caller    address.Address `json:"caller"`
	Address   address.Address `json:"address"`
	Timestamp time.Time       `json:"timestamp"`
}

// Observer - receives every committed transition in commit order
//
// called with the engine lock held so must not block or call back
type Observer interface {
	Committed(event Event)
}

// Engine - serialised state transitions over one database
type Engine struct {
	sync.Mutex

	log      *logger.L
	db       *storage.Database
	space    *address.Space
	clock    Clock
	observer Observer
	tokens   token.Gateway

	automation address.Address
	fees       *feebank.Fees
	profiles   *profile.Store
	content    *content.Store
}

// New - engine over an open database
//
// observer may be nil
func New(log *logger.L, db *storage.Database, configuration *Configuration, tokens token.Gateway, clock Clock, observer Observer) *Engine {
	if nil == clock {
		clock = SystemClock{}
	}
	fees := feebank.New(tokens, configuration.Treasury)
	return &Engine{
		log:        log,
		db:         db,
		space:      address.NewSpace(configuration.Program),
		clock:      clock,
		observer:   observer,
		tokens:     tokens,
		automation: configuration.Automation,
		fees:       fees,
		profiles:   profile.New(fees, configuration.Strict),
		content:    content.New(fees),
	}
}

// Program - identity that all addresses are derived under
func (e *Engine) Program() address.Address {
	return e.space.Program()
}

// a mutating step returns the main address it touched
type step func(ctx *ledger.Context) (address.Address, error)

// run one transition: begin, apply, then commit or abort
func (e *Engine) transition(operation string, caller address.Address, f step) error {
	e.Lock()
	defer e.Unlock()

	ctx, err := e.begin()
	if nil != err {
		e.log.Errorf("%s: begin error: %s", operation, err)
		return err
	}

	// release the transaction before the panic continues, otherwise
	// every later begin fails
	defer func() {
		if r := recover(); nil != r {
			ctx.Trx.Abort()
			e.log.Criticalf("%s: caller: %s  panic: %v", operation, caller, r)
			panic(r)
		}
	}()

	a, err := f(ctx)
	if nil != err {
		ctx.Trx.Abort()
		if fault.IsErrInvariant(err) {
			e.log.Criticalf("%s: caller: %s  aborted: %s", operation, caller, err)
		} else {
			e.log.Warnf("%s: caller: %s  rejected: %s", operation, caller, err)
		}
		return err
	}

	err = ctx.Trx.Commit()
	if nil != err {
		e.log.Errorf("%s: caller: %s  commit error: %s", operation, caller, err)
		return err
	}
	e.log.Infof("%s: caller: %s  address: %s", operation, caller, a)

	if nil != e.observer {
		e.observer.Committed(Event{
			ID:        uuid.New(),
			Operation: operation,
			Caller:    caller,
			Address:   a,
			Timestamp: ctx.Now,
		})
	}
	return nil
}

// run a read only function against current state
func (e *Engine) read(f func(ctx *ledger.Context) error) error {
	e.Lock()
	defer e.Unlock()

	ctx, err := e.begin()
	if nil != err {
		return err
	}
	defer ctx.Trx.Abort()

	return f(ctx)
}

func (e *Engine) begin() (*ledger.Context, error) {
	trx, err := e.db.Begin()
	if nil != err {
		return nil, err
	}
	return &ledger.Context{
		Trx:     trx,
		Pool:    &e.db.Pool,
		Space:   e.space,
		Now:     e.clock.Now().UTC(),
		Log:     e.log,
		Sponsor: e.fees.Sponsor,
	}, nil
}
