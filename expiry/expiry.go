// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package expiry - timed self deletion of posts
//
// each post moves through:
//
//   Created -> Scheduled -> Triggered -> Deleted
//                       \-> ManuallyDeleted
//
// Register records a thread at an address derived from the post;
// the automation process later calls Expire as its own transition.
// A manual delete cancels the thread, and Expire against a post that
// is already gone succeeds without changing anything.
package expiry

import (
	"time"

	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/feebank"
	"github.com/splinglabs/splingd/ledger"
	"github.com/splinglabs/splingd/records"
	"github.com/splinglabs/splingd/storage"
)

// Result - outcome of an expiry callback
type Result int

// possible results
const (
	Expired     Result = iota // post, likes and thread were closed
	AlreadyGone               // post had been deleted, nothing to do
)

// String - name for logging and RPC replies
func (r Result) String() string {
	switch r {
	case Expired:
		return "expired"
	case AlreadyGone:
		return "already-gone"
	default:
		return "*unknown*"
	}
}

// Register - schedule expiry of a new post
//
// the thread stores the post canonical byte so the callback can prove
// the post address without the post itself
func Register(ctx *ledger.Context, post address.Address, postCanonical byte, content address.Address, author address.Address, schedule string, payer address.Address) (*records.Thread, error) {
	if "" == schedule {
		schedule = DefaultSchedule
	}
	if _, err := ParseSchedule(schedule); nil != err {
		return nil, err
	}

	a, canonical, err := ctx.Derive(address.Thread(post))
	if nil != err {
		return nil, err
	}

	thread := &records.Thread{
		Post:          post,
		PostCanonical: postCanonical,
		Content:       content,
		Author:        author,
		Schedule:      schedule,
		Created:       ctx.Now.Unix(),
		Canonical:     canonical,
	}
	if err := ctx.Allocate(ctx.Pool.Threads, a, thread, payer, fault.ThreadAlreadyExists); nil != err {
		return nil, err
	}
	return thread, nil
}

// Cancel - drop the registration of a post if there is one
func Cancel(ctx *ledger.Context, post address.Address) (bool, error) {
	a, _, err := ctx.Derive(address.Thread(post))
	if nil != err {
		return false, err
	}
	if !ctx.Exists(ctx.Pool.Threads, a) {
		return false, nil
	}
	return true, feebank.Reclaim(ctx, ctx.Pool.Threads, a)
}

// Expire - the callback invoked by automation
//
// declared addresses must match those derived from the content hash;
// a post that is already gone is a successful no-op
func Expire(ctx *ledger.Context, content address.Address, author address.Address, declaredPost address.Address, declaredThread address.Address) (Result, error) {
	post, _, err := ctx.Derive(address.Post(content))
	if nil != err {
		return AlreadyGone, err
	}
	if post != declaredPost {
		return AlreadyGone, fault.AddressMismatch
	}
	threadAddress, _, err := ctx.Derive(address.Thread(post))
	if nil != err {
		return AlreadyGone, err
	}
	if threadAddress != declaredThread {
		return AlreadyGone, fault.AddressMismatch
	}

	if !ctx.Exists(ctx.Pool.Posts, post) {
		// a stale registration may remain if it was never cancelled
		if _, err := Cancel(ctx, post); nil != err {
			return AlreadyGone, err
		}
		return AlreadyGone, nil
	}

	r, err := ctx.LoadAt(ctx.Pool.Threads, threadAddress, fault.ThreadNotFound)
	if nil != err {
		return AlreadyGone, err
	}
	thread, ok := r.(*records.Thread)
	if !ok {
		return AlreadyGone, fault.RecordTypeMismatch
	}
	if err := ctx.Space.Verify(threadAddress, address.Thread(post), thread.Canonical); nil != err {
		return AlreadyGone, err
	}
	if err := ctx.Space.Verify(post, address.Post(content), thread.PostCanonical); nil != err {
		return AlreadyGone, err
	}
	if thread.Author != author || thread.Post != post {
		return AlreadyGone, fault.AddressMismatch
	}

	due, err := DueAt(thread.Schedule, time.Unix(thread.Created, 0).UTC())
	if nil != err {
		return AlreadyGone, err
	}
	if ctx.Now.Before(due) {
		return AlreadyGone, fault.NotDue
	}

	likes, _, err := ctx.Derive(address.Likes(post))
	if nil != err {
		return AlreadyGone, err
	}
	for _, item := range []struct {
		pool *storage.PoolHandle
		a    address.Address
	}{
		{ctx.Pool.Posts, post},
		{ctx.Pool.Likes, likes},
		{ctx.Pool.Threads, threadAddress},
	} {
		if !ctx.Exists(item.pool, item.a) {
			continue
		}
		if err := feebank.Reclaim(ctx, item.pool, item.a); nil != err {
			return AlreadyGone, err
		}
	}
	return Expired, nil
}

// Pending - a registration found by Due
type Pending struct {
	Thread  address.Address
	Record  *records.Thread
	DueTime time.Time
}

// Due - committed registrations whose trigger time is not after now
//
// reads committed state only so it is safe to call outside of a
// transaction; the callback still makes its own checks
func Due(pools *storage.Pools, now time.Time, limit int) ([]Pending, error) {
	result := make([]Pending, 0, 16)
	err := pools.Threads.NewCursor().Each(func(key []byte, value []byte) (bool, error) {
		r, _, err := records.Packed(value).Unpack()
		if nil != err {
			return false, err
		}
		thread, ok := r.(*records.Thread)
		if !ok {
			return false, fault.RecordTypeMismatch
		}
		due, err := DueAt(thread.Schedule, time.Unix(thread.Created, 0).UTC())
		if nil != err {
			return false, err
		}
		if due.After(now) {
			return true, nil
		}
		a, err := address.FromBytes(key)
		if nil != err {
			return false, err
		}
		result = append(result, Pending{
			Thread:  a,
			Record:  thread,
			DueTime: due,
		})
		return limit <= 0 || len(result) < limit, nil
	})
	if nil != err {
		return nil, err
	}
	return result, nil
}
