// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package query

import (
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/expiry"
	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/records"
	"github.com/splinglabs/splingd/rpc/ratelimit"
)

const (
	rateLimitQuery = 500
	rateBurstQuery = 200

	maximumDue = 100
)

// Ledger - the engine lookups used
type Ledger interface {
	Now() time.Time
	Registry() (*records.Registry, error)
	Tags() (*records.TagList, error)
	UserProfile(owner address.Address) (*records.UserProfile, address.Address, error)
	GroupProfile(creator address.Address) (*records.GroupProfile, address.Address, error)
	Post(content address.Address) (*records.Post, address.Address, error)
	Reply(content address.Address) (*records.Reply, address.Address, error)
	Likes(post address.Address) (*records.Likes, address.Address, error)
	Bank() (*records.Bank, address.Address, error)
	Thread(post address.Address) (*records.Thread, address.Address, error)
	Derive(seeds address.Seeds) (address.Address, byte, error)
	Balance(a address.Address) (uint64, error)
	TokenBalance(owner address.Address) (uint64, error)
	Due(now time.Time, limit int) ([]expiry.Pending, error)
}

// Query - type for RPC calls, no signature needed
type Query struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Ledger  Ledger
}

// New - create the query service
func New(log *logger.L, ledger Ledger) *Query {
	return &Query{
		Log:     log,
		Limiter: ratelimit.New(rateLimitQuery, rateBurstQuery),
		Ledger:  ledger,
	}
}

// EmptyArguments - for singleton lookups
type EmptyArguments struct{}

// KeyArguments - lookup by identity, content hash or post address
type KeyArguments struct {
	Key address.Address `json:"key"`
}

// RecordReply - a record and the address it is stored at
type RecordReply struct {
	Address address.Address `json:"address"`
	Record  interface{}     `json:"record"`
}

func (q *Query) limit() error {
	return ratelimit.Limit(q.Limiter)
}

// Registry - the global counters
func (q *Query) Registry(_ *EmptyArguments, reply *RecordReply) error {
	if err := q.limit(); nil != err {
		return err
	}
	r, err := q.Ledger.Registry()
	if nil != err {
		return err
	}
	a, _, err := q.Ledger.Derive(address.Registry())
	if nil != err {
		return err
	}
	reply.Address = a
	reply.Record = r
	return nil
}

// Tags - the tag index
func (q *Query) Tags(_ *EmptyArguments, reply *RecordReply) error {
	if err := q.limit(); nil != err {
		return err
	}
	tags, err := q.Ledger.Tags()
	if nil != err {
		return err
	}
	a, _, err := q.Ledger.Derive(address.Tags())
	if nil != err {
		return err
	}
	reply.Address = a
	reply.Record = tags
	return nil
}

// User - profile of an owner identity
func (q *Query) User(arguments *KeyArguments, reply *RecordReply) error {
	if err := q.limit(); nil != err {
		return err
	}
	p, a, err := q.Ledger.UserProfile(arguments.Key)
	if nil != err {
		return err
	}
	reply.Address = a
	reply.Record = p
	return nil
}

// Group - group of a creator identity
func (q *Query) Group(arguments *KeyArguments, reply *RecordReply) error {
	if err := q.limit(); nil != err {
		return err
	}
	g, a, err := q.Ledger.GroupProfile(arguments.Key)
	if nil != err {
		return err
	}
	reply.Address = a
	reply.Record = g
	return nil
}

// Post - post for a content hash
func (q *Query) Post(arguments *KeyArguments, reply *RecordReply) error {
	if err := q.limit(); nil != err {
		return err
	}
	p, a, err := q.Ledger.Post(arguments.Key)
	if nil != err {
		return err
	}
	reply.Address = a
	reply.Record = p
	return nil
}

// Reply - reply for a content hash
func (q *Query) Reply(arguments *KeyArguments, reply *RecordReply) error {
	if err := q.limit(); nil != err {
		return err
	}
	r, a, err := q.Ledger.Reply(arguments.Key)
	if nil != err {
		return err
	}
	reply.Address = a
	reply.Record = r
	return nil
}

// Likes - likes for a post address
func (q *Query) Likes(arguments *KeyArguments, reply *RecordReply) error {
	if err := q.limit(); nil != err {
		return err
	}
	l, a, err := q.Ledger.Likes(arguments.Key)
	if nil != err {
		return err
	}
	reply.Address = a
	reply.Record = l
	return nil
}

// Bank - the storage fee reserve
func (q *Query) Bank(_ *EmptyArguments, reply *RecordReply) error {
	if err := q.limit(); nil != err {
		return err
	}
	b, a, err := q.Ledger.Bank()
	if nil != err {
		return err
	}
	reply.Address = a
	reply.Record = b
	return nil
}

// Thread - expiry registration for a post address
func (q *Query) Thread(arguments *KeyArguments, reply *RecordReply) error {
	if err := q.limit(); nil != err {
		return err
	}
	th, a, err := q.Ledger.Thread(arguments.Key)
	if nil != err {
		return err
	}
	reply.Address = a
	reply.Record = th
	return nil
}

// ---

// BalanceReply - native and token balances
type BalanceReply struct {
	Native uint64 `json:"native,string"`
	Tokens uint64 `json:"tokens,string"`
}

// Balance - balances of any address
func (q *Query) Balance(arguments *KeyArguments, reply *BalanceReply) error {
	if err := q.limit(); nil != err {
		return err
	}
	native, err := q.Ledger.Balance(arguments.Key)
	if nil != err {
		return err
	}
	tokens, err := q.Ledger.TokenBalance(arguments.Key)
	if nil != err && fault.MissingParameters != err {
		return err
	}
	reply.Native = native
	reply.Tokens = tokens
	return nil
}

// ---

// DeriveArguments - kind of record and its key
type DeriveArguments struct {
	Kind string          `json:"kind"`
	Key  address.Address `json:"key"`
}

// DeriveReply - derived address and canonical byte
type DeriveReply struct {
	Address   address.Address `json:"address"`
	Canonical byte            `json:"canonical"`
}

// Seeds - the seeds for a kind of record
func Seeds(kind string, key address.Address) (address.Seeds, error) {
	switch kind {
	case "registry":
		return address.Registry(), nil
	case "tags":
		return address.Tags(), nil
	case "user":
		return address.UserProfile(key), nil
	case "group":
		return address.GroupProfile(key), nil
	case "post":
		return address.Post(key), nil
	case "reply":
		return address.Reply(key), nil
	case "likes":
		return address.Likes(key), nil
	case "bank":
		return address.Bank(), nil
	case "well":
		return address.Well(), nil
	case "thread":
		return address.Thread(key), nil
	default:
		return nil, fault.RecordUnknown
	}
}

// Derive - compute a record address without reading it
func (q *Query) Derive(arguments *DeriveArguments, reply *DeriveReply) error {
	if err := q.limit(); nil != err {
		return err
	}
	seeds, err := Seeds(arguments.Kind, arguments.Key)
	if nil != err {
		return err
	}
	a, canonical, err := q.Ledger.Derive(seeds)
	if nil != err {
		return err
	}
	reply.Address = a
	reply.Canonical = canonical
	return nil
}

// ---

// DueArguments - maximum number of registrations to return
type DueArguments struct {
	Count int `json:"count"`
}

// DueEntry - one registration that can be fired now
type DueEntry struct {
	Thread  address.Address `json:"thread"`
	Post    address.Address `json:"post"`
	Content address.Address `json:"content"`
	Author  address.Address `json:"author"`
	DueTime time.Time       `json:"dueTime"`
}

// DueReply - registrations due at the node time
type DueReply struct {
	Due []DueEntry `json:"due"`
}

// Due - list registrations an external scheduler may fire
func (q *Query) Due(arguments *DueArguments, reply *DueReply) error {
	if err := ratelimit.LimitN(q.Limiter, arguments.Count, maximumDue); nil != err {
		return err
	}
	pending, err := q.Ledger.Due(q.Ledger.Now(), arguments.Count)
	if nil != err {
		return err
	}
	reply.Due = make([]DueEntry, 0, len(pending))
	for _, p := range pending {
		reply.Due = append(reply.Due, DueEntry{
			Thread:  p.Thread,
			Post:    p.Record.Post,
			Content: p.Record.Content,
			Author:  p.Record.Author,
			DueTime: p.DueTime,
		})
	}
	return nil
}
