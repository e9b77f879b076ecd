// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/splinglabs/splingd/fault"
)

// Cursor - ordered walk over the committed keys of one pool
//
// pending writes of an open transaction are not visible
type Cursor struct {
	pool  *PoolHandle
	start []byte // next prefixed key to read
}

// NewCursor - cursor at the first key of the pool
func (p *PoolHandle) NewCursor() *Cursor {
	return &Cursor{
		pool:  p,
		start: []byte{p.prefix},
	}
}

// Seek - continue from key, inclusive
func (cursor *Cursor) Seek(key []byte) *Cursor {
	cursor.start = cursor.pool.prefixKey(key)
	return cursor
}

func (cursor *Cursor) iterator() iterator.Iterator {
	return cursor.pool.dataAccess.Iterator(&util.Range{
		Start: cursor.start,
		Limit: cursor.pool.limit,
	})
}

// copy out of the iterator, whose buffers are reused by Next
func element(iter iterator.Iterator) Element {
	key := iter.Key()
	value := iter.Value()
	e := Element{
		Key:   make([]byte, len(key)-1),
		Value: make([]byte, len(value)),
	}
	copy(e.Key, key[1:])
	copy(e.Value, value)
	return e
}

// Fetch - up to count elements, the next call resumes after the last
func (cursor *Cursor) Fetch(count int) ([]Element, error) {
	if nil == cursor {
		return nil, fault.InvalidCursor
	}
	if count <= 0 {
		return nil, fault.InvalidCount
	}

	iter := cursor.iterator()
	defer iter.Release()

	results := make([]Element, 0, count)
	for len(results) < count && iter.Next() {
		results = append(results, element(iter))
	}
	if err := iter.Error(); nil != err {
		return nil, err
	}

	// the smallest key after k is k followed by a zero byte
	if n := len(results); n > 0 {
		cursor.start = append(cursor.pool.prefixKey(results[n-1].Key), 0)
	}
	return results, nil
}

// Each - call f for every remaining element until it returns false
// or an error
func (cursor *Cursor) Each(f func(key []byte, value []byte) (bool, error)) error {
	if nil == cursor {
		return fault.InvalidCursor
	}

	iter := cursor.iterator()
	defer iter.Release()

	for iter.Next() {
		e := element(iter)
		more, err := f(e.Key, e.Value)
		if nil != err {
			return err
		}
		if !more {
			return nil
		}
	}
	return iter.Error()
}
