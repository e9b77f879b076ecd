// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/storage"
)

func openMemory(t *testing.T) *storage.Database {
	db, err := storage.Open("", storage.ReadWrite)
	require.NoError(t, err, "open memory database")
	return db
}

func TestCommitMakesWritesVisible(t *testing.T) {
	db := openMemory(t)
	defer db.Close()

	p := db.Pool.TestData

	trx, err := db.Begin()
	require.NoError(t, err)

	trx.Put(p, []byte("key-one"), []byte("data-one"))
	trx.PutN(p, []byte("key-two"), 42)

	assert.Equal(t, []byte("data-one"), trx.Get(p, []byte("key-one")), "read your own write")
	n, found := trx.GetN(p, []byte("key-two"))
	assert.True(t, found)
	assert.Equal(t, uint64(42), n)

	require.NoError(t, trx.Commit())

	assert.Equal(t, []byte("data-one"), p.Get([]byte("key-one")))
	assert.True(t, p.Has([]byte("key-two")))
}

func TestAbortDiscardsWrites(t *testing.T) {
	db := openMemory(t)
	defer db.Close()

	p := db.Pool.TestData

	trx, err := db.Begin()
	require.NoError(t, err)
	trx.Put(p, []byte("keep"), []byte("kept"))
	require.NoError(t, trx.Commit())

	trx, err = db.Begin()
	require.NoError(t, err)
	trx.Put(p, []byte("discard"), []byte("lost"))
	trx.Delete(p, []byte("keep"))
	assert.False(t, trx.Has(p, []byte("keep")), "deleted in this transaction")
	assert.Nil(t, trx.Get(p, []byte("keep")), "deleted in this transaction")
	trx.Abort()

	assert.Nil(t, p.Get([]byte("discard")))
	assert.Equal(t, []byte("kept"), p.Get([]byte("keep")))
}

func TestSingleTransaction(t *testing.T) {
	db := openMemory(t)
	defer db.Close()

	trx, err := db.Begin()
	require.NoError(t, err)

	_, err = db.Begin()
	assert.Equal(t, fault.TransactionAlreadyInUse, err)

	trx.Abort()

	trx, err = db.Begin()
	require.NoError(t, err, "begin after abort")
	require.NoError(t, trx.Commit())

	_, err = db.Begin()
	assert.NoError(t, err, "begin after commit")
}

func TestPoolsAreSeparate(t *testing.T) {
	db := openMemory(t)
	defer db.Close()

	key := []byte("same-key")

	trx, err := db.Begin()
	require.NoError(t, err)
	trx.Put(db.Pool.Posts, key, []byte("post"))
	trx.Put(db.Pool.Replies, key, []byte("reply"))
	require.NoError(t, trx.Commit())

	assert.Equal(t, []byte("post"), db.Pool.Posts.Get(key))
	assert.Equal(t, []byte("reply"), db.Pool.Replies.Get(key))
	assert.Nil(t, db.Pool.Likes.Get(key))
}

func TestCursor(t *testing.T) {
	db := openMemory(t)
	defer db.Close()

	p := db.Pool.TestData

	trx, err := db.Begin()
	require.NoError(t, err)
	for _, k := range []string{"c", "a", "b", "d"} {
		trx.Put(p, []byte(k), []byte("data-"+k))
	}
	trx.Put(db.Pool.Threads, []byte("x"), []byte("other pool"))
	require.NoError(t, trx.Commit())

	cursor := p.NewCursor()
	first, err := cursor.Fetch(3)
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, []byte("a"), first[0].Key)
	assert.Equal(t, []byte("c"), first[2].Key)

	rest, err := cursor.Fetch(3)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, []byte("data-d"), rest[0].Value)

	empty, err := cursor.Fetch(3)
	require.NoError(t, err)
	assert.Len(t, empty, 0, "exhausted")

	keys := ""
	err = p.NewCursor().Each(func(key []byte, value []byte) (bool, error) {
		keys += string(key)
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "abcd", keys)

	keys = ""
	err = p.NewCursor().Seek([]byte("b")).Each(func(key []byte, value []byte) (bool, error) {
		keys += string(key)
		return 2 != len(keys), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "bc", keys, "seek then stop early")

	_, err = cursor.Fetch(0)
	assert.Equal(t, fault.InvalidCount, err)
}

func TestReopenFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "splingd-storage")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	name := filepath.Join(dir, "test.leveldb")

	db, err := storage.Open(name, storage.ReadWrite)
	require.NoError(t, err)
	trx, err := db.Begin()
	require.NoError(t, err)
	trx.Put(db.Pool.TestData, []byte("persist"), []byte("yes"))
	require.NoError(t, trx.Commit())
	db.Close()

	db, err = storage.Open(name, storage.ReadOnly)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, []byte("yes"), db.Pool.TestData.Get([]byte("persist")))
}
