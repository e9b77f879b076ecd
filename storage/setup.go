// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_storage "github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/splinglabs/splingd/fault"
)

// Pools - the set of exported pools
//
// note all must be exported (i.e. initial capital) or initialisation will panic
type Pools struct {
	Registry      *PoolHandle `prefix:"S"`
	Tags          *PoolHandle `prefix:"T"`
	UserProfiles  *PoolHandle `prefix:"U"`
	GroupProfiles *PoolHandle `prefix:"G"`
	Posts         *PoolHandle `prefix:"P"`
	Replies       *PoolHandle `prefix:"R"`
	Likes         *PoolHandle `prefix:"L"`
	Banks         *PoolHandle `prefix:"B"`
	Wells         *PoolHandle `prefix:"W"`
	Balances      *PoolHandle `prefix:"$"`
	Threads       *PoolHandle `prefix:"X"`
	TokenAccounts *PoolHandle `prefix:"K"`
	Markers       *PoolHandle `prefix:"M"`
	TestData      *PoolHandle `prefix:"Z"`
}

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const currentDBVersion = 0x100

// pool access modes
const (
	ReadOnly  = true
	ReadWrite = false
)

// Database - an open LevelDB with its pools and transaction
type Database struct {
	sync.Mutex
	db     *leveldb.DB
	access *AccessData
	Pool   Pools
}

// Open - open up the database connection
//
// an empty name opens a memory backed database, used for testing
func Open(name string, readOnly bool) (*Database, error) {
	db, version, err := getDB(name, readOnly)
	if nil != err {
		return nil, err
	}

	ok := false
	defer func() {
		if !ok {
			db.Close()
		}
	}()

	// ensure no database downgrade
	if version > currentDBVersion {
		return nil, fmt.Errorf("database version: %d > current version: %d", version, currentDBVersion)
	}
	if readOnly && version != currentDBVersion {
		return nil, fmt.Errorf("database version: %d  current: %d cannot be opened read only", version, currentDBVersion)
	}
	if 0 == version {
		// database was empty so tag as current version
		if err := putVersion(db, currentDBVersion); nil != err {
			return nil, err
		}
	}

	d := &Database{
		db:     db,
		access: newDA(db, new(leveldb.Batch), newCache()),
	}

	if err := d.setupPools(); nil != err {
		return nil, err
	}

	ok = true // prevent db close
	return d, nil
}

// scan the pools struct and give each field its prefix
func (d *Database) setupPools() error {

	// this will be a struct type
	poolType := reflect.TypeOf(d.Pool)

	// get write access by using pointer + Elem()
	poolValue := reflect.ValueOf(&d.Pool).Elem()

	for i := 0; i < poolType.NumField(); i += 1 {

		fieldInfo := poolType.Field(i)

		prefixTag := fieldInfo.Tag.Get("prefix")
		if 1 != len(prefixTag) {
			return fmt.Errorf("pool: %v has invalid prefix: %q", fieldInfo, prefixTag)
		}

		prefix := prefixTag[0]
		limit := []byte(nil)
		if prefix < 255 {
			limit = []byte{prefix + 1}
		}

		p := &PoolHandle{
			prefix:     prefix,
			limit:      limit,
			dataAccess: d.access,
		}
		poolValue.Field(i).Set(reflect.ValueOf(p))
	}
	return nil
}

// Close - close the database connection
func (d *Database) Close() {
	d.Lock()
	defer d.Unlock()

	if nil != d.db {
		d.db.Close()
		d.db = nil
	}
}

// Begin - start the single write transaction
//
// fails if a previous transaction was neither committed nor aborted
func (d *Database) Begin() (Transaction, error) {
	d.Lock()
	defer d.Unlock()

	if nil == d.db {
		return nil, fault.DatabaseIsNotSet
	}
	if err := d.access.Begin(); nil != err {
		return nil, err
	}
	return newTransaction(d.access), nil
}

// return:
//   database handle
//   version number
func getDB(name string, readOnly bool) (*leveldb.DB, int, error) {
	var db *leveldb.DB
	var err error

	if "" == name {
		db, err = leveldb.Open(ldb_storage.NewMemStorage(), nil)
	} else {
		opt := &ldb_opt.Options{
			ErrorIfExist:   false,
			ErrorIfMissing: readOnly,
			ReadOnly:       readOnly,
		}
		db, err = leveldb.OpenFile(name, opt)
	}
	if nil != err {
		return nil, 0, err
	}

	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return db, 0, nil
	} else if nil != err {
		db.Close()
		return nil, 0, err
	}

	if 4 != len(versionValue) {
		db.Close()
		return nil, 0, fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
	}

	version := int(binary.BigEndian.Uint32(versionValue))
	return db, version, nil
}

func putVersion(db *leveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))

	return db.Put(versionKey, currentVersion, nil)
}
