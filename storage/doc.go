// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk data store
//
// maintain separate pools of a number of elements in key->value form
//
// This maintains a LevelDB database split into a series of tables.
// Each table is defined by a prefix byte that is obtained from the
// prefix tag in the struct defining the available tables.
//
// Notes:
// 1. each separate pool has a single byte prefix (to spread the keys in LevelDB)
// 2. ++           = concatenation of byte data
// 3. address      = 32 byte derived record address or identity public key
// 4. amount       = big endian uint64 (8 bytes)
// 5. *others*     = byte values of various length
//
// Registry:
//
//   S ++ address               - counters singleton
//                                data: packed registry record
//   T ++ address               - tag index
//                                data: packed tag list record
//
// Profiles:
//
//   U ++ address               - user profiles
//                                data: packed user profile record
//   G ++ address               - group profiles
//                                data: packed group profile record
//
// Content:
//
//   P ++ address               - posts keyed by derived content address
//                                data: packed post record
//   R ++ address               - replies keyed by derived content address
//                                data: packed reply record
//   L ++ address               - per post likes
//                                data: packed likes record
//
// Fees:
//
//   B ++ address               - storage fee bank
//                                data: packed bank record
//   W ++ address               - fee well placeholder
//                                data: packed well record
//   $ ++ address               - native balance of any address
//                                data: amount
//
// Expiry:
//
//   X ++ address               - expiry registrations keyed by thread address
//                                data: packed thread record
//
// Tokens:
//
//   K ++ owner                 - token balance
//                                data: amount
//
// Node:
//
//   M ++ name                  - one time setup markers (e.g. "genesis")
//                                data: unix time applied
//
// Testing:
//
//   Z ++ key                   - testing data
package storage
