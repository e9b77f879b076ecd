// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpc - setup and handle all of the incoming JSON RPC requests
// from clients requiring splingd services
//
// state changing services (Registry, Profile, Content, Bank, Expiry)
// take a signed envelope, see package auth; Query and Node are open
// and only rate limited
//
// standard golang RPC clients can be used to access these services,
// either over TLS or by POST to /splingd/rpc on the HTTPS listener
package rpc
