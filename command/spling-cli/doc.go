// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// spling-cli - manage identities and send signed requests to splingd
//
// e.g. create an identity then a user profile from a document:
//
//   spling-cli --identity=alice setup --connect=127.0.0.1:2130 --description="first user"
//   spling-cli create-user --file=profile.json
//   spling-cli query user alice
package main
