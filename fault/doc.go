// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances for the ledger and its tools
//
// every error is a single typed instance so callers compare with ==
// and classify with the IsErr... predicates; the class also tells the
// engine whether a failed transition is an ordinary rejection or a
// broken invariant that must be logged as critical
package fault
