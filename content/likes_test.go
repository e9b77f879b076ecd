// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package content

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/ledger"
	"github.com/splinglabs/splingd/records"
)

func TestToggleInvariants(t *testing.T) {
	ctx := &ledger.Context{}

	corrupt := &records.Likes{Counter: 0, Users: []uint32{7}}
	assert.Equal(t, fault.LikeCounterUnderflow, toggle(ctx, corrupt, 7))
	assert.Equal(t, []uint32{7}, corrupt.Users, "unchanged on failure")

	full := &records.Likes{Counter: math.MaxUint16}
	assert.Equal(t, fault.LikeCounterOverflow, toggle(ctx, full, 7))
	assert.Empty(t, full.Users)

	likes := &records.Likes{}
	assert.NoError(t, toggle(ctx, likes, 3))
	assert.NoError(t, toggle(ctx, likes, 4))
	assert.NoError(t, toggle(ctx, likes, 3))
	assert.Equal(t, uint16(1), likes.Counter)
	assert.Equal(t, []uint32{4}, likes.Users)
}
