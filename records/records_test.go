// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package records_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/records"
)

var (
	owner   = address.Address{0x11, 0x22, 0x33}
	content = address.Address{0xaa, 0xbb}
)

func TestUserProfileLayout(t *testing.T) {
	r := &records.UserProfile{
		Timestamp: 1600000000,
		Owner:     owner,
		UserID:    7,
		Status:    records.Active,
		Content:   content,
		Groups:    []uint32{3, 1, 3},
		Following: nil,
		Canonical: 254,
	}

	packed, err := r.Pack()
	require.NoError(t, err)

	// tag + timestamp + owner + id + status + content + 1+12 + 1 + canonical
	assert.Equal(t, 1+8+32+4+1+32+13+1+1, len(packed), "packed length")

	unpacked, n, err := packed.Unpack()
	require.NoError(t, err)
	assert.Equal(t, len(packed), n)
	assert.Equal(t, r, unpacked)
	assert.Equal(t, byte(254), unpacked.CanonicalByte())

	// each extra list entry costs four bytes
	r.Following = []uint32{9}
	larger, err := r.Pack()
	require.NoError(t, err)
	assert.Equal(t, len(packed)+4, len(larger))
}

func TestLikesCounterMustMatch(t *testing.T) {
	good := &records.Likes{Counter: 2, Users: []uint32{7, 9}, Canonical: 250}
	packed, err := good.Pack()
	require.NoError(t, err)

	unpacked, _, err := packed.Unpack()
	require.NoError(t, err)
	assert.Equal(t, good, unpacked)

	bad := &records.Likes{Counter: 1, Users: []uint32{7, 9}}
	_, err = bad.Pack()
	assert.Equal(t, fault.WrongRecordSize, err)
}

func TestTagListLimits(t *testing.T) {
	tags := &records.TagList{Names: []string{records.DefaultTag, "news"}, Canonical: 255}
	packed, err := tags.Pack()
	require.NoError(t, err)

	unpacked, _, err := packed.Unpack()
	require.NoError(t, err)
	assert.Equal(t, tags, unpacked)

	tags.Names = append(tags.Names, "an-extremely-long-tag-name-that-is-too-long")
	_, err = tags.Pack()
	assert.Equal(t, fault.TagNameTooLong, err)
}

func TestThreadSchedule(t *testing.T) {
	thread := &records.Thread{
		Post:          address.Address{1},
		PostCanonical: 253,
		Content:       content,
		Author:        owner,
		Schedule:      "*/10 * * * * * *",
		Created:       1600000000,
		Canonical:     252,
	}
	packed, err := thread.Pack()
	require.NoError(t, err)

	unpacked, _, err := packed.Unpack()
	require.NoError(t, err)
	assert.Equal(t, thread, unpacked)

	thread.Schedule = "  "
	_, err = thread.Pack()
	assert.Equal(t, fault.InvalidSchedule, err)
}

func TestUnpackFailures(t *testing.T) {
	post := &records.Post{Timestamp: 1, UserID: 1, PostID: 2, GroupID: 3, TagID: 4, Status: records.Active, Canonical: 255}
	packed, err := post.Pack()
	require.NoError(t, err)

	for i := 1; i < len(packed); i += 1 {
		_, _, err := packed[:i].Unpack()
		assert.Equal(t, fault.RecordTruncated, err, "truncated at %d", i)
	}

	_, _, err = records.Packed{}.Unpack()
	assert.Equal(t, fault.RecordUnknown, err)

	_, _, err = records.Packed{0x7f, 0x00}.Unpack()
	assert.Equal(t, fault.RecordUnknown, err)
}

func TestRecordName(t *testing.T) {
	name, ok := records.RecordName(&records.Bank{})
	assert.True(t, ok)
	assert.Equal(t, "Bank", name)

	_, ok = records.RecordName(42)
	assert.False(t, ok)
}
