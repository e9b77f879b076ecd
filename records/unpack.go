// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package records

import (
	"encoding/binary"

	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/util"
)

// Unpack - turn a byte slice into a record
//
// must cast result to correct type
//
// e.g.
//   switch r := result.(type) {
//   case *records.Post:
func (record Packed) Unpack() (Record, int, error) {

	recordType, n := util.ClippedVarint64(record, 1, int(InvalidTag)-1)
	if 0 == n {
		return nil, 0, fault.RecordUnknown
	}

	d := &decoder{buffer: record, n: n}

	var r Record
	switch TagType(recordType) {

	case RegistryTag:
		r = &Registry{
			Users:     d.uint32(),
			Groups:    d.uint32(),
			Posts:     d.uint32(),
			Tags:      d.uint16(),
			Canonical: d.byte(),
		}

	case TagListTag:
		count := d.count(maxTagCount)
		names := make([]string, 0, count)
		for i := 0; i < count; i += 1 {
			names = append(names, d.string(MaxTagNameLength))
		}
		r = &TagList{
			Names:     names,
			Canonical: d.byte(),
		}

	case UserProfileTag:
		r = &UserProfile{
			Timestamp: int64(d.uint64()),
			Owner:     d.address(),
			UserID:    d.uint32(),
			Status:    Status(d.byte()),
			Content:   d.address(),
			Groups:    d.list(),
			Following: d.list(),
			Canonical: d.byte(),
		}

	case GroupProfileTag:
		r = &GroupProfile{
			Timestamp: int64(d.uint64()),
			Creator:   d.address(),
			GroupID:   d.uint32(),
			Status:    Status(d.byte()),
			Content:   d.address(),
			Canonical: d.byte(),
		}

	case PostTag:
		r = &Post{
			Timestamp: int64(d.uint64()),
			UserID:    d.uint32(),
			PostID:    d.uint32(),
			GroupID:   d.uint32(),
			TagID:     d.uint16(),
			Status:    Status(d.byte()),
			Canonical: d.byte(),
		}

	case ReplyTag:
		r = &Reply{
			Timestamp: int64(d.uint64()),
			UserID:    d.uint32(),
			PostID:    d.uint32(),
			Status:    Status(d.byte()),
			Canonical: d.byte(),
		}

	case LikesTag:
		likes := &Likes{
			Counter:   d.uint16(),
			Users:     d.list(),
			Canonical: d.byte(),
		}
		if nil == d.err && int(likes.Counter) != len(likes.Users) {
			return nil, 0, fault.WrongRecordSize
		}
		r = likes

	case BankTag:
		r = &Bank{
			Size:      d.uint16(),
			Operator:  d.address(),
			Canonical: d.byte(),
		}

	case WellTag:
		r = &Well{
			Canonical: d.byte(),
		}

	case ThreadTag:
		r = &Thread{
			Post:          d.address(),
			PostCanonical: d.byte(),
			Content:       d.address(),
			Author:        d.address(),
			Schedule:      d.string(maxScheduleLength),
			Created:       int64(d.uint64()),
			Canonical:     d.byte(),
		}

	default:
		return nil, 0, fault.RecordUnknown
	}

	if nil != d.err {
		return nil, 0, d.err
	}
	return r, d.n, nil
}

// sequential field reader; the first failure sticks
type decoder struct {
	buffer []byte
	n      int
	err    error
}

func (d *decoder) take(length int) []byte {
	if nil != d.err {
		return nil
	}
	if length < 0 || d.n+length > len(d.buffer) {
		d.err = fault.RecordTruncated
		return nil
	}
	b := d.buffer[d.n : d.n+length]
	d.n += length
	return b
}

func (d *decoder) byte() byte {
	b := d.take(1)
	if nil == b {
		return 0
	}
	return b[0]
}

func (d *decoder) uint16() uint16 {
	b := d.take(2)
	if nil == b {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

func (d *decoder) uint32() uint32 {
	b := d.take(4)
	if nil == b {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

func (d *decoder) uint64() uint64 {
	b := d.take(8)
	if nil == b {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

func (d *decoder) address() address.Address {
	a := address.Address{}
	copy(a[:], d.take(address.Length))
	return a
}

// a Varint64 count in the range 0..maximum
func (d *decoder) count(maximum int) int {
	if nil != d.err {
		return 0
	}
	value, n := util.FromVarint64(d.buffer[d.n:])
	if 0 == n {
		d.err = fault.RecordTruncated
		return 0
	}
	if value > uint64(maximum) {
		d.err = fault.WrongRecordSize
		return 0
	}
	d.n += n
	return int(value)
}

func (d *decoder) string(maximum int) string {
	length := d.count(maximum)
	return string(d.take(length))
}

func (d *decoder) list() []uint32 {
	count := d.count(maxListLength)
	if nil != d.err || 0 == count {
		return nil
	}
	list := make([]uint32, 0, count)
	for i := 0; i < count; i += 1 {
		list = append(list, d.uint32())
	}
	return list
}
