// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package records

import (
	"encoding/binary"
	"strings"

	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/util"
)

// Pack - turn a registry into a byte slice
func (r *Registry) Pack() (Packed, error) {
	message := newMessage(RegistryTag)
	message = appendUint32(message, r.Users)
	message = appendUint32(message, r.Groups)
	message = appendUint32(message, r.Posts)
	message = appendUint16(message, r.Tags)
	return append(message, r.Canonical), nil
}

// Pack - turn the tag index into a byte slice
func (r *TagList) Pack() (Packed, error) {
	if len(r.Names) > maxTagCount {
		return nil, fault.WrongRecordSize
	}
	message := newMessage(TagListTag)
	message = append(message, util.ToVarint64(uint64(len(r.Names)))...)
	for _, name := range r.Names {
		if len(name) > MaxTagNameLength {
			return nil, fault.TagNameTooLong
		}
		message = appendString(message, name)
	}
	return append(message, r.Canonical), nil
}

// Pack - turn a user profile into a byte slice
func (r *UserProfile) Pack() (Packed, error) {
	if len(r.Groups) > maxListLength || len(r.Following) > maxListLength {
		return nil, fault.WrongRecordSize
	}
	message := newMessage(UserProfileTag)
	message = appendUint64(message, uint64(r.Timestamp))
	message = appendAddress(message, r.Owner)
	message = appendUint32(message, r.UserID)
	message = append(message, byte(r.Status))
	message = appendAddress(message, r.Content)
	message = appendList(message, r.Groups)
	message = appendList(message, r.Following)
	return append(message, r.Canonical), nil
}

// Pack - turn a group profile into a byte slice
func (r *GroupProfile) Pack() (Packed, error) {
	message := newMessage(GroupProfileTag)
	message = appendUint64(message, uint64(r.Timestamp))
	message = appendAddress(message, r.Creator)
	message = appendUint32(message, r.GroupID)
	message = append(message, byte(r.Status))
	message = appendAddress(message, r.Content)
	return append(message, r.Canonical), nil
}

// Pack - turn a post into a byte slice
func (r *Post) Pack() (Packed, error) {
	message := newMessage(PostTag)
	message = appendUint64(message, uint64(r.Timestamp))
	message = appendUint32(message, r.UserID)
	message = appendUint32(message, r.PostID)
	message = appendUint32(message, r.GroupID)
	message = appendUint16(message, r.TagID)
	message = append(message, byte(r.Status))
	return append(message, r.Canonical), nil
}

// Pack - turn a reply into a byte slice
func (r *Reply) Pack() (Packed, error) {
	message := newMessage(ReplyTag)
	message = appendUint64(message, uint64(r.Timestamp))
	message = appendUint32(message, r.UserID)
	message = appendUint32(message, r.PostID)
	message = append(message, byte(r.Status))
	return append(message, r.Canonical), nil
}

// Pack - turn likes into a byte slice
//
// the counter must agree with the membership list
func (r *Likes) Pack() (Packed, error) {
	if len(r.Users) > maxListLength || int(r.Counter) != len(r.Users) {
		return nil, fault.WrongRecordSize
	}
	message := newMessage(LikesTag)
	message = appendUint16(message, r.Counter)
	message = appendList(message, r.Users)
	return append(message, r.Canonical), nil
}

// Pack - turn a bank into a byte slice
func (r *Bank) Pack() (Packed, error) {
	message := newMessage(BankTag)
	message = appendUint16(message, r.Size)
	message = appendAddress(message, r.Operator)
	return append(message, r.Canonical), nil
}

// Pack - turn a well into a byte slice
func (r *Well) Pack() (Packed, error) {
	return append(newMessage(WellTag), r.Canonical), nil
}

// Pack - turn a thread into a byte slice
func (r *Thread) Pack() (Packed, error) {
	if len(r.Schedule) > maxScheduleLength || "" == strings.TrimSpace(r.Schedule) {
		return nil, fault.InvalidSchedule
	}
	message := newMessage(ThreadTag)
	message = appendAddress(message, r.Post)
	message = append(message, r.PostCanonical)
	message = appendAddress(message, r.Content)
	message = appendAddress(message, r.Author)
	message = appendString(message, r.Schedule)
	message = appendUint64(message, uint64(r.Created))
	return append(message, r.Canonical), nil
}

// start a record with its tag
func newMessage(tag TagType) Packed {
	return util.ToVarint64(uint64(tag))
}

// append a string to a buffer
//
// the field is prefixed by Varint64(length)
func appendString(buffer Packed, s string) Packed {
	buffer = util.AppendVarint64(buffer, uint64(len(s)))
	return append(buffer, s...)
}

// append a fixed length address
func appendAddress(buffer Packed, a address.Address) Packed {
	return append(buffer, a[:]...)
}

// append a list of ids
//
// the list is prefixed by Varint64(count), each id is 4 bytes
func appendList(buffer Packed, list []uint32) Packed {
	buffer = util.AppendVarint64(buffer, uint64(len(list)))
	for _, id := range list {
		buffer = appendUint32(buffer, id)
	}
	return buffer
}

func appendUint16(buffer Packed, value uint16) Packed {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, value)
	return append(buffer, b...)
}

func appendUint32(buffer Packed, value uint32) Packed {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, value)
	return append(buffer, b...)
}

func appendUint64(buffer Packed, value uint64) Packed {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, value)
	return append(buffer, b...)
}
