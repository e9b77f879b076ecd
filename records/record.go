// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package records

import (
	"github.com/splinglabs/splingd/address"
)

// TagType - type code for stored records
type TagType uint64

// enumerate the possible record types
// this is encoded a Varint64 at start of "Packed"
const (
	// null marks beginning of list - not used as a record type
	NullTag = TagType(iota)

	// valid record types
	RegistryTag     = TagType(iota) // id counters singleton
	TagListTag      = TagType(iota) // tag index
	UserProfileTag  = TagType(iota) // user identity
	GroupProfileTag = TagType(iota) // group identity
	PostTag         = TagType(iota) // post keyed by content
	ReplyTag        = TagType(iota) // reply keyed by content
	LikesTag        = TagType(iota) // per post likes
	BankTag         = TagType(iota) // storage fee reserve
	WellTag         = TagType(iota) // fee well placeholder
	ThreadTag       = TagType(iota) // expiry registration

	// this item must be last
	InvalidTag = TagType(iota)
)

// Status - moderation flag carried by profiles and content
type Status uint8

// status values; only Active is assigned
const (
	Inactive = Status(0)
	Active   = Status(1)
)

// Packed - packed records are just a byte slice
type Packed []byte

// Record - generic stored record interface
type Record interface {
	Pack() (Packed, error)
	CanonicalByte() byte
}

// byte sizes for various fields
const (
	MaxTagNameLength  = 32
	maxScheduleLength = 64
	maxTagCount       = 65535
	maxListLength     = 8192
)

// DefaultTag - the first entry of the tag index
const DefaultTag = "spling"

// Registry - counters of every entity ever created
type Registry struct {
	Users     uint32 `json:"users"`
	Groups    uint32 `json:"groups"`
	Posts     uint32 `json:"posts"`
	Tags      uint16 `json:"tags"`
	Canonical byte   `json:"canonical"`
}

// TagList - ordered distinct lowercase tag names; index is the tag id
type TagList struct {
	Names     []string `json:"names"`
	Canonical byte     `json:"canonical"`
}

// UserProfile - one per owner identity
type UserProfile struct {
	Timestamp int64           `json:"timestamp"`
	Owner     address.Address `json:"owner"`
	UserID    uint32          `json:"userId"`
	Status    Status          `json:"status"`
	Content   address.Address `json:"content"`
	Groups    []uint32        `json:"groups"`
	Following []uint32        `json:"following"`
	Canonical byte            `json:"canonical"`
}

// GroupProfile - one per creator identity
type GroupProfile struct {
	Timestamp int64           `json:"timestamp"`
	Creator   address.Address `json:"creator"`
	GroupID   uint32          `json:"groupId"`
	Status    Status          `json:"status"`
	Content   address.Address `json:"content"`
	Canonical byte            `json:"canonical"`
}

// Post - stored at the address derived from its content hash
type Post struct {
	Timestamp int64  `json:"timestamp"`
	UserID    uint32 `json:"userId"`
	PostID    uint32 `json:"postId"`
	GroupID   uint32 `json:"groupId"`
	TagID     uint16 `json:"tagId"`
	Status    Status `json:"status"`
	Canonical byte   `json:"canonical"`
}

// Reply - stored at the address derived from its content hash
type Reply struct {
	Timestamp int64  `json:"timestamp"`
	UserID    uint32 `json:"userId"`
	PostID    uint32 `json:"postId"`
	Status    Status `json:"status"`
	Canonical byte   `json:"canonical"`
}

// Likes - toggle set of liker user ids for one post
type Likes struct {
	Counter   uint16   `json:"counter"`
	Users     []uint32 `json:"users"`
	Canonical byte     `json:"canonical"`
}

// Bank - storage fee reserve; Size is the unspent capacity in bytes
type Bank struct {
	Size      uint16          `json:"size"`
	Operator  address.Address `json:"operator"`
	Canonical byte            `json:"canonical"`
}

// Well - placeholder that only holds a balance
type Well struct {
	Canonical byte `json:"canonical"`
}

// Thread - expiry registration for one post
type Thread struct {
	Post          address.Address `json:"post"`
	PostCanonical byte            `json:"postCanonical"`
	Content       address.Address `json:"content"`
	Author        address.Address `json:"author"`
	Schedule      string          `json:"schedule"`
	Created       int64           `json:"created"`
	Canonical     byte            `json:"canonical"`
}

// CanonicalByte - the canonical byte the record address was derived with
func (r *Registry) CanonicalByte() byte     { return r.Canonical }
func (r *TagList) CanonicalByte() byte      { return r.Canonical }
func (r *UserProfile) CanonicalByte() byte  { return r.Canonical }
func (r *GroupProfile) CanonicalByte() byte { return r.Canonical }
func (r *Post) CanonicalByte() byte         { return r.Canonical }
func (r *Reply) CanonicalByte() byte        { return r.Canonical }
func (r *Likes) CanonicalByte() byte        { return r.Canonical }
func (r *Bank) CanonicalByte() byte         { return r.Canonical }
func (r *Well) CanonicalByte() byte         { return r.Canonical }
func (r *Thread) CanonicalByte() byte       { return r.Canonical }

// RecordName - name of a record for logging and queries
func RecordName(record interface{}) (string, bool) {
	switch record.(type) {
	case *Registry, Registry:
		return "Registry", true
	case *TagList, TagList:
		return "TagList", true
	case *UserProfile, UserProfile:
		return "UserProfile", true
	case *GroupProfile, GroupProfile:
		return "GroupProfile", true
	case *Post, Post:
		return "Post", true
	case *Reply, Reply:
		return "Reply", true
	case *Likes, Likes:
		return "Likes", true
	case *Bank, Bank:
		return "Bank", true
	case *Well, Well:
		return "Well", true
	case *Thread, Thread:
		return "Thread", true
	default:
		return "*unknown*", false
	}
}
