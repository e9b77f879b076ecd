// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package address

import (
	"filippo.io/edwards25519"
	"golang.org/x/crypto/sha3"

	"github.com/splinglabs/splingd/fault"
)

// limits on derivation seeds
const (
	MaximumSeeds      = 16
	MaximumSeedLength = 32
)

// appended to every derivation hash
var derivationMarker = []byte("ProgramDerivedAddress")

// seed tags
var (
	registryTag     = []byte("spling")
	tagsTag         = []byte("tags")
	userProfileTag  = []byte("user_profile")
	groupProfileTag = []byte("group_profile")
	postTag         = []byte("post")
	replyTag        = []byte("reply")
	likesTag        = []byte("likes")
	bankTag         = []byte("bank")
	wellTag         = []byte("b")
	threadTag       = []byte("post_thread")
)

// Seeds - the inputs to an address derivation, excluding the canonical byte
type Seeds [][]byte

// seed constructors for every record kind
func Registry() Seeds                    { return Seeds{registryTag} }
func Tags() Seeds                        { return Seeds{tagsTag} }
func UserProfile(owner Address) Seeds    { return Seeds{userProfileTag, owner.Bytes()} }
func GroupProfile(creator Address) Seeds { return Seeds{groupProfileTag, creator.Bytes()} }
func Post(content Address) Seeds         { return Seeds{postTag, content.Bytes()} }
func Reply(content Address) Seeds        { return Seeds{replyTag, content.Bytes()} }
func Likes(post Address) Seeds           { return Seeds{likesTag, post.Bytes()} }
func Bank() Seeds                        { return Seeds{bankTag} }
func Well() Seeds                        { return Seeds{wellTag} }
func Thread(post Address) Seeds          { return Seeds{threadTag, post.Bytes()} }

// Space - derives record addresses for one program identity
type Space struct {
	program Address
}

// NewSpace - create an address space rooted at a program identity
func NewSpace(program Address) *Space {
	return &Space{program: program}
}

// Program - the identity all addresses are derived under
func (s *Space) Program() Address {
	return s.program
}

// Find - search for the canonical derivation of a set of seeds
//
// canonical bytes are tried from 255 downwards and the first result
// that is not a curve point is returned
func (s *Space) Find(seeds Seeds) (Address, byte, error) {
	for canonical := 255; canonical >= 0; canonical -= 1 {
		a, err := s.Create(seeds, byte(canonical))
		if nil == err {
			return a, byte(canonical), nil
		}
		if fault.NoCanonicalAddress != err {
			return Address{}, 0, err
		}
	}
	return Address{}, 0, fault.NoCanonicalAddress
}

// Create - derive the address for seeds and a known canonical byte
func (s *Space) Create(seeds Seeds, canonical byte) (Address, error) {
	if len(seeds) > MaximumSeeds {
		return Address{}, fault.TooManySeeds
	}

	h := sha3.New256()
	for _, seed := range seeds {
		if len(seed) > MaximumSeedLength {
			return Address{}, fault.SeedTooLong
		}
		h.Write(seed)
	}
	h.Write([]byte{canonical})
	h.Write(s.program[:])
	h.Write(derivationMarker)

	a := Address{}
	copy(a[:], h.Sum(nil))

	if isOnCurve(a) {
		return Address{}, fault.NoCanonicalAddress
	}
	return a, nil
}

// Verify - recompute a derivation and compare it to an expected address
func (s *Space) Verify(expected Address, seeds Seeds, canonical byte) error {
	a, err := s.Create(seeds, canonical)
	if nil != err {
		return fault.AddressMismatch
	}
	if a != expected {
		return fault.AddressMismatch
	}
	return nil
}

func isOnCurve(a Address) bool {
	_, err := new(edwards25519.Point).SetBytes(a[:])
	return nil == err
}
