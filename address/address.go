// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package address

import (
	"encoding/hex"

	"github.com/mr-tron/base58"

	"github.com/splinglabs/splingd/fault"
)

// Length - number of bytes in an address
const Length = 32

// Address - a 32 byte identity or record location
//
// identities are ed25519 public keys; record addresses are derived
// and never lie on the curve
type Address [Length]byte

// FromBytes - convert a byte slice to an address
func FromBytes(buffer []byte) (Address, error) {
	a := Address{}
	if Length != len(buffer) {
		return a, fault.InvalidAddress
	}
	copy(a[:], buffer)
	return a, nil
}

// FromBase58 - decode the text form of an address
func FromBase58(s string) (Address, error) {
	buffer, err := base58.Decode(s)
	if nil != err {
		return Address{}, fault.InvalidAddress
	}
	return FromBytes(buffer)
}

// Bytes - the address as a byte slice
func (a Address) Bytes() []byte {
	return a[:]
}

// IsZero - true for the all zero address
func (a Address) IsZero() bool {
	return a == Address{}
}

// String - base58 text form
func (a Address) String() string {
	return base58.Encode(a[:])
}

// GoString - hex form for %#v
func (a Address) GoString() string {
	return "<address:" + hex.EncodeToString(a[:]) + ">"
}

// MarshalText - convert an address to base58 for JSON
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText - convert a base58 string to an address
func (a *Address) UnmarshalText(s []byte) error {
	decoded, err := FromBase58(string(s))
	if nil != err {
		return err
	}
	*a = decoded
	return nil
}
