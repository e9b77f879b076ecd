// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package auth - signed request envelopes
//
// every state changing request carries the caller identity, a unix
// timestamp and an ed25519 signature by the caller over:
//
//	method "\n" timestamp "\n" JSON(params)
//
// the timestamp must be within a few minutes of the node clock and an
// accepted request cannot be submitted again
package auth

import (
	"encoding/hex"
	"encoding/json"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/crypto/ed25519"
	"golang.org/x/crypto/sha3"
	"golang.org/x/time/rate"

	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/rpc/ratelimit"
)

// MaximumSkew - allowed difference between request and node time
const MaximumSkew = 5 * time.Minute

// Envelope - identity and proof attached to a request
type Envelope struct {
	Caller    address.Address `json:"caller"`
	Timestamp string          `json:"timestamp"`
	Signature string          `json:"signature"`
}

// Message - the bytes that are signed
func Message(method string, timestamp string, params interface{}) ([]byte, error) {
	data, err := json.Marshal(params)
	if nil != err {
		return nil, err
	}
	message := make([]byte, 0, len(method)+len(timestamp)+len(data)+2)
	message = append(message, method...)
	message = append(message, '\n')
	message = append(message, timestamp...)
	message = append(message, '\n')
	message = append(message, data...)
	return message, nil
}

// Sign - create an envelope for a request
func Sign(method string, params interface{}, privateKey ed25519.PrivateKey, now time.Time) (Envelope, error) {
	caller, err := address.FromBytes(privateKey.Public().(ed25519.PublicKey))
	if nil != err {
		return Envelope{}, err
	}

	timestamp := strconv.FormatInt(now.Unix(), 10)
	message, err := Message(method, timestamp, params)
	if nil != err {
		return Envelope{}, err
	}

	return Envelope{
		Caller:    caller,
		Timestamp: timestamp,
		Signature: hex.EncodeToString(ed25519.Sign(privateKey, message)),
	}, nil
}

// Verify - check an envelope, returning the authenticated caller
func Verify(method string, params interface{}, envelope *Envelope, now time.Time) (address.Address, error) {
	if nil == envelope || envelope.Caller.IsZero() || "" == envelope.Signature {
		return address.Address{}, fault.MissingParameters
	}

	seconds, err := strconv.ParseInt(envelope.Timestamp, 10, 64)
	if nil != err {
		return address.Address{}, fault.InvalidTimestamp
	}
	skew := now.Sub(time.Unix(seconds, 0))
	if skew > MaximumSkew || skew < -MaximumSkew {
		return address.Address{}, fault.InvalidTimestamp
	}

	signature, err := hex.DecodeString(envelope.Signature)
	if nil != err || ed25519.SignatureSize != len(signature) {
		return address.Address{}, fault.InvalidSignature
	}

	message, err := Message(method, envelope.Timestamp, params)
	if nil != err {
		return address.Address{}, err
	}

	if !ed25519.Verify(ed25519.PublicKey(envelope.Caller.Bytes()), message, signature) {
		return address.Address{}, fault.InvalidSignature
	}
	return envelope.Caller, nil
}

// Replays - digests of accepted requests
//
// a request stays valid for MaximumSkew either side of its timestamp,
// so a digest is kept for twice that from first use
type Replays struct {
	seen *cache.Cache
}

// NewReplays - empty set of accepted requests
func NewReplays() *Replays {
	return &Replays{
		seen: cache.New(2*MaximumSkew, MaximumSkew),
	}
}

// Accept - record a verified request, refusing one already seen
//
// the digest covers the signed message, not the signature text, so a
// re-encoded signature is still the same request
func (r *Replays) Accept(method string, params interface{}, envelope *Envelope) error {
	message, err := Message(method, envelope.Timestamp, params)
	if nil != err {
		return err
	}

	digest := sha3.Sum256(append(envelope.Caller.Bytes(), message...))
	err = r.seen.Add(string(digest[:]), struct{}{}, cache.DefaultExpiration)
	if nil != err {
		return fault.ReplayedRequest
	}
	return nil
}

// Authenticate - rate limit, verify, then refuse a repeat
//
// a request is used up once verified, even if the operation then fails
func Authenticate(limiter *rate.Limiter, replays *Replays, method string, params interface{}, envelope *Envelope, now time.Time) (address.Address, error) {
	err := ratelimit.Limit(limiter)
	if nil != err {
		return address.Address{}, err
	}

	caller, err := Verify(method, params, envelope, now)
	if nil != err {
		return address.Address{}, err
	}

	err = replays.Accept(method, params, envelope)
	if nil != err {
		return address.Address{}, err
	}
	return caller, nil
}
