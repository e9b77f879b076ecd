// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package content

import (
	"strings"

	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/ledger"
	"github.com/splinglabs/splingd/records"
	"github.com/splinglabs/splingd/registry"
)

// InitialiseTags - create the tag index holding only the default tag
//
// the default tag has position zero, which is also the id of an
// untagged post
func InitialiseTags(ctx *ledger.Context, payer address.Address) (*records.TagList, error) {
	a, canonical, err := ctx.Derive(address.Tags())
	if nil != err {
		return nil, err
	}

	tags := &records.TagList{
		Names:     []string{records.DefaultTag},
		Canonical: canonical,
	}
	err = ctx.Allocate(ctx.Pool.Tags, a, tags, payer, fault.TagsAlreadyExist)
	if nil != err {
		return nil, err
	}
	return tags, nil
}

// LoadTags - the verified tag index
func LoadTags(ctx *ledger.Context) (*records.TagList, address.Address, error) {
	r, a, err := ctx.Load(ctx.Pool.Tags, address.Tags(), fault.TagsNotFound)
	if nil != err {
		return nil, a, err
	}
	tags, ok := r.(*records.TagList)
	if !ok {
		return nil, a, fault.RecordTypeMismatch
	}
	return tags, a, nil
}

// ResolveTag - id of a tag name, appending it to the index if new
//
// names are compared in lower case so "Rust" and "rust" share an id;
// growth of the index is charged to the payer
func ResolveTag(ctx *ledger.Context, name string, payer address.Address) (uint16, error) {
	if "" == name {
		return 0, nil
	}

	name = strings.ToLower(name)
	if len(name) > records.MaxTagNameLength {
		return 0, fault.TagNameTooLong
	}

	tags, a, err := LoadTags(ctx)
	if nil != err {
		return 0, err
	}

	for i, existing := range tags.Names {
		if existing == name {
			return uint16(i), nil
		}
	}

	id, err := registry.Next(ctx, registry.Tags)
	if nil != err {
		return 0, err
	}
	if int(id) != len(tags.Names) {
		return 0, ctx.Critical(fault.TagIndexMismatch, "tags: counter: %d  index length: %d", id, len(tags.Names))
	}

	tags.Names = append(tags.Names, name)
	if err := ctx.Store(ctx.Pool.Tags, a, tags, payer); nil != err {
		return 0, err
	}
	return uint16(id), nil
}
