// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault_test

import (
	"testing"

	"github.com/splinglabs/splingd/fault"
)

var (
	ErrAuthorisationOne = fault.AuthorisationError("authorisation one")
	ErrExistsOne        = fault.ExistsError("exists one ")
	ErrExistsTwo        = fault.ExistsError("exists two")
	ErrInvalidOne       = fault.InvalidError("invalid one")
	ErrInvariantOne     = fault.InvariantError("invariant one")
	ErrLengthOne        = fault.LengthError("length one")
	ErrMismatchOne      = fault.MismatchError("mismatch one")
	ErrNotFoundOne      = fault.NotFoundError("not found one")
	ErrNotFoundTwo      = fault.NotFoundError("not found two")
	ErrProcessOne       = fault.ProcessError("process one")
	ErrRecordOne        = fault.RecordError("record one")
)

// test that the error classes are distinct
func TestClasses(t *testing.T) {
	errorList := []struct {
		err           error
		authorisation bool
		exists        bool
		invalid       bool
		invariant     bool
		length        bool
		mismatch      bool
		notFound      bool
		process       bool
		record        bool
	}{
		{ErrAuthorisationOne, true, false, false, false, false, false, false, false, false},
		{ErrExistsOne, false, true, false, false, false, false, false, false, false},
		{ErrExistsTwo, false, true, false, false, false, false, false, false, false},
		{ErrInvalidOne, false, false, true, false, false, false, false, false, false},
		{ErrInvariantOne, false, false, false, true, false, false, false, false, false},
		{ErrLengthOne, false, false, false, false, true, false, false, false, false},
		{ErrMismatchOne, false, false, false, false, false, true, false, false, false},
		{ErrNotFoundOne, false, false, false, false, false, false, true, false, false},
		{ErrNotFoundTwo, false, false, false, false, false, false, true, false, false},
		{ErrProcessOne, false, false, false, false, false, false, false, true, false},
		{ErrRecordOne, false, false, false, false, false, false, false, false, true},
		{fault.Unauthorised, true, false, false, false, false, false, false, false, false},
		{fault.AddressMismatch, false, false, false, false, false, true, false, false, false},
		{fault.LikeCounterUnderflow, false, false, false, true, false, false, false, false, false},
	}

	for i, e := range errorList {
		err := e.err
		if fault.IsErrAuthorisation(err) != e.authorisation {
			t.Errorf("%d: expected 'authorisation' == %v for err = %v", i, e.authorisation, err)
		}
		if fault.IsErrExists(err) != e.exists {
			t.Errorf("%d: expected 'exists' == %v for err = %v", i, e.exists, err)
		}
		if fault.IsErrInvalid(err) != e.invalid {
			t.Errorf("%d: expected 'invalid' == %v for err = %v", i, e.invalid, err)
		}
		if fault.IsErrInvariant(err) != e.invariant {
			t.Errorf("%d: expected 'invariant' == %v for err = %v", i, e.invariant, err)
		}
		if fault.IsErrLength(err) != e.length {
			t.Errorf("%d: expected 'length' == %v for err = %v", i, e.length, err)
		}
		if fault.IsErrMismatch(err) != e.mismatch {
			t.Errorf("%d: expected 'mismatch' == %v for err = %v", i, e.mismatch, err)
		}
		if fault.IsErrNotFound(err) != e.notFound {
			t.Errorf("%d: expected 'not found' == %v for err = %v", i, e.notFound, err)
		}
		if fault.IsErrProcess(err) != e.process {
			t.Errorf("%d: expected 'process' == %v for err = %v", i, e.process, err)
		}
		if fault.IsErrRecord(err) != e.record {
			t.Errorf("%d: expected 'record' == %v for err = %v", i, e.record, err)
		}
	}
}
