// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splinglabs/splingd/util"
)

func TestEnsureAbsolute(t *testing.T) {
	assert.Equal(t, "/data/rpc.crt", util.EnsureAbsolute("/data", "rpc.crt"))
	assert.Equal(t, "/data/log", util.EnsureAbsolute("/data", "./log/"))
	assert.Equal(t, "/etc/rpc.key", util.EnsureAbsolute("/data", "/etc//rpc.key"))
}

func TestEnsureFileExists(t *testing.T) {
	dir, err := ioutil.TempDir("", "splingd-util")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	name := filepath.Join(dir, "publish.private")
	assert.False(t, util.EnsureFileExists(name))

	require.NoError(t, ioutil.WriteFile(name, []byte("key"), 0600))
	assert.True(t, util.EnsureFileExists(name))
}
