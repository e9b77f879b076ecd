// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/zmqutil"
)

func TestBindAddress(t *testing.T) {
	tests := []struct {
		in   string
		out  string
		v6   bool
		fail error
	}{
		{"*:2136", "tcp://*:2136", false, nil},
		{"127.0.0.1:2136", "tcp://127.0.0.1:2136", false, nil},
		{"[::1]:2136", "tcp://[::1]:2136", true, nil},
		{"localhost:2136", "", false, fault.InvalidIpAddress},
		{"127.0.0.1", "", false, fault.InvalidIpAddress},
		{"127.0.0.1:0", "", false, fault.InvalidPortNumber},
		{"127.0.0.1:70000", "", false, fault.InvalidPortNumber},
	}

	for i, item := range tests {
		s, v6, err := zmqutil.BindAddress(item.in)
		assert.Equal(t, item.fail, err, "%d: error", i)
		assert.Equal(t, item.out, s, "%d: endpoint", i)
		assert.Equal(t, item.v6, v6, "%d: v6", i)
	}
}

func TestKeyPairFiles(t *testing.T) {
	dir, err := ioutil.TempDir("", "zmqutil")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	public := filepath.Join(dir, "publish.public")
	private := filepath.Join(dir, "publish.private")

	require.NoError(t, zmqutil.MakeKeyPair(public, private))
	assert.Equal(t, fault.KeyFileAlreadyExists, zmqutil.MakeKeyPair(public, private))

	publicKey, err := zmqutil.ReadPublicKeyFile(public)
	require.NoError(t, err)
	assert.Len(t, publicKey, 32)

	privateKey, err := zmqutil.ReadPrivateKeyFile(private)
	require.NoError(t, err)
	assert.Len(t, privateKey, 32)

	_, err = zmqutil.ReadPublicKeyFile(private)
	assert.Equal(t, fault.InvalidPublicKeyFile, err)
	_, err = zmqutil.ReadPrivateKeyFile(public)
	assert.Equal(t, fault.InvalidPrivateKeyFile, err)
}

func TestParseKey(t *testing.T) {
	_, _, err := zmqutil.ParseKey("SECRET:00")
	assert.Equal(t, fault.InvalidPublicKeyFile, err)

	_, _, err = zmqutil.ParseKey("PRIVATE:0011")
	assert.Equal(t, fault.InvalidPrivateKeyFile, err)

	key, private, err := zmqutil.ParseKey("  PUBLIC:" + "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff\n")
	require.NoError(t, err)
	assert.False(t, private)
	assert.Equal(t, byte(0x11), key[1])
}
