// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"encoding/hex"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ed25519"

	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/fault"
)

// test encrypt and decrypt one string with various passwords
func TestEncryptDecrypt(t *testing.T) {

	plainText := "The Quick Brown Fox Jumps Over The Lazy Dog"

	for _, password := range []string{"test", "123", "m,erRGhtk%$33ug62sd al/fajfb.adv"} {
		salt, key, err := hashPassword(password)
		require.NoError(t, err, "hash")

		encrypted, err := encryptData(plainText, key)
		require.NoError(t, err, "encrypt")

		again, err := encryptData(plainText, key)
		require.NoError(t, err, "encrypt")
		assert.NotEqual(t, encrypted, again, "nonce must differ")

		key2, err := generateKey(password, salt)
		require.NoError(t, err, "generate key")

		decrypted, err := decryptData(encrypted, key2)
		require.NoError(t, err, "decrypt")
		assert.Equal(t, plainText, decrypted)

		bad, err := generateKey(password+"x", salt)
		require.NoError(t, err, "generate key")
		_, err = decryptData(encrypted, bad)
		assert.Equal(t, fault.CryptoFailed, err)
	}
}

func TestEncryptLimits(t *testing.T) {
	_, key, err := hashPassword("password")
	require.NoError(t, err)

	_, err = encryptData("short", key)
	assert.Equal(t, fault.CryptoFailed, err)

	_, err = decryptData("", key)
	assert.Equal(t, fault.CryptoFailed, err)

	_, err = decryptData("0011", key)
	assert.Equal(t, fault.CryptoFailed, err)
}

func TestSaltText(t *testing.T) {
	salt, err := MakeSalt()
	require.NoError(t, err)

	text, err := salt.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, salt.String(), string(text))

	var s Salt
	require.NoError(t, s.UnmarshalText(text))
	assert.Equal(t, *salt, s)

	assert.Equal(t, fault.CryptoFailed, s.UnmarshalText([]byte("abcd")))
}

func TestIdentities(t *testing.T) {
	config := &Configuration{
		Identities: make(map[string]Identity),
	}

	seed, err := NewSeed()
	require.NoError(t, err)

	account, err := config.AddIdentity("alice", "first user", seed, "correct horse")
	require.NoError(t, err)

	raw, _ := hex.DecodeString(seed)
	expected, _ := address.FromBytes(ed25519.NewKeyFromSeed(raw).Public().(ed25519.PublicKey))
	assert.Equal(t, expected, account)

	_, err = config.AddIdentity("alice", "again", seed, "correct horse")
	assert.Equal(t, fault.IdentityNameAlreadyExists, err)

	_, err = config.AddIdentity("bob", "short", seed, "1234")
	assert.Equal(t, fault.PasswordTooShort, err)

	private, err := config.Private("correct horse", "alice")
	require.NoError(t, err)
	assert.Equal(t, account, private.Account)
	assert.Equal(t, "first user", private.Description)

	_, err = config.Private("wrong password", "alice")
	assert.Equal(t, fault.InvalidPassword, err)

	_, err = config.Private("correct horse", "nobody")
	assert.Equal(t, fault.IdentityNameNotFound, err)

	err = config.AddReceiveOnlyIdentity("carol", "only a reference", expected.String())
	require.NoError(t, err)
	_, err = config.Private("correct horse", "carol")
	assert.Equal(t, fault.NotPrivateKey, err)

	a, err := config.Account("carol")
	require.NoError(t, err)
	assert.Equal(t, expected, a)

	a, err = config.Account(expected.String())
	require.NoError(t, err, "plain address")
	assert.Equal(t, expected, a)

	_, err = config.Account("nobody")
	assert.Equal(t, fault.IdentityNameNotFound, err)

	err = config.ChangePassword("alice", "correct horse", "battery staple")
	require.NoError(t, err)
	_, err = config.Private("correct horse", "alice")
	assert.Equal(t, fault.InvalidPassword, err)
	private, err = config.Private("battery staple", "alice")
	require.NoError(t, err)
	assert.Equal(t, account, private.Account)

	info := config.Info()
	require.Equal(t, 2, len(info))
	assert.Equal(t, "alice", info[0].Name)
	assert.True(t, info[0].Private)
	assert.Equal(t, "carol", info[1].Name)
	assert.False(t, info[1].Private)
}

func TestSaveLoad(t *testing.T) {
	dir, err := ioutil.TempDir("", "spling-cli")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	fileName := filepath.Join(dir, "spling-cli.json")

	config := &Configuration{
		DefaultIdentity: "alice",
		Connect:         "127.0.0.1:2130",
		Identities:      make(map[string]Identity),
	}
	seed, err := NewSeed()
	require.NoError(t, err)
	_, err = config.AddIdentity("alice", "", seed, "password")
	require.NoError(t, err)

	require.NoError(t, Save(fileName, config))
	require.NoError(t, Save(fileName, config), "second save keeps a backup")

	_, err = os.Stat(fileName + ".bk")
	assert.NoError(t, err, "backup exists")

	loaded, err := Load(fileName)
	require.NoError(t, err)
	assert.Equal(t, config, loaded)

	_, err = loaded.Private("password", "alice")
	assert.NoError(t, err)
}
