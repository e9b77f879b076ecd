// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - the spling-cli JSON file of connections and
// password protected identities
package configuration

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/crypto/ed25519"

	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/fault"
)

// MinimumPasswordLength - shortest password accepted for a new identity
const MinimumPasswordLength = 8

// Configuration - configuration file data format
type Configuration struct {
	DefaultIdentity string              `json:"default_identity"`
	Connect         string              `json:"connect"`
	Identities      map[string]Identity `json:"identities"`
}

// Identity - mix of plain and encrypted data
//
// Data is empty for identities that are only referred to
type Identity struct {
	Description string `json:"description"`
	Account     string `json:"account"`
	Data        string `json:"data"`
	Salt        string `json:"salt"`
}

// InfoIdentity - public view of one identity
type InfoIdentity struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Account     string `json:"account"`
	Private     bool   `json:"private"`
}

// Load - read the configuration
func Load(filename string) (*Configuration, error) {

	options := &Configuration{}

	err := readConfiguration(filename, options)
	if nil != err {
		return nil, err
	}
	if nil == options.Identities {
		options.Identities = make(map[string]Identity)
	}
	return options, nil
}

// generic JSON decoder
func readConfiguration(filename string, options interface{}) error {

	filename, err := filepath.Abs(filepath.Clean(filename))
	if nil != err {
		return err
	}

	f, err := os.Open(filename)
	if nil != err {
		return err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	return dec.Decode(options)
}

// Save - replace the file keeping the previous one as a backup
func Save(filename string, configuration *Configuration) error {

	tempFile := filename + ".new"
	previousFile := filename + ".bk"

	b, err := json.MarshalIndent(configuration, "", "  ")
	if nil != err {
		return err
	}
	b = append(b, '\n')

	os.Remove(tempFile)
	f, err := os.OpenFile(tempFile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if nil != err {
		return err
	}
	_, err = f.Write(b)
	f.Close()
	if nil != err {
		return err
	}

	err = os.Remove(previousFile)
	if nil != err && !os.IsNotExist(err) {
		return err
	}
	err = os.Rename(filename, previousFile)
	if nil != err && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tempFile, filename)
}

// Identity - find identity for a given name
func (config *Configuration) Identity(name string) (*Identity, error) {
	id, ok := config.Identities[name]
	if !ok {
		return nil, fault.IdentityNameNotFound
	}

	return &id, nil
}

// Account - an identity name or a base58 address
func (config *Configuration) Account(nameOrAddress string) (address.Address, error) {
	id, err := config.Identity(nameOrAddress)
	if nil == err {
		return address.FromBase58(id.Account)
	}

	a, err := address.FromBase58(nameOrAddress)
	if nil != err {
		return address.Address{}, fault.IdentityNameNotFound
	}
	return a, nil
}

// Private - find identity decrypt all data for a given name
func (config *Configuration) Private(password string, name string) (*Private, error) {
	id, err := config.Identity(name)
	if nil != err {
		return nil, err
	}

	return decryptIdentity(password, id)
}

// NewSeed - random ed25519 seed as hex
func NewSeed() (string, error) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := rand.Read(seed); nil != err {
		return "", err
	}
	return hex.EncodeToString(seed), nil
}

// AddIdentity - store encrypted identity, seed is hex
func (config *Configuration) AddIdentity(name string, description string, seedHex string, password string) (address.Address, error) {

	if _, ok := config.Identities[name]; ok {
		return address.Address{}, fault.IdentityNameAlreadyExists
	}
	if len(password) < MinimumPasswordLength {
		return address.Address{}, fault.PasswordTooShort
	}

	seed, err := hex.DecodeString(seedHex)
	if nil != err || ed25519.SeedSize != len(seed) {
		return address.Address{}, fault.CryptoFailed
	}
	privateKey := ed25519.NewKeyFromSeed(seed)
	account, err := address.FromBytes(privateKey.Public().(ed25519.PublicKey))
	if nil != err {
		return address.Address{}, err
	}

	salt, secretKey, err := hashPassword(password)
	if nil != err {
		return address.Address{}, err
	}

	encrypted, err := encryptData(seedHex, secretKey)
	if nil != err {
		return address.Address{}, err
	}

	config.Identities[name] = Identity{
		Description: description,
		Account:     account.String(),
		Data:        encrypted,
		Salt:        salt.String(),
	}

	return account, nil
}

// AddReceiveOnlyIdentity - store public-only identity
func (config *Configuration) AddReceiveOnlyIdentity(name string, description string, account string) error {

	if _, ok := config.Identities[name]; ok {
		return fault.IdentityNameAlreadyExists
	}

	if _, err := address.FromBase58(account); nil != err {
		return err
	}

	config.Identities[name] = Identity{
		Description: description,
		Account:     account,
	}

	return nil
}

// ChangePassword - re-encrypt an identity under a new password
func (config *Configuration) ChangePassword(name string, oldPassword string, newPassword string) error {
	id, err := config.Identity(name)
	if nil != err {
		return err
	}
	if len(newPassword) < MinimumPasswordLength {
		return fault.PasswordTooShort
	}

	private, err := decryptIdentity(oldPassword, id)
	if nil != err {
		return err
	}

	salt, secretKey, err := hashPassword(newPassword)
	if nil != err {
		return err
	}
	encrypted, err := encryptData(hex.EncodeToString(private.PrivateKey.Seed()), secretKey)
	if nil != err {
		return err
	}

	id.Data = encrypted
	id.Salt = salt.String()
	config.Identities[name] = *id
	return nil
}

// Info - identities sorted by name without any private data
func (config *Configuration) Info() []InfoIdentity {
	info := make([]InfoIdentity, 0, len(config.Identities))
	for name, id := range config.Identities {
		info = append(info, InfoIdentity{
			Name:        name,
			Description: id.Description,
			Account:     id.Account,
			Private:     "" != id.Data,
		})
	}
	sort.Slice(info, func(i, j int) bool {
		return info[i].Name < info[j].Name
	})
	return info
}
