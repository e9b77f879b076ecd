// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/ssh/terminal"

	"github.com/splinglabs/splingd/command/spling-cli/configuration"
	"github.com/splinglabs/splingd/fault"
)

var passwordConsole *terminal.Terminal

func getTerminal() (*terminal.Terminal, int, *terminal.State, error) {
	oldState, err := terminal.MakeRaw(0)
	if nil != err {
		return nil, 0, nil, err
	}

	if nil != passwordConsole {
		return passwordConsole, 0, oldState, nil
	}

	tmpIO, err := os.OpenFile("/dev/tty", os.O_RDWR, os.ModePerm)
	if nil != err {
		terminal.Restore(0, oldState)
		return nil, 0, nil, err
	}

	passwordConsole = terminal.NewTerminal(tmpIO, "spling-cli: ")

	return passwordConsole, 0, oldState, nil
}

func readPassword(prompt string) (string, error) {
	console, fd, state, err := getTerminal()
	if nil != err {
		return "", err
	}
	defer terminal.Restore(fd, state)

	password, err := console.ReadPassword(prompt)
	if nil != err {
		fmt.Printf("get password fail: %s\n", err)
		return "", err
	}
	return password, nil
}

// new password entered twice
func promptNewPassword() (string, error) {
	password, err := readPassword(fmt.Sprintf("set identity password (length >= %d): ", configuration.MinimumPasswordLength))
	if nil != err {
		return "", err
	}

	if len(password) < configuration.MinimumPasswordLength {
		return "", fault.PasswordTooShort
	}

	verifyPassword, err := readPassword("verify password: ")
	if nil != err {
		return "", err
	}

	if password != verifyPassword {
		return "", ErrPasswordMismatch
	}

	return password, nil
}

func promptCheckPassword() (string, error) {
	return readPassword("password: ")
}
