// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpccalls - JSON RPC client for splingd
//
// mutating calls are wrapped in a signed envelope made with the
// caller's private key
package rpccalls

import (
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"

	"golang.org/x/crypto/ed25519"

	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/rpc/auth"
	"github.com/splinglabs/splingd/rpc/certificate"
)

// Client - to hold RPC connections streams
type Client struct {
	conn    net.Conn
	client  *rpc.Client
	verbose bool
	handle  io.Writer // if verbose is set output items here
	now     func() time.Time
}

// NewClient - create a TLS RPC connection to a splingd
//
// the node certificate is self signed so when fingerprint is given
// as hex it must match the SHA3-256 of the presented certificate
func NewClient(connect string, fingerprint string, verbose bool, handle io.Writer) (*Client, error) {

	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
	}

	conn, err := tls.Dial("tcp", connect, tlsConfig)
	if err != nil {
		return nil, err
	}

	if "" != fingerprint {
		certificates := conn.ConnectionState().PeerCertificates
		if 0 == len(certificates) {
			conn.Close()
			return nil, fault.CertificateMismatch
		}
		actual := certificate.Fingerprint(certificates[0].Raw)
		if hex.EncodeToString(actual[:]) != fingerprint {
			conn.Close()
			return nil, fault.CertificateMismatch
		}
	}

	return NewClientConn(conn, verbose, handle), nil
}

// NewClientConn - client over an existing connection
func NewClientConn(conn net.Conn, verbose bool, handle io.Writer) *Client {
	return &Client{
		conn:    conn,
		client:  jsonrpc.NewClient(conn),
		verbose: verbose,
		handle:  handle,
		now:     time.Now,
	}
}

// SetClock - time source used for envelope timestamps
func (c *Client) SetClock(now func() time.Time) {
	c.now = now
}

// Close - shutdown the splingd connection
func (c *Client) Close() {
	c.client.Close()
	c.conn.Close()
}

// Call - an unsigned request
func (c *Client) Call(method string, arguments interface{}, reply interface{}) error {
	c.printJson(method+" Request", arguments)
	if err := c.client.Call(method, arguments, reply); nil != err {
		return err
	}
	c.printJson(method+" Reply", reply)
	return nil
}

// same JSON layout as every service's Arguments type
type signedArguments struct {
	Auth   auth.Envelope `json:"auth"`
	Params interface{}   `json:"params"`
}

// Signed - a request carrying an envelope signed by privateKey
func (c *Client) Signed(method string, privateKey ed25519.PrivateKey, params interface{}, reply interface{}) error {
	envelope, err := auth.Sign(method, params, privateKey, c.now())
	if nil != err {
		return err
	}
	arguments := signedArguments{
		Auth:   envelope,
		Params: params,
	}
	return c.Call(method, &arguments, reply)
}

func (c *Client) printJson(title string, message interface{}) error {

	if !c.verbose {
		return nil
	}

	prefix := ""
	indent := "  "
	b, err := json.MarshalIndent(message, prefix, indent)
	if nil != err {
		return err
	}

	if "" == title {
		fmt.Fprintf(c.handle, "%s\n", b)
	} else {
		fmt.Fprintf(c.handle, "%s:\n%s\n", title, b)
	}
	return nil
}
