// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners_test

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"math/rand"
	"net/http"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splinglabs/splingd/counter"
	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/rpc/certificate"
	"github.com/splinglabs/splingd/rpc/fixtures"
	"github.com/splinglabs/splingd/rpc/handler"
	"github.com/splinglabs/splingd/rpc/listeners"
	"github.com/splinglabs/splingd/rpc/node"
)

type Add struct{}
type AddArg struct {
	A, B int
}

func (a Add) Add(arg *AddArg, reply *int) error {
	*reply = arg.A + arg.B
	return nil
}

type informer struct{}

func (informer) Info(_ *node.InfoArguments, reply *node.InfoReply) error {
	reply.Version = "test"
	return nil
}

var tlsConfig *tls.Config

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()

	dir, err := ioutil.TempDir("", "listeners")
	if nil != err {
		panic(err)
	}
	cert := filepath.Join(dir, "test.crt")
	key := filepath.Join(dir, "test.key")
	err = certificate.MakeSelfSigned("test", cert, key, false, []string{"127.0.0.1"})
	if nil != err {
		panic(err)
	}
	tlsConfig, _, err = certificate.Get(logger.New(fixtures.LogCategory), "test", cert, key)
	if nil != err {
		panic(err)
	}

	rc := m.Run()
	os.RemoveAll(dir)
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func randomListen() string {
	return fmt.Sprintf("127.0.0.1:%d", rand.Intn(30000)+30000)
}

func TestRPCListenerServe(t *testing.T) {
	listen := randomListen()
	configuration := listeners.RPCConfiguration{
		MaximumConnections: 5,
		Listen:             []string{listen},
	}

	s := rpc.NewServer()
	require.NoError(t, s.Register(Add{}))

	count := counter.Counter(0)
	l, err := listeners.NewRPC(&configuration, logger.New(fixtures.LogCategory), &count, s, tlsConfig)
	require.NoError(t, err, "wrong NewRPC")
	require.NoError(t, l.Serve(), "wrong Serve")
	defer l.Stop()

	var conn *tls.Conn
	for i := 0; i < 20; i += 1 {
		conn, err = tls.Dial("tcp", listen, &tls.Config{InsecureSkipVerify: true})
		if nil == err {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	require.NoError(t, err, "dial")

	client := jsonrpc.NewClient(conn)
	defer client.Close()

	var reply int
	require.NoError(t, client.Call("Add.Add", &AddArg{A: 2, B: 5}, &reply))
	assert.Equal(t, 7, reply, "wrong result")

	// the connection is counted while its codec runs
	assert.Equal(t, uint64(1), count.Uint64(), "wrong connection count")
}

func TestRPCListenerConfigurationErrors(t *testing.T) {
	log := logger.New(fixtures.LogCategory)
	count := counter.Counter(0)
	s := rpc.NewServer()

	_, err := listeners.NewRPC(&listeners.RPCConfiguration{MaximumConnections: 0, Listen: []string{randomListen()}}, log, &count, s, tlsConfig)
	assert.Equal(t, fault.MissingParameters, err, "connection limit")

	_, err = listeners.NewRPC(&listeners.RPCConfiguration{MaximumConnections: 5}, log, &count, s, tlsConfig)
	assert.Equal(t, fault.MissingParameters, err, "no listen")

	_, err = listeners.NewRPC(&listeners.RPCConfiguration{MaximumConnections: 5, Listen: []string{"localhost:2130"}}, log, &count, s, tlsConfig)
	assert.Equal(t, fault.InvalidIpAddress, err, "host name")
}

func TestHTTPSListenerServe(t *testing.T) {
	listen := randomListen()
	configuration := listeners.HTTPSConfiguration{
		MaximumConnections: 5,
		Listen:             []string{listen},
		Allow: map[string][]string{
			"details": {"127.0.0.0/8"},
		},
	}

	s := rpc.NewServer()
	require.NoError(t, s.Register(Add{}))
	log := logger.New(fixtures.LogCategory)
	h := handler.New(log, s, informer{}, 5)

	l, err := listeners.NewHTTPS(&configuration, log, tlsConfig.Clone(), h)
	require.NoError(t, err)
	require.NotNil(t, l)
	require.NoError(t, l.Serve())
	defer l.Stop()

	client := &http.Client{
		Transport: &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}},
		Timeout:   5 * time.Second,
	}

	body, _ := json.Marshal(map[string]interface{}{
		"id":     1,
		"method": "Add.Add",
		"params": []AddArg{{A: 40, B: 2}},
	})
	resp, err := client.Post("https://"+listen+"/splingd/rpc", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var result struct {
		Result int `json:"result"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, 42, result.Result)

	details, err := client.Get("https://" + listen + "/splingd/details")
	require.NoError(t, err)
	defer details.Body.Close()

	var info node.InfoReply
	require.NoError(t, json.NewDecoder(details.Body).Decode(&info))
	assert.Equal(t, "test", info.Version)
}

func TestHTTPSDisabled(t *testing.T) {
	log := logger.New(fixtures.LogCategory)
	h := handler.New(log, rpc.NewServer(), informer{}, 5)

	l, err := listeners.NewHTTPS(&listeners.HTTPSConfiguration{}, log, tlsConfig.Clone(), h)
	assert.NoError(t, err)
	assert.Nil(t, l)
}
