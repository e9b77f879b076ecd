// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners

import (
	"crypto/tls"
	"io"
	"net/rpc"
	"net/rpc/jsonrpc"

	"github.com/bitmark-inc/listener"
	"github.com/bitmark-inc/logger"

	"github.com/splinglabs/splingd/counter"
	"github.com/splinglabs/splingd/fault"
)

const (
	logName            = "client_rpc"
	minConnectionCount = 1
)

// RPCConfiguration - configuration file data for RPC setup
type RPCConfiguration struct {
	MaximumConnections int      `gluamapper:"maximum_connections" json:"maximum_connections"`
	Listen             []string `gluamapper:"listen" json:"listen"`
	Certificate        string   `gluamapper:"certificate" json:"certificate"`
	PrivateKey         string   `gluamapper:"private_key" json:"private_key"`
}

type rpcListener struct {
	log      *logger.L
	count    *counter.Counter
	server   *rpc.Server
	listener *listener.MultiListener
}

// NewRPC - JSON RPC over TLS on each listen address
func NewRPC(
	configuration *RPCConfiguration,
	log *logger.L,
	count *counter.Counter,
	server *rpc.Server,
	tlsConfig *tls.Config,
) (Listener, error) {
	if configuration.MaximumConnections < minConnectionCount {
		log.Errorf("invalid %s maximum connection limit: %d", logName, configuration.MaximumConnections)
		return nil, fault.MissingParameters
	}

	if 0 == len(configuration.Listen) {
		log.Errorf("missing %s listen", logName)
		return nil, fault.MissingParameters
	}

	addresses, err := parseListenAddress(configuration.Listen, log)
	if nil != err {
		return nil, err
	}

	r := &rpcListener{
		log:    log,
		count:  count,
		server: server,
	}

	limiter := listener.NewLimiter(configuration.MaximumConnections)
	r.listener, err = listener.NewMultiListener(logName, addresses, tlsConfig, limiter, callback)
	if nil != err {
		log.Errorf("%s listen error: %s", logName, err)
		return nil, err
	}

	return r, nil
}

// Serve - start accepting connections
func (r *rpcListener) Serve() error {
	r.log.Infof("starting: %s", logName)
	r.listener.Start(r)
	return nil
}

// Stop - close all listening sockets
func (r *rpcListener) Stop() {
	r.listener.Stop()
	r.log.Infof("stopped: %s", logName)
}

// each accepted connection runs a JSON RPC codec until it closes
func callback(conn io.ReadWriteCloser, argument interface{}) {
	r := argument.(*rpcListener)

	r.count.Increment()
	defer r.count.Decrement()

	r.server.ServeCodec(jsonrpc.NewServerCodec(conn))
}
