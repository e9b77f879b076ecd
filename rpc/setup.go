// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/splinglabs/splingd/counter"
	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/rpc/certificate"
	"github.com/splinglabs/splingd/rpc/handler"
	"github.com/splinglabs/splingd/rpc/listeners"
	"github.com/splinglabs/splingd/rpc/server"
)

const (
	rpcName   = "client_rpc"
	httpsName = "https_rpc"
)

// globals
type rpcData struct {
	sync.RWMutex

	log *logger.L

	listeners []listeners.Listener

	// set once during initialise
	initialised bool
}

// global data
var globalData rpcData

// active client connections, reported by Node.Info
var connectionCountRPC counter.Counter

// Initialise - start the RPC and HTTPS front ends
func Initialise(rpcConfiguration *listeners.RPCConfiguration, httpsConfiguration *listeners.HTTPSConfiguration, ledger server.Ledger, version string, published *counter.Counter) error {
	globalData.Lock()
	defer globalData.Unlock()

	// no need to start if already started
	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	log := logger.New("rpc")
	globalData.log = log
	log.Info("starting…")

	s, n := server.Create(log, ledger, version, &connectionCountRPC, published)

	tlsConfig, fingerprint, err := certificate.Get(log, rpcName, rpcConfiguration.Certificate, rpcConfiguration.PrivateKey)
	if nil != err {
		return err
	}
	log.Infof("%s: SHA3-256 fingerprint: %x", rpcName, fingerprint)

	rpcListener, err := listeners.NewRPC(rpcConfiguration, log, &connectionCountRPC, s, tlsConfig)
	if nil != err {
		return err
	}
	err = rpcListener.Serve()
	if nil != err {
		return err
	}
	globalData.listeners = append(globalData.listeners, rpcListener)

	if 0 != len(httpsConfiguration.Listen) {
		tlsConfig, fingerprint, err := certificate.Get(log, httpsName, httpsConfiguration.Certificate, httpsConfiguration.PrivateKey)
		if nil != err {
			stop()
			return err
		}
		log.Infof("%s: SHA3-256 fingerprint: %x", httpsName, fingerprint)

		h := handler.New(log, s, n, httpsConfiguration.MaximumConnections)
		httpsListener, err := listeners.NewHTTPS(httpsConfiguration, log, tlsConfig, h)
		if nil != err {
			stop()
			return err
		}
		err = httpsListener.Serve()
		if nil != err {
			stop()
			return err
		}
		globalData.listeners = append(globalData.listeners, httpsListener)
	} else {
		log.Infof("disable: %s", httpsName)
	}

	// all data initialised
	globalData.initialised = true

	return nil
}

// Finalise - stop all listeners
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	stop()

	// finally...
	globalData.initialised = false

	globalData.log.Info("finished")
	globalData.log.Flush()

	return nil
}

// call with lock held
func stop() {
	for _, l := range globalData.listeners {
		l.Stop()
	}
	globalData.listeners = nil
}
