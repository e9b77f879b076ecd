// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners

import (
	"crypto/tls"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/rpc/handler"
)

const (
	httpsLogName     = "https_rpc"
	readWriteTimeout = 10 * time.Second
	keepAlivePeriod  = 3 * time.Minute
)

// HTTPSConfiguration - configuration file data for HTTPS setup
type HTTPSConfiguration struct {
	MaximumConnections uint64              `gluamapper:"maximum_connections" json:"maximum_connections"`
	Listen             []string            `gluamapper:"listen" json:"listen"`
	Certificate        string              `gluamapper:"certificate" json:"certificate"`
	PrivateKey         string              `gluamapper:"private_key" json:"private_key"`
	Allow              map[string][]string `gluamapper:"allow" json:"allow"`
}

type httpsListener struct {
	sync.Mutex
	log       *logger.L
	addresses []string
	tlsConfig *tls.Config
	mux       *http.ServeMux
	servers   []*http.Server
}

type tcpKeepAliveListener struct {
	*net.TCPListener
}

func (ln tcpKeepAliveListener) Accept() (net.Conn, error) {
	tc, err := ln.AcceptTCP()
	if nil != err {
		return nil, err
	}
	_ = tc.SetKeepAlive(true)
	_ = tc.SetKeepAlivePeriod(keepAlivePeriod)
	return tc, nil
}

// NewHTTPS - HTTPS access to the JSON RPC services and node details
//
// returns a nil listener if no listen addresses are configured
func NewHTTPS(
	configuration *HTTPSConfiguration,
	log *logger.L,
	tlsConfig *tls.Config,
	h *handler.Handler,
) (Listener, error) {
	if 0 == len(configuration.Listen) {
		log.Infof("disable: %s", httpsLogName)
		return nil, nil
	}

	if configuration.MaximumConnections < minConnectionCount {
		log.Errorf("invalid %s maximum connection limit: %d", httpsLogName, configuration.MaximumConnections)
		return nil, fault.MissingParameters
	}

	addresses, err := parseListenAddress(configuration.Listen, log)
	if nil != err {
		return nil, err
	}

	// access control lists in CIDR form
	allow := make(map[string][]*net.IPNet)
	for path, cidrs := range configuration.Allow {
		set := make([]*net.IPNet, len(cidrs))
		for i, ip := range cidrs {
			_, cidr, err := net.ParseCIDR(strings.TrimSpace(ip))
			if nil != err {
				log.Errorf("%s allow: %q  error: %s", httpsLogName, ip, err)
				return nil, err
			}
			set[i] = cidr
		}
		allow[path] = set
	}
	h.SetAllow(allow)

	mux := http.NewServeMux()
	mux.HandleFunc("/splingd/rpc", h.RPC)
	mux.HandleFunc("/splingd/details", h.Details)
	mux.HandleFunc("/", h.Root)

	tlsConfig.NextProtos = []string{"http/1.1"}

	return &httpsListener{
		log:       log,
		addresses: addresses,
		tlsConfig: tlsConfig,
		mux:       mux,
	}, nil
}

// Serve - bind every address and serve in the background
func (l *httpsListener) Serve() error {
	l.Lock()
	defer l.Unlock()

	for _, address := range l.addresses {
		l.log.Infof("starting server: %s on: %q", httpsLogName, address)

		ln, err := net.Listen("tcp", address)
		if nil != err {
			l.log.Errorf("%s listen: %q  error: %s", httpsLogName, address, err)
			return err
		}

		s := &http.Server{
			Handler:        l.mux,
			ReadTimeout:    readWriteTimeout,
			WriteTimeout:   readWriteTimeout,
			MaxHeaderBytes: 1 << 20,
		}
		l.servers = append(l.servers, s)

		tlsListener := tls.NewListener(tcpKeepAliveListener{ln.(*net.TCPListener)}, l.tlsConfig)
		go func(address string) {
			err := s.Serve(tlsListener)
			if http.ErrServerClosed != err {
				l.log.Errorf("%s serve: %q  error: %s", httpsLogName, address, err)
			}
		}(address)
	}
	return nil
}

// Stop - close every server
func (l *httpsListener) Stop() {
	l.Lock()
	defer l.Unlock()

	for _, s := range l.servers {
		_ = s.Close()
	}
	l.servers = nil
	l.log.Infof("stopped: %s", httpsLogName)
}
