// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package publish - broadcast committed transitions to subscribers
//
// each event is sent as a two part message on curve secured PUB
// sockets: the operation name, used as the subscription topic, then
// the JSON encoded event
package publish

import (
	"encoding/json"

	"github.com/bitmark-inc/logger"
	zmq "github.com/pebbe/zmq4"

	"github.com/splinglabs/splingd/counter"
	"github.com/splinglabs/splingd/engine"
	"github.com/splinglabs/splingd/zmqutil"
)

const (
	zapDomain = "publisher"
	queueSize = 1000
)

// Configuration - broadcast endpoints and curve key files
type Configuration struct {
	Broadcast  []string `gluamapper:"broadcast" json:"broadcast"`
	PrivateKey string   `gluamapper:"private_key" json:"private_key"`
	PublicKey  string   `gluamapper:"public_key" json:"public_key"`
}

// Publisher - an engine observer forwarding events to the network
type Publisher struct {
	log     *logger.L
	socket4 *zmq.Socket
	socket6 *zmq.Socket
	queue   chan engine.Event

	Sent    counter.Counter
	Dropped counter.Counter
}

// New - bind the broadcast sockets
//
// with no broadcast addresses the publisher only counts events
func New(configuration *Configuration) (*Publisher, error) {
	log := logger.New("publish")

	p := &Publisher{
		log:   log,
		queue: make(chan engine.Event, queueSize),
	}

	if 0 == len(configuration.Broadcast) {
		log.Warn("no broadcast addresses")
		return p, nil
	}

	privateKey, err := zmqutil.ReadPrivateKeyFile(configuration.PrivateKey)
	if nil != err {
		log.Errorf("read private key file: %q  error: %s", configuration.PrivateKey, err)
		return nil, err
	}
	publicKey, err := zmqutil.ReadPublicKeyFile(configuration.PublicKey)
	if nil != err {
		log.Errorf("read public key file: %q  error: %s", configuration.PublicKey, err)
		return nil, err
	}
	log.Tracef("public key: %x", publicKey)

	err = zmqutil.StartAuthentication()
	if nil != err {
		log.Errorf("zmq authentication error: %s", err)
		return nil, err
	}

	p.socket4, p.socket6, err = zmqutil.NewBind(log, zmq.PUB, zapDomain, privateKey, publicKey, configuration.Broadcast)
	if nil != err {
		log.Errorf("bind error: %s", err)
		return nil, err
	}

	return p, nil
}

// Committed - queue an event without blocking the engine
func (p *Publisher) Committed(event engine.Event) {
	select {
	case p.queue <- event:
	default:
		p.Dropped.Increment()
		p.log.Warnf("queue full, dropped: %s  id: %s", event.Operation, event.ID)
	}
}

// Message - the parts sent for one event
func Message(event engine.Event) ([][]byte, error) {
	data, err := json.Marshal(event)
	if nil != err {
		return nil, err
	}
	return [][]byte{[]byte(event.Operation), data}, nil
}

// Run - background process body
func (p *Publisher) Run(args interface{}, shutdown <-chan struct{}) {
	log := p.log
	log.Info("starting…")

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case event := <-p.queue:
			p.process(event)
		}
	}

	if nil != p.socket4 {
		p.socket4.Close()
	}
	if nil != p.socket6 {
		p.socket6.Close()
	}
	log.Info("shutting down…")
	log.Flush()
}

func (p *Publisher) process(event engine.Event) {
	parts, err := Message(event)
	if nil != err {
		p.log.Errorf("encode: %s  error: %s", event.Operation, err)
		return
	}

	p.log.Debugf("sending: %s  data: %s", parts[0], parts[1])
	for _, socket := range []*zmq.Socket{p.socket4, p.socket6} {
		if nil == socket {
			continue
		}
		_, err := socket.SendMessageDontwait(parts[0], parts[1])
		if nil != err {
			p.log.Errorf("send: %s  error: %s", event.Operation, err)
		}
	}
	p.Sent.Increment()
}
