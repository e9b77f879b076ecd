// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"sync"

	zmq "github.com/pebbe/zmq4"
)

// the ZAP handler is process wide
var authentication struct {
	sync.Mutex
	running bool
}

// StartAuthentication - start the curve authentication handler, once
func StartAuthentication() error {
	authentication.Lock()
	defer authentication.Unlock()

	if authentication.running {
		return nil
	}
	zmq.AuthSetVerbose(false)
	if err := zmq.AuthStart(); nil != err {
		return err
	}
	authentication.running = true
	return nil
}

// StopAuthentication - shut down the handler if it was started
func StopAuthentication() {
	authentication.Lock()
	defer authentication.Unlock()

	if authentication.running {
		zmq.AuthStop()
		authentication.running = false
	}
}
