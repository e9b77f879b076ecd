// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners

import (
	"net"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/splinglabs/splingd/fault"
)

// Listener - a started network front end
type Listener interface {
	Serve() error
	Stop()
}

// normalise "*:PORT" to "[::]:PORT" on the assumption that this
// will listen on tcp4 and tcp6, and validate every address
func parseListenAddress(addrs []string, log *logger.L) ([]string, error) {
	parsed := make([]string, len(addrs))
	for i, listen := range addrs {
		host, port, err := net.SplitHostPort(strings.TrimSpace(listen))
		if nil != err {
			log.Errorf("listen: %q  error: %s", listen, err)
			return nil, fault.InvalidIpAddress
		}
		if "*" == host {
			host = "::"
		}
		if nil == net.ParseIP(host) {
			log.Errorf("listen: %q  error: %s", listen, fault.InvalidIpAddress)
			return nil, fault.InvalidIpAddress
		}
		parsed[i] = net.JoinHostPort(host, port)
	}
	return parsed, nil
}
