// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package handler

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/rpc"
	"net/rpc/jsonrpc"

	"github.com/bitmark-inc/logger"

	"github.com/splinglabs/splingd/counter"
	"github.com/splinglabs/splingd/rpc/node"
)

// Informer - source of node details
type Informer interface {
	Info(arguments *node.InfoArguments, reply *node.InfoReply) error
}

// Handler - HTTP access to the JSON RPC services
type Handler struct {
	log                *logger.L
	server             *rpc.Server
	informer           Informer
	allow              map[string][]*net.IPNet
	maximumConnections uint64
	connections        counter.Counter
}

// New - create a handler limited to maximumConnections concurrent requests
func New(log *logger.L, server *rpc.Server, informer Informer, maximumConnections uint64) *Handler {
	return &Handler{
		log:                log,
		server:             server,
		informer:           informer,
		allow:              make(map[string][]*net.IPNet),
		maximumConnections: maximumConnections,
	}
}

// SetAllow - access control lists keyed by path name
func (h *Handler) SetAllow(allow map[string][]*net.IPNet) {
	h.allow = allow
}

// type to allow rpc system to interface to http request
type connection struct {
	in  io.Reader
	out io.Writer
}

func (c *connection) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c *connection) Write(d []byte) (int, error) { return c.out.Write(d) }
func (c *connection) Close() error                { return nil }

// Root - matches anything not matched and returns error
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	sendNotFound(w)
}

// RPC - performs a call to any normal RPC
func (h *Handler) RPC(w http.ResponseWriter, r *http.Request) {
	if http.MethodPost != r.Method {
		sendMethodNotAllowed(w)
		return
	}

	defer h.connections.Decrement()
	if h.connections.Increment() > h.maximumConnections {
		sendTooManyRequests(w)
		return
	}

	codec := jsonrpc.NewServerCodec(&connection{in: r.Body, out: w})
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	err := h.server.ServeRequest(codec)
	if nil != err {
		h.log.Warnf("rpc: %q  error: %s", r.RemoteAddr, err)
		sendInternalServerError(w)
		return
	}
}

// Details - GET for the same response as Node.Info
func (h *Handler) Details(w http.ResponseWriter, r *http.Request) {
	if http.MethodGet != r.Method {
		sendMethodNotAllowed(w)
		return
	}

	if !h.allowed("details", r.RemoteAddr) {
		h.log.Warnf("deny access: %q", r.RemoteAddr)
		sendForbidden(w)
		return
	}

	defer h.connections.Decrement()
	if h.connections.Increment() > h.maximumConnections {
		sendTooManyRequests(w)
		return
	}

	var reply node.InfoReply
	err := h.informer.Info(&node.InfoArguments{}, &reply)
	if nil != err {
		h.log.Errorf("details error: %s", err)
		sendInternalServerError(w)
		return
	}
	sendReply(w, reply)
}

func (h *Handler) allowed(name string, remote string) bool {
	host, _, err := net.SplitHostPort(remote)
	if nil != err {
		return false
	}
	ip := net.ParseIP(host)
	if nil == ip {
		return false
	}
	for _, cidr := range h.allow[name] {
		if cidr.Contains(ip) {
			return true
		}
	}
	return false
}

func sendReply(w http.ResponseWriter, data interface{}) {
	text, err := json.Marshal(data)
	if nil != err {
		sendInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(text)
}

func sendNotFound(w http.ResponseWriter) {
	sendError(w, "not found", http.StatusNotFound)
}

func sendMethodNotAllowed(w http.ResponseWriter) {
	sendError(w, "method not allowed", http.StatusMethodNotAllowed)
}

func sendForbidden(w http.ResponseWriter) {
	sendError(w, "forbidden", http.StatusForbidden)
}

func sendTooManyRequests(w http.ResponseWriter) {
	sendError(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
}

func sendInternalServerError(w http.ResponseWriter) {
	sendError(w, "internal server error", http.StatusInternalServerError)
}

// to compose JSON error messages
type errorReply struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

func sendError(w http.ResponseWriter, message string, code int) {
	text, err := json.Marshal(errorReply{
		Code:  code,
		Error: message,
	})
	if nil != err {
		http.Error(w, `{"code":500,"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_, _ = w.Write(text)
}
