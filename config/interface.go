/*
 * MIT License
 *
 * Copyright (c) 2024 QuestDB Client Contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package config parses the semicolon-terminated ILP configuration string
// into an immutable, validated Options record, and renders it back to its
// canonical form.
//
// Grammar: `<scheme> "::" ( key "=" value ";" )+`, trailing semicolon
// required. scheme is one of http, https, tcp, tcps (case-sensitive).
// Keys are lowercase ASCII identifiers starting with a letter. A single
// key, addr, may repeat to build an ordered endpoint list.
package config

import (
	"github.com/questdb/go-ilp-client/endpoint"
)

// Scheme selects both the transport (HTTP vs TCP) and whether TLS is
// enabled.
type Scheme string

const (
	SchemeHTTP  Scheme = "http"
	SchemeHTTPS Scheme = "https"
	SchemeTCP   Scheme = "tcp"
	SchemeTCPS  Scheme = "tcps"
)

// IsHTTP reports whether the scheme uses the HTTP transport.
func (s Scheme) IsHTTP() bool { return s == SchemeHTTP || s == SchemeHTTPS }

// IsTCP reports whether the scheme uses the streaming socket transport.
func (s Scheme) IsTCP() bool { return s == SchemeTCP || s == SchemeTCPS }

// TLS reports whether the scheme requires a TLS-wrapped connection.
func (s Scheme) TLS() bool { return s == SchemeHTTPS || s == SchemeTCPS }

func (s Scheme) defaultPort() int {
	if s.IsHTTP() {
		return 9000
	}
	return 9009
}

// Threshold is a single auto-flush threshold: a bound plus whether it is
// enabled. A threshold configured as "-1" or "off" is disabled and never
// fires, per §3/§4.D.
type Threshold struct {
	Enabled bool
	Value   int64
}

// AuthMode classifies which authentication scheme Options carries.
type AuthMode uint8

const (
	AuthNone AuthMode = iota
	AuthBasic
	AuthBearer
	AuthECDSA
)

// Options is the immutable result of Parse. All fields are read-only by
// convention; construct a new Options via Parse rather than mutating one
// in place.
type Options struct {
	Scheme      Scheme
	Addresses   []endpoint.Address
	AutoProto   bool // protocol_version == "auto"
	ProtoVer    int  // 1, 2 or 3; meaningless when AutoProto is true

	Username string
	Password string
	Token    string
	AuthMode AuthMode

	TLSVerify bool // true = "on", false = "unsafe_off"

	InitBufSize int
	MaxBufSize  int
	MaxNameLen  int

	AutoFlush         bool
	AutoFlushRows     Threshold
	AutoFlushBytes    Threshold
	AutoFlushInterval Threshold // milliseconds

	AuthTimeoutMs        int
	RequestTimeoutMs     int
	RetryTimeoutMs       int
	RequestMinThroughput int64 // bytes/sec

	Gzip bool
}
