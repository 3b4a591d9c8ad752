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

// Package sender drives the fluent row builder, auto-flush policy,
// transactions, endpoint rotation and deadline-based retry described by
// the component design: it is the sole owner of one buffer.Buffer and one
// endpoint.Provider, and is not safe for concurrent use from more than one
// goroutine — callers drive a single Sender sequentially, matching the
// single-threaded-cooperative scheduling model.
package sender

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/questdb/go-ilp-client/auth"
	"github.com/questdb/go-ilp-client/buffer"
	"github.com/questdb/go-ilp-client/config"
	"github.com/questdb/go-ilp-client/endpoint"
	"github.com/questdb/go-ilp-client/ilperr"
	"github.com/questdb/go-ilp-client/internal/logfield"
	"github.com/questdb/go-ilp-client/negotiate"
	"github.com/questdb/go-ilp-client/transport"
)

// Sender is the public entry point of the client: construct one from an
// Options record or a raw configuration string, build rows through its
// fluent methods, and flush them over HTTP or a streaming socket.
type Sender struct {
	opts *config.Options
	buf  *buffer.Buffer
	eps  *endpoint.Provider

	http   *transport.HTTP
	socket *transport.Socket
	signer *auth.Signer

	negotiated *negotiate.Cache

	withinTxn bool
	txnTable  string

	lastFlush time.Time

	log *logrus.Entry

	mu     sync.Mutex
	closed bool
}

// New constructs a Sender from an already-parsed Options record.
func New(o *config.Options, log *logrus.Logger) (*Sender, error) {
	return newSender(o, log)
}

// NewFromConfigString parses confStr and constructs a Sender from it, the
// most common entry point for callers (§6 "Construct a sender from an
// Options or config string").
func NewFromConfigString(confStr string, log *logrus.Logger) (*Sender, error) {
	o, err := config.Parse(confStr)
	if err != nil {
		return nil, err
	}
	return newSender(o, log)
}

func newSender(o *config.Options, log *logrus.Logger) (*Sender, error) {
	version := buffer.V1
	if !o.AutoProto {
		version = buffer.Version(o.ProtoVer)
	}

	s := &Sender{
		opts:       o,
		buf:        buffer.New(o.InitBufSize, o.MaxBufSize, o.MaxNameLen, version),
		eps:        endpoint.New(o.Addresses),
		negotiated: negotiate.NewCache(),
		lastFlush:  time.Now(),
		log:        logfield.Entry(log, "sender"),
	}

	if o.Scheme.IsHTTP() {
		s.http = transport.NewHTTP(!o.TLSVerify, log)
	}

	if o.AuthMode == config.AuthECDSA {
		signer, err := auth.NewSigner(o.Token)
		if err != nil {
			return nil, err
		}
		s.signer = signer
	}

	return s, nil
}

// Length returns the number of bytes currently buffered.
func (s *Sender) Length() int { return s.buf.Length() }

// RowCount returns the number of complete rows currently buffered.
func (s *Sender) RowCount() int { return s.buf.RowCount() }

// WithinTransaction reports whether a transaction is currently open.
func (s *Sender) WithinTransaction() bool { return s.withinTxn }

// Clear resets the buffer and any open transaction state without
// transmitting anything.
func (s *Sender) Clear() {
	s.buf.Clear()
	s.withinTxn = false
	s.txnTable = ""
}

// Truncate drops buffer chunks beyond the current cursor, returning their
// memory to the runtime. Never fails.
func (s *Sender) Truncate() { s.buf.TrimExcess() }

// CancelRow abandons the row currently being built, if any.
func (s *Sender) CancelRow() { s.buf.CancelRow() }

// Close marks the sender closed and closes any open streaming socket. The
// HTTP transport's pooled idle connections are not closed. Safe to call
// more than once.
func (s *Sender) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.socket != nil {
		return s.socket.Close()
	}
	return nil
}

func (s *Sender) checkNotClosed() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ilperr.New(ilperr.InvalidApiCall, "sender is closed")
	}
	return nil
}
