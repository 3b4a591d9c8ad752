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

package transport

import (
	"crypto/tls"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/questdb/go-ilp-client/auth"
	"github.com/questdb/go-ilp-client/endpoint"
	"github.com/questdb/go-ilp-client/ilperr"
	"github.com/questdb/go-ilp-client/internal/logfield"
)

// Socket is a streaming TCP(S) connection kept open across flushes: it is
// dialed once, optionally authenticated once, and then receives back-to-
// back buffer writes until the sender closes it or a write fails.
type Socket struct {
	conn net.Conn
	log  *logrus.Entry
}

// DialSocket opens a TCP connection to addr, wrapping it in TLS when
// useTLS is set, and performs the ECDSA auth handshake when signer is
// non-nil.
func DialSocket(addr endpoint.Address, useTLS, tlsVerify bool, signer *auth.Signer, username string, bufSize int, dialTimeout time.Duration, log *logrus.Logger) (*Socket, error) {
	entry := logfield.Entry(log, "transport.socket").WithField(logfield.Address, addr.String())

	conn, err := net.DialTimeout("tcp", addr.String(), dialTimeout)
	if err != nil {
		return nil, ilperr.Retriable(ilperr.Wrap(ilperr.Socket, "could not connect", err))
	}

	if useTLS {
		tlsConn := tls.Client(conn, &tls.Config{InsecureSkipVerify: !tlsVerify}) //nolint:gosec
		if err := tlsConn.Handshake(); err != nil {
			conn.Close()
			return nil, ilperr.Wrap(ilperr.Socket, "TLS handshake failed", err)
		}
		conn = tlsConn
	}

	s := &Socket{conn: conn, log: entry}

	if signer != nil {
		if err := signer.Handshake(conn, username, bufSize); err != nil {
			conn.Close()
			return nil, err
		}
		entry.Debug("TCP authentication succeeded")
	}

	return s, nil
}

// Write sends data over the open connection, wrapping any I/O failure as
// a retriable Socket error so the sender's retry loop rotates and
// reconnects rather than surfacing it immediately.
func (s *Socket) Write(data []byte) error {
	if _, err := s.conn.Write(data); err != nil {
		return ilperr.Retriable(ilperr.Wrap(ilperr.Socket, "could not write data to server", err))
	}
	return nil
}

// Close closes the underlying connection. Safe to call more than once.
func (s *Socket) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
