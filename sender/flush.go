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

package sender

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/questdb/go-ilp-client/ilperr"
	"github.com/questdb/go-ilp-client/transport"
)

const (
	backoffBase = 10 * time.Millisecond
	backoffCap  = time.Second
)

// backoff computes the exponential, jittered delay before retry attempt n
// (0-based), per §4.D: start at 10ms, double each attempt, cap at ~1s,
// ±50% jitter.
func backoff(attempt int) time.Duration {
	d := backoffBase << attempt
	if d > backoffCap || d <= 0 {
		d = backoffCap
	}
	jitter := 0.5 + rand.Float64() // in [0.5, 1.5)
	return time.Duration(float64(d) * jitter)
}

// flush transmits everything currently buffered, retrying retriable
// failures until the retry_timeout deadline expires, and rotating
// endpoints between attempts when more than one is configured.
func (s *Sender) flush(ctx context.Context) error {
	if err := s.checkNotClosed(); err != nil {
		return err
	}
	if s.buf.RowCount() == 0 {
		return nil
	}

	deadline := time.Now().Add(time.Duration(s.opts.RetryTimeoutMs) * time.Millisecond)

	var lastErr error
	for attempt := 0; ; attempt++ {
		var err error
		if s.opts.Scheme.IsHTTP() {
			err = s.flushHTTP(ctx)
		} else {
			err = s.flushSocket(ctx)
		}

		if err == nil {
			s.onFlushSuccess()
			return nil
		}

		if !ilperr.IsRetriable(err) {
			return unwrapRetriable(err)
		}
		lastErr = err

		if time.Now().After(deadline) {
			s.negotiated.Invalidate(s.eps.Current().String())
			return unwrapRetriable(lastErr)
		}

		if s.eps.Len() > 1 {
			s.negotiated.Invalidate(s.eps.Current().String())
			s.eps.Rotate()
		}

		select {
		case <-ctx.Done():
			return unwrapRetriable(lastErr)
		case <-time.After(backoff(attempt)):
		}
	}
}

// unwrapRetriable strips the internal Retriable marker so callers see the
// real cause (a ServerFlush, Socket, or wrapped connection error), never
// the marker type itself.
func unwrapRetriable(err error) error {
	if ilperr.IsRetriable(err) {
		if cause := errors.Unwrap(err); cause != nil {
			return cause
		}
	}
	return err
}

func (s *Sender) onFlushSuccess() {
	s.buf.Clear()
	s.withinTxn = false
	s.txnTable = ""
	s.lastFlush = time.Now()
	s.eps.Reset()
}

func (s *Sender) flushHTTP(ctx context.Context) error {
	addr := s.eps.Current()

	version, err := s.ensureVersion(ctx, addr)
	if err != nil {
		return err
	}
	s.buf.SetVersion(version)

	body := s.buf.Bytes()
	timeout := transport.RequestTimeout(s.opts.RequestTimeoutMs, s.opts.RequestMinThroughput, len(body))

	_, err = s.http.Send(ctx, addr, s.scheme(), body, s.opts, timeout)
	return err
}

func (s *Sender) flushSocket(ctx context.Context) error {
	if s.socket == nil {
		sock, err := s.dialSocket()
		if err != nil {
			return err
		}
		s.socket = sock
	}

	if err := s.socket.Write(s.buf.Bytes()); err != nil {
		s.socket.Close()
		s.socket = nil
		return err
	}
	return nil
}

func (s *Sender) dialSocket() (*transport.Socket, error) {
	addr := s.eps.Current()
	return transport.DialSocket(
		addr,
		s.opts.Scheme.TLS(),
		s.opts.TLSVerify,
		s.signer,
		s.opts.Username,
		s.opts.InitBufSize,
		time.Duration(s.opts.AuthTimeoutMs)*time.Millisecond,
		nil,
	)
}

