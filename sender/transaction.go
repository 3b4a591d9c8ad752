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

	"github.com/questdb/go-ilp-client/config"
	"github.com/questdb/go-ilp-client/ilperr"
)

// Transaction opens a transaction scoped to table and starts the first row
// on that table. Only one table's rows may be buffered until Commit or
// Rollback. Transactions are only valid
// on HTTP-scheme senders (streaming-socket senders forbid them entirely,
// per §3).
func (s *Sender) Transaction(table string) error {
	if s.opts.Scheme.IsTCP() {
		return ilperr.New(ilperr.InvalidApiCall, "transactions are not supported on a streaming socket sender")
	}
	if s.withinTxn {
		return ilperr.New(ilperr.InvalidApiCall, "a transaction is already open")
	}
	if s.buf.Length() != 0 {
		return ilperr.New(ilperr.InvalidApiCall, "a transaction can only be opened when the buffer is empty")
	}
	if err := s.buf.Table(table); err != nil {
		return err
	}

	s.withinTxn = true
	s.txnTable = table
	return nil
}

// Commit flushes the single buffered transaction as one request, then
// clears the transaction state. Any retriable failure is retried exactly
// as a normal Send.
func (s *Sender) Commit(ctx context.Context) error {
	if !s.withinTxn {
		return ilperr.New(ilperr.InvalidApiCall, "commit called outside of a transaction")
	}
	s.withinTxn = false
	txnTable := s.txnTable
	s.txnTable = ""

	if err := s.flush(ctx); err != nil {
		// Restore transaction state so the caller can retry or roll back
		// explicitly rather than losing track of which table was open.
		s.withinTxn = true
		s.txnTable = txnTable
		return err
	}
	return nil
}

// Rollback discards the buffered transaction without transmitting it.
func (s *Sender) Rollback() error {
	if !s.withinTxn {
		return ilperr.New(ilperr.InvalidApiCall, "rollback called outside of a transaction")
	}
	s.Clear()
	return nil
}

// Send flushes the buffer outside of a transaction. Calling Send while a
// transaction is open is an InvalidApiCall: the caller must Commit or
// Rollback instead.
func (s *Sender) Send(ctx context.Context) error {
	if s.withinTxn {
		return ilperr.New(ilperr.InvalidApiCall, "cannot send while a transaction is open, call commit or rollback")
	}
	return s.flush(ctx)
}

// scheme exposes the configured scheme to the flush implementation without
// importing config in every file that needs it.
func (s *Sender) scheme() config.Scheme { return s.opts.Scheme }
