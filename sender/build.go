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
	"time"

	"github.com/questdb/go-ilp-client/buffer"
	"github.com/questdb/go-ilp-client/ilperr"
)

// Table starts a new row. Within a transaction every row must target the
// transaction's table; any other name is an InvalidApiCall.
func (s *Sender) Table(name string) error {
	if s.withinTxn && name != s.txnTable {
		return ilperr.Newf(ilperr.InvalidApiCall, "a transaction can only be for one table, opened for %q", s.txnTable)
	}
	return s.buf.Table(name)
}

// Symbol appends an indexed text attribute to the row in progress.
func (s *Sender) Symbol(name, value string) error {
	return s.buf.Symbol(name, value)
}

// LongColumn appends an int64 column.
func (s *Sender) LongColumn(name string, value int64) error {
	return s.buf.LongColumn(name, value)
}

// BoolColumn appends a boolean column.
func (s *Sender) BoolColumn(name string, value bool) error {
	return s.buf.BoolColumn(name, value)
}

// StringColumn appends a string column.
func (s *Sender) StringColumn(name, value string) error {
	return s.buf.StringColumn(name, value)
}

// Float64Column appends a double column.
func (s *Sender) Float64Column(name string, value float64) error {
	return s.buf.Float64Column(name, value)
}

// TimestampColumn appends a non-designated timestamp column.
func (s *Sender) TimestampColumn(name string, value time.Time) error {
	return s.buf.TimestampColumn(name, value)
}

// Float64ArrayColumn appends a double array column.
func (s *Sender) Float64ArrayColumn(name string, shape []int64, data []float64) error {
	return s.buf.Float64ArrayColumn(name, shape, data)
}

// DecimalColumn appends a binary decimal column.
func (s *Sender) DecimalColumn(name string, value buffer.Decimal) error {
	return s.buf.DecimalColumn(name, value)
}

// At finalizes the row with an explicit designated timestamp, then
// evaluates the auto-flush thresholds (§4.D). It may block on I/O if a
// threshold is crossed.
func (s *Sender) At(ctx context.Context, ts time.Time) error {
	if err := s.buf.At(ts); err != nil {
		return err
	}
	return s.maybeAutoFlush(ctx)
}

// AtNanos finalizes the row with an explicit epoch-nanosecond timestamp.
func (s *Sender) AtNanos(ctx context.Context, epochNanos int64) error {
	if err := s.buf.AtNanos(epochNanos); err != nil {
		return err
	}
	return s.maybeAutoFlush(ctx)
}

// AtNow finalizes the row without a client-supplied timestamp.
func (s *Sender) AtNow(ctx context.Context) error {
	if err := s.buf.AtNow(); err != nil {
		return err
	}
	return s.maybeAutoFlush(ctx)
}

// maybeAutoFlush implements §4.D's auto-flush trigger evaluation: never
// while a transaction is open, otherwise flush as soon as any enabled
// threshold is crossed.
func (s *Sender) maybeAutoFlush(ctx context.Context) error {
	if !s.opts.AutoFlush || s.withinTxn {
		return nil
	}

	rows := s.opts.AutoFlushRows
	bytes := s.opts.AutoFlushBytes
	interval := s.opts.AutoFlushInterval

	crossed := (rows.Enabled && int64(s.buf.RowCount()) >= rows.Value) ||
		(bytes.Enabled && int64(s.buf.Length()) >= bytes.Value) ||
		(interval.Enabled && time.Since(s.lastFlush) >= time.Duration(interval.Value)*time.Millisecond)

	if !crossed {
		return nil
	}
	return s.Send(ctx)
}
