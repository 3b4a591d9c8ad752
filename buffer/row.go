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

package buffer

import (
	"time"

	"github.com/questdb/go-ilp-client/ilperr"
)

// Table starts a new row. It fails with InvalidApiCall if a row is
// already in progress (table was already called without a matching
// at/at_now/at_nanos), or with InvalidName if name violates the
// table-name rules.
func (b *Buffer) Table(name string) error {
	if b.hasTable {
		return ilperr.New(ilperr.InvalidApiCall, "table was already called for the current row")
	}
	if err := ValidateTableName(name, b.maxNameLen); err != nil {
		return err
	}

	b.checkpoint()
	if err := b.putUnquoted(name); err != nil {
		return err
	}

	b.hasTable = true
	b.symbolCount = 0
	b.fieldCount = 0
	return nil
}

// Symbol appends an indexed text attribute. It must be called before any
// column on the same row.
func (b *Buffer) Symbol(name, value string) error {
	if !b.hasTable {
		return ilperr.New(ilperr.InvalidApiCall, "table must be called before symbol")
	}
	if b.fieldCount > 0 {
		return ilperr.New(ilperr.InvalidApiCall, "symbol cannot be appended after a column")
	}
	if err := ValidateColumnName(name, b.maxNameLen); err != nil {
		return err
	}

	if err := b.putByte(','); err != nil {
		return err
	}
	if err := b.putUnquoted(name); err != nil {
		return err
	}
	if err := b.putByte('='); err != nil {
		return err
	}
	if err := b.putUnquoted(value); err != nil {
		return err
	}

	b.symbolCount++
	return nil
}

// beginColumn writes the separator preceding a column value: a space
// before the first column of the row, a comma before every subsequent
// one, then the escaped column name and '='.
func (b *Buffer) beginColumn(name string) error {
	if !b.hasTable {
		return ilperr.New(ilperr.InvalidApiCall, "table must be called before column")
	}
	if err := ValidateColumnName(name, b.maxNameLen); err != nil {
		return err
	}

	sep := byte(',')
	if b.fieldCount == 0 {
		sep = ' '
	}
	if err := b.putByte(sep); err != nil {
		return err
	}
	if err := b.putUnquoted(name); err != nil {
		return err
	}
	return b.putByte('=')
}

// LongColumn appends an int64 (long) column.
func (b *Buffer) LongColumn(name string, value int64) error {
	if err := b.beginColumn(name); err != nil {
		return err
	}
	if err := b.putLongASCII(value); err != nil {
		return err
	}
	b.fieldCount++
	return nil
}

// BoolColumn appends a boolean column.
func (b *Buffer) BoolColumn(name string, value bool) error {
	if err := b.beginColumn(name); err != nil {
		return err
	}
	if err := b.putBoolASCII(value); err != nil {
		return err
	}
	b.fieldCount++
	return nil
}

// StringColumn appends a quoted, escaped string column.
func (b *Buffer) StringColumn(name, value string) error {
	if err := b.beginColumn(name); err != nil {
		return err
	}
	if err := b.putStringASCII(value); err != nil {
		return err
	}
	b.fieldCount++
	return nil
}

// Float64Column appends a double column. V1 writes it as ASCII; V2/V3
// write the binary DOUBLE framing.
func (b *Buffer) Float64Column(name string, value float64) error {
	if err := b.beginColumn(name); err != nil {
		return err
	}
	var err error
	if b.version.supportsBinary() {
		err = b.putDoubleBinary(value)
	} else {
		err = b.putDoubleASCII(value)
	}
	if err != nil {
		return err
	}
	b.fieldCount++
	return nil
}

// TimestampColumn appends a non-designated timestamp column. V1 encodes
// epoch-microseconds suffixed with 't'; V2/V3 encode epoch-nanoseconds
// suffixed with 'n'.
func (b *Buffer) TimestampColumn(name string, value time.Time) error {
	if err := b.beginColumn(name); err != nil {
		return err
	}
	if err := b.putTimestampColumnASCII(value.UnixNano()); err != nil {
		return err
	}
	b.fieldCount++
	return nil
}

// Float64ArrayColumn appends a multi-dimensional double array column. It
// is only supported from V2 onward; on V1 it fails with ProtocolVersion.
func (b *Buffer) Float64ArrayColumn(name string, shape []int64, data []float64) error {
	if !b.version.supportsBinary() {
		return ilperr.New(ilperr.ProtocolVersion, "double array columns require protocol version 2 or 3")
	}
	if err := b.beginColumn(name); err != nil {
		return err
	}
	if err := b.putDoubleArrayBinary(shape, data); err != nil {
		return err
	}
	b.fieldCount++
	return nil
}

// DecimalColumn appends a binary decimal column. It is only supported on
// V3; on V1/V2 it fails with ProtocolVersion.
func (b *Buffer) DecimalColumn(name string, value Decimal) error {
	if !b.version.supportsDecimal() {
		return ilperr.New(ilperr.ProtocolVersion, "decimal columns require protocol version 3")
	}
	if err := b.beginColumn(name); err != nil {
		return err
	}
	if err := b.putDecimalBinary(value); err != nil {
		return err
	}
	b.fieldCount++
	return nil
}

func (b *Buffer) hasAnyValue() bool {
	return b.symbolCount > 0 || b.fieldCount > 0
}

// finishRow is the common tail of At/AtNow/AtNanos: it requires the row
// to carry at least one symbol or column, enforces the max_buf_size
// ceiling, increments row_count, and resets per-row state.
func (b *Buffer) finishRow() error {
	if !b.hasTable || !b.hasAnyValue() {
		return ilperr.New(ilperr.InvalidApiCall, "a row needs a table and at least one symbol or column before it can be finished")
	}
	if b.length > b.maxSize {
		return ilperr.Newf(ilperr.InvalidApiCall, "Exceeded maximum buffer size of %d bytes", b.maxSize)
	}
	b.rowCount++
	b.hasTable = false
	b.symbolCount = 0
	b.fieldCount = 0
	return nil
}

// At finalizes the row with the designated timestamp ts, writing
// ' ' <epoch_ns> '\n'.
func (b *Buffer) At(ts time.Time) error {
	if !b.hasTable || !b.hasAnyValue() {
		return ilperr.New(ilperr.InvalidApiCall, "a row needs a table and at least one symbol or column before it can be finished")
	}
	if err := b.putDesignatedTimestamp(ts.UnixNano()); err != nil {
		return err
	}
	return b.finishRow()
}

// AtNanos finalizes the row with an explicit epoch-nanosecond timestamp.
func (b *Buffer) AtNanos(epochNanos int64) error {
	if !b.hasTable || !b.hasAnyValue() {
		return ilperr.New(ilperr.InvalidApiCall, "a row needs a table and at least one symbol or column before it can be finished")
	}
	if err := b.putDesignatedTimestamp(epochNanos); err != nil {
		return err
	}
	return b.finishRow()
}

// AtNow finalizes the row without a client-supplied timestamp: the server
// assigns its receive time. Only '\n' is written.
func (b *Buffer) AtNow() error {
	if !b.hasTable || !b.hasAnyValue() {
		return ilperr.New(ilperr.InvalidApiCall, "a row needs a table and at least one symbol or column before it can be finished")
	}
	if err := b.putByte('\n'); err != nil {
		return err
	}
	return b.finishRow()
}

// CancelRow rewinds the buffer to the checkpoint captured by the most
// recent Table call, discarding the in-progress row without releasing
// any chunk. It is a no-op if no row is in progress.
func (b *Buffer) CancelRow() {
	if !b.hasTable {
		return
	}
	b.restoreCheckpoint()
	b.hasTable = false
	b.symbolCount = 0
	b.fieldCount = 0
}
