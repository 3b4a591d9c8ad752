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
	"math"
	"strconv"

	"github.com/questdb/go-ilp-client/ilperr"
)

// putLongASCII writes a long column value: decimal ASCII suffixed with
// 'i'. math.MinInt64 has no positive counterpart and is rejected per
// §4.C.
func (b *Buffer) putLongASCII(v int64) error {
	if v == math.MinInt64 {
		return ilperr.New(ilperr.InvalidApiCall, "Special case: long.MIN_VALUE cannot be represented")
	}
	return b.putBytes([]byte(strconv.FormatInt(v, 10) + "i"))
}

// putBoolASCII writes 't' or 'f'.
func (b *Buffer) putBoolASCII(v bool) error {
	if v {
		return b.putByte('t')
	}
	return b.putByte('f')
}

// putStringASCII writes a quoted, escaped string column value.
func (b *Buffer) putStringASCII(v string) error {
	if err := b.putByte('"'); err != nil {
		return err
	}
	if err := b.putQuoted(v); err != nil {
		return err
	}
	return b.putByte('"')
}

// putDoubleASCII writes a double column value in V1's ASCII form: no
// suffix, using Go's shortest round-tripping decimal representation akin
// to the scientific notation used in S2 of the design (e.g.
// "-1.7976931348623157E+308").
func (b *Buffer) putDoubleASCII(v float64) error {
	return b.putBytes([]byte(formatDoubleASCII(v)))
}

// formatDoubleASCII renders v the way QuestDB's ILP parser expects:
// uppercase exponent marker with an explicit sign, matching scenario S2.
func formatDoubleASCII(v float64) string {
	s := strconv.FormatFloat(v, 'E', -1, 64)
	// Go emits "E+308"/"E-308" already; strconv pads the exponent to at
	// least two digits (1.5 renders as "1.5E+00").
	return s
}

// putTimestampColumnASCII writes a non-designated timestamp column value.
// V1 uses epoch-microseconds suffixed with 't'; V2/V3 use epoch-
// nanoseconds suffixed with 'n'.
func (b *Buffer) putTimestampColumnASCII(epochNanos int64) error {
	if b.version == V1 {
		return b.putBytes([]byte(strconv.FormatInt(epochNanos/1000, 10) + "t"))
	}
	return b.putBytes([]byte(strconv.FormatInt(epochNanos, 10) + "n"))
}

// putDesignatedTimestamp writes the row-closing designated timestamp:
// epoch-nanoseconds with no suffix, followed by '\n'.
func (b *Buffer) putDesignatedTimestamp(epochNanos int64) error {
	if err := b.putByte(' '); err != nil {
		return err
	}
	if err := b.putBytes([]byte(strconv.FormatInt(epochNanos, 10))); err != nil {
		return err
	}
	return b.putByte('\n')
}
