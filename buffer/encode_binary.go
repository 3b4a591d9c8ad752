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
	"encoding/binary"
	"math"

	"github.com/questdb/go-ilp-client/ilperr"
)

// Binary column type-byte framing (§4.C/§6): every V2+ binary field is
// introduced with '=' and a type byte, all multi-byte values little
// endian regardless of host endianness since encoding/binary.LittleEndian
// always serializes in that order — no runtime host-endian branch is
// needed for this to be correct on big-endian hosts too.
const (
	binTypeDouble  byte = 0x10
	binTypeArray   byte = 0x14
	binTypeDecimal byte = 0x18

	arrayElemDouble byte = 0x10
)

// putDoubleBinary writes the V2+ binary double column framing: '=',
// DOUBLE, 8 bytes little-endian IEEE-754.
func (b *Buffer) putDoubleBinary(v float64) error {
	if err := b.putByte('='); err != nil {
		return err
	}
	if err := b.putByte(binTypeDouble); err != nil {
		return err
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	return b.putBytes(buf[:])
}

// putDoubleArrayBinary writes the V2+ binary double-array column framing:
// '=', ARRAY, DOUBLE, rank byte, rank*4-byte little-endian dimension
// sizes, then the flattened row-major data as little-endian doubles.
//
// shape elements are validated against uint32 range and against the
// actual element count of data before any bytes are written.
func (b *Buffer) putDoubleArrayBinary(shape []int64, data []float64) error {
	if len(shape) == 0 {
		return ilperr.New(ilperr.InvalidArrayShape, "array shape must have at least one dimension")
	}
	if len(shape) > math.MaxUint8 {
		return ilperr.New(ilperr.InvalidArrayShape, "array rank exceeds the representable range")
	}

	var total int64 = 1
	for _, d := range shape {
		if d < 0 || d > math.MaxUint32 {
			return ilperr.Newf(ilperr.InvalidArrayShape, "array dimension %d overflows uint32", d)
		}
		total *= d
		if total < 0 || total > math.MaxInt32 {
			return ilperr.New(ilperr.InvalidArrayShape, "array shape product overflows")
		}
	}
	if total != int64(len(data)) {
		return ilperr.Newf(ilperr.InvalidArrayShape, "array shape implies %d elements but got %d", total, len(data))
	}

	if err := b.putByte('='); err != nil {
		return err
	}
	if err := b.putByte(binTypeArray); err != nil {
		return err
	}
	if err := b.putByte(arrayElemDouble); err != nil {
		return err
	}
	if err := b.putByte(byte(len(shape))); err != nil {
		return err
	}
	for _, d := range shape {
		var dim [4]byte
		binary.LittleEndian.PutUint32(dim[:], uint32(d))
		if err := b.putBytes(dim[:]); err != nil {
			return err
		}
	}
	for _, v := range data {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		if err := b.putBytes(buf[:]); err != nil {
			return err
		}
	}
	return nil
}
