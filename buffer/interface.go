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

// Package buffer implements the row-building and wire-encoding engine: a
// chunked growing byte buffer with name validation, text escaping, and the
// ASCII/binary column encodings for every supported protocol version.
//
// A Buffer is not safe for concurrent use. It is owned exclusively by one
// sender.Sender at a time, matching the single-threaded-cooperative model
// of the wider client.
package buffer


// Version selects which wire encoding column values use: V1 writes
// ASCII-only lines, V2 adds binary double/double-array framing, V3 adds
// binary decimal framing on top of V2.
type Version uint8

const (
	V1 Version = 1
	V2 Version = 2
	V3 Version = 3
)

// supportsBinary and supportsDecimal report whether this version can
// encode binary doubles/arrays and decimals respectively.
func (v Version) supportsBinary() bool { return v >= V2 }
func (v Version) supportsDecimal() bool { return v >= V3 }

const minChunkForChallenge = 512

// Buffer is the chunked wire-format byte accumulator described in §4.C of
// the design: an ordered list of fixed-size chunks plus a cursor, with
// per-row checkpointing for cancellation.
type Buffer struct {
	chunkSize  int
	maxSize    int
	maxNameLen int
	version    Version

	chunks   [][]byte
	chunkLen []int // filled length of a chunk that has already rolled past
	curIdx   int
	pos      int
	length   int
	rowCount int

	hasTable    bool
	symbolCount int
	fieldCount  int

	ckptChunkIdx int
	ckptPos      int
	ckptLength   int
}

// New constructs a Buffer with the given chunk size (init_buf_size),
// maximum total size (max_buf_size), maximum name length in UTF-8 bytes
// (max_name_len), and the protocol version that governs column encoding.
func New(chunkSize, maxSize, maxNameLen int, version Version) *Buffer {
	b := &Buffer{
		chunkSize:  chunkSize,
		maxSize:    maxSize,
		maxNameLen: maxNameLen,
		version:    version,
	}
	b.chunks = append(b.chunks, make([]byte, chunkSize))
	b.chunkLen = append(b.chunkLen, 0)
	return b
}

// SetVersion updates the protocol version used for subsequent column
// encodings, e.g. once the negotiator has picked a version for the
// current endpoint.
func (b *Buffer) SetVersion(v Version) { b.version = v }

// Version returns the protocol version currently governing encoding.
func (b *Buffer) Version() Version { return b.version }

// Length returns the total number of valid bytes currently buffered.
func (b *Buffer) Length() int { return b.length }

// RowCount returns the number of complete rows currently buffered.
func (b *Buffer) RowCount() int { return b.rowCount }

// HasPendingRow reports whether a row has been started (table called) but
// not yet finalized with at/at_now/at_nanos.
func (b *Buffer) HasPendingRow() bool { return b.hasTable }

// MaxNameLen returns the configured maximum name length in UTF-8 bytes.
func (b *Buffer) MaxNameLen() int { return b.maxNameLen }

// ChunkSize returns the configured chunk size.
func (b *Buffer) ChunkSize() int { return b.chunkSize }

// CanReceiveChallenge reports whether the configured chunk size is large
// enough to receive a TCP authentication challenge line.
func (b *Buffer) CanReceiveChallenge() bool { return b.chunkSize >= minChunkForChallenge }

