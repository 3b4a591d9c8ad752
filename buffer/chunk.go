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
	"github.com/questdb/go-ilp-client/ilperr"
)

// putBytes appends data to the buffer, rolling to a fresh chunk when it
// would not fit in the remaining space of the current one. A single value
// must fit within one chunk (GuardAgainstOversizedChunk); the chunk size
// is fixed at construction so this is a hard ceiling on any single
// encoded field.
func (b *Buffer) putBytes(data []byte) error {
	if len(data) > b.chunkSize {
		return ilperr.Newf(ilperr.InvalidApiCall, "value of %d bytes exceeds the chunk size of %d bytes", len(data), b.chunkSize)
	}

	if b.chunkSize-b.pos < len(data) {
		b.rollChunk()
	}

	copy(b.chunks[b.curIdx][b.pos:], data)
	b.pos += len(data)
	b.chunkLen[b.curIdx] = b.pos
	b.length += len(data)
	return nil
}

func (b *Buffer) putByte(c byte) error {
	return b.putBytes([]byte{c})
}

// rollChunk closes out the current chunk and advances to the next one,
// allocating it on first use and reusing it thereafter.
func (b *Buffer) rollChunk() {
	b.chunkLen[b.curIdx] = b.pos
	b.curIdx++
	if b.curIdx == len(b.chunks) {
		b.chunks = append(b.chunks, make([]byte, b.chunkSize))
		b.chunkLen = append(b.chunkLen, 0)
	}
	b.pos = 0
}

// checkpoint records the current cursor, ready to be restored by
// cancelRow if the in-progress row is abandoned.
func (b *Buffer) checkpoint() {
	b.ckptChunkIdx = b.curIdx
	b.ckptPos = b.pos
	b.ckptLength = b.length
}

// restoreCheckpoint rewinds the cursor to the last checkpoint without
// releasing any chunk that may have been allocated in between.
func (b *Buffer) restoreCheckpoint() {
	b.curIdx = b.ckptChunkIdx
	b.pos = b.ckptPos
	b.length = b.ckptLength
}

// TrimExcess drops chunks beyond the current cursor, returning their
// memory. It never fails.
func (b *Buffer) TrimExcess() {
	if b.curIdx+1 >= len(b.chunks) {
		return
	}
	b.chunks = b.chunks[:b.curIdx+1]
	b.chunkLen = b.chunkLen[:b.curIdx+1]
}

// Clear resets the buffer to the state of a freshly constructed one of
// the same sizes: cursor, length, row count and row state are all
// zeroed. It never fails.
func (b *Buffer) Clear() {
	b.curIdx = 0
	b.pos = 0
	b.length = 0
	b.rowCount = 0
	b.chunkLen[0] = 0
	for i := range b.chunkLen {
		b.chunkLen[i] = 0
	}
	b.hasTable = false
	b.symbolCount = 0
	b.fieldCount = 0
}
