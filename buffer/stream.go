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
	"io"

	"github.com/questdb/go-ilp-client/ilperr"
)

// WriteTo streams every buffered byte to w, chunk by chunk: every chunk up
// to curIdx writes its full chunkLen, and the current chunk writes only up
// to pos. A short write or any I/O error is wrapped as a Socket error; the
// cursor and checkpoint are left untouched so a failed flush can be
// retried against a different endpoint without re-encoding rows.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for i := 0; i <= b.curIdx; i++ {
		n := b.chunkLen[i]
		if i == b.curIdx {
			n = b.pos
		}
		if n == 0 {
			continue
		}
		wrote, err := w.Write(b.chunks[i][:n])
		written += int64(wrote)
		if err != nil {
			return written, ilperr.Wrap(ilperr.Socket, "could not write data to server", err)
		}
		if wrote != n {
			return written, ilperr.New(ilperr.Socket, "short write to server")
		}
	}
	return written, nil
}

// Bytes returns the buffered content as a single contiguous slice. It
// allocates; callers on the hot flush path should prefer WriteTo.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, 0, b.length)
	for i := 0; i <= b.curIdx; i++ {
		n := b.chunkLen[i]
		if i == b.curIdx {
			n = b.pos
		}
		out = append(out, b.chunks[i][:n]...)
	}
	return out
}
