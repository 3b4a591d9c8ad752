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

// putUnquoted writes s escaping space, comma and equals (the separators
// of the unquoted contexts: table names, symbol values, column names), in
// addition to backslash, \n and \r which are escaped in every context.
// Non-ASCII bytes are copied through raw, as UTF-8.
func (b *Buffer) putUnquoted(s string) error {
	return b.putEscaped(s, " ,=")
}

// putQuoted writes s escaping only the double quote (the quoted-context
// delimiter), plus backslash, \n and \r.
func (b *Buffer) putQuoted(s string) error {
	return b.putEscaped(s, "\"")
}

func (b *Buffer) putEscaped(s string, contextSpecials string) error {
	start := 0
	flush := func(end int) error {
		if end > start {
			if err := b.putBytes([]byte(s[start:end])); err != nil {
				return err
			}
		}
		return nil
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			if err := flush(i); err != nil {
				return err
			}
			if err := b.putBytes([]byte{'\\', '\\'}); err != nil {
				return err
			}
			start = i + 1
		case c == '\n':
			if err := flush(i); err != nil {
				return err
			}
			if err := b.putBytes([]byte{'\\', '\n'}); err != nil {
				return err
			}
			start = i + 1
		case c == '\r':
			if err := flush(i); err != nil {
				return err
			}
			if err := b.putBytes([]byte{'\\', '\r'}); err != nil {
				return err
			}
			start = i + 1
		case c < 0x80 && indexByte(contextSpecials, c):
			if err := flush(i); err != nil {
				return err
			}
			if err := b.putBytes([]byte{'\\', c}); err != nil {
				return err
			}
			start = i + 1
		}
	}
	return flush(len(s))
}

func indexByte(s string, c byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return true
		}
	}
	return false
}
