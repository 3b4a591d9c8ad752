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
	"strings"

	"github.com/questdb/go-ilp-client/ilperr"
)

// tableSpecials and columnSpecials are the non-control forbidden bytes of
// §4.C. columnSpecials additionally forbids '-' and '.', which table
// names allow (subject to the dot placement rule below).
const (
	tableSpecials  = "?,'\"\\/:)(+*%~"
	columnSpecials = tableSpecials + "-."
)

const bom = "﻿"

func isControlOrDEL(c byte) bool {
	return c <= 0x1F || c == 0x7F
}

func hasForbiddenByte(name, specials string) bool {
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 0x80 {
			continue // non-ASCII is written raw, never forbidden by this check
		}
		if isControlOrDEL(c) {
			return true
		}
		if strings.IndexByte(specials, c) >= 0 {
			return true
		}
	}
	return false
}

// ValidateTableName checks name against the table-name rules of §4.C:
// non-empty, no forbidden characters, dots allowed but not leading,
// trailing, or doubled, and no longer than maxNameLen UTF-8 bytes.
func ValidateTableName(name string, maxNameLen int) error {
	if name == "" {
		return ilperr.New(ilperr.InvalidName, "table name must not be empty")
	}
	if len(name) > maxNameLen {
		return ilperr.Newf(ilperr.InvalidName, "table name exceeds max_name_len of %d bytes", maxNameLen)
	}
	if strings.Contains(name, bom) {
		return ilperr.New(ilperr.InvalidName, "table name must not contain a byte order mark")
	}
	if hasForbiddenByte(name, tableSpecials) {
		return ilperr.Newf(ilperr.InvalidName, "table name %q contains a forbidden character", name)
	}
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return ilperr.Newf(ilperr.InvalidName, "table name %q must not start or end with '.'", name)
	}
	if strings.Contains(name, "..") {
		return ilperr.Newf(ilperr.InvalidName, "table name %q must not contain consecutive dots", name)
	}
	return nil
}

// ValidateColumnName checks name against the column/symbol-name rules of
// §4.C: non-empty, no forbidden characters (including '-' and '.'), and
// no longer than maxNameLen UTF-8 bytes.
func ValidateColumnName(name string, maxNameLen int) error {
	if name == "" {
		return ilperr.New(ilperr.InvalidName, "column name must not be empty")
	}
	if len(name) > maxNameLen {
		return ilperr.Newf(ilperr.InvalidName, "column name exceeds max_name_len of %d bytes", maxNameLen)
	}
	if strings.Contains(name, bom) {
		return ilperr.New(ilperr.InvalidName, "column name must not contain a byte order mark")
	}
	if hasForbiddenByte(name, columnSpecials) {
		return ilperr.Newf(ilperr.InvalidName, "column name %q contains a forbidden character", name)
	}
	return nil
}
