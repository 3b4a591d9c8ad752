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

// Package ilperr defines the tagged error taxonomy shared by every
// component of the client: configuration parsing, row building, transport
// and the sender state machine all raise errors through this package so
// callers can pattern-match on Kind instead of parsing messages.
package ilperr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error the way an HTTP status class classifies a
// response: callers branch on Kind, humans read Message.
type Kind uint8

const (
	// ConfigParse marks a malformed configuration string or an unknown
	// property name.
	ConfigParse Kind = iota + 1

	// InvalidName marks a table, symbol or column name that violates the
	// character-set or length rules.
	InvalidName

	// InvalidApiCall marks a builder call made out of order: a symbol
	// after a column, two table calls, commit outside a transaction, a
	// send while a transaction is open, and so on.
	InvalidApiCall

	// InvalidArrayShape marks an array column whose declared shape does
	// not match its element count, or whose dimensions overflow uint32.
	InvalidArrayShape

	// ProtocolVersion marks a typed column unsupported by the
	// negotiated or configured wire protocol version.
	ProtocolVersion

	// Authentication marks a rejected TCP ECDSA challenge or an HTTP
	// 401/403 response.
	Authentication

	// Socket marks an I/O failure writing to or reading from a
	// transport.
	Socket

	// ServerFlush marks a non-retriable server response; Detail carries
	// the parsed server-provided fields.
	ServerFlush

	// retriable is an internal marker, never surfaced directly: it is
	// consumed by the retry loop and only escapes as the wrapped cause
	// of whatever error is re-raised on deadline expiry.
	retriable
)

func (k Kind) String() string {
	switch k {
	case ConfigParse:
		return "ConfigParse"
	case InvalidName:
		return "InvalidName"
	case InvalidApiCall:
		return "InvalidApiCall"
	case InvalidArrayShape:
		return "InvalidArrayShape"
	case ProtocolVersion:
		return "ProtocolVersion"
	case Authentication:
		return "Authentication"
	case Socket:
		return "Socket"
	case ServerFlush:
		return "ServerFlush"
	case retriable:
		return "retriable"
	default:
		return "Unknown"
	}
}

// Detail carries the server-reported fields of a ServerFlush error, parsed
// from the JSON error body QuestDB returns on a rejected write.
type Detail struct {
	Code    string
	Message string
	Line    int
	ErrorId string
}

// Error is the concrete error type raised by every package in this
// module. It wraps an optional cause and, for ServerFlush, a Detail.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
	Detail  *Detail
}

// New builds an Error of the given Kind with a plain message.
func New(k Kind, message string) *Error {
	return &Error{Kind: k, Message: message}
}

// Newf builds an Error of the given Kind with a formatted message.
func Newf(k Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of the given Kind that wraps cause, so
// errors.Unwrap(err) and errors.Is(err, cause) both work.
func Wrap(k Kind, message string, cause error) *Error {
	return &Error{Kind: k, Message: message, Cause: cause}
}

// ServerFlushError builds a ServerFlush Error from a parsed server detail,
// formatting the message exactly as spec'd: a multi-line "Server Response"
// block with the code, message, line and error id.
func ServerFlushError(d Detail) *Error {
	return &Error{
		Kind: ServerFlush,
		Message: fmt.Sprintf(
			"Server Response (\n\tCode: `%s`\n\tMessage: `%s`\n\tLine: `%d`\n\tErrorId: `%s` \n)",
			d.Code, d.Message, d.Line, d.ErrorId,
		),
		Detail: &d,
	}
}

// Retriable wraps cause as the internal retriable marker; the retry loop
// in package sender recognizes it via IsRetriable and never lets it escape
// to a caller directly.
func Retriable(cause error) *Error {
	return &Error{Kind: retriable, Message: "retriable transport failure", Cause: cause}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is reports whether target is an *Error with the same Kind, letting
// callers write errors.Is(err, ilperr.New(ilperr.InvalidName, "")).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf extracts the Kind of err if it is (or wraps) an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Has reports whether err is (or wraps) an *Error of the given Kind.
func Has(err error, k Kind) bool {
	return errors.Is(err, &Error{Kind: k})
}

// IsRetriable reports whether err was raised (or wraps a cause raised)
// through Retriable.
func IsRetriable(err error) bool {
	return Has(err, retriable)
}
