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

package config

import (
	"strconv"
	"strings"
)

// String renders the canonical form of o: recognized keys in alphabetical
// order (which happens to be the same order §6 lists them in), defaults
// inlined, trailing semicolon. Two Options parsed from differently
// ordered/duplicated input strings but carrying the same effective values
// always produce identical canonical strings, which is what makes this
// method usable as a test oracle for equality.
func (o *Options) String() string {
	var b strings.Builder
	b.WriteString(string(o.Scheme))
	b.WriteString("::")

	for _, a := range o.Addresses {
		b.WriteString("addr=")
		b.WriteString(a.String())
		b.WriteString(";")
	}

	writeInt := func(key string, v int) {
		b.WriteString(key)
		b.WriteString("=")
		b.WriteString(strconv.Itoa(v))
		b.WriteString(";")
	}
	writeOnOff := func(key string, v bool) {
		b.WriteString(key)
		b.WriteString("=")
		if v {
			b.WriteString("on")
		} else {
			b.WriteString("off")
		}
		b.WriteString(";")
	}
	writeThreshold := func(key string, t Threshold) {
		b.WriteString(key)
		b.WriteString("=")
		if !t.Enabled {
			b.WriteString("off")
		} else {
			b.WriteString(strconv.FormatInt(t.Value, 10))
		}
		b.WriteString(";")
	}

	writeInt("auth_timeout", o.AuthTimeoutMs)
	writeOnOff("auto_flush", o.AutoFlush)
	writeThreshold("auto_flush_bytes", o.AutoFlushBytes)
	writeThreshold("auto_flush_interval", o.AutoFlushInterval)
	writeThreshold("auto_flush_rows", o.AutoFlushRows)

	if o.Scheme.IsHTTP() {
		writeOnOff("gzip", o.Gzip)
	}

	writeInt("init_buf_size", o.InitBufSize)
	writeInt("max_buf_size", o.MaxBufSize)
	writeInt("max_name_len", o.MaxNameLen)

	if o.Password != "" {
		b.WriteString("password=")
		b.WriteString(o.Password)
		b.WriteString(";")
	}

	if o.AutoProto {
		b.WriteString("protocol_version=auto;")
	} else {
		writeInt("protocol_version", o.ProtoVer)
	}

	if o.Scheme.IsHTTP() {
		b.WriteString("request_min_throughput=")
		b.WriteString(strconv.FormatInt(o.RequestMinThroughput, 10))
		b.WriteString(";")
		writeInt("request_timeout", o.RequestTimeoutMs)
	}

	writeInt("retry_timeout", o.RetryTimeoutMs)

	out := strings.TrimSuffix(b.String(), "")
	return out + tlsVerifyUsernameToken(o)
}

func tlsVerifyUsernameToken(o *Options) string {
	var b strings.Builder
	if o.TLSVerify {
		b.WriteString("tls_verify=on;")
	} else {
		b.WriteString("tls_verify=unsafe_off;")
	}
	if o.Token != "" {
		b.WriteString("token=")
		b.WriteString(o.Token)
		b.WriteString(";")
	}
	if o.Username != "" {
		b.WriteString("username=")
		b.WriteString(o.Username)
		b.WriteString(";")
	}
	return b.String()
}
