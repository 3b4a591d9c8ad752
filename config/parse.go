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
	"net"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/questdb/go-ilp-client/endpoint"
	"github.com/questdb/go-ilp-client/ilperr"
)

// recognized is the exact key set of §6; any other key is a ConfigParse
// error.
var recognized = map[string]bool{
	"addr":                   true,
	"auth_timeout":           true,
	"auto_flush":             true,
	"auto_flush_bytes":       true,
	"auto_flush_interval":    true,
	"auto_flush_rows":        true,
	"gzip":                   true,
	"init_buf_size":          true,
	"max_buf_size":           true,
	"max_name_len":           true,
	"password":               true,
	"protocol_version":       true,
	"request_min_throughput": true,
	"request_timeout":        true,
	"retry_timeout":          true,
	"tls_verify":             true,
	"token":                  true,
	"username":               true,
}

// httpOnly holds the keys that are meaningless (Unsupported) on a tcp/tcps
// scheme.
var httpOnly = map[string]bool{
	"gzip":                   true,
	"password":               true,
	"request_min_throughput": true,
	"request_timeout":        true,
}

var defaults = map[string]string{
	"auth_timeout":           "15000",
	"auto_flush":             "on",
	"auto_flush_bytes":       "off",
	"auto_flush_interval":    "1000",
	"auto_flush_rows":        "75000",
	"gzip":                   "off",
	"init_buf_size":          "65536",
	"max_buf_size":           "104857600",
	"max_name_len":           "127",
	"protocol_version":       "auto",
	"request_min_throughput": "102400",
	"request_timeout":        "10000",
	"retry_timeout":          "10000",
	"tls_verify":             "on",
}

// rawNumeric is decoded by mapstructure (with weakly-typed input so that
// the string values produced by tokenize() coerce straight into the
// int/int64 fields below) for the handful of options that are plain
// positive integers. Fields with non-numeric sentinels ("off", "-1",
// "auto") are handled separately in applyDerived.
type rawNumeric struct {
	AuthTimeout          int   `mapstructure:"auth_timeout"`
	InitBufSize          int   `mapstructure:"init_buf_size"`
	MaxBufSize           int   `mapstructure:"max_buf_size"`
	MaxNameLen           int   `mapstructure:"max_name_len"`
	RequestMinThroughput int64 `mapstructure:"request_min_throughput"`
	RequestTimeout       int   `mapstructure:"request_timeout"`
	RetryTimeout         int   `mapstructure:"retry_timeout"`
}

// Parse parses a configuration string of the form
// "scheme::(key=value;)+" into a validated Options record.
func Parse(confStr string) (*Options, error) {
	scheme, pairs, addrs, err := tokenize(confStr)
	if err != nil {
		return nil, err
	}

	s := Scheme(scheme)
	switch s {
	case SchemeHTTP, SchemeHTTPS, SchemeTCP, SchemeTCPS:
	default:
		return nil, ilperr.Newf(ilperr.ConfigParse, "unsupported scheme %q", scheme)
	}

	if len(addrs) == 0 {
		return nil, ilperr.New(ilperr.ConfigParse, "at least one addr is required")
	}

	merged := make(map[string]string, len(defaults)+len(pairs))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range pairs {
		if httpOnly[k] && s.IsTCP() {
			return nil, ilperr.Newf(ilperr.ConfigParse, "property %q is not supported for scheme %q", k, scheme)
		}
		merged[k] = v
	}

	addresses := make([]endpoint.Address, 0, len(addrs))
	for _, raw := range addrs {
		a, err := parseAddress(raw, s.defaultPort())
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, a)
	}

	var rn rawNumeric
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &rn,
	})
	if err != nil {
		return nil, ilperr.Wrap(ilperr.ConfigParse, "internal decoder setup failed", err)
	}
	numericSrc := map[string]string{
		"auth_timeout":           merged["auth_timeout"],
		"init_buf_size":          merged["init_buf_size"],
		"max_buf_size":           merged["max_buf_size"],
		"max_name_len":           merged["max_name_len"],
		"request_min_throughput": merged["request_min_throughput"],
		"request_timeout":        merged["request_timeout"],
		"retry_timeout":          merged["retry_timeout"],
	}
	if err := dec.Decode(numericSrc); err != nil {
		return nil, ilperr.Wrap(ilperr.ConfigParse, "invalid numeric property", err)
	}

	o := &Options{
		Scheme:               s,
		Addresses:            addresses,
		InitBufSize:          rn.InitBufSize,
		MaxBufSize:           rn.MaxBufSize,
		MaxNameLen:           rn.MaxNameLen,
		AuthTimeoutMs:        rn.AuthTimeout,
		RequestTimeoutMs:     rn.RequestTimeout,
		RetryTimeoutMs:       rn.RetryTimeout,
		RequestMinThroughput: rn.RequestMinThroughput,
		Username:             pairs["username"],
		Password:             pairs["password"],
		Token:                pairs["token"],
	}

	if err := applyDerived(o, merged, pairs); err != nil {
		return nil, err
	}

	return o, nil
}

func applyDerived(o *Options, merged, provided map[string]string) error {
	switch merged["protocol_version"] {
	case "auto":
		o.AutoProto = true
	case "1":
		o.ProtoVer = 1
	case "2":
		o.ProtoVer = 2
	case "3":
		o.ProtoVer = 3
	default:
		return ilperr.Newf(ilperr.ConfigParse, "invalid protocol_version %q", merged["protocol_version"])
	}

	switch merged["tls_verify"] {
	case "on":
		o.TLSVerify = true
	case "unsafe_off":
		o.TLSVerify = false
	default:
		return ilperr.Newf(ilperr.ConfigParse, "invalid tls_verify %q", merged["tls_verify"])
	}

	onOff, err := parseOnOff("auto_flush", merged["auto_flush"])
	if err != nil {
		return err
	}
	o.AutoFlush = onOff

	onOff, err = parseOnOff("gzip", merged["gzip"])
	if err != nil {
		return err
	}
	o.Gzip = onOff

	if o.AutoFlushRows, err = parseThreshold("auto_flush_rows", merged["auto_flush_rows"]); err != nil {
		return err
	}
	if o.AutoFlushBytes, err = parseThreshold("auto_flush_bytes", merged["auto_flush_bytes"]); err != nil {
		return err
	}
	if o.AutoFlushInterval, err = parseThreshold("auto_flush_interval", merged["auto_flush_interval"]); err != nil {
		return err
	}

	switch {
	case provided["token"] != "" && provided["username"] != "" && o.Scheme.IsTCP():
		o.AuthMode = AuthECDSA
	case provided["token"] != "":
		o.AuthMode = AuthBearer
	case provided["username"] != "" || provided["password"] != "":
		o.AuthMode = AuthBasic
	default:
		o.AuthMode = AuthNone
	}

	return nil
}

func parseOnOff(key, v string) (bool, error) {
	switch v {
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, ilperr.Newf(ilperr.ConfigParse, "invalid value for %q: %q", key, v)
	}
}

func parseThreshold(key, v string) (Threshold, error) {
	if v == "off" || v == "-1" {
		return Threshold{Enabled: false}, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return Threshold{}, ilperr.Newf(ilperr.ConfigParse, "invalid value for %q: %q", key, v)
	}
	return Threshold{Enabled: true, Value: n}, nil
}

func parseAddress(raw string, defaultPort int) (endpoint.Address, error) {
	if raw == "" {
		return endpoint.Address{}, ilperr.New(ilperr.ConfigParse, "empty addr value")
	}

	if strings.HasPrefix(raw, "[") {
		host, port, err := net.SplitHostPort(raw)
		if err != nil {
			return endpoint.Address{}, ilperr.Wrap(ilperr.ConfigParse, "invalid IPv6 addr", err)
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			return endpoint.Address{}, ilperr.Wrap(ilperr.ConfigParse, "invalid port in addr", err)
		}
		return endpoint.Address{Host: host, Port: p}, nil
	}

	parts := strings.Split(raw, ":")
	switch len(parts) {
	case 1:
		return endpoint.Address{Host: parts[0], Port: defaultPort}, nil
	case 2:
		p, err := strconv.Atoi(parts[1])
		if err != nil {
			return endpoint.Address{}, ilperr.Wrap(ilperr.ConfigParse, "invalid port in addr", err)
		}
		return endpoint.Address{Host: parts[0], Port: p}, nil
	default:
		return endpoint.Address{}, ilperr.Newf(ilperr.ConfigParse, "invalid addr %q", raw)
	}
}

// tokenize splits a raw configuration string into its scheme and a map of
// key/value pairs (a repeated key keeps its last value), accumulating
// repeated "addr" values separately. It
// enforces the required trailing semicolon, the lowercase-letter-first
// key grammar, and the recognized-key set.
func tokenize(confStr string) (scheme string, pairs map[string]string, addrs []string, err error) {
	idx := strings.Index(confStr, "::")
	if idx < 0 {
		return "", nil, nil, ilperr.New(ilperr.ConfigParse, "missing scheme separator \"::\"")
	}
	scheme = confStr[:idx]
	rest := confStr[idx+2:]

	if rest == "" || !strings.HasSuffix(rest, ";") {
		return "", nil, nil, ilperr.New(ilperr.ConfigParse, "configuration string must end with ';'")
	}

	pairs = make(map[string]string)
	for _, kv := range strings.Split(rest[:len(rest)-1], ";") {
		if kv == "" {
			continue
		}
		eq := strings.Index(kv, "=")
		if eq < 0 {
			return "", nil, nil, ilperr.Newf(ilperr.ConfigParse, "malformed property %q", kv)
		}
		key, val := kv[:eq], kv[eq+1:]
		if !isValidKey(key) {
			return "", nil, nil, ilperr.Newf(ilperr.ConfigParse, "invalid property name %q", key)
		}
		if !recognized[key] {
			return "", nil, nil, ilperr.Newf(ilperr.ConfigParse, "invalid property %q", key)
		}
		if key == "addr" {
			addrs = append(addrs, val)
			continue
		}
		pairs[key] = val
	}

	return scheme, pairs, addrs, nil
}

func isValidKey(key string) bool {
	if key == "" {
		return false
	}
	if key[0] < 'a' || key[0] > 'z' {
		return false
	}
	for i := 1; i < len(key); i++ {
		c := key[i]
		if !((c >= 'a' && c <= 'z') || c == '_' || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}
