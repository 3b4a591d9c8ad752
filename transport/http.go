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

// Package transport maps a buffer's bytes onto the wire: an HTTP POST body
// (optionally gzip-compressed, one attempt per call) or a streaming TCP/TLS
// socket. The sender state machine owns retry deadlines and endpoint
// rotation; this package only knows how to drive a single request or a
// single connection.
package transport

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/questdb/go-ilp-client/config"
	"github.com/questdb/go-ilp-client/endpoint"
	"github.com/questdb/go-ilp-client/ilperr"
	"github.com/questdb/go-ilp-client/internal/logfield"
)

// retriableStatus is the idempotent-5xx set of §4.D that the retry policy
// treats as transient rather than terminal.
var retriableStatus = map[int]bool{
	500: true, 503: true, 504: true, 507: true, 509: true, 523: true, 524: true,
}

// HTTP wraps a retryablehttp.Client configured so its single-request retry
// primitives (connection-level retry, 5xx detection) follow spec.md §4.D,
// while the sender's own deadline-based loop stays in charge of rotation
// across endpoints and of when to give up entirely: RetryMax is kept at 0
// here so every call to Send makes exactly one attempt and the caller
// decides whether to retry.
type HTTP struct {
	client *retryablehttp.Client
	log    *logrus.Entry
}

// NewHTTP builds an HTTP transport. insecureSkipVerify disables TLS
// certificate verification, mirroring Options.TLSVerify == false
// ("unsafe_off").
func NewHTTP(insecureSkipVerify bool, log *logrus.Logger) *HTTP {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 0
	rc.Logger = nil
	rc.HTTPClient = &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: insecureSkipVerify}, //nolint:gosec
		},
	}
	rc.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
		}
		if resp != nil && retriableStatus[resp.StatusCode] {
			return true, nil
		}
		return false, nil
	}
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &HTTP{client: rc, log: logfield.Entry(log, "transport.http")}
}

// Result carries the outcome of a single HTTP flush attempt.
type Result struct {
	StatusCode int
	Retriable  bool
}

// Send POSTs body (length bytes) to addr's /write endpoint. gzip
// compresses the payload when requested. o carries the auth headers and
// gzip setting; timeout is the per-request timeout the sender computed.
func (t *HTTP) Send(ctx context.Context, addr endpoint.Address, scheme config.Scheme, body []byte, o *config.Options, timeout time.Duration) (Result, error) {
	reqID := uuid.New().String()
	log := t.log.WithField(logfield.Address, addr.String()).WithField(logfield.RequestID, reqID)

	payload := body
	encoding := ""
	if o.Gzip {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		if _, err := gw.Write(body); err != nil {
			return Result{}, ilperr.Wrap(ilperr.Socket, "could not gzip-compress request body", err)
		}
		if err := gw.Close(); err != nil {
			return Result{}, ilperr.Wrap(ilperr.Socket, "could not finalize gzip stream", err)
		}
		payload = buf.Bytes()
		encoding = "gzip"
	}

	url := fmt.Sprintf("%s://%s/write", scheme, addr.String())
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Result{}, ilperr.Wrap(ilperr.Socket, "could not build request", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if encoding != "" {
		req.Header.Set("Content-Encoding", encoding)
	}
	applyAuth(req.Request, o)

	client := *t.client
	client.HTTPClient = &http.Client{Transport: t.client.HTTPClient.Transport, Timeout: timeout}

	log.WithField("bytes", len(body)).Debug("flushing rows over http")

	resp, err := client.Do(req)
	if err != nil {
		log.WithField("err", err).Debug("http flush failed")
		return Result{Retriable: true}, ilperr.Retriable(err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 && !hasErrorsArray(respBody) {
		return Result{StatusCode: resp.StatusCode}, nil
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return Result{StatusCode: resp.StatusCode}, ilperr.New(ilperr.Authentication, "Authentication failed")
	}

	if detail, ok := parseErrorDetail(respBody); ok {
		if retriableStatus[resp.StatusCode] {
			return Result{StatusCode: resp.StatusCode, Retriable: true}, ilperr.Retriable(ilperr.ServerFlushError(detail))
		}
		return Result{StatusCode: resp.StatusCode}, ilperr.ServerFlushError(detail)
	}

	if retriableStatus[resp.StatusCode] {
		return Result{StatusCode: resp.StatusCode, Retriable: true}, ilperr.Retriable(ilperr.Newf(ilperr.ServerFlush, "unexpected HTTP status %d", resp.StatusCode))
	}
	return Result{StatusCode: resp.StatusCode}, ilperr.Newf(ilperr.ServerFlush, "unexpected HTTP status %d", resp.StatusCode)
}

func applyAuth(req *http.Request, o *config.Options) {
	switch o.AuthMode {
	case config.AuthBasic:
		req.SetBasicAuth(o.Username, o.Password)
	case config.AuthBearer:
		req.Header.Set("Authorization", "Bearer "+o.Token)
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line"`
	ErrorId string `json:"errorId"`
	Errors  []any  `json:"errors"`
}

func hasErrorsArray(body []byte) bool {
	var e errorBody
	if err := json.Unmarshal(body, &e); err != nil {
		return false
	}
	return len(e.Errors) > 0
}

func parseErrorDetail(body []byte) (ilperr.Detail, bool) {
	var e errorBody
	if err := json.Unmarshal(body, &e); err != nil {
		return ilperr.Detail{}, false
	}
	if e.Code == "" && e.Message == "" {
		return ilperr.Detail{}, false
	}
	return ilperr.Detail{Code: e.Code, Message: e.Message, Line: e.Line, ErrorId: e.ErrorId}, true
}

// RequestTimeout computes the per-request HTTP timeout of §4.D:
// max(request_timeout, ceil(length / request_min_throughput * 1000)) ms.
func RequestTimeout(requestTimeoutMs int, requestMinThroughput int64, length int) time.Duration {
	if requestMinThroughput <= 0 {
		return time.Duration(requestTimeoutMs) * time.Millisecond
	}
	throughputMs := int64(math.Ceil(float64(length) / float64(requestMinThroughput) * 1000))
	if throughputMs > int64(requestTimeoutMs) {
		return time.Duration(throughputMs) * time.Millisecond
	}
	return time.Duration(requestTimeoutMs) * time.Millisecond
}

// ProbeVersions issues GET /settings and extracts the server's advertised
// protocol version set, used by the sender on the first flush to a new
// endpoint and by Sender.WarmEndpoints. A failed probe returns a nil slice, not an error: callers
// fall back to version 1 per §4.E.
func (t *HTTP) ProbeVersions(ctx context.Context, addr endpoint.Address, scheme config.Scheme) []int {
	url := fmt.Sprintf("%s://%s/settings", scheme, addr.String())
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	var settings struct {
		Config struct {
			LineProtoSupportVersions []int `json:"line.proto.support.versions"`
		} `json:"config"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&settings); err != nil {
		return nil
	}
	return settings.Config.LineProtoSupportVersions
}
