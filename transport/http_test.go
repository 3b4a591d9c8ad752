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

package transport_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/questdb/go-ilp-client/config"
	"github.com/questdb/go-ilp-client/endpoint"
	"github.com/questdb/go-ilp-client/ilperr"
	"github.com/questdb/go-ilp-client/transport"
)

func mustOptions(confStr string) *config.Options {
	o, err := config.Parse(confStr)
	Expect(err).ToNot(HaveOccurred())
	return o
}

func addrOf(srv *httptest.Server) endpoint.Address {
	u, err := url.Parse(srv.URL)
	Expect(err).ToNot(HaveOccurred())
	host, portStr, err := net.SplitHostPort(u.Host)
	Expect(err).ToNot(HaveOccurred())
	port, err := strconv.Atoi(portStr)
	Expect(err).ToNot(HaveOccurred())
	return endpoint.Address{Host: host, Port: port}
}

var _ = Describe("HTTP.Send", func() {
	It("succeeds on a 204 response", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/write"))
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		tr := transport.NewHTTP(false, nil)
		o := mustOptions("http::addr=localhost:1;")
		res, err := tr.Send(context.Background(), addrOf(srv), config.SchemeHTTP, []byte("t n=1i\n"), o, 2*time.Second)
		Expect(err).ToNot(HaveOccurred())
		Expect(res.StatusCode).To(Equal(http.StatusNoContent))
	})

	It("surfaces Authentication on a 401", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		tr := transport.NewHTTP(false, nil)
		o := mustOptions("http::addr=localhost:1;")
		_, err := tr.Send(context.Background(), addrOf(srv), config.SchemeHTTP, []byte("t n=1i\n"), o, 2*time.Second)
		Expect(ilperr.Has(err, ilperr.Authentication)).To(BeTrue())
	})

	It("marks a 503 as retriable and wraps the server detail", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"code":"invalid","message":"bad line","line":3,"errorId":"abc"}`))
		}))
		defer srv.Close()

		tr := transport.NewHTTP(false, nil)
		o := mustOptions("http::addr=localhost:1;")
		res, err := tr.Send(context.Background(), addrOf(srv), config.SchemeHTTP, []byte("t n=1i\n"), o, 2*time.Second)
		Expect(res.Retriable).To(BeTrue())
		Expect(ilperr.IsRetriable(err)).To(BeTrue())
		Expect(ilperr.Has(err, ilperr.ServerFlush)).To(BeTrue())
	})

	It("gzip-compresses the body when configured", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.Header.Get("Content-Encoding")).To(Equal("gzip"))
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		tr := transport.NewHTTP(false, nil)
		o := mustOptions("http::addr=localhost:1;gzip=on;")
		_, err := tr.Send(context.Background(), addrOf(srv), config.SchemeHTTP, []byte("t n=1i\n"), o, 2*time.Second)
		Expect(err).ToNot(HaveOccurred())
	})
})

var _ = Describe("RequestTimeout", func() {
	It("uses request_timeout when throughput does not extend it", func() {
		Expect(transport.RequestTimeout(10000, 102400, 100)).To(Equal(10 * time.Second))
	})

	It("extends the timeout for a large payload at low throughput", func() {
		got := transport.RequestTimeout(1000, 1000, 5000)
		Expect(got).To(Equal(5 * time.Second))
	})
})
