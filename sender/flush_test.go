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

package sender_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/questdb/go-ilp-client/sender"
)

func retriableServer(requests *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requests, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"code":"internal error","message":"busy","line":0,"errorId":"x"}`))
	}))
}

var _ = Describe("Send failover", func() {
	It("rotates across every configured endpoint until one accepts the batch", func() {
		var reqA, reqB int32
		srvA := retriableServer(&reqA)
		defer srvA.Close()
		srvB := retriableServer(&reqB)
		defer srvB.Close()

		var reqC32 int32
		srvC := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&reqC32, 1)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srvC.Close()

		s, err := sender.NewFromConfigString(
			confString([]*httptest.Server{srvA, srvB, srvC}, "protocol_version=1;auto_flush=off;retry_timeout=5000;"),
			nil,
		)
		Expect(err).ToNot(HaveOccurred())
		defer s.Close(context.Background())

		Expect(s.Table("metrics")).To(Succeed())
		Expect(s.LongColumn("n", int64(1))).To(Succeed())
		Expect(s.AtNow(context.Background())).To(Succeed())

		Expect(s.Send(context.Background())).To(Succeed())

		Expect(atomic.LoadInt32(&reqA)).To(Equal(int32(1)))
		Expect(atomic.LoadInt32(&reqB)).To(Equal(int32(1)))
		Expect(atomic.LoadInt32(&reqC32)).To(Equal(int32(1)))
		Expect(s.RowCount()).To(Equal(0))
		Expect(s.Length()).To(Equal(0))
	})

	It("surfaces the underlying error once the retry deadline expires", func() {
		var req int32
		srv := retriableServer(&req)
		defer srv.Close()

		s, err := sender.NewFromConfigString(
			confString([]*httptest.Server{srv}, "protocol_version=1;auto_flush=off;retry_timeout=30;"),
			nil,
		)
		Expect(err).ToNot(HaveOccurred())
		defer s.Close(context.Background())

		Expect(s.Table("metrics")).To(Succeed())
		Expect(s.LongColumn("n", int64(1))).To(Succeed())
		Expect(s.AtNow(context.Background())).To(Succeed())

		err = s.Send(context.Background())
		Expect(err).To(HaveOccurred())
		Expect(atomic.LoadInt32(&req)).To(BeNumerically(">=", int32(1)))
	})
})

var _ = Describe("Close", func() {
	It("is idempotent", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		s, err := sender.NewFromConfigString(confString([]*httptest.Server{srv}, "protocol_version=1;"), nil)
		Expect(err).ToNot(HaveOccurred())

		Expect(s.Close(context.Background())).To(Succeed())
		Expect(s.Close(context.Background())).To(Succeed())
	})
})
