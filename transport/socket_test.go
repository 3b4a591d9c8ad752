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
	"net"
	"strconv"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/questdb/go-ilp-client/endpoint"
	"github.com/questdb/go-ilp-client/transport"
)

var _ = Describe("DialSocket", func() {
	It("connects, writes, and closes without an auth handshake", func() {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).ToNot(HaveOccurred())
		defer ln.Close()

		received := make(chan []byte, 1)
		go func() {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
			buf := make([]byte, 256)
			n, _ := conn.Read(buf)
			received <- buf[:n]
		}()

		host, portStr, err := net.SplitHostPort(ln.Addr().String())
		Expect(err).ToNot(HaveOccurred())
		port, err := strconv.Atoi(portStr)
		Expect(err).ToNot(HaveOccurred())

		sock, err := transport.DialSocket(endpoint.Address{Host: host, Port: port}, false, true, nil, "", 65536, 2*time.Second, nil)
		Expect(err).ToNot(HaveOccurred())

		Expect(sock.Write([]byte("t n=1i\n"))).To(Succeed())
		Expect(string(<-received)).To(Equal("t n=1i\n"))
		Expect(sock.Close()).To(Succeed())
		Expect(sock.Close()).To(Succeed()) // idempotent
	})
})
