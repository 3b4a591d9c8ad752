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

package config_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/questdb/go-ilp-client/config"
	"github.com/questdb/go-ilp-client/ilperr"
)

var _ = Describe("Parse", func() {
	It("parses a minimal http config with defaults", func() {
		o, err := config.Parse("http::addr=localhost:9000;")
		Expect(err).ToNot(HaveOccurred())
		Expect(o.Scheme).To(Equal(config.SchemeHTTP))
		Expect(o.Addresses).To(HaveLen(1))
		Expect(o.Addresses[0].Host).To(Equal("localhost"))
		Expect(o.Addresses[0].Port).To(Equal(9000))
		Expect(o.AutoFlush).To(BeTrue())
		Expect(o.AutoFlushRows.Enabled).To(BeTrue())
		Expect(o.AutoFlushRows.Value).To(Equal(int64(75000)))
		Expect(o.AutoFlushBytes.Enabled).To(BeFalse())
		Expect(o.InitBufSize).To(Equal(65536))
		Expect(o.MaxBufSize).To(Equal(104857600))
		Expect(o.MaxNameLen).To(Equal(127))
		Expect(o.AutoProto).To(BeTrue())
		Expect(o.TLSVerify).To(BeTrue())
	})

	It("applies the default port for tcp schemes", func() {
		o, err := config.Parse("tcp::addr=localhost;")
		Expect(err).ToNot(HaveOccurred())
		Expect(o.Addresses[0].Port).To(Equal(9009))
	})

	It("accumulates repeated addr keys in order", func() {
		o, err := config.Parse("http::addr=a:1;addr=b:2;addr=c:3;")
		Expect(err).ToNot(HaveOccurred())
		Expect(o.Addresses).To(HaveLen(3))
		Expect(o.Addresses[0].Host).To(Equal("a"))
		Expect(o.Addresses[1].Host).To(Equal("b"))
		Expect(o.Addresses[2].Host).To(Equal("c"))
	})

	It("resolves duplicate non-addr keys last-writer-wins", func() {
		o, err := config.Parse("http::addr=localhost;auto_flush=off;auto_flush=on;")
		Expect(err).ToNot(HaveOccurred())
		Expect(o.AutoFlush).To(BeTrue())
	})

	It("parses an IPv6 literal addr", func() {
		o, err := config.Parse("http::addr=[::1]:9000;")
		Expect(err).ToNot(HaveOccurred())
		Expect(o.Addresses[0].Host).To(Equal("::1"))
		Expect(o.Addresses[0].Port).To(Equal(9000))
	})

	It("rejects a missing trailing semicolon", func() {
		_, err := config.Parse("http::addr=localhost:9000")
		Expect(ilperr.Has(err, ilperr.ConfigParse)).To(BeTrue())
	})

	It("rejects an unrecognized key", func() {
		_, err := config.Parse("http::addr=localhost;bogus=1;")
		Expect(ilperr.Has(err, ilperr.ConfigParse)).To(BeTrue())
	})

	It("rejects an http-only key on a tcp scheme", func() {
		_, err := config.Parse("tcp::addr=localhost;gzip=on;")
		Expect(ilperr.Has(err, ilperr.ConfigParse)).To(BeTrue())
	})

	It("rejects a config string with no addresses", func() {
		_, err := config.Parse("http::auto_flush=on;")
		Expect(err).To(HaveOccurred())
	})

	It("infers ECDSA auth for tcp with username+token", func() {
		o, err := config.Parse("tcp::addr=localhost;username=bob;token=abc;")
		Expect(err).ToNot(HaveOccurred())
		Expect(o.AuthMode).To(Equal(config.AuthECDSA))
	})

	It("infers bearer auth for http with token only", func() {
		o, err := config.Parse("http::addr=localhost;token=abc;")
		Expect(err).ToNot(HaveOccurred())
		Expect(o.AuthMode).To(Equal(config.AuthBearer))
	})

	It("infers basic auth for http with username+password", func() {
		o, err := config.Parse("http::addr=localhost;username=bob;password=secret;")
		Expect(err).ToNot(HaveOccurred())
		Expect(o.AuthMode).To(Equal(config.AuthBasic))
	})

	It("disables a threshold with -1", func() {
		o, err := config.Parse("http::addr=localhost;auto_flush_rows=-1;")
		Expect(err).ToNot(HaveOccurred())
		Expect(o.AutoFlushRows.Enabled).To(BeFalse())
	})

	DescribeTable("canonical String() is stable across key order and duplication",
		func(a, b string) {
			oa, err := config.Parse(a)
			Expect(err).ToNot(HaveOccurred())
			ob, err := config.Parse(b)
			Expect(err).ToNot(HaveOccurred())
			Expect(oa.String()).To(Equal(ob.String()))
		},
		Entry("reordered keys", "http::addr=localhost;auto_flush=on;gzip=off;", "http::gzip=off;addr=localhost;auto_flush=on;"),
		Entry("duplicate key resolves to same value", "http::addr=localhost;gzip=off;gzip=off;", "http::addr=localhost;gzip=off;"),
	)
})
