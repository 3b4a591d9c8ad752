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

package buffer_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/questdb/go-ilp-client/buffer"
)

var _ = Describe("escaping", func() {
	var b *buffer.Buffer

	BeforeEach(func() {
		b = buffer.New(65536, 104857600, 127, buffer.V1)
	})

	DescribeTable("symbol value escaping in the unquoted context",
		func(value, wantSuffix string) {
			Expect(b.Table("t")).To(Succeed())
			Expect(b.Symbol("s", value)).To(Succeed())
			Expect(b.LongColumn("n", 1)).To(Succeed())
			Expect(b.AtNow()).To(Succeed())
			Expect(string(b.Bytes())).To(Equal("t,s=" + wantSuffix + " n=1i\n"))
		},
		Entry("space", "a b", `a\ b`),
		Entry("comma", "a,b", `a\,b`),
		Entry("equals", "a=b", `a\=b`),
		Entry("backslash", `a\b`, `a\\b`),
	)

	It("escapes only the double-quote in quoted string columns", func() {
		Expect(b.Table("t")).To(Succeed())
		Expect(b.StringColumn("s", `a "b" ,c=d`)).To(Succeed())
		Expect(b.AtNow()).To(Succeed())
		Expect(string(b.Bytes())).To(Equal(`t s="a \"b\" ,c=d"` + "\n"))
	})

	It("escapes newline and carriage return in every context", func() {
		Expect(b.Table("t")).To(Succeed())
		Expect(b.Symbol("s", "a\nb\rc")).To(Succeed())
		Expect(b.LongColumn("n", 1)).To(Succeed())
		Expect(b.AtNow()).To(Succeed())
		Expect(string(b.Bytes())).To(Equal("t,s=a\\\nb\\\rc n=1i\n"))
	})
})
