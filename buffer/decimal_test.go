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
	"math/big"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/questdb/go-ilp-client/buffer"
	"github.com/questdb/go-ilp-client/ilperr"
)

var _ = Describe("binary decimal column (V3)", func() {
	var b *buffer.Buffer

	BeforeEach(func() {
		b = buffer.New(65536, 104857600, 127, buffer.V3)
	})

	It("rejects a decimal column on V1/V2", func() {
		b2 := buffer.New(65536, 104857600, 127, buffer.V2)
		Expect(b2.Table("t")).To(Succeed())
		d, err := buffer.NewDecimal(big.NewInt(12345), 2)
		Expect(err).ToNot(HaveOccurred())
		Expect(ilperr.Has(b2.DecimalColumn("d", d), ilperr.ProtocolVersion)).To(BeTrue())
	})

	// S3: dec_pos=123.45 -> DECIMAL scale=2 len=2 0x30 0x39
	It("frames a positive decimal (dec_pos=123.45)", func() {
		Expect(b.Table("t")).To(Succeed())
		d, err := buffer.NewDecimal(big.NewInt(12345), 2)
		Expect(err).ToNot(HaveOccurred())
		Expect(b.DecimalColumn("dec_pos", d)).To(Succeed())
		Expect(b.AtNow()).To(Succeed())

		want := []byte("t dec_pos==")
		want = append(want, 0x18, 2, 2, 0x30, 0x39, '\n')
		Expect(b.Bytes()).To(Equal(want))
	})

	// S3: dec_neg=-123.45 -> DECIMAL 2 2 0xCF 0xC7
	It("frames a negative decimal (dec_neg=-123.45)", func() {
		Expect(b.Table("t")).To(Succeed())
		d, err := buffer.NewDecimal(big.NewInt(-12345), 2)
		Expect(err).ToNot(HaveOccurred())
		Expect(b.DecimalColumn("dec_neg", d)).To(Succeed())
		Expect(b.AtNow()).To(Succeed())

		want := []byte("t dec_neg==")
		want = append(want, 0x18, 2, 2, 0xCF, 0xC7, '\n')
		Expect(b.Bytes()).To(Equal(want))
	})

	// S3: dec_max (max representable, 2^96-1, scale 0) -> DECIMAL 0 13 0x00 0xFF*12
	It("frames the maximum representable decimal (dec_max)", func() {
		Expect(b.Table("t")).To(Succeed())
		max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 96), big.NewInt(1))
		d, err := buffer.NewDecimal(max, 0)
		Expect(err).ToNot(HaveOccurred())
		Expect(b.DecimalColumn("dec_max", d)).To(Succeed())
		Expect(b.AtNow()).To(Succeed())

		want := []byte("t dec_max==")
		want = append(want, 0x18, 0, 13, 0x00)
		for i := 0; i < 12; i++ {
			want = append(want, 0xFF)
		}
		want = append(want, '\n')
		Expect(b.Bytes()).To(Equal(want))
	})

	// S3: dec_null -> DECIMAL 0 0
	It("frames a null decimal (dec_null)", func() {
		Expect(b.Table("t")).To(Succeed())
		Expect(b.DecimalColumn("dec_null", buffer.NullDecimal)).To(Succeed())
		Expect(b.AtNow()).To(Succeed())

		want := []byte("t dec_null==")
		want = append(want, 0x18, 0, 0, '\n')
		Expect(b.Bytes()).To(Equal(want))
	})

	It("rejects a mantissa wider than 96 bits", func() {
		tooBig := new(big.Int).Lsh(big.NewInt(1), 96)
		_, err := buffer.NewDecimal(tooBig, 0)
		Expect(ilperr.Has(err, ilperr.InvalidApiCall)).To(BeTrue())
	})

	It("rejects a scale outside [0,76]", func() {
		_, err := buffer.NewDecimal(big.NewInt(1), 77)
		Expect(ilperr.Has(err, ilperr.InvalidApiCall)).To(BeTrue())
	})
})
