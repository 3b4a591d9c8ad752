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

package buffer

import (
	"math/big"

	"github.com/questdb/go-ilp-client/ilperr"
)

// Decimal is an arbitrary-precision fixed-point value: an unscaled
// two's-complement mantissa (bounded to 96 bits in magnitude, mirroring
// the .NET decimal layout §9 references) and a scale in [0, 76]. The zero
// value is Null.
type Decimal struct {
	Null     bool
	Mantissa *big.Int
	Scale    int
}

// NullDecimal is the null decimal sentinel: scale 0, length 0 on the
// wire.
var NullDecimal = Decimal{Null: true}

// maxDecimalMantissa is 2^96 - 1, the largest unsigned magnitude a
// 96-bit mantissa can carry.
var maxDecimalMantissa = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 96), big.NewInt(1))

// NewDecimal builds a Decimal from an unscaled mantissa and a scale.
// Negative zero is normalized to positive zero. Returns InvalidApiCall if
// scale is out of [0,76] or the mantissa's magnitude exceeds 96 bits.
func NewDecimal(mantissa *big.Int, scale int) (Decimal, error) {
	if scale < 0 || scale > 76 {
		return Decimal{}, ilperr.Newf(ilperr.InvalidApiCall, "decimal scale %d out of range [0,76]", scale)
	}
	m := new(big.Int).Set(mantissa)
	if m.Sign() == 0 {
		m.SetInt64(0) // collapse -0 to +0; big.Int has no negative zero, kept for clarity
	}
	abs := new(big.Int).Abs(m)
	if abs.Cmp(maxDecimalMantissa) > 0 {
		return Decimal{}, ilperr.New(ilperr.InvalidApiCall, "decimal mantissa exceeds 96 bits")
	}
	return Decimal{Mantissa: m, Scale: scale}, nil
}

// putDecimalBinary writes the V3 binary decimal column framing: '=',
// DECIMAL, 1 byte scale, 1 byte length, then the minimal two's-complement
// big-endian mantissa. A null decimal encodes as scale 0, length 0.
func (b *Buffer) putDecimalBinary(d Decimal) error {
	if err := b.putByte('='); err != nil {
		return err
	}
	if err := b.putByte(binTypeDecimal); err != nil {
		return err
	}

	if d.Null || d.Mantissa == nil {
		return b.putBytes([]byte{0, 0})
	}

	mantissaBytes := minimalTwosComplement(d.Mantissa)
	if err := b.putByte(byte(d.Scale)); err != nil {
		return err
	}
	if err := b.putByte(byte(len(mantissaBytes))); err != nil {
		return err
	}
	return b.putBytes(mantissaBytes)
}

// minimalTwosComplement returns the shortest two's-complement big-endian
// byte representation of v: the smallest byte count whose leading bit
// correctly signals v's sign (0 for non-negative, 1 for negative). This
// produces the same result as the "strip redundant sign-extending bytes"
// description in §4.C by construction, rather than by post-hoc stripping.
func minimalTwosComplement(v *big.Int) []byte {
	if v.Sign() == 0 {
		return []byte{0x00}
	}

	for n := 1; ; n++ {
		bits := uint(n * 8)
		var t *big.Int
		if v.Sign() < 0 {
			mod := new(big.Int).Lsh(big.NewInt(1), bits)
			t = new(big.Int).Add(mod, v)
			if t.Sign() < 0 {
				continue
			}
		} else {
			t = v
			if t.BitLen() > int(bits)-1 {
				continue
			}
		}

		raw := t.Bytes()
		full := make([]byte, n)
		copy(full[n-len(raw):], raw)

		topBitSet := full[0]&0x80 != 0
		if v.Sign() < 0 && !topBitSet {
			continue
		}
		if v.Sign() > 0 && topBitSet {
			continue
		}
		return full
	}
}

// decodeTwosComplement reverses minimalTwosComplement, reconstructing the
// signed mantissa from its wire bytes.
func decodeTwosComplement(b []byte) *big.Int {
	if len(b) == 0 {
		return big.NewInt(0)
	}
	v := new(big.Int).SetBytes(b)
	if b[0]&0x80 != 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(len(b)*8))
		v.Sub(v, mod)
	}
	return v
}
