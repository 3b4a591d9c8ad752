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

// Package auth signs a TCP authentication challenge with an ECDSA P-256
// private key, the "use a vetted P-256 implementation; do not re-derive"
// requirement satisfied by the standard library's constant-time
// implementation rather than a third-party crypto package.
package auth

import (
	"bufio"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"io"
	"strings"

	"github.com/questdb/go-ilp-client/ilperr"
)

// Signer signs TCP authentication challenges with a single EC private key.
type Signer struct {
	key *ecdsa.PrivateKey
}

// NewSigner parses an EC private key from PEM or raw-base64 PKCS8/SEC1
// bytes. URL-safe base64 characters ('-', '_') are accepted and normalized
// to standard alphabet before decoding, matching the challenge/response
// encoding used on the wire.
func NewSigner(keyMaterial string) (*Signer, error) {
	key, err := parsePrivateKey(keyMaterial)
	if err != nil {
		return nil, ilperr.Wrap(ilperr.Authentication, "invalid ECDSA private key", err)
	}
	if key.Curve != elliptic.P256() {
		return nil, ilperr.New(ilperr.Authentication, "ECDSA private key must use curve P-256")
	}
	return &Signer{key: key}, nil
}

func parsePrivateKey(material string) (*ecdsa.PrivateKey, error) {
	if block, _ := pem.Decode([]byte(material)); block != nil {
		return parseDERKey(block.Bytes)
	}

	normalized := strings.NewReplacer("-", "+", "_", "/").Replace(strings.TrimSpace(material))
	for len(normalized)%4 != 0 {
		normalized += "="
	}
	der, err := base64.StdEncoding.DecodeString(normalized)
	if err != nil {
		return nil, err
	}
	return parseDERKey(der)
}

func parseDERKey(der []byte) (*ecdsa.PrivateKey, error) {
	if key, err := x509.ParseECPrivateKey(der); err == nil {
		return key, nil
	}
	pk, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, err
	}
	ecKey, ok := pk.(*ecdsa.PrivateKey)
	if !ok {
		return nil, ilperr.New(ilperr.Authentication, "private key is not ECDSA")
	}
	return ecKey, nil
}

// minChallengeBufSize is the minimum init_buf_size required to receive a
// TCP authentication challenge line, per §4.F.
const minChallengeBufSize = 512

// ErrBufferTooSmall is returned by Handshake when the caller's configured
// buffer cannot hold a challenge line.
var ErrBufferTooSmall = ilperr.New(ilperr.InvalidApiCall, "Buffer is too small to receive the message")

// Handshake performs the full TCP auth exchange over rw: write
// "username\n", read the newline-delimited challenge, sign it, and write
// "base64url(signature)\n". bufSize is the caller's configured
// init_buf_size, checked against the minimum before any I/O is attempted.
func (s *Signer) Handshake(rw io.ReadWriter, username string, bufSize int) error {
	if bufSize < minChallengeBufSize {
		return ErrBufferTooSmall
	}

	if _, err := io.WriteString(rw, username+"\n"); err != nil {
		return ilperr.Wrap(ilperr.Socket, "could not send username", err)
	}

	challenge, err := bufio.NewReader(rw).ReadBytes('\n')
	if err != nil {
		return ilperr.Wrap(ilperr.Authentication, "authentication failed", err)
	}
	challenge = challenge[:len(challenge)-1]

	sig, err := s.Sign(challenge)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(rw, sig+"\n"); err != nil {
		return ilperr.Wrap(ilperr.Socket, "could not send signature", err)
	}
	return nil
}

// Sign hashes challenge with SHA-256 and signs the digest with the ECDSA
// private key, returning the signature base64url-encoded without padding.
func (s *Signer) Sign(challenge []byte) (string, error) {
	digest := sha256.Sum256(challenge)
	sig, err := ecdsa.SignASN1(rand.Reader, s.key, digest[:])
	if err != nil {
		return "", ilperr.Wrap(ilperr.Authentication, "authentication failed", err)
	}
	return base64.RawURLEncoding.EncodeToString(sig), nil
}
