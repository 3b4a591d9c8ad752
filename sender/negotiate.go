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

package sender

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/questdb/go-ilp-client/buffer"
	"github.com/questdb/go-ilp-client/endpoint"
	"github.com/questdb/go-ilp-client/negotiate"
)

// ensureVersion returns the wire protocol version to use for addr. When
// the sender was configured with an explicit protocol_version, that
// version is used verbatim and never probed. When configured "auto", the
// first flush to a given endpoint probes GET /settings and caches the
// negotiated result; later flushes to the same endpoint reuse the cached
// value until it is invalidated (e.g. by rotation).
func (s *Sender) ensureVersion(ctx context.Context, addr endpoint.Address) (buffer.Version, error) {
	if !s.opts.AutoProto {
		return buffer.Version(s.opts.ProtoVer), nil
	}

	key := addr.String()
	if v, ok := s.negotiated.Get(key); ok {
		return v, nil
	}

	serverVersions := s.http.ProbeVersions(ctx, addr, s.scheme())
	v := negotiate.Pick(0, true, serverVersions)
	s.negotiated.Set(key, v)
	return v, nil
}

// WarmEndpoints probes every configured address concurrently and
// populates the negotiation cache, so the first flush to each address
// does not pay for a serial round trip. It is a no-op when the sender is
// not configured for automatic protocol negotiation or uses the
// streaming socket scheme (negotiation is HTTP-only). A probe failure
// for one address never fails the others: the affected endpoint simply
// falls back to version 1 on its own first flush, as usual.
func (s *Sender) WarmEndpoints(ctx context.Context) error {
	if !s.opts.AutoProto || !s.scheme().IsHTTP() {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, addr := range s.eps.All() {
		addr := addr
		g.Go(func() error {
			serverVersions := s.http.ProbeVersions(gctx, addr, s.scheme())
			v := negotiate.Pick(0, true, serverVersions)
			s.negotiated.Set(addr.String(), v)
			return nil
		})
	}
	return g.Wait()
}
