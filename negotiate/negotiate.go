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

// Package negotiate picks the wire protocol version a sender uses against
// a given HTTP endpoint: either the version the caller pinned, or (when
// configured "auto") the highest version both the client and the server
// advertise support for.
package negotiate

import (
	"fmt"
	"sort"
	"sync"

	version "github.com/hashicorp/go-version"

	"github.com/questdb/go-ilp-client/buffer"
)

// Supported is every wire protocol version this client can encode,
// highest-preferred first.
var Supported = []buffer.Version{buffer.V3, buffer.V2, buffer.V1}

// Cache remembers the chosen version per endpoint address, invalidated on
// rotation and on persistent failure, per the per-endpoint negotiation
// result described in the data model. Safe for concurrent use: a Sender
// may warm several endpoints' cache entries at once via WarmEndpoints.
type Cache struct {
	mu     sync.RWMutex
	chosen map[string]buffer.Version
}

// NewCache builds an empty negotiation cache.
func NewCache() *Cache {
	return &Cache{chosen: make(map[string]buffer.Version)}
}

// Get returns the cached version for addr, if any.
func (c *Cache) Get(addr string) (buffer.Version, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.chosen[addr]
	return v, ok
}

// Set records the chosen version for addr.
func (c *Cache) Set(addr string, v buffer.Version) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chosen[addr] = v
}

// Invalidate forgets any cached version for addr, forcing the next flush
// to renegotiate.
func (c *Cache) Invalidate(addr string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.chosen, addr)
}

// Pick chooses the active version given the user's configured preference
// and the server's advertised capability set. configuredVersion is 0 when
// the user asked for "auto". serverVersions is the set the server
// reported, nil/empty when the probe failed outright.
//
// When not auto, the configured version is used verbatim: the caller
// already validated it is one of 1/2/3. When auto, the highest version
// present in both Supported and serverVersions wins; if the probe
// reached the server but advertised no version this client understands,
// negotiation falls back to buffer.V1 rather than failing the flush.
func Pick(configuredVersion int, auto bool, serverVersions []int) buffer.Version {
	if !auto {
		return buffer.Version(configuredVersion)
	}
	if len(serverVersions) == 0 {
		return buffer.V1
	}

	serverSet := make(map[int]bool, len(serverVersions))
	for _, v := range serverVersions {
		serverSet[v] = true
	}

	for _, candidate := range Supported {
		if serverSet[int(candidate)] {
			return candidate
		}
	}
	return buffer.V1
}

// Compare orders two protocol versions using go-version semantics, giving
// the negotiator a single comparison primitive shared with every other
// version-gated decision in the client instead of bespoke integer math.
func Compare(a, b buffer.Version) int {
	va, _ := version.NewVersion(fmt.Sprintf("%d.0.0", a))
	vb, _ := version.NewVersion(fmt.Sprintf("%d.0.0", b))
	return va.Compare(vb)
}

// SortDescending orders versions from highest to lowest using go-version
// comparisons, used when presenting a server-advertised capability set for
// diagnostic logging.
func SortDescending(vs []buffer.Version) {
	sort.Slice(vs, func(i, j int) bool {
		return Compare(vs[i], vs[j]) > 0
	})
}
