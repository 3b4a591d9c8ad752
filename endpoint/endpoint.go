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

// Package endpoint holds the ordered list of host:port addresses a sender
// may write to, and the round-robin cursor the retry policy rotates on
// failure. It performs no I/O of its own.
package endpoint

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Address is a single host:port endpoint. Port is always resolved: the
// scheme-dependent default is applied by package config before an Address
// reaches here.
type Address struct {
	Host string
	Port int
}

// String renders the address in host:port form, bracketing IPv6 literals.
func (a Address) String() string {
	if strings.Contains(a.Host, ":") {
		return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
	}
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// Provider holds an ordered, non-empty list of addresses and a rotation
// cursor. A Provider is not safe for concurrent use; the sender is its
// sole owner, matching the single-threaded-cooperative model of §5.
type Provider struct {
	addrs []Address
	idx   int
}

// New builds a Provider from a non-empty address list. It panics if addrs
// is empty: callers (package config) must enforce "at least one address"
// before constructing a Provider.
func New(addrs []Address) *Provider {
	if len(addrs) == 0 {
		panic("endpoint: New requires at least one address")
	}
	cp := make([]Address, len(addrs))
	copy(cp, addrs)
	return &Provider{addrs: cp}
}

// Current returns the address the cursor currently points at.
func (p *Provider) Current() Address {
	return p.addrs[p.idx]
}

// Rotate advances the cursor to the next address, cyclically.
func (p *Provider) Rotate() Address {
	p.idx = (p.idx + 1) % len(p.addrs)
	return p.Current()
}

// Len returns the number of configured addresses.
func (p *Provider) Len() int {
	return len(p.addrs)
}

// All returns a copy of the configured address list, in configured order.
func (p *Provider) All() []Address {
	cp := make([]Address, len(p.addrs))
	copy(cp, p.addrs)
	return cp
}

// Reset moves the cursor back to the first configured address. Used by
// the sender when a fresh rotation window starts (e.g. after a full
// successful flush has cleared retry state).
func (p *Provider) Reset() {
	p.idx = 0
}

// Index returns the current cursor position.
func (p *Provider) Index() int {
	return p.idx
}
