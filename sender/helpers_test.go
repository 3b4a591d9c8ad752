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
	"fmt"
	"net/http/httptest"
	"net/url"
	"strings"

	. "github.com/onsi/gomega"
)

// hostPort extracts "host:port" from a httptest.Server's URL.
func hostPort(srv *httptest.Server) string {
	u, err := url.Parse(srv.URL)
	Expect(err).ToNot(HaveOccurred())
	return u.Host
}

// confString builds a "http::addr=...;addr=...;..." configuration string
// targeting the given servers, plus any extra "key=value;" properties.
func confString(servers []*httptest.Server, extra string) string {
	var b strings.Builder
	b.WriteString("http::")
	for _, s := range servers {
		fmt.Fprintf(&b, "addr=%s;", hostPort(s))
	}
	b.WriteString(extra)
	return b.String()
}
