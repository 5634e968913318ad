package checks

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/pkgsim/repo-fault-tests/harness"
)

// mustFetch fails the check immediately if the exchange itself could not be
// completed; checks then assert only on the response.
func mustFetch(c *harness.Context, addr, method, target string) rawResponse {
	resp, err := fetch(addr, method, target, c.DebugLogger())
	if err != nil {
		c.Errorf("%s %s: %s", method, target, err)
		c.FailNow()
	}
	return resp
}

// headersMatch compares two header sets ignoring Date, which legitimately
// differs between sequential requests.
func headersMatch(a, b http.Header) bool {
	a2, b2 := cloneWithoutDate(a), cloneWithoutDate(b)
	if len(a2) != len(b2) {
		return false
	}
	for k, v := range a2 {
		if len(b2[k]) != len(v) {
			return false
		}
		for i := range v {
			if b2[k][i] != v[i] {
				return false
			}
		}
	}
	return true
}

func cloneWithoutDate(h http.Header) http.Header {
	c := h.Clone()
	c.Del("Date")
	return c
}

func doPlainFileChecks(c *harness.Context, env *env) {
	addr := env.server.Addr()

	c.Run("GET returns the exact file content", func(c *harness.Context) {
		resp := mustFetch(c, addr, "GET", "/pkg-1.0.tgz")
		if resp.Status != 200 {
			c.Errorf("expected status 200, got %d", resp.Status)
		}
		if got := resp.Headers.Get("Content-Length"); got != "1000" {
			c.Errorf("expected Content-Length 1000, got %q", got)
		}
		if !bytes.Equal(resp.Body, fixtureBytes(tarballSize)) {
			c.Errorf("body differs from the file content (%d bytes received)", len(resp.Body))
		}
		if resp.Truncated {
			c.Errorf("connection closed before the declared length")
		}
	})

	c.Run("response carries the standard header set", func(c *harness.Context) {
		resp := mustFetch(c, addr, "GET", "/notes.txt")
		for _, name := range []string{"Server", "Date", "Content-Length", "Content-Type", "Last-Modified", "Connection"} {
			if resp.Headers.Get(name) == "" {
				c.Errorf("missing %s header", name)
			}
		}
		if got := resp.Headers.Get("Connection"); got != "close" {
			c.Errorf("expected Connection: close, got %q", got)
		}
		if ct := resp.Headers.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
			c.Errorf("expected a text/plain Content-Type for .txt, got %q", ct)
		}
	})

	c.Run("HEAD has identical headers and no body", func(c *harness.Context) {
		get := mustFetch(c, addr, "GET", "/notes.txt")
		head := mustFetch(c, addr, "HEAD", "/notes.txt")
		if head.Status != get.Status {
			c.Errorf("HEAD status %d differs from GET status %d", head.Status, get.Status)
		}
		if !headersMatch(get.Headers, head.Headers) {
			c.Errorf("HEAD headers differ from GET headers:\n  GET:  %v\n  HEAD: %v", get.Headers, head.Headers)
		}
		if len(head.Body) != 0 {
			c.Errorf("HEAD response carried %d body bytes", len(head.Body))
		}
	})

	c.Run("missing file is a 404", func(c *harness.Context) {
		resp := mustFetch(c, addr, "GET", "/no-such-pkg-9.9.tgz")
		if resp.Status != 404 {
			c.Errorf("expected status 404, got %d", resp.Status)
		}
	})

	c.Run("dot-dot segments cannot escape the root", func(c *harness.Context) {
		resp := mustFetch(c, addr, "GET", "/../outside.txt")
		if resp.Status != 404 {
			c.Errorf("expected status 404 for a traversal attempt, got %d", resp.Status)
		}
		if bytes.Contains(resp.Body, []byte("unreachable")) {
			c.Errorf("response leaked a file outside the document root")
		}
	})
}
