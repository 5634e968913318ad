package checks

import (
	"bytes"
	"fmt"

	"github.com/pkgsim/repo-fault-tests/harness"
)

func doFaultChecks(c *harness.Context, env *env) {
	addr := env.server.Addr()

	c.Run("not_found rule masks an existing file", func(c *harness.Context) {
		for _, method := range []string{"GET", "HEAD"} {
			resp := mustFetch(c, addr, method, "/pkg-gone-2.0.tgz")
			if resp.Status != 404 {
				c.Errorf("%s: expected status 404 despite the file existing, got %d", method, resp.Status)
			}
		}
	})

	c.Run("truncate declares the full length but sends half", func(c *harness.Context) {
		resp := mustFetch(c, addr, "GET", "/pkg-short-1.1.tgz")
		if resp.Status != 200 {
			c.Errorf("expected status 200, got %d", resp.Status)
		}
		if got := resp.Headers.Get("Content-Length"); got != fmt.Sprintf("%d", shortTarballSize) {
			c.Errorf("expected Content-Length %d, got %q", shortTarballSize, got)
		}
		if len(resp.Body) != shortTarballSize/2 {
			c.Errorf("expected %d body bytes before the close, got %d", shortTarballSize/2, len(resp.Body))
		}
		if !resp.Truncated {
			c.Errorf("connection was not closed before the declared length")
		}
		if !bytes.Equal(resp.Body, fixtureBytes(shortTarballSize)[:shortTarballSize/2]) {
			c.Errorf("truncated body is not the first half of the file")
		}
	})

	c.Run("size_mismatch declares and sends half consistently", func(c *harness.Context) {
		resp := mustFetch(c, addr, "GET", "/pkg-lies-3.2.tgz")
		half := liesTarballSize / 2
		if resp.Status != 200 {
			c.Errorf("expected status 200, got %d", resp.Status)
		}
		if got := resp.Headers.Get("Content-Length"); got != fmt.Sprintf("%d", half) {
			c.Errorf("expected Content-Length %d, got %q", half, got)
		}
		if len(resp.Body) != half {
			c.Errorf("expected %d body bytes, got %d", half, len(resp.Body))
		}
		if resp.Truncated {
			c.Errorf("headers and body should agree for size_mismatch, but the read came up short")
		}
		if !bytes.Equal(resp.Body, fixtureBytes(liesTarballSize)[:half]) {
			c.Errorf("body is not the first half of the file")
		}
	})

	c.Run("HEAD carries fault headers but never a body", func(c *harness.Context) {
		for _, target := range []string{"/pkg-short-1.1.tgz", "/pkg-lies-3.2.tgz"} {
			get := mustFetch(c, addr, "GET", target)
			head := mustFetch(c, addr, "HEAD", target)
			if !headersMatch(get.Headers, head.Headers) {
				c.Errorf("%s: HEAD headers differ from GET headers:\n  GET:  %v\n  HEAD: %v",
					target, get.Headers, head.Headers)
			}
			if len(head.Body) != 0 {
				c.Errorf("%s: HEAD response carried %d body bytes", target, len(head.Body))
			}
		}
	})

	c.Run("fault outcomes appear in the request log", func(c *harness.Context) {
		// Earlier checks leave their own records for this path (including
		// HEAD exchanges, which correctly record 0 sent bytes), so only
		// the record produced by this GET is inspected.
		before := len(env.server.Requests())
		mustFetch(c, addr, "GET", "/pkg-short-1.1.tgz")
		records := env.server.Requests()
		if len(records) != before+1 {
			c.Errorf("expected exactly one new request record, got %d", len(records)-before)
			c.FailNow()
		}
		rec := records[len(records)-1]
		if rec.Method != "GET" || rec.Path != "/pkg-short-1.1.tgz" {
			c.Errorf("unexpected record %s %q", rec.Method, rec.Path)
		}
		if string(rec.Outcome) != "truncate" {
			c.Errorf("expected a truncate outcome, got %q", rec.Outcome)
		}
		if rec.DeclaredLength != shortTarballSize {
			c.Errorf("log declared %d bytes, expected %d", rec.DeclaredLength, shortTarballSize)
		}
		if rec.BytesWritten != shortTarballSize/2 {
			c.Errorf("log recorded %d sent bytes, expected %d", rec.BytesWritten, shortTarballSize/2)
		}
	})
}
