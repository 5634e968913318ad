package checks

import (
	"bytes"
	"strings"

	"github.com/pkgsim/repo-fault-tests/harness"
)

func doDirListingChecks(c *harness.Context, env *env) {
	addr := env.server.Addr()

	c.Run("listing names every immediate child and the parent", func(c *harness.Context) {
		resp := mustFetch(c, addr, "GET", "/pool")
		if resp.Status != 200 {
			c.Errorf("expected status 200, got %d", resp.Status)
		}
		if ct := resp.Headers.Get("Content-Type"); ct != "text/html" {
			c.Errorf("expected Content-Type text/html, got %q", ct)
		}
		if resp.Headers.Get("Content-Length") != "" {
			c.Errorf("directory listings should be streamed without Content-Length")
		}
		body := string(resp.Body)
		for _, want := range []string{`href="../"`, `href="alpha.tgz"`, `href="beta.tgz"`, `href="deep/"`} {
			if !strings.Contains(body, want) {
				c.Errorf("listing is missing %s", want)
			}
		}
		if strings.Contains(body, "gamma.tgz") {
			c.Errorf("listing includes a grandchild entry")
		}
		if !strings.Contains(body, "Index of /pool") {
			c.Errorf("listing heading does not name the directory")
		}
	})

	c.Run("listing is deterministic across requests", func(c *harness.Context) {
		first := mustFetch(c, addr, "GET", "/pool")
		second := mustFetch(c, addr, "GET", "/pool")
		if !bytes.Equal(first.Body, second.Body) {
			c.Errorf("two listings of an unchanged directory differ")
		}
	})

	c.Run("HEAD of a directory has no body", func(c *harness.Context) {
		resp := mustFetch(c, addr, "HEAD", "/pool")
		if resp.Status != 200 {
			c.Errorf("expected status 200, got %d", resp.Status)
		}
		if len(resp.Body) != 0 {
			c.Errorf("HEAD response carried %d body bytes", len(resp.Body))
		}
	})
}
