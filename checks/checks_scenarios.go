package checks

import (
	"github.com/pkgsim/repo-fault-tests/harness"
	"github.com/pkgsim/repo-fault-tests/mockserver"
)

// Scenario checks run dedicated server instances whose rule tables target
// pkg-1.0.tgz directly, mirroring how a client test suite would script a
// specific download failure.
func doScenarioChecks(c *harness.Context, env *env) {
	scenarioServer := func(c *harness.Context, kind mockserver.FaultKind, pattern string) *mockserver.Server {
		table, err := mockserver.NewFaultTable([]mockserver.FaultRule{
			{Pattern: pattern, Kind: kind},
		})
		if err != nil {
			c.Errorf("building fault table: %s", err)
			c.FailNow()
		}
		srv, err := startServer(c, env.fixtures.Root, table)
		if err != nil {
			c.Errorf("%s", err)
			c.FailNow()
		}
		c.Defer(srv.Close)
		return srv
	}

	c.Run("truncated download of pkg-1.0", func(c *harness.Context) {
		srv := scenarioServer(c, mockserver.FaultTruncate, "pkg-1.0")
		resp := mustFetch(c, srv.Addr(), "GET", "/pkg-1.0.tgz")
		if got := resp.Headers.Get("Content-Length"); got != "1000" {
			c.Errorf("expected Content-Length 1000, got %q", got)
		}
		if len(resp.Body) != 500 {
			c.Errorf("expected the connection to close after 500 bytes, got %d", len(resp.Body))
		}
		if !resp.Truncated {
			c.Errorf("expected an early close before the declared length")
		}
	})

	c.Run("size-mismatched download of pkg-1.0", func(c *harness.Context) {
		srv := scenarioServer(c, mockserver.FaultSizeMismatch, "pkg-1.0")
		resp := mustFetch(c, srv.Addr(), "GET", "/pkg-1.0.tgz")
		if got := resp.Headers.Get("Content-Length"); got != "500" {
			c.Errorf("expected Content-Length 500, got %q", got)
		}
		if len(resp.Body) != 500 {
			c.Errorf("expected 500 body bytes, got %d", len(resp.Body))
		}
		if resp.Truncated {
			c.Errorf("headers and body should agree; the read came up short")
		}
	})

	c.Run("odd file size rounds the half down", func(c *harness.Context) {
		srv := scenarioServer(c, mockserver.FaultSizeMismatch, "pkg-odd")
		resp := mustFetch(c, srv.Addr(), "GET", "/pkg-odd-0.9.tgz")
		if got := resp.Headers.Get("Content-Length"); got != "400" {
			c.Errorf("expected Content-Length 400 for an 801-byte file, got %q", got)
		}
		if len(resp.Body) != 400 {
			c.Errorf("expected 400 body bytes, got %d", len(resp.Body))
		}
	})
}
