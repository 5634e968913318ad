package checks

import (
	"fmt"

	"github.com/pkgsim/repo-fault-tests/harness"
)

func doProtocolChecks(c *harness.Context, env *env) {
	addr := env.server.Addr()

	c.Run("unknown method gets 400 without a resource lookup", func(c *harness.Context) {
		before := len(env.server.Requests())
		resp := mustFetch(c, addr, "PUT", "/notes.txt")
		if resp.Status != 400 {
			c.Errorf("expected status 400, got %d", resp.Status)
		}
		records := env.server.Requests()
		if len(records) != before+1 {
			c.Errorf("expected exactly one new request record, got %d", len(records)-before)
			c.FailNow()
		}
		rec := records[len(records)-1]
		if string(rec.Outcome) != "bad_request" {
			c.Errorf("expected a bad_request outcome, got %q", rec.Outcome)
		}
		if rec.Path != "" {
			c.Errorf("a rejected method must not resolve a path, but the log records %q", rec.Path)
		}
	})

	c.Run("malformed request line gets 400", func(c *harness.Context) {
		resp, err := fetchRaw(addr, "NONSENSE\r\n\r\n", false, c.DebugLogger())
		if err != nil {
			c.Errorf("exchange failed: %s", err)
			c.FailNow()
		}
		if resp.Status != 400 {
			c.Errorf("expected status 400, got %d", resp.Status)
		}
	})

	c.Run("every response closes the connection", func(c *harness.Context) {
		for _, target := range []string{"/notes.txt", "/no-such-file", "/pool"} {
			resp := mustFetch(c, addr, "GET", target)
			if got := resp.Headers.Get("Connection"); got != "close" {
				c.Errorf("%s: expected Connection: close, got %q", target, got)
			}
		}
	})

	c.Run("concurrent downloads are isolated", func(c *harness.Context) {
		const n = 8
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			go func() {
				resp, err := fetch(addr, "GET", "/pkg-1.0.tgz", c.DebugLogger())
				if err == nil && (resp.Status != 200 || len(resp.Body) != tarballSize) {
					err = fmt.Errorf("status %d with %d body bytes", resp.Status, len(resp.Body))
				}
				errs <- err
			}()
		}
		for i := 0; i < n; i++ {
			if err := <-errs; err != nil {
				c.Errorf("concurrent download failed: %s", err)
			}
		}
	})
}
