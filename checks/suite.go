// Package checks is a contract-check suite for the fault-injecting mock
// repository server. It generates a fixture tree, starts a server instance
// in-process, and verifies the server's observable wire behavior with a raw
// TCP client, so the same suite can gate any reimplementation of the server.
package checks

import (
	"fmt"
	"os"

	"github.com/pkgsim/repo-fault-tests/harness"
	"github.com/pkgsim/repo-fault-tests/mockserver"
)

// RunSuite runs every check and returns the collected results.
func RunSuite(filter harness.Filter, checkLogger harness.CheckLogger) harness.Results {
	return harness.Run(filter, checkLogger, func(c *harness.Context) {
		env, err := newEnv(c)
		if err != nil {
			c.Errorf("suite setup failed: %s", err)
			return
		}
		c.Defer(env.close)

		c.Run("plain files", func(c *harness.Context) { doPlainFileChecks(c, env) })
		c.Run("fault injection", func(c *harness.Context) { doFaultChecks(c, env) })
		c.Run("directory listing", func(c *harness.Context) { doDirListingChecks(c, env) })
		c.Run("protocol", func(c *harness.Context) { doProtocolChecks(c, env) })
		c.Run("scenarios", func(c *harness.Context) { doScenarioChecks(c, env) })
	})
}

// env is the shared state for one suite run: the fixture tree and a server
// loaded with the default rules file.
type env struct {
	fixtures *fixtures
	server   *mockserver.Server
	baseDir  string
}

func newEnv(c *harness.Context) (*env, error) {
	baseDir, err := os.MkdirTemp("", "repo-fault-checks-")
	if err != nil {
		return nil, err
	}
	fx, err := buildFixtures(baseDir)
	if err != nil {
		os.RemoveAll(baseDir)
		return nil, err
	}
	table, err := mockserver.LoadFaultTable(fx.RulesPath)
	if err != nil {
		os.RemoveAll(baseDir)
		return nil, err
	}
	srv, err := startServer(c, fx.Root, table)
	if err != nil {
		os.RemoveAll(baseDir)
		return nil, err
	}
	return &env{fixtures: fx, server: srv, baseDir: baseDir}, nil
}

func (e *env) close() {
	e.server.Close()
	os.RemoveAll(e.baseDir)
}

// startServer starts a server on an ephemeral port with its logs routed to
// the check's debug output.
func startServer(c *harness.Context, root string, table *mockserver.FaultTable) (*mockserver.Server, error) {
	srv, err := mockserver.New(mockserver.Config{
		Root:      root,
		Rules:     table,
		AccessLog: c.DebugLogger(),
		ErrorLog:  c.DebugLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating server: %w", err)
	}
	if err := srv.Start(); err != nil {
		return nil, fmt.Errorf("starting server: %w", err)
	}
	return srv, nil
}
