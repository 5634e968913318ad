// Command repo-fault-server is an HTTP test double for package download
// clients: it serves a document root while injecting configured failure
// modes (masked 404s, truncated transfers, wrong lengths). With --check it
// instead runs a contract suite against an in-process server instance.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"syscall"

	"github.com/pkgsim/repo-fault-tests/checks"
	"github.com/pkgsim/repo-fault-tests/harness"
	"github.com/pkgsim/repo-fault-tests/logging"
	"github.com/pkgsim/repo-fault-tests/mockserver"
)

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}
	if params.check {
		os.Exit(runChecks(params))
	}
	os.Exit(runServer(params))
}

func runServer(params commandParams) int {
	var table *mockserver.FaultTable
	if params.rulesPath != "" {
		t, err := mockserver.LoadFaultTable(params.rulesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			return 1
		}
		table = t
	}

	accessLog, closeAccess, err := openLog(params.accessLog, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return 1
	}
	defer closeAccess()
	errorLog, closeError, err := openLog(params.errorLog, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return 1
	}
	defer closeError()

	srv, err := mockserver.New(mockserver.Config{
		Root:        params.root,
		Addr:        params.listen,
		Rules:       table,
		ReadTimeout: params.readTimeout,
		AccessLog:   accessLog,
		ErrorLog:    errorLog,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return 1
	}
	if err := srv.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return 1
	}
	fmt.Printf("Serving %s on %s (%d fault rule(s))\n", params.root, srv.Addr(), table.Len())

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	<-signals
	srv.Close()
	return 0
}

func openLog(path string, fallback *os.File) (logging.Logger, func(), error) {
	if path == "" {
		return logging.NewWriterLogger(fallback), func() {}, nil
	}
	l, err := logging.NewFileLogger(path)
	if err != nil {
		return nil, nil, err
	}
	return l, func() { _ = l.Close() }, nil
}

func runChecks(params commandParams) int {
	harness.PrintFilterDescription(params.filters)
	fmt.Println("Running contract checks")

	checkLogger := &harness.ConsoleCheckLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := checks.RunSuite(params.filters.AsFilter, checkLogger)

	fmt.Println()
	harness.PrintResults(results)
	if results.OK() {
		return 0
	}
	for _, f := range results.Failures {
		var cmd commandBuilder
		cmd.add(os.Args[0], "--check", "--debug", "--run", "^"+regexp.QuoteMeta(f.ID.String())+"$")
		fmt.Printf("To rerun: %s\n", cmd.String())
	}
	return 1
}
