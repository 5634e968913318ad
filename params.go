package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alessio/shellescape"
	"github.com/spf13/pflag"

	"github.com/pkgsim/repo-fault-tests/harness"
)

const defaultListenAddr = "127.0.0.1:8080"

type commandParams struct {
	root        string
	listen      string
	rulesPath   string
	accessLog   string
	errorLog    string
	readTimeout time.Duration
	check       bool
	filters     harness.RegexFilters
	debug       bool
	debugAll    bool
}

func (c *commandParams) Read(args []string) bool {
	fs := pflag.NewFlagSet("repo-fault-server", pflag.ContinueOnError)
	fs.StringVar(&c.root, "root", "", "document root to serve (required unless --check)")
	fs.StringVar(&c.listen, "listen", defaultListenAddr, "listen address: host:port, or a Unix socket path")
	fs.StringVar(&c.rulesPath, "rules", "", "fault rules file (JSON with comments)")
	fs.StringVar(&c.accessLog, "access-log", "", "per-request log file (default stdout)")
	fs.StringVar(&c.errorLog, "error-log", "", "error log file (default stderr)")
	fs.DurationVar(&c.readTimeout, "read-timeout", 30*time.Second, "how long a connection may take to deliver its request")
	fs.BoolVar(&c.check, "check", false, "run the contract check suite instead of serving")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select checks to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select checks not to run")
	fs.BoolVar(&c.debug, "debug", false, "show debug output for failed checks")
	fs.BoolVar(&c.debugAll, "debug-all", false, "show debug output for all checks")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	if !c.check && c.root == "" {
		fmt.Fprintln(os.Stderr, "--root is required")
		fs.Usage()
		return false
	}
	return true
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
