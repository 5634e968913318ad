package harness

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/pkgsim/repo-fault-tests/logging"
)

var (
	passColor = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
	skipColor = color.New(color.FgYellow)
)

// ConsoleCheckLogger prints per-check progress to stdout, with captured
// debug output shown for failures (or for everything, when verbose runs are
// requested).
type ConsoleCheckLogger struct {
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c *ConsoleCheckLogger) CheckStarted(id CheckID) {
	fmt.Printf("[%s]\n", id)
}

func (c *ConsoleCheckLogger) CheckError(id CheckID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		failColor.Printf("  %s\n", line)
	}
}

func (c *ConsoleCheckLogger) CheckFinished(id CheckID, failed bool, debugOutput logging.CapturedOutput) {
	if failed {
		failColor.Printf("  FAILED: %s\n", id)
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(os.Stdout, "    DEBUG ")
	}
}

func (c *ConsoleCheckLogger) CheckSkipped(id CheckID, reason string) {
	if reason == "" {
		skipColor.Printf("  SKIPPED: %s\n", id)
	} else {
		skipColor.Printf("  SKIPPED: %s (%s)\n", id, reason)
	}
}

// PrintResults writes the end-of-run summary.
func PrintResults(results Results) {
	if results.OK() {
		passColor.Printf("All %d checks passed\n", len(results.Checks))
		return
	}
	failColor.Printf("FAILED: %d checks out of %d\n", len(results.Failures), len(results.Checks))
	for _, f := range results.Failures {
		fmt.Printf("  %s\n", f.ID)
		for _, err := range f.Errors {
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Printf("    %s\n", line)
			}
		}
	}
}

// PrintFilterDescription explains up front which checks will be skipped for
// this run.
func PrintFilterDescription(filters RegexFilters) {
	if !filters.MustMatch.IsDefined() && !filters.MustNotMatch.IsDefined() {
		return
	}
	fmt.Println("Some checks will be skipped based on the filter criteria for this run:")
	if filters.MustMatch.IsDefined() {
		fmt.Printf("  skip any not matching %s\n", filters.MustMatch)
	}
	if filters.MustNotMatch.IsDefined() {
		fmt.Printf("  skip any matching %s\n", filters.MustNotMatch)
	}
	fmt.Println()
}
