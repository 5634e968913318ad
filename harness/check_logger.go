package harness

import (
	"github.com/pkgsim/repo-fault-tests/logging"
)

// CheckLogger receives progress events while a suite runs.
type CheckLogger interface {
	CheckStarted(id CheckID)
	CheckError(id CheckID, err error)
	CheckFinished(id CheckID, failed bool, debugOutput logging.CapturedOutput)
	CheckSkipped(id CheckID, reason string)
}

type nullCheckLogger struct{}

func (n nullCheckLogger) CheckStarted(CheckID)                                {}
func (n nullCheckLogger) CheckError(CheckID, error)                           {}
func (n nullCheckLogger) CheckFinished(CheckID, bool, logging.CapturedOutput) {}
func (n nullCheckLogger) CheckSkipped(CheckID, string)                        {}

// NullCheckLogger returns a CheckLogger that discards all events.
func NullCheckLogger() CheckLogger { return nullCheckLogger{} }
