package harness

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/pkgsim/repo-fault-tests/logging"
)

type environment struct {
	results     Results
	checkLogger CheckLogger
	filter      Filter
}

// Context is passed to every check function. It mirrors the shape of
// testing.T (Run, Errorf, FailNow, Skip) so checks read like ordinary tests,
// but results are collected into a Results value instead of terminating the
// process.
type Context struct {
	env         *environment
	id          CheckID
	debugLogger logging.CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
	cleanups    []func()
}

// Run executes a suite body under the given filter and logger and returns
// the accumulated results.
func Run(
	filter Filter,
	checkLogger CheckLogger,
	action func(*Context),
) Results {
	if checkLogger == nil {
		checkLogger = nullCheckLogger{}
	}
	env := &environment{
		filter:      filter,
		checkLogger: checkLogger,
	}
	c := &Context{env: env}
	c.run(action)
	return env.results
}

func (c *Context) run(action func(*Context)) {
	defer func() {
		c.runCleanups()
		if r := recover(); r != nil {
			if c.skipped {
				c.env.results.Checks = append(c.env.results.Checks, CheckResult{ID: c.id, Skipped: true})
				return
			}
			c.failed = true
			var addError error
			if _, ok := r.(*Context); ok {
				if len(c.errors) == 0 {
					addError = errors.New("check failed with no failure message")
				}
			} else {
				addError = fmt.Errorf("unexpected panic in check: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				c.errors = append(c.errors, addError)
				c.env.checkLogger.CheckError(c.id, addError)
			}
		}
		result := CheckResult{ID: c.id, Errors: c.errors}
		c.env.results.Checks = append(c.env.results.Checks, result)
		if c.failed {
			c.env.results.Failures = append(c.env.results.Failures, result)
		}
	}()

	action(c)
}

func (c *Context) runCleanups() {
	for i := len(c.cleanups) - 1; i >= 0; i-- {
		c.cleanups[i]()
	}
	c.cleanups = nil
}

func (c *Context) ID() CheckID {
	return c.id
}

func (c *Context) Run(name string, action func(*Context)) {
	id := CheckID{Path: append(append([]string(nil), c.id.Path...), name)}

	c.env.checkLogger.CheckStarted(id)
	if c.env.filter != nil && !c.env.filter(id) {
		c.env.checkLogger.CheckSkipped(id, "excluded by filter parameters")
		return
	}
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	c1.run(action)
	if c1.skipped {
		c.env.checkLogger.CheckSkipped(id, c1.skipReason)
	} else {
		c.env.checkLogger.CheckFinished(id, c1.failed, c1.debugLogger.Output())
	}
}

func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := fmt.Errorf(format, args...)
	c.errors = append(c.errors, err)
	c.env.checkLogger.CheckError(c.id, err)
}

func (c *Context) FailNow() {
	panic(c)
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Defer registers a cleanup to run when this check (or the whole suite body,
// for the root context) finishes, in reverse registration order.
func (c *Context) Defer(cleanup func()) {
	c.cleanups = append(c.cleanups, cleanup)
}

// Debug records a message that is shown only when debug output is enabled
// for this check's result.
func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() logging.Logger {
	return &c.debugLogger
}
