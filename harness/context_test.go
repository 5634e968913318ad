package harness

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCollectsResults(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("passes", func(c *Context) {})
		c.Run("fails", func(c *Context) {
			c.Errorf("deliberate failure")
		})
		c.Run("fails fast", func(c *Context) {
			c.Errorf("first problem")
			c.FailNow()
			c.Errorf("unreachable")
		})
	})

	assert.False(t, results.OK())
	require.Len(t, results.Failures, 2)
	assert.Equal(t, "fails", results.Failures[0].ID.String())
	assert.Equal(t, "fails fast", results.Failures[1].ID.String())
	require.Len(t, results.Failures[1].Errors, 1)
	assert.EqualError(t, results.Failures[1].Errors[0], "first problem")
}

func TestRunNestedIDs(t *testing.T) {
	var seen []string
	results := Run(nil, nil, func(c *Context) {
		c.Run("outer", func(c *Context) {
			c.Run("inner", func(c *Context) {
				seen = append(seen, c.ID().String())
			})
			c.Run("other", func(c *Context) {
				seen = append(seen, c.ID().String())
			})
		})
	})

	assert.True(t, results.OK())
	assert.Equal(t, []string{"outer/inner", "outer/other"}, seen)
}

func TestRunRecoversPanics(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("panics", func(c *Context) {
			panic(errors.New("boom"))
		})
		c.Run("still runs", func(c *Context) {})
	})

	require.Len(t, results.Failures, 1)
	assert.Equal(t, "panics", results.Failures[0].ID.String())
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "boom")
	assert.Len(t, results.Checks, 3) // two subchecks plus the root context
}

func TestFilterSkipsChecks(t *testing.T) {
	var ran []string
	filter := func(id CheckID) bool { return id.String() != "skipped" }
	Run(filter, nil, func(c *Context) {
		c.Run("runs", func(c *Context) { ran = append(ran, "runs") })
		c.Run("skipped", func(c *Context) { ran = append(ran, "skipped") })
	})

	assert.Equal(t, []string{"runs"}, ran)
}

func TestSkipDoesNotFail(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("skips", func(c *Context) {
			c.SkipWithReason("not applicable here")
			c.Errorf("unreachable")
		})
	})

	assert.True(t, results.OK())
	require.Len(t, results.Checks, 2) // the skipped check plus the root context
	assert.Equal(t, "skips", results.Checks[0].ID.String())
	assert.True(t, results.Checks[0].Skipped)
	assert.Empty(t, results.Checks[0].Errors)
}

func TestDeferRunsInReverseOrder(t *testing.T) {
	var order []string
	Run(nil, nil, func(c *Context) {
		c.Run("with cleanups", func(c *Context) {
			c.Defer(func() { order = append(order, "first registered") })
			c.Defer(func() { order = append(order, "second registered") })
		})
		order = append(order, "next check")
	})

	assert.Equal(t, []string{"second registered", "first registered", "next check"}, order)
}

func TestDebugOutputCaptured(t *testing.T) {
	recorder := &recordingCheckLogger{}
	Run(nil, recorder, func(c *Context) {
		c.Run("with debug", func(c *Context) {
			c.Debug("saw %d bytes", 42)
		})
	})

	require.Len(t, recorder.finished, 1)
	require.Len(t, recorder.finished[0].debug, 1)
	assert.Equal(t, "saw 42 bytes", recorder.finished[0].debug[0].Message)
}
