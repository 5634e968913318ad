package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkgsim/repo-fault-tests/logging"
)

type finishedCheck struct {
	id     CheckID
	failed bool
	debug  logging.CapturedOutput
}

type recordingCheckLogger struct {
	started  []CheckID
	finished []finishedCheck
	skipped  []CheckID
}

func (r *recordingCheckLogger) CheckStarted(id CheckID)        { r.started = append(r.started, id) }
func (r *recordingCheckLogger) CheckError(id CheckID, _ error) {}
func (r *recordingCheckLogger) CheckFinished(id CheckID, failed bool, debug logging.CapturedOutput) {
	r.finished = append(r.finished, finishedCheck{id: id, failed: failed, debug: debug})
}
func (r *recordingCheckLogger) CheckSkipped(id CheckID, _ string) {
	r.skipped = append(r.skipped, id)
}

func TestRegexFilters(t *testing.T) {
	var f RegexFilters
	assert.NoError(t, f.MustMatch.Set("fault"))
	assert.NoError(t, f.MustNotMatch.Set("slow$"))

	assert.True(t, f.AsFilter(CheckID{Path: []string{"fault injection", "truncate"}}))
	assert.False(t, f.AsFilter(CheckID{Path: []string{"plain files", "GET"}}))
	assert.False(t, f.AsFilter(CheckID{Path: []string{"fault injection", "slow"}}))
}

func TestRegexListRejectsInvalidPattern(t *testing.T) {
	var l RegexList
	assert.Error(t, l.Set("("))
	assert.Equal(t, "regex", l.Type())
}

func TestRegexListString(t *testing.T) {
	var l RegexList
	assert.NoError(t, l.Set("a"))
	assert.NoError(t, l.Set("b"))
	assert.Equal(t, `"a" or "b"`, l.String())
}
