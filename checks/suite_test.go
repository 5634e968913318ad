package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkgsim/repo-fault-tests/harness"
)

// The suite itself runs against a real server instance, so running it here
// gives end-to-end coverage of the whole stack.
func TestSuitePasses(t *testing.T) {
	results := RunSuite(nil, harness.NullCheckLogger())

	for _, f := range results.Failures {
		t.Errorf("check %s failed:", f.ID)
		for _, err := range f.Errors {
			t.Errorf("  %s", err)
		}
	}
	assert.NotEmpty(t, results.Checks)
}

func TestSuiteHonorsFilter(t *testing.T) {
	var ran []string
	filter := func(id harness.CheckID) bool {
		ran = append(ran, id.String())
		return false
	}
	results := RunSuite(filter, harness.NullCheckLogger())

	assert.True(t, results.OK())
	assert.Contains(t, ran, "plain files")
	assert.Contains(t, ran, "scenarios")
}

func TestFixtureBytesDeterministic(t *testing.T) {
	assert.Equal(t, fixtureBytes(100), fixtureBytes(100))
	assert.Equal(t, fixtureBytes(1000)[:500], fixtureBytes(500))
	// the two halves must differ, or truncation checks could pass by accident
	assert.NotEqual(t, fixtureBytes(1000)[:500], fixtureBytes(1000)[500:])
}
