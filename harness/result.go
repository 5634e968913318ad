package harness

import (
	"strings"
)

type Results struct {
	Checks   []CheckResult
	Failures []CheckResult
}

type CheckResult struct {
	ID      CheckID
	Errors  []error
	Skipped bool
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// CheckID identifies a check by its position in the suite hierarchy.
type CheckID struct {
	Path []string
}

func (id CheckID) String() string {
	return strings.Join(id.Path, "/")
}
