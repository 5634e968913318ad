package mockserver

import (
	"fmt"
	"regexp"
)

// FaultKind identifies a deliberate misbehavior injected into a response.
type FaultKind string

const (
	// FaultNone serves the file unmodified.
	FaultNone FaultKind = "none"
	// FaultNotFound responds 404 regardless of whether the file exists.
	FaultNotFound FaultKind = "not_found"
	// FaultTruncate advertises the true Content-Length but sends only the
	// first half of the bytes before closing the connection, simulating a
	// server that drops the connection mid-transfer.
	FaultTruncate FaultKind = "truncate"
	// FaultSizeMismatch advertises half the true length and sends exactly
	// that many bytes. Headers and body agree with each other but not with
	// the real file, so only checksum validation can catch it.
	FaultSizeMismatch FaultKind = "size_mismatch"
)

func (k FaultKind) valid() bool {
	switch k {
	case FaultNone, FaultNotFound, FaultTruncate, FaultSizeMismatch:
		return true
	}
	return false
}

// FaultRule maps a filename pattern to a fault. Pattern is a regular
// expression matched (unanchored) against the filename component of the
// requested path, so a plain substring works as-is.
type FaultRule struct {
	Pattern string
	Kind    FaultKind

	re *regexp.Regexp
}

// FaultTable is an ordered list of rules. The first rule whose pattern
// matches wins; if none match, the resource is served unmodified. A table is
// immutable once built and may be shared across connections.
type FaultTable struct {
	rules []FaultRule
}

// NewFaultTable compiles the rules into a table, rejecting invalid patterns
// and unknown fault kinds.
func NewFaultTable(rules []FaultRule) (*FaultTable, error) {
	t := &FaultTable{rules: make([]FaultRule, 0, len(rules))}
	for i, r := range rules {
		if !r.Kind.valid() {
			return nil, fmt.Errorf("rule %d: unknown fault kind %q", i, r.Kind)
		}
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %d: invalid pattern %q: %w", i, r.Pattern, err)
		}
		r.re = re
		t.rules = append(t.rules, r)
	}
	return t, nil
}

// Classify returns the fault for the given filename. A nil table classifies
// everything as FaultNone.
func (t *FaultTable) Classify(filename string) FaultKind {
	if t == nil {
		return FaultNone
	}
	for _, r := range t.rules {
		if r.re.MatchString(filename) {
			return r.Kind
		}
	}
	return FaultNone
}

// Len reports the number of rules in the table.
func (t *FaultTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}
