// Package harness contains the generic check-running infrastructure: a
// context similar to Go's *testing.T that associates pieces of check logic
// with hierarchical identifiers and accumulates success/failure results, plus
// regex-based run/skip filtering and console reporting.
//
// It knows nothing about the mock server; the domain-specific checks live in
// the checks package.
package harness
