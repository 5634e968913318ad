package checks

import (
	"fmt"
	"os"
	"path/filepath"
)

// Fixture sizes are all even so the floor(L/2) fault arithmetic has no
// rounding to reason about, except where a check wants the odd case.
const (
	tarballSize      = 1000
	goneTarballSize  = 600
	shortTarballSize = 800
	liesTarballSize  = 900
	oddTarballSize   = 801
)

const notesContent = "mock repository fixture; not a real package index\n"

// defaultRules is written to disk and loaded back through the rules-file
// parser, so a suite run exercises the same path an operator uses.
const defaultRules = `{
    // fault scenarios for the shared check server
    "rules": [
        {"pattern": "pkg-gone", "fault": "not_found"},
        {"pattern": "pkg-short", "fault": "truncate"},
        {"pattern": "pkg-lies", "fault": "size_mismatch"},
    ],
}
`

// fixtures is the generated document-root tree:
//
//	root/
//	    notes.txt
//	    pkg-1.0.tgz        1000 bytes, no rule
//	    pkg-gone-2.0.tgz   exists but rule answers 404
//	    pkg-short-1.1.tgz  truncate rule
//	    pkg-lies-3.2.tgz   size_mismatch rule
//	    pkg-odd-0.9.tgz    801 bytes, for the rounding scenario
//	    pool/
//	        alpha.tgz
//	        beta.tgz
//	        deep/
//	            gamma.tgz
//	outside.txt            sibling of root, for the traversal check
type fixtures struct {
	Root      string
	RulesPath string
}

func buildFixtures(baseDir string) (*fixtures, error) {
	root := filepath.Join(baseDir, "root")
	files := map[string][]byte{
		"notes.txt":           []byte(notesContent),
		"pkg-1.0.tgz":         fixtureBytes(tarballSize),
		"pkg-gone-2.0.tgz":    fixtureBytes(goneTarballSize),
		"pkg-short-1.1.tgz":   fixtureBytes(shortTarballSize),
		"pkg-lies-3.2.tgz":    fixtureBytes(liesTarballSize),
		"pkg-odd-0.9.tgz":     fixtureBytes(oddTarballSize),
		"pool/alpha.tgz":      fixtureBytes(64),
		"pool/beta.tgz":       fixtureBytes(128),
		"pool/deep/gamma.tgz": fixtureBytes(32),
	}
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return nil, fmt.Errorf("creating fixture tree: %w", err)
		}
		if err := os.WriteFile(p, content, 0644); err != nil {
			return nil, fmt.Errorf("writing fixture %s: %w", name, err)
		}
	}
	if err := os.WriteFile(filepath.Join(baseDir, "outside.txt"), []byte("must stay unreachable\n"), 0644); err != nil {
		return nil, err
	}
	rulesPath := filepath.Join(baseDir, "rules.hujson")
	if err := os.WriteFile(rulesPath, []byte(defaultRules), 0644); err != nil {
		return nil, fmt.Errorf("writing rules file: %w", err)
	}
	return &fixtures{Root: root, RulesPath: rulesPath}, nil
}

// fixtureBytes produces n deterministic non-repeating-looking bytes, so a
// half-body response can never accidentally equal the full content.
func fixtureBytes(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte((i*7 + i/251) % 256)
	}
	return b
}
