package mockserver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFaultTableAllowsCommentsAndTrailingCommas(t *testing.T) {
	data := []byte(`{
		// this package was yanked upstream
		"rules": [
			{"pattern": "pkg-gone", "fault": "not_found"},
			{"pattern": "pkg-short", "fault": "truncate"}, // trailing comma next
			{"pattern": "pkg-lies", "fault": "size_mismatch"},
		],
	}`)
	table, err := ParseFaultTable(data)
	require.NoError(t, err)

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, FaultNotFound, table.Classify("pkg-gone-2.0.tgz"))
	assert.Equal(t, FaultTruncate, table.Classify("pkg-short-1.1.tgz"))
	assert.Equal(t, FaultSizeMismatch, table.Classify("pkg-lies-3.2.tgz"))
}

func TestParseFaultTableRejectsUnknownFault(t *testing.T) {
	_, err := ParseFaultTable([]byte(`{"rules": [{"pattern": "x", "fault": "sabotage"}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown fault kind")
}

func TestParseFaultTableRejectsBadSyntax(t *testing.T) {
	_, err := ParseFaultTable([]byte(`{"rules": [`))
	require.Error(t, err)
}

func TestLoadFaultTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.hujson")
	require.NoError(t, os.WriteFile(path, []byte(`{"rules": [{"pattern": "a", "fault": "truncate"}]}`), 0644))

	table, err := LoadFaultTable(path)
	require.NoError(t, err)
	assert.Equal(t, FaultTruncate, table.Classify("a.tgz"))
}

func TestLoadFaultTableMissingFile(t *testing.T) {
	_, err := LoadFaultTable(filepath.Join(t.TempDir(), "nope.hujson"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot read rules file")
}
