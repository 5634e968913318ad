package mockserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFaultTableFirstMatchWins(t *testing.T) {
	table, err := NewFaultTable([]FaultRule{
		{Pattern: "pkg-1", Kind: FaultTruncate},
		{Pattern: "pkg", Kind: FaultNotFound},
	})
	require.NoError(t, err)

	assert.Equal(t, FaultTruncate, table.Classify("pkg-1.0.tgz"))
	assert.Equal(t, FaultNotFound, table.Classify("pkg-2.0.tgz"))
	assert.Equal(t, FaultNone, table.Classify("other.tgz"))
}

func TestFaultTableSubstringMatch(t *testing.T) {
	table, err := NewFaultTable([]FaultRule{
		{Pattern: "gone", Kind: FaultNotFound},
	})
	require.NoError(t, err)

	assert.Equal(t, FaultNotFound, table.Classify("pkg-gone-2.0.tgz"))
	assert.Equal(t, FaultNone, table.Classify("pkg-here-2.0.tgz"))
}

func TestFaultTableRegexMatch(t *testing.T) {
	table, err := NewFaultTable([]FaultRule{
		{Pattern: `^pkg-[0-9]+\.tgz$`, Kind: FaultSizeMismatch},
	})
	require.NoError(t, err)

	assert.Equal(t, FaultSizeMismatch, table.Classify("pkg-1.tgz"))
	assert.Equal(t, FaultNone, table.Classify("pkg-1.tgz.sig"))
}

func TestFaultTableRejectsInvalidPattern(t *testing.T) {
	_, err := NewFaultTable([]FaultRule{
		{Pattern: "(", Kind: FaultTruncate},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pattern")
}

func TestFaultTableRejectsUnknownKind(t *testing.T) {
	_, err := NewFaultTable([]FaultRule{
		{Pattern: "x", Kind: FaultKind("explode")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown fault kind")
}

func TestNilFaultTableClassifiesNone(t *testing.T) {
	var table *FaultTable
	assert.Equal(t, FaultNone, table.Classify("anything"))
	assert.Equal(t, 0, table.Len())
}
