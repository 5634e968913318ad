package mockserver

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDirListingShape(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.tgz"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.tgz"), nil, 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var buf bytes.Buffer
	n := writeDirListing(&buf, "/pool", entries)

	want := "<html><head><title>Index of /pool</title></head><body>\n" +
		"<h1>Index of /pool</h1>\n<ul>\n" +
		"<li><a href=\"../\">../</a></li>\n" +
		"<li><a href=\"a.tgz\">a.tgz</a></li>\n" +
		"<li><a href=\"b.tgz\">b.tgz</a></li>\n" +
		"<li><a href=\"sub/\">sub/</a></li>\n" +
		"</ul>\n</body></html>\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("listing mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, int64(buf.Len()), n)
}

func TestWriteDirListingEscapesNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a<b>.txt"), nil, 0644))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var buf bytes.Buffer
	writeDirListing(&buf, "/", entries)
	assert.Contains(t, buf.String(), "a&lt;b&gt;.txt")
	assert.NotContains(t, buf.String(), "a<b>.txt")
}
