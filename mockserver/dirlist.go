package mockserver

import (
	"fmt"
	"html"
	"io"
	"os"
)

// writeDirListing emits a fixed-shape HTML index for a directory. urlPath is
// the directory's path relative to the document root (starting with "/").
// os.ReadDir returns entries sorted by name, which keeps the listing
// deterministic across repeated requests against an unchanged directory.
// Returns the number of body bytes written.
func writeDirListing(w io.Writer, urlPath string, entries []os.DirEntry) int64 {
	cw := &countingWriter{dest: w}
	title := "Index of " + urlPath
	fmt.Fprintf(cw, "<html><head><title>%s</title></head><body>\n", html.EscapeString(title))
	fmt.Fprintf(cw, "<h1>%s</h1>\n<ul>\n", html.EscapeString(title))
	fmt.Fprint(cw, "<li><a href=\"../\">../</a></li>\n")
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		fmt.Fprintf(cw, "<li><a href=\"%s\">%s</a></li>\n",
			html.EscapeString(name), html.EscapeString(name))
	}
	fmt.Fprint(cw, "</ul>\n</body></html>\n")
	return cw.n
}

type countingWriter struct {
	dest io.Writer
	n    int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.dest.Write(p)
	c.n += int64(n)
	return n, err
}
