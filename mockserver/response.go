package mockserver

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"time"
)

const serverName = "repo-fault-server/1.0"

var statusText = map[int]string{
	200: "OK",
	400: "Bad Request",
	404: "Not Found",
}

func writeStatusLine(w io.Writer, code int) {
	fmt.Fprintf(w, "HTTP/1.1 %d %s\r\n", code, statusText[code])
}

// writeCommonHeaders emits the headers every response carries, in a fixed
// order: Server, then Date.
func writeCommonHeaders(w io.Writer) {
	fmt.Fprintf(w, "Server: %s\r\n", serverName)
	fmt.Fprintf(w, "Date: %s\r\n", httpDate(time.Now()))
}

// httpDate formats a time per RFC 1123 in GMT, as required for Date and
// Last-Modified headers.
func httpDate(t time.Time) string {
	return t.UTC().Format(http.TimeFormat)
}

func contentType(fsPath string) string {
	if ct := mime.TypeByExtension(filepath.Ext(fsPath)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
