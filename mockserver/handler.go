package mockserver

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	gopath "path"
	"path/filepath"
	"strings"
)

// handle reads one request from the connection and writes one response.
// Anything the client sends after the blank line is ignored; the server
// never keeps a connection alive.
func (s *Server) handle(conn net.Conn) {
	br := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)

	// The method is fixed by the first non-blank line; leading blank lines
	// are tolerated.
	var line string
	for {
		var err error
		line, err = br.ReadString('\n')
		if err != nil {
			// Slow or absent client. Close with no response.
			s.cfg.ErrorLog.Printf("reading request line: %s", err)
			return
		}
		if line != "\r\n" && line != "\n" {
			break
		}
	}
	method, target, ok := parseRequestLine(line)
	if !ok {
		s.respondBadRequest(w, method)
		return
	}

	// Headers are read and discarded; the double does not care who is
	// asking or what they accept.
	for {
		h, err := br.ReadString('\n')
		if err != nil {
			s.cfg.ErrorLog.Printf("reading headers: %s", err)
			return
		}
		if h == "\r\n" || h == "\n" {
			break
		}
	}

	res, ok := s.resolve(target)
	if !ok {
		s.respondBadRequest(w, method)
		return
	}
	s.respond(w, method == "HEAD", res)
}

// parseRequestLine splits "<METHOD> <PATH> <VERSION>". ok is false for
// anything that is not a well-formed GET or HEAD request line.
func parseRequestLine(line string) (method, target string, ok bool) {
	fields := strings.Fields(strings.TrimRight(line, "\r\n"))
	if len(fields) != 3 || !strings.HasPrefix(fields[2], "HTTP/") {
		return strings.Join(fields, " "), "", false
	}
	method, target = fields[0], fields[1]
	if method != "GET" && method != "HEAD" {
		return method, "", false
	}
	return method, target, true
}

// resource is a requested path resolved against the document root.
type resource struct {
	urlPath string // cleaned, always starts with "/"
	fsPath  string
	fault   FaultKind
}

func (s *Server) resolve(target string) (resource, bool) {
	if i := strings.IndexByte(target, '?'); i >= 0 {
		target = target[:i]
	}
	unescaped, err := url.PathUnescape(target)
	if err != nil {
		return resource{}, false
	}
	// Clean pins the path under "/" so ".." segments cannot escape the root.
	clean := gopath.Clean("/" + unescaped)
	return resource{
		urlPath: clean,
		fsPath:  filepath.Join(s.cfg.Root, filepath.FromSlash(clean)),
		fault:   s.cfg.Rules.Classify(gopath.Base(clean)),
	}, true
}

// respond applies the resolution order: not_found fault, then existence,
// then directory, then file with any byte-level fault.
func (s *Server) respond(w *bufio.Writer, head bool, res resource) {
	method := "GET"
	if head {
		method = "HEAD"
	}

	if res.fault == FaultNotFound {
		s.respondNotFound(w, method, res.urlPath, OutcomeNotFoundFault)
		return
	}
	st, err := os.Stat(res.fsPath)
	if err != nil {
		s.respondNotFound(w, method, res.urlPath, OutcomeMiss)
		return
	}
	if st.IsDir() {
		s.respondDir(w, head, method, res)
		return
	}
	s.respondFile(w, head, method, res)
}

func (s *Server) respondFile(w *bufio.Writer, head bool, method string, res resource) {
	f, err := os.Open(res.fsPath)
	if err != nil {
		// The file existed a moment ago. Abort with no response rather
		// than lie with a 404.
		s.cfg.ErrorLog.Printf("opening %s: %s", res.fsPath, err)
		return
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		s.cfg.ErrorLog.Printf("stat %s: %s", res.fsPath, err)
		return
	}

	// Sizes come from the file at response time, never from a cache, so
	// the fault arithmetic stays correct if the fixture changes between
	// runs.
	declared := st.Size()
	send := st.Size()
	outcome := OutcomeHit
	switch res.fault {
	case FaultTruncate:
		send = st.Size() / 2
		outcome = OutcomeTruncate
	case FaultSizeMismatch:
		declared = st.Size() / 2
		send = declared
		outcome = OutcomeSizeMismatch
	}

	writeStatusLine(w, 200)
	writeCommonHeaders(w)
	fmt.Fprintf(w, "Content-Length: %d\r\n", declared)
	fmt.Fprintf(w, "Content-Type: %s\r\n", contentType(res.fsPath))
	fmt.Fprintf(w, "Last-Modified: %s\r\n", httpDate(st.ModTime()))
	io.WriteString(w, "Connection: close\r\n\r\n")

	var sent int64
	if !head {
		n, err := io.CopyN(w, f, send)
		sent = n
		if err != nil {
			s.cfg.ErrorLog.Printf("sending %s: %s", res.fsPath, err)
		}
	}
	if err := w.Flush(); err != nil {
		s.cfg.ErrorLog.Printf("flushing response for %s: %s", res.urlPath, err)
	}
	s.requests.add(RequestRecord{
		Method:         method,
		Path:           res.urlPath,
		Outcome:        outcome,
		Status:         200,
		DeclaredLength: declared,
		BytesWritten:   sent,
	})
}

func (s *Server) respondDir(w *bufio.Writer, head bool, method string, res resource) {
	entries, err := os.ReadDir(res.fsPath)
	if err != nil {
		s.cfg.ErrorLog.Printf("listing %s: %s", res.fsPath, err)
		return
	}

	writeStatusLine(w, 200)
	writeCommonHeaders(w)
	// The listing is streamed, so no Content-Length; Connection: close
	// delimits the body.
	io.WriteString(w, "Content-Type: text/html\r\n")
	io.WriteString(w, "Connection: close\r\n\r\n")

	var sent int64
	if !head {
		sent = writeDirListing(w, res.urlPath, entries)
	}
	if err := w.Flush(); err != nil {
		s.cfg.ErrorLog.Printf("flushing listing for %s: %s", res.urlPath, err)
	}
	s.requests.add(RequestRecord{
		Method:         method,
		Path:           res.urlPath,
		Outcome:        OutcomeHit,
		Status:         200,
		DeclaredLength: -1,
		BytesWritten:   sent,
	})
}

func (s *Server) respondNotFound(w *bufio.Writer, method, urlPath string, outcome Outcome) {
	writeStatusLine(w, 404)
	writeCommonHeaders(w)
	io.WriteString(w, "Connection: close\r\n\r\n")
	if err := w.Flush(); err != nil {
		s.cfg.ErrorLog.Printf("flushing 404 for %s: %s", urlPath, err)
	}
	s.requests.add(RequestRecord{
		Method:         method,
		Path:           urlPath,
		Outcome:        outcome,
		Status:         404,
		DeclaredLength: -1,
	})
}

// respondBadRequest never resolves the target, so the record carries no
// path.
func (s *Server) respondBadRequest(w *bufio.Writer, method string) {
	writeStatusLine(w, 400)
	writeCommonHeaders(w)
	io.WriteString(w, "Connection: close\r\n\r\n")
	if err := w.Flush(); err != nil {
		s.cfg.ErrorLog.Printf("flushing 400: %s", err)
	}
	s.requests.add(RequestRecord{
		Method:         method,
		Outcome:        OutcomeBadRequest,
		Status:         400,
		DeclaredLength: -1,
	})
}
