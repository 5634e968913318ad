package checks

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkgsim/repo-fault-tests/logging"
)

const dialTimeout = 5 * time.Second
const exchangeTimeout = 10 * time.Second

// rawResponse is one observed HTTP exchange. The checks use a hand-rolled
// client instead of net/http because they must see exactly what crossed the
// wire: declared lengths, actual body byte counts, and early connection
// closes that a smart client would paper over with retries.
type rawResponse struct {
	Status  int
	Reason  string
	Headers http.Header
	Body    []byte
	// Truncated is true when the server declared a Content-Length but
	// closed the connection before delivering that many body bytes.
	Truncated bool
}

// fetch performs a single request with an empty header set (beyond Host)
// and reads the response until the server closes the connection.
func fetch(addr, method, target string, logger logging.Logger) (rawResponse, error) {
	request := fmt.Sprintf("%s %s HTTP/1.1\r\nHost: %s\r\n\r\n", method, target, addr)
	return fetchRaw(addr, request, method == "HEAD", logger)
}

// fetchRaw sends requestText verbatim, for checks that need malformed
// request lines.
func fetchRaw(addr, requestText string, isHead bool, logger logging.Logger) (rawResponse, error) {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return rawResponse{}, fmt.Errorf("dialing %s: %w", addr, err)
	}
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(exchangeTimeout)); err != nil {
		return rawResponse{}, err
	}
	if _, err := io.WriteString(conn, requestText); err != nil {
		return rawResponse{}, fmt.Errorf("sending request: %w", err)
	}
	logger.Printf("sent request: %q", requestText)

	br := bufio.NewReader(conn)
	resp := rawResponse{Headers: make(http.Header)}

	statusLine, err := br.ReadString('\n')
	if err != nil {
		return rawResponse{}, fmt.Errorf("reading status line: %w", err)
	}
	parts := strings.SplitN(strings.TrimRight(statusLine, "\r\n"), " ", 3)
	if len(parts) < 2 || !strings.HasPrefix(parts[0], "HTTP/") {
		return rawResponse{}, fmt.Errorf("malformed status line %q", statusLine)
	}
	resp.Status, err = strconv.Atoi(parts[1])
	if err != nil {
		return rawResponse{}, fmt.Errorf("malformed status code in %q", statusLine)
	}
	if len(parts) == 3 {
		resp.Reason = parts[2]
	}

	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return rawResponse{}, fmt.Errorf("reading headers: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, found := strings.Cut(line, ":")
		if !found {
			return rawResponse{}, fmt.Errorf("malformed header line %q", line)
		}
		resp.Headers.Add(name, strings.TrimSpace(value))
	}

	// Body framing: a declared Content-Length is read exactly (noting a
	// short read), anything else is read to connection close. HEAD reads
	// to close as well, to prove the body really is absent.
	cl := resp.Headers.Get("Content-Length")
	if cl != "" && !isHead {
		want, err := strconv.ParseInt(cl, 10, 64)
		if err != nil {
			return rawResponse{}, fmt.Errorf("malformed Content-Length %q", cl)
		}
		body := make([]byte, want)
		n, err := io.ReadFull(br, body)
		resp.Body = body[:n]
		switch {
		case err == nil:
		case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
			resp.Truncated = true
		default:
			return rawResponse{}, fmt.Errorf("reading body: %w", err)
		}
	} else {
		body, err := io.ReadAll(br)
		if err != nil {
			return rawResponse{}, fmt.Errorf("reading body: %w", err)
		}
		resp.Body = body
	}

	logger.Printf("got status %d, %d header(s), %d body byte(s), truncated=%v",
		resp.Status, len(resp.Headers), len(resp.Body), resp.Truncated)
	return resp, nil
}
