package mockserver

import (
	"sync"
	"time"

	"github.com/pkgsim/repo-fault-tests/logging"
)

// Outcome describes how an exchange was resolved, for the benefit of the
// surrounding test harness. Fault kinds double as outcomes so a log line
// identifies which rule fired.
type Outcome string

const (
	// OutcomeHit means the resource was served unmodified (file or
	// directory listing).
	OutcomeHit Outcome = "hit"
	// OutcomeMiss means the resource genuinely does not exist on disk.
	OutcomeMiss Outcome = "miss"
	// OutcomeBadRequest means the request line was malformed or used an
	// unsupported method; no resource lookup happened.
	OutcomeBadRequest Outcome = "bad_request"

	OutcomeNotFoundFault Outcome = Outcome(FaultNotFound)
	OutcomeTruncate      Outcome = Outcome(FaultTruncate)
	OutcomeSizeMismatch  Outcome = Outcome(FaultSizeMismatch)
)

// RequestRecord is one completed (or aborted) exchange. Path is empty for
// bad_request outcomes, where the target is never resolved.
type RequestRecord struct {
	Time           time.Time
	Method         string
	Path           string
	Outcome        Outcome
	Status         int
	DeclaredLength int64 // Content-Length as sent in headers, -1 if omitted
	BytesWritten   int64 // body bytes actually transmitted
}

// RequestLog records every exchange the server handled, in completion order.
// Handlers append concurrently; the harness reads snapshots.
type RequestLog struct {
	mirror  logging.Logger
	records []RequestRecord
	lock    sync.Mutex
}

func newRequestLog(mirror logging.Logger) *RequestLog {
	if mirror == nil {
		mirror = logging.NullLogger()
	}
	return &RequestLog{mirror: mirror}
}

func (l *RequestLog) add(rec RequestRecord) {
	rec.Time = time.Now()
	l.lock.Lock()
	l.records = append(l.records, rec)
	l.lock.Unlock()
	l.mirror.Printf("%s %q status=%d outcome=%s declared=%d sent=%d",
		rec.Method, rec.Path, rec.Status, rec.Outcome, rec.DeclaredLength, rec.BytesWritten)
}

// Records returns a copy of all records so far.
func (l *RequestLog) Records() []RequestRecord {
	l.lock.Lock()
	ret := append([]RequestRecord(nil), l.records...)
	l.lock.Unlock()
	return ret
}
