package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

const timestampFormat = "2006-01-02 15:04:05.000"

// Logger is the basic logging interface used throughout the harness and the
// mock server.
type Logger interface {
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (n nullLogger) Printf(message string, args ...interface{}) {}

// NullLogger returns a Logger that discards all output.
func NullLogger() Logger { return nullLogger{} }

type CapturedMessage struct {
	Time    time.Time
	Message string
}

type CapturedOutput []CapturedMessage

// CapturingLogger accumulates messages in memory so they can be dumped later,
// for instance after a check failure. Safe for concurrent use.
type CapturingLogger struct {
	output []CapturedMessage
	lock   sync.Mutex
}

func (l *CapturingLogger) Printf(message string, args ...interface{}) {
	l.lock.Lock()
	l.output = append(l.output, CapturedMessage{Time: time.Now(), Message: fmt.Sprintf(message, args...)})
	l.lock.Unlock()
}

func (l *CapturingLogger) Output() CapturedOutput {
	l.lock.Lock()
	ret := append(CapturedOutput(nil), l.output...)
	l.lock.Unlock()
	return ret
}

func (output CapturedOutput) Dump(dest io.Writer, prefix string) {
	for _, m := range output {
		fmt.Fprintf(dest, "%s[%s] %s\n",
			prefix,
			m.Time.Format(timestampFormat),
			m.Message,
		)
	}
}

type prefixedLogger struct {
	base   Logger
	prefix string
}

func (p prefixedLogger) Printf(message string, args ...interface{}) {
	p.base.Printf(p.prefix+message, args...)
}

// LoggerWithPrefix decorates a Logger so that every message starts with the
// given prefix.
func LoggerWithPrefix(base Logger, prefix string) Logger {
	return prefixedLogger{base: base, prefix: prefix}
}

// WriterLogger writes timestamped lines to an io.Writer. Safe for concurrent
// use; the mock server uses one instance per log destination.
type WriterLogger struct {
	dest io.Writer
	lock sync.Mutex
}

func NewWriterLogger(dest io.Writer) *WriterLogger {
	return &WriterLogger{dest: dest}
}

func (l *WriterLogger) Printf(message string, args ...interface{}) {
	l.lock.Lock()
	fmt.Fprintf(l.dest, "[%s] %s\n", time.Now().Format(timestampFormat), fmt.Sprintf(message, args...))
	l.lock.Unlock()
}

// FileLogger is a WriterLogger backed by an append-mode file.
type FileLogger struct {
	WriterLogger
	file *os.File
}

// NewFileLogger opens (or creates) the file at path for appending.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file: %w", err)
	}
	l := &FileLogger{file: f}
	l.dest = f
	return l, nil
}

func (l *FileLogger) Close() error { return l.file.Close() }
