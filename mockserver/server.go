package mockserver

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pkgsim/repo-fault-tests/logging"
)

const defaultReadTimeout = 30 * time.Second

// Config is the immutable startup configuration for a Server. Root is the
// only required field.
type Config struct {
	// Root is the document root that requested paths resolve against.
	Root string
	// Addr is the listen address. "host:port" listens on TCP; a value
	// containing a path separator is treated as a Unix-domain socket path.
	// Empty means an ephemeral port on localhost.
	Addr string
	// Rules is the fault table. Nil means no faults.
	Rules *FaultTable
	// ReadTimeout bounds how long a connection may take to deliver its
	// request. Zero means 30s.
	ReadTimeout time.Duration
	// AccessLog receives one line per completed exchange. Nil discards.
	AccessLog logging.Logger
	// ErrorLog receives handler and listener errors. Nil discards.
	ErrorLog logging.Logger
}

// Server is a single-exchange-per-connection HTTP test double serving files
// from a document root, with configurable fault injection. It is not a
// production file server: it exists to feed a download client wrong answers
// on purpose.
type Server struct {
	cfg      Config
	requests *RequestLog
	ln       net.Listener
	handlers sync.WaitGroup
	closing  chan struct{}
	closeMu  sync.Once
}

// New validates the configuration and returns an unstarted Server. A missing
// or unusable document root is the only fatal configuration error.
func New(cfg Config) (*Server, error) {
	if cfg.Root == "" {
		return nil, errors.New("document root is required")
	}
	st, err := os.Stat(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("document root: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("document root %s is not a directory", cfg.Root)
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:0"
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	if cfg.AccessLog == nil {
		cfg.AccessLog = logging.NullLogger()
	}
	if cfg.ErrorLog == nil {
		cfg.ErrorLog = logging.NullLogger()
	}
	return &Server{
		cfg:      cfg,
		requests: newRequestLog(cfg.AccessLog),
		closing:  make(chan struct{}),
	}, nil
}

// Start binds the listen address and begins accepting connections in the
// background.
func (s *Server) Start() error {
	network := "tcp"
	if strings.ContainsRune(s.cfg.Addr, os.PathSeparator) {
		network = "unix"
	}
	ln, err := net.Listen(network, s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("cannot listen on %s: %w", s.cfg.Addr, err)
	}
	s.ln = ln
	go s.acceptLoop()
	return nil
}

// Addr returns the bound listen address, which is useful when Config.Addr
// requested an ephemeral port.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Requests returns a snapshot of all exchanges handled so far.
func (s *Server) Requests() []RequestRecord {
	return s.requests.Records()
}

// Close stops accepting connections and waits for in-flight handlers.
func (s *Server) Close() {
	s.closeMu.Do(func() {
		close(s.closing)
		if s.ln != nil {
			_ = s.ln.Close()
		}
		s.handlers.Wait()
	})
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			select {
			case <-s.closing:
				return
			default:
			}
			s.cfg.ErrorLog.Printf("accept: %s", err)
			if errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}
		s.handlers.Add(1)
		go func() {
			defer s.handlers.Done()
			s.serveConn(conn)
		}()
	}
}

// serveConn handles exactly one exchange and then closes the connection.
// Any failure here is contained: the accept loop never sees it.
func (s *Server) serveConn(conn net.Conn) {
	defer conn.Close()
	defer func() {
		if r := recover(); r != nil {
			s.cfg.ErrorLog.Printf("panic in connection handler: %+v", r)
		}
	}()
	if err := conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout)); err != nil {
		s.cfg.ErrorLog.Printf("set read deadline: %s", err)
		return
	}
	s.handle(conn)
}
