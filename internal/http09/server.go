// Package http09 serves capsules to HTTP/0.9 clients over plain TCP.
//
// A client sends one request line, either "GET /path" or a bare "/path", and
// receives the capsule body with no status line or headers. The connection is
// closed after the body.
package http09

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gemrest/september/internal/config"
	"github.com/gemrest/september/internal/foundation/errors"
	"github.com/gemrest/september/internal/gateway"
	"github.com/gemrest/september/internal/logfields"
	"github.com/gemrest/september/internal/metrics"
	"github.com/gemrest/september/internal/observability"
	"github.com/gemrest/september/internal/route"
)

// maxRequestLine bounds the request line including its terminator.
const maxRequestLine = 2048

// requestReadTimeout bounds the wait for the request line.
const requestReadTimeout = 10 * time.Second

// Accept errors other than a closed listener are retried after a pause that
// doubles from minAcceptBackoff up to maxAcceptBackoff.
const (
	minAcceptBackoff = 5 * time.Millisecond
	maxAcceptBackoff = time.Second
)

// Retriever fetches a classified target. *gateway.Gateway implements it.
type Retriever interface {
	Retrieve(ctx context.Context, path string, target route.Target) (*gateway.Retrieval, error)
}

// Server is the HTTP/0.9 listener.
type Server struct {
	port         int
	root         string
	fetchTimeout time.Duration
	retriever    Retriever
	recorder     metrics.Recorder

	// pause waits d or until ctx is done, reporting whether it waited in full.
	pause func(ctx context.Context, d time.Duration) bool

	wg sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Server) {
		if r != nil {
			s.recorder = r
		}
	}
}

// New returns a Server for the HTTP/0.9 settings in cfg.
func New(cfg *config.Config, retriever Retriever, opts ...Option) *Server {
	s := &Server{
		port:         cfg.HTTP09.Port,
		root:         cfg.Root,
		fetchTimeout: cfg.Fetch.Timeout,
		retriever:    retriever,
		recorder:     metrics.NoopRecorder{},
		pause:        sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Listen binds the configured port.
func (s *Server) Listen(ctx context.Context) (net.Listener, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to bind HTTP/0.9 listener").
			WithContext("port", s.port).
			Fatal().
			Build()
	}
	return ln, nil
}

// ListenAndServe binds the configured port and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := s.Listen(ctx)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then closes ln and
// waits for in-flight connections. It returns nil after a cancellation.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	observability.InfoContext(ctx, "HTTP/0.9 server listening", logfields.Addr(ln.Addr().String()))

	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()
	defer s.wg.Wait()

	var backoff time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if stderrors.Is(err, net.ErrClosed) {
				return err
			}
			backoff = min(max(2*backoff, minAcceptBackoff), maxAcceptBackoff)
			observability.WarnContext(ctx, "HTTP/0.9 accept error; retrying",
				logfields.Error(err), logfields.Duration(backoff))
			if !s.pause(ctx, backoff) {
				return nil
			}
			continue
		}
		backoff = 0

		s.recorder.IncHTTP09Connection()
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(ctx, conn)
		}()
	}
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer func() { _ = conn.Close() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	ctx = observability.WithRequestID(ctx, uuid.NewString())
	peer := logfields.RemoteAddr(conn.RemoteAddr().String())

	if err := s.serveConn(ctx, conn); err != nil {
		observability.WarnContext(ctx, "HTTP/0.9 request failed", peer, logfields.Error(err))
	}
}

func (s *Server) serveConn(ctx context.Context, conn net.Conn) error {
	_ = conn.SetReadDeadline(time.Now().Add(requestReadTimeout))
	line, err := readRequestLine(conn)
	if err != nil {
		return err
	}
	path, err := ParseRequest(line)
	if err != nil {
		return err
	}

	target, err := route.Classify(path, false, s.root)
	if err != nil {
		return err
	}
	ctx = observability.WithMode(ctx, target.Mode.String())
	ctx = observability.WithTarget(ctx, target.URL.String())

	ret, err := s.retriever.Retrieve(ctx, path, target)
	if err != nil {
		return err
	}

	if s.fetchTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(s.fetchTimeout))
	}
	resp := ret.Response
	if resp.MediaType().IsImage() {
		_, err = conn.Write(resp.Body)
	} else {
		_, err = io.WriteString(conn, resp.Content())
	}
	if err != nil {
		return fmt.Errorf("write response: %w", err)
	}

	observability.InfoContext(ctx, "Served HTTP/0.9 request",
		logfields.GeminiStatus(resp.Code),
		logfields.BodyBytes(len(resp.Body)))
	return nil
}

// readRequestLine reads up to the first newline. A final line without a
// terminator is accepted at EOF.
func readRequestLine(r io.Reader) (string, error) {
	br := bufio.NewReaderSize(r, maxRequestLine)
	line, err := br.ReadSlice('\n')
	switch {
	case err == nil:
	case stderrors.Is(err, bufio.ErrBufferFull):
		return "", errors.ValidationError("HTTP/0.9 request line too long").Build()
	case stderrors.Is(err, io.EOF) && len(line) > 0:
	default:
		return "", fmt.Errorf("read request: %w", err)
	}
	return string(line), nil
}

// ParseRequest extracts the path from a request line. "GET <path> ..." yields
// the first field after the method, defaulting to "/"; a line starting with
// "/" is the path itself.
func ParseRequest(line string) (string, error) {
	line = strings.TrimSpace(line)
	if rest, ok := strings.CutPrefix(line, "GET "); ok {
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return "/", nil
		}
		return fields[0], nil
	}
	if strings.HasPrefix(line, "/") {
		return line, nil
	}
	return "", errors.ValidationError("invalid HTTP/0.9 request").
		WithContext("line", line).
		Build()
}
