// Package gemini is a minimal client for the Gemini protocol.
package gemini

import (
	"bufio"
	"context"
	"crypto/tls"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gemrest/september/internal/foundation/errors"
)

const (
	// DefaultPort is used when the URL has none.
	DefaultPort = "1965"

	maxRequestBytes = 1024
	maxMetaBytes    = 1024
	// status, space, meta, CRLF
	maxHeaderBytes = 2 + 1 + maxMetaBytes + 2
)

// Fetcher retrieves a capsule resource.
type Fetcher interface {
	Fetch(ctx context.Context, u *url.URL) (*Response, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, u *url.URL) (*Response, error)

func (f FetcherFunc) Fetch(ctx context.Context, u *url.URL) (*Response, error) { return f(ctx, u) }

// Client fetches over TLS. Capsules commonly use self-signed certificates
// and trust-on-first-use is not tracked, so certificates are not verified.
type Client struct {
	// Timeout bounds a whole fetch. Zero means the request context alone.
	Timeout time.Duration
	// MaxBodyBytes caps success bodies. Zero means no cap.
	MaxBodyBytes int64
	// TLSConfig overrides the default client configuration.
	TLSConfig *tls.Config
}

// NewClient returns a Client with the given limits.
func NewClient(timeout time.Duration, maxBodyBytes int64) *Client {
	return &Client{Timeout: timeout, MaxBodyBytes: maxBodyBytes}
}

// Fetch performs one request. Redirects are returned, not followed.
func (c *Client) Fetch(ctx context.Context, u *url.URL) (*Response, error) {
	if u.Scheme != "gemini" {
		return nil, errors.GeminiError("unsupported scheme").WithURL(u).Build()
	}
	request := u.String() + "\r\n"
	if len(request)-2 > maxRequestBytes {
		return nil, errors.GeminiError("request URL exceeds 1024 bytes").WithURL(u).Build()
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = DefaultPort
	}

	dialer := tls.Dialer{Config: c.tlsConfig(host)}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		return nil, networkError(err, u, "failed to connect to capsule")
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if _, err := io.WriteString(conn, request); err != nil {
		return nil, networkError(err, u, "failed to send request")
	}

	br := bufio.NewReaderSize(conn, 2*maxHeaderBytes)
	code, meta, err := readHeader(br)
	if err != nil {
		return nil, err
	}

	resp := NewResponse(code, meta, nil)
	if resp.Status == StatusSuccess {
		body, err := readBody(br, c.MaxBodyBytes)
		if err != nil {
			return nil, networkError(err, u, "failed to read response body")
		}
		resp.Body = body
	}
	return resp, nil
}

func (c *Client) tlsConfig(host string) *tls.Config {
	if c.TLSConfig != nil {
		cfg := c.TLSConfig.Clone()
		if cfg.ServerName == "" {
			cfg.ServerName = host
		}
		return cfg
	}
	return &tls.Config{
		ServerName:         host,
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: true, // #nosec G402 -- capsules are self-signed
	}
}

func networkError(err error, u *url.URL, msg string) error {
	return errors.NetworkError(msg).WithCause(err).WithURL(u).Build()
}

func readHeader(br *bufio.Reader) (int, string, error) {
	line, err := br.ReadSlice('\n')
	if err != nil {
		if stderrors.Is(err, bufio.ErrBufferFull) {
			return 0, "", errors.GeminiError("response header too long").Build()
		}
		if len(line) == 0 {
			return 0, "", errors.WrapError(err, errors.CategoryNetwork, "no response header").Build()
		}
	}
	if len(line) > maxHeaderBytes {
		return 0, "", errors.GeminiError("response header too long").
			WithContext("length", len(line)).
			Build()
	}
	return ParseHeader(string(line))
}

// ParseHeader parses "<2 digits><space><meta>\r\n". The meta is limited to
// 1024 bytes.
func ParseHeader(line string) (int, string, error) {
	line = strings.TrimRight(line, "\r\n")
	if len(line) < 2 {
		return 0, "", errors.GeminiError("malformed response header").WithContext("header", line).Build()
	}
	code, err := strconv.Atoi(line[:2])
	if err != nil || code < 10 {
		return 0, "", errors.GeminiError("malformed status code").WithContext("header", line).Build()
	}
	rest := line[2:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return 0, "", errors.GeminiError("malformed response header").WithContext("header", line).Build()
	}
	meta := strings.TrimSpace(rest)
	if len(meta) > maxMetaBytes {
		return 0, "", errors.GeminiError("meta exceeds 1024 bytes").Build()
	}
	return code, meta, nil
}

// ErrBodyTooLarge is returned when a body exceeds the configured cap.
var ErrBodyTooLarge = stderrors.New("response body exceeds size limit")

func readBody(r io.Reader, limit int64) ([]byte, error) {
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	body, err := io.ReadAll(r)
	if err != nil && !(stderrors.Is(err, io.ErrUnexpectedEOF) && len(body) > 0) {
		return nil, err
	}
	if limit > 0 && int64(len(body)) > limit {
		return nil, fmt.Errorf("%w (%d bytes)", ErrBodyTooLarge, limit)
	}
	return body, nil
}
