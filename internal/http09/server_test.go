package http09

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/gemrest/september/internal/config"
	"github.com/gemrest/september/internal/gateway"
	"github.com/gemrest/september/internal/gemini"
	"github.com/gemrest/september/internal/metrics"
	"github.com/gemrest/september/internal/route"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeRetriever answers by target URL.
type fakeRetriever struct {
	mu        sync.Mutex
	responses map[string]*gemini.Response
	paths     []string
}

func (f *fakeRetriever) Retrieve(_ context.Context, path string, target route.Target) (*gateway.Retrieval, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, path)
	resp, ok := f.responses[target.URL.String()]
	if !ok {
		return nil, errors.New("no such capsule")
	}
	return &gateway.Retrieval{Target: target, Response: resp}, nil
}

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Root = "gemini://fuwn.me"
	cfg.HTTP09.Enabled = true
	return cfg
}

// startServer serves on a loopback port and stops when the test ends.
func startServer(t *testing.T, r Retriever, opts ...Option) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(testConfig(), r, opts...).Serve(ctx, ln) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	})
	return ln.Addr().String()
}

func exchange(t *testing.T, addr, request string) string {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))
	_, err = io.WriteString(conn, request)
	require.NoError(t, err)

	body, err := io.ReadAll(conn)
	require.NoError(t, err)
	return string(body)
}

func TestServeText(t *testing.T) {
	r := &fakeRetriever{responses: map[string]*gemini.Response{
		"gemini://fuwn.me/index.gmi":     gemini.NewResponse(20, "text/gemini", []byte("# Hi\n")),
		"gemini://example.org/latin.txt": gemini.NewResponse(20, "text/plain; charset=iso-8859-1", []byte("caf\xe9")),
	}}
	addr := startServer(t, r)

	assert.Equal(t, "# Hi\n", exchange(t, addr, "GET /index.gmi HTTP/1.0\r\n"))
	assert.Equal(t, "café", exchange(t, addr, "/proxy/example.org/latin.txt\n"))
}

func TestServeImageBytes(t *testing.T) {
	png := "\x89PNG\r\n\x1a\n\xff\xfe"
	r := &fakeRetriever{responses: map[string]*gemini.Response{
		"gemini://fuwn.me/cat.png": gemini.NewResponse(20, "image/png", []byte(png)),
	}}
	addr := startServer(t, r)

	assert.Equal(t, png, exchange(t, addr, "GET /cat.png\n"))
}

func TestRequestWithoutTerminator(t *testing.T) {
	r := &fakeRetriever{responses: map[string]*gemini.Response{
		"gemini://fuwn.me/": gemini.NewResponse(20, "text/gemini", []byte("root")),
	}}
	addr := startServer(t, r)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()
	_, err = io.WriteString(conn, "GET /")
	require.NoError(t, err)
	require.NoError(t, conn.(*net.TCPConn).CloseWrite())

	body, err := io.ReadAll(conn)
	require.NoError(t, err)
	assert.Equal(t, "root", string(body))
}

func TestFailuresCloseWithoutBody(t *testing.T) {
	r := &fakeRetriever{responses: map[string]*gemini.Response{}}
	addr := startServer(t, r)

	assert.Empty(t, exchange(t, addr, "POST / HTTP/1.0\r\n"))
	assert.Empty(t, exchange(t, addr, "GET /missing\n"))
	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Equal(t, []string{"/missing"}, r.paths)
}

func TestConnectionsCounted(t *testing.T) {
	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	r := &fakeRetriever{responses: map[string]*gemini.Response{
		"gemini://fuwn.me/": gemini.NewResponse(20, "text/gemini", []byte("x")),
	}}
	addr := startServer(t, r, WithRecorder(rec))

	exchange(t, addr, "GET /\n")
	exchange(t, addr, "/\n")

	assert.InDelta(t, 2.0, gatherCounter(t, reg, "september_http09_connections_total"), 0)
}

func gatherCounter(t *testing.T, reg *prom.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestListenAndServeBindFailure(t *testing.T) {
	taken, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer taken.Close()

	cfg := testConfig()
	cfg.HTTP09.Port = taken.Addr().(*net.TCPAddr).Port

	err = New(cfg, &fakeRetriever{}).ListenAndServe(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to bind HTTP/0.9 listener")
}

func TestParseRequest(t *testing.T) {
	tests := []struct {
		line    string
		want    string
		wantErr bool
	}{
		{"GET /a/b\r\n", "/a/b", false},
		{"GET /a HTTP/1.0\r\n", "/a", false},
		{"GET  /spaced\n", "/spaced", false},
		{"GET\n", "", true},
		{"/raw/example.org/\n", "/raw/example.org/", false},
		{"  /padded  \n", "/padded", false},
		{"HEAD /\n", "", true},
		{"\n", "", true},
		{"gemini://example.org/\n", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseRequest(tt.line)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// flakyListener fails Accept with each queued error (a nil entry yields a
// connection whose peer is already closed), then reports itself closed.
type flakyListener struct {
	mu    sync.Mutex
	steps []error
}

func (l *flakyListener) Accept() (net.Conn, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.steps) == 0 {
		return nil, net.ErrClosed
	}
	err := l.steps[0]
	l.steps = l.steps[1:]
	if err != nil {
		return nil, err
	}
	server, client := net.Pipe()
	_ = client.Close()
	return server, nil
}

func (l *flakyListener) Close() error   { return nil }
func (l *flakyListener) Addr() net.Addr { return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1)} }

func TestServeBacksOffOnAcceptErrors(t *testing.T) {
	tooMany := errors.New("accept: too many open files")
	tests := []struct {
		name  string
		steps []error
		want  []time.Duration
	}{
		{
			name:  "doubles between consecutive failures",
			steps: []error{tooMany, tooMany, tooMany},
			want:  []time.Duration{5 * time.Millisecond, 10 * time.Millisecond, 20 * time.Millisecond},
		},
		{
			name:  "resets after a successful accept",
			steps: []error{tooMany, tooMany, nil, tooMany},
			want:  []time.Duration{5 * time.Millisecond, 10 * time.Millisecond, 5 * time.Millisecond},
		},
		{
			name:  "capped at one second",
			steps: []error{tooMany, tooMany, tooMany, tooMany, tooMany, tooMany, tooMany, tooMany, tooMany},
			want: []time.Duration{
				5 * time.Millisecond, 10 * time.Millisecond, 20 * time.Millisecond, 40 * time.Millisecond,
				80 * time.Millisecond, 160 * time.Millisecond, 320 * time.Millisecond, 640 * time.Millisecond,
				time.Second,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(testConfig(), &fakeRetriever{})
			var waits []time.Duration
			s.pause = func(_ context.Context, d time.Duration) bool {
				waits = append(waits, d)
				return true
			}

			err := s.Serve(context.Background(), &flakyListener{steps: tt.steps})
			require.ErrorIs(t, err, net.ErrClosed)
			assert.Equal(t, tt.want, waits)
		})
	}
}

func TestServeStopsDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(testConfig(), &fakeRetriever{})
	s.pause = func(context.Context, time.Duration) bool {
		cancel()
		return false
	}

	err := s.Serve(ctx, &flakyListener{steps: []error{errors.New("accept failed")}})
	assert.NoError(t, err)
}
