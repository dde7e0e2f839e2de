package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/gemrest/september/internal/logfields"
)

// Span times one phase of a request (capsule fetch, conversion).
type Span struct {
	ctx     context.Context
	name    string
	start   time.Time
	elapsed time.Duration
	ended   bool
	err     error
	now     func() time.Time
}

// StartSpan begins timing the named phase.
func StartSpan(ctx context.Context, name string) *Span {
	return startSpanAt(ctx, name, time.Now)
}

func startSpanAt(ctx context.Context, name string, now func() time.Time) *Span {
	return &Span{ctx: ctx, name: name, start: now(), now: now}
}

// RecordError attaches an error reported when the span ends.
func (s *Span) RecordError(err error) {
	if err != nil {
		s.err = err
	}
}

// End stops the span, logs it at debug level and returns the elapsed time.
// Calling End again returns the first measurement.
func (s *Span) End() time.Duration {
	if s.ended {
		return s.elapsed
	}
	s.ended = true
	s.elapsed = s.now().Sub(s.start)

	attrs := []slog.Attr{slog.String("span", s.name), logfields.Duration(s.elapsed)}
	if s.err != nil {
		attrs = append(attrs, logfields.Error(s.err))
	}
	DebugContext(s.ctx, "Span ended", attrs...)
	return s.elapsed
}

// Elapsed returns the time since start, or the final measurement once ended.
func (s *Span) Elapsed() time.Duration {
	if s.ended {
		return s.elapsed
	}
	return s.now().Sub(s.start)
}
