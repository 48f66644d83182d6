// Package ratelimit caps the read throughput of content hashing with a shared
// token bucket, so a comparison can run against a busy disk or network share.
package ratelimit

import (
	"context"
	"io"
	"sync"
	"time"
)

const minBucketSize = 64 * 1024

// Limiter is a token bucket shared by every reader it wraps
type Limiter struct {
	bytesPerSecond int64
	bucketSize     int64

	mu         sync.Mutex
	tokens     int64
	lastUpdate time.Time
	now        func() time.Time
}

// NewLimiter creates a limiter for the given rate. A rate of zero or less
// means unlimited and yields nil, which every function here accepts.
func NewLimiter(bytesPerSecond int64) *Limiter {
	if bytesPerSecond <= 0 {
		return nil
	}

	// One second of data, with a floor so small rates still read whole chunks
	bucketSize := bytesPerSecond
	if bucketSize < minBucketSize {
		bucketSize = minBucketSize
	}

	return &Limiter{
		bytesPerSecond: bytesPerSecond,
		bucketSize:     bucketSize,
		tokens:         bucketSize,
		lastUpdate:     time.Now(),
		now:            time.Now,
	}
}

// Rate returns the configured bytes per second
func (l *Limiter) Rate() int64 {
	if l == nil {
		return 0
	}
	return l.bytesPerSecond
}

// wait blocks until n tokens are available and takes them
func (l *Limiter) wait(ctx context.Context, n int64) error {
	for {
		l.mu.Lock()
		l.refill()
		if l.tokens >= n {
			l.tokens -= n
			l.mu.Unlock()
			return nil
		}
		delay := time.Duration(float64(n-l.tokens) / float64(l.bytesPerSecond) * float64(time.Second))
		l.mu.Unlock()

		if delay < time.Millisecond {
			delay = time.Millisecond
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// giveBack returns tokens taken for bytes that were never read. Callers must
// not hold mu.
func (l *Limiter) giveBack(n int64) {
	if n <= 0 {
		return
	}
	l.mu.Lock()
	l.tokens += n
	if l.tokens > l.bucketSize {
		l.tokens = l.bucketSize
	}
	l.mu.Unlock()
}

// refill adds tokens for the time elapsed since the last update; mu must be held
func (l *Limiter) refill() {
	now := l.now()
	add := int64(float64(now.Sub(l.lastUpdate)) / float64(time.Second) * float64(l.bytesPerSecond))
	if add > 0 {
		l.tokens += add
		if l.tokens > l.bucketSize {
			l.tokens = l.bucketSize
		}
		l.lastUpdate = now
	}
}

// Reader wraps an io.Reader with bandwidth limiting
type Reader struct {
	reader  io.Reader
	limiter *Limiter
	ctx     context.Context
}

// NewReader wraps r; a nil limiter returns r unchanged
func NewReader(ctx context.Context, r io.Reader, limiter *Limiter) io.Reader {
	if limiter == nil {
		return r
	}
	return &Reader{reader: r, limiter: limiter, ctx: ctx}
}

// Read reserves tokens for at most one bucket of data, reads, and returns the
// unused part of the reservation
func (r *Reader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}

	want := int64(len(p))
	if want > r.limiter.bucketSize {
		want = r.limiter.bucketSize
	}
	if want == 0 {
		return r.reader.Read(p)
	}

	if err := r.limiter.wait(r.ctx, want); err != nil {
		return 0, err
	}

	n, err := r.reader.Read(p[:want])
	r.limiter.giveBack(want - int64(n))
	return n, err
}

// ReadCloser wraps an io.ReadCloser with bandwidth limiting
type ReadCloser struct {
	Reader
	closer io.Closer
}

// NewReadCloser wraps rc; a nil limiter returns rc unchanged
func NewReadCloser(ctx context.Context, rc io.ReadCloser, limiter *Limiter) io.ReadCloser {
	if limiter == nil {
		return rc
	}
	return &ReadCloser{
		Reader: Reader{reader: rc, limiter: limiter, ctx: ctx},
		closer: rc,
	}
}

// Close closes the wrapped reader
func (rc *ReadCloser) Close() error {
	return rc.closer.Close()
}

// Wrapper returns a function that limits every reader it is given, suitable
// as a file comparator's reader wrapper. A nil limiter yields nil.
func (l *Limiter) Wrapper(ctx context.Context) func(io.ReadCloser) io.ReadCloser {
	if l == nil {
		return nil
	}
	return func(rc io.ReadCloser) io.ReadCloser {
		return NewReadCloser(ctx, rc, l)
	}
}
