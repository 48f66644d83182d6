package ratelimit

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestNewLimiter(t *testing.T) {
	tests := []struct {
		name       string
		rate       int64
		wantNil    bool
		wantBucket int64
	}{
		{"Fast", 1024 * 1024, false, 1024 * 1024},
		{"SlowUsesFloor", 1000, false, minBucketSize},
		{"Zero", 0, true, 0},
		{"Negative", -100, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := NewLimiter(tt.rate)
			if (limiter == nil) != tt.wantNil {
				t.Fatalf("NewLimiter(%d) nil = %v, want %v", tt.rate, limiter == nil, tt.wantNil)
			}
			if tt.wantNil {
				if limiter.Rate() != 0 {
					t.Errorf("nil limiter Rate() = %d, want 0", limiter.Rate())
				}
				return
			}
			if limiter.bucketSize != tt.wantBucket || limiter.tokens != tt.wantBucket {
				t.Errorf("bucket = %d, tokens = %d, want %d full", limiter.bucketSize, limiter.tokens, tt.wantBucket)
			}
			if limiter.Rate() != tt.rate {
				t.Errorf("Rate() = %d, want %d", limiter.Rate(), tt.rate)
			}
		})
	}
}

func TestNewReaderNilLimiter(t *testing.T) {
	base := strings.NewReader("content")
	if NewReader(context.Background(), base, nil) != io.Reader(base) {
		t.Error("NewReader() should return the original reader without a limiter")
	}

	rc := io.NopCloser(strings.NewReader("content"))
	if NewReadCloser(context.Background(), rc, nil) != rc {
		t.Error("NewReadCloser() should return the original reader without a limiter")
	}

	var limiter *Limiter
	if limiter.Wrapper(context.Background()) != nil {
		t.Error("Wrapper() on a nil limiter should be nil")
	}
}

func TestReaderReadsEverything(t *testing.T) {
	content := []byte("0123456789abcdef")
	reader := NewReader(context.Background(), bytes.NewReader(content), NewLimiter(1024*1024))

	var result []byte
	buf := make([]byte, 4)
	for {
		n, err := reader.Read(buf)
		result = append(result, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
	}

	if !bytes.Equal(result, content) {
		t.Errorf("read %q, want %q", result, content)
	}
}

func TestReaderContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := NewReader(ctx, bytes.NewReader(make([]byte, 1024)), NewLimiter(1024*1024))
	if _, err := reader.Read(make([]byte, 100)); !errors.Is(err, context.Canceled) {
		t.Errorf("Read() error = %v, want context.Canceled", err)
	}
}

func TestReaderWaitHonoursContext(t *testing.T) {
	limiter := NewLimiter(1000)
	limiter.tokens = 0
	limiter.now = func() time.Time { return limiter.lastUpdate }

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	reader := NewReader(ctx, bytes.NewReader(make([]byte, 4096)), limiter)
	start := time.Now()
	_, err := reader.Read(make([]byte, 4096))

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Read() error = %v, want context.DeadlineExceeded", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("Read() kept waiting after the context expired")
	}
}

func TestReaderReturnsUnusedTokens(t *testing.T) {
	limiter := NewLimiter(1024 * 1024)
	limiter.now = func() time.Time { return limiter.lastUpdate }
	full := limiter.tokens

	reader := NewReader(context.Background(), strings.NewReader("abc"), limiter)
	n, _ := reader.Read(make([]byte, 1000))

	if n != 3 {
		t.Fatalf("Read() n = %d, want 3", n)
	}
	if limiter.tokens != full-3 {
		t.Errorf("tokens = %d, want %d", limiter.tokens, full-3)
	}
}

func TestReadCloserClose(t *testing.T) {
	closed := false
	rc := &closeRecorder{Reader: strings.NewReader("test content"), closed: &closed}

	reader := NewReadCloser(context.Background(), rc, NewLimiter(1024*1024))
	if _, ok := reader.(*ReadCloser); !ok {
		t.Fatalf("NewReadCloser() = %T, want *ReadCloser", reader)
	}

	data, err := io.ReadAll(reader)
	if err != nil || string(data) != "test content" {
		t.Fatalf("ReadAll() = %q, %v", data, err)
	}
	if err := reader.Close(); err != nil || !closed {
		t.Errorf("Close() error = %v, closed = %v", err, closed)
	}
}

type closeRecorder struct {
	io.Reader
	closed *bool
}

func (c *closeRecorder) Close() error {
	*c.closed = true
	return nil
}

func TestWrapper(t *testing.T) {
	limiter := NewLimiter(1024 * 1024)
	wrap := limiter.Wrapper(context.Background())

	wrapped := wrap(io.NopCloser(strings.NewReader("x")))
	if _, ok := wrapped.(*ReadCloser); !ok {
		t.Errorf("Wrapper()(rc) = %T, want *ReadCloser", wrapped)
	}
}

func TestTokenBucketRefill(t *testing.T) {
	t.Run("Partial", func(t *testing.T) {
		limiter := NewLimiter(1000)
		start := limiter.lastUpdate
		limiter.tokens = 0
		limiter.now = func() time.Time { return start.Add(100 * time.Millisecond) }

		limiter.refill()

		if limiter.tokens < 99 || limiter.tokens > 100 {
			t.Errorf("tokens = %d, want ~100", limiter.tokens)
		}
	})

	t.Run("Capped", func(t *testing.T) {
		limiter := NewLimiter(1000)
		start := limiter.lastUpdate
		limiter.tokens = limiter.bucketSize - 10
		limiter.now = func() time.Time { return start.Add(time.Minute) }

		limiter.refill()

		if limiter.tokens != limiter.bucketSize {
			t.Errorf("tokens = %d, want %d", limiter.tokens, limiter.bucketSize)
		}
	})

	t.Run("GiveBackCapped", func(t *testing.T) {
		limiter := NewLimiter(1000)
		limiter.giveBack(500)
		if limiter.tokens != limiter.bucketSize {
			t.Errorf("tokens = %d, want %d", limiter.tokens, limiter.bucketSize)
		}
	})
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"", 0, false},
		{"0", 0, false},
		{"2048", 2048, false},
		{"512K", 512 * 1024, false},
		{"10M", 10 * 1024 * 1024, false},
		{"10mb", 10 * 1024 * 1024, false},
		{"1.5G", 3 * 1024 * 1024 * 1024 / 2, false},
		{"5MB/s", 5 * 1024 * 1024, false},
		{"fast", 0, true},
		{"-1M", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRate(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func BenchmarkRateLimitedRead(b *testing.B) {
	content := make([]byte, 1024*1024)
	limiter := NewLimiter(100 * 1024 * 1024)
	ctx := context.Background()
	buf := make([]byte, 64*1024)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reader := NewReader(ctx, bytes.NewReader(content), limiter)
		for {
			if _, err := reader.Read(buf); err != nil {
				break
			}
		}
	}
}
