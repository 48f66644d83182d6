package compare

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
	"sync"
	"time"

	"github.com/sdejongh/codecompass/pkg/storage"
)

// Supported digest algorithms
const (
	AlgorithmSHA256 = "sha256"
	AlgorithmMD5    = "md5"
)

// DefaultBufferSize is the chunk size used when streaming file content
const DefaultBufferSize = 8192

const minBufferSize = 4096

// Options configures a HashComparator
type Options struct {
	// Algorithm is "sha256" (default) or "md5"
	Algorithm string
	// BufferSize is the read chunk size; values below 4096 are raised
	BufferSize int
	// ReaderWrapper is applied to every opened file
	ReaderWrapper ReaderWrapper
	// Progress is called while hashing, throttled
	Progress ProgressFunc
}

// HashComparator compares files by size, then by streamed content digest
type HashComparator struct {
	algorithm      string
	newHash        func() hash.Hash
	bufferSize     int
	bufferPool     *sync.Pool
	progressReport ProgressFunc
	readerWrapper  ReaderWrapper
}

// NewHashComparator creates a comparator; an unknown algorithm is an error
func NewHashComparator(opts Options) (*HashComparator, error) {
	algorithm := opts.Algorithm
	if algorithm == "" {
		algorithm = AlgorithmSHA256
	}

	var newHash func() hash.Hash
	switch algorithm {
	case AlgorithmSHA256:
		newHash = sha256.New
	case AlgorithmMD5:
		newHash = md5.New
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %s", algorithm)
	}

	bufferSize := opts.BufferSize
	if bufferSize == 0 {
		bufferSize = DefaultBufferSize
	}
	if bufferSize < minBufferSize {
		bufferSize = minBufferSize
	}

	return &HashComparator{
		algorithm:      algorithm,
		newHash:        newHash,
		bufferSize:     bufferSize,
		progressReport: opts.Progress,
		readerWrapper:  opts.ReaderWrapper,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}, nil
}

// Compare checks whether path has the same bytes under base and target.
// Size is checked first so differently sized files are never read.
func (c *HashComparator) Compare(ctx context.Context, base, target storage.Backend, path string) *Comparison {
	baseInfo, err := base.Stat(ctx, path)
	if err != nil {
		return different(path, "failed to stat base file", err)
	}
	targetInfo, err := target.Stat(ctx, path)
	if err != nil {
		return different(path, "failed to stat target file", err)
	}

	if baseInfo.Size != targetInfo.Size {
		return different(path, "file sizes differ", nil)
	}

	baseHash, err := c.computeHash(ctx, base, path, baseInfo.Size)
	if err != nil {
		return different(path, "failed to hash base file", err)
	}
	targetHash, err := c.computeHash(ctx, target, path, targetInfo.Size)
	if err != nil {
		return different(path, "failed to hash target file", err)
	}

	if baseHash != targetHash {
		return different(path, "file hashes differ", nil)
	}

	return &Comparison{
		Path:   path,
		Result: Same,
		Reason: "file hashes match",
	}
}

// Identical is a shorthand for Compare(...).Identical()
func (c *HashComparator) Identical(ctx context.Context, base, target storage.Backend, path string) bool {
	return c.Compare(ctx, base, target, path).Identical()
}

func different(path, reason string, err error) *Comparison {
	return &Comparison{
		Path:   path,
		Result: Different,
		Reason: reason,
		Err:    err,
	}
}

// computeHash streams a file through the configured digest
func (c *HashComparator) computeHash(ctx context.Context, backend storage.Backend, path string, size int64) (string, error) {
	reader, err := backend.Read(ctx, path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	if c.readerWrapper != nil {
		reader = c.readerWrapper(reader)
	}

	hasher := c.newHash()

	bufPtr := c.bufferPool.Get().(*[]byte)
	buffer := *bufPtr
	defer c.bufferPool.Put(bufPtr)

	const (
		progressReportInterval = 50 * time.Millisecond
		progressReportBytes    = 64 * 1024
	)
	var totalRead int64
	var lastReported int64
	lastReportTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		n, err := reader.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
			totalRead += int64(n)

			if c.progressReport != nil &&
				(totalRead-lastReported >= progressReportBytes || time.Since(lastReportTime) >= progressReportInterval) {
				c.progressReport(path, totalRead, size)
				lastReported = totalRead
				lastReportTime = time.Now()
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
	}

	if c.progressReport != nil && totalRead > lastReported {
		c.progressReport(path, totalRead, size)
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

// Algorithm returns the digest algorithm in use
func (c *HashComparator) Algorithm() string {
	return c.algorithm
}

// Name returns the comparator name
func (c *HashComparator) Name() string {
	return "hash-" + c.algorithm
}
