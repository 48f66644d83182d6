package compare

import (
	"context"
	"io"

	"github.com/sdejongh/codecompass/pkg/storage"
)

// Result represents the outcome of comparing two files
type Result string

const (
	// Same indicates files have identical content
	Same Result = "same"
	// Different indicates files differ, or could not be read
	Different Result = "different"
)

// Comparison holds the result of comparing a file present in both trees
type Comparison struct {
	Path   string
	Result Result
	Reason string
	Err    error
}

// Identical reports whether the comparison found equal content
func (c *Comparison) Identical() bool {
	return c != nil && c.Result == Same
}

// ReaderWrapper decorates a file reader, e.g. to apply a bandwidth limit
type ReaderWrapper func(io.ReadCloser) io.ReadCloser

// ProgressFunc receives the bytes hashed so far for one side of a comparison
type ProgressFunc func(path string, current, total int64)

// Comparator decides whether the file at path has the same bytes in both trees.
// Failures never surface as errors; an unreadable file compares as Different.
type Comparator interface {
	Compare(ctx context.Context, base, target storage.Backend, path string) *Comparison

	// Name returns the name of the comparison method
	Name() string
}
