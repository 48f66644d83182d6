package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo represents metadata about a file or directory
type FileInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
	IsDir   bool

	// Symlink marks a link entry; IsDir then describes the link target.
	// Walkers must not descend into linked directories.
	Symlink bool
}

// Backend defines the read-only view of a project tree used by the comparator.
// All paths are slash-separated and relative to the backend root; "" is the root.
// Implementations include the local filesystem and any go-billy filesystem.
type Backend interface {
	// ReadDir lists the direct children of a directory
	ReadDir(ctx context.Context, path string) ([]FileInfo, error)

	// Read opens a file for reading
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists checks if a file or directory exists
	Exists(ctx context.Context, path string) (bool, error)

	// Stat returns file metadata
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// Root returns the display location of the tree
	Root() string

	// Close releases any resources held by the backend
	Close() error
}
