package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/go-git/go-billy/v5"
)

// Billy exposes a directory of any go-billy filesystem as a Backend.
// Used with memfs for in-memory trees and with osfs for chrooted local trees.
type Billy struct {
	fs   billy.Filesystem
	root string
}

// NewBilly creates a backend rooted at root inside fs
func NewBilly(fs billy.Filesystem, root string) *Billy {
	return &Billy{fs: fs, root: root}
}

func (b *Billy) fullPath(rel string) string {
	if rel == "" {
		return b.root
	}
	return b.fs.Join(b.root, path.Clean(rel))
}

// ReadDir lists the direct children of a directory
func (b *Billy) ReadDir(ctx context.Context, rel string) ([]FileInfo, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	list, err := b.fs.ReadDir(b.fullPath(rel))
	if err != nil {
		return nil, fmt.Errorf("billy: readdir %q: %w", rel, err)
	}

	infos := make([]FileInfo, 0, len(list))
	for _, info := range list {
		fi := FileInfo{
			Name:    info.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			IsDir:   info.IsDir(),
		}
		if info.Mode()&os.ModeSymlink != 0 {
			fi.Symlink = true
			if target, err := b.fs.Stat(b.fs.Join(b.fullPath(rel), info.Name())); err == nil {
				fi.IsDir = target.IsDir()
			}
		}
		infos = append(infos, fi)
	}
	return infos, nil
}

// Read opens a file for reading
func (b *Billy) Read(ctx context.Context, rel string) (io.ReadCloser, error) {
	f, err := b.fs.Open(b.fullPath(rel))
	if err != nil {
		return nil, fmt.Errorf("billy: open %q: %w", rel, err)
	}
	return f, nil
}

// Exists checks if a file or directory exists
func (b *Billy) Exists(ctx context.Context, rel string) (bool, error) {
	_, err := b.fs.Stat(b.fullPath(rel))
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, fmt.Errorf("billy: stat %q: %w", rel, err)
	}
}

// Stat returns file metadata
func (b *Billy) Stat(ctx context.Context, rel string) (*FileInfo, error) {
	info, err := b.fs.Stat(b.fullPath(rel))
	if err != nil {
		return nil, fmt.Errorf("billy: stat %q: %w", rel, err)
	}
	return &FileInfo{
		Name:    info.Name(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
		IsDir:   info.IsDir(),
	}, nil
}

// Root returns the root directory inside the filesystem
func (b *Billy) Root() string {
	return b.fs.Join(b.fs.Root(), b.root)
}

// Close is a no-op; the filesystem is owned by the caller
func (b *Billy) Close() error {
	return nil
}
