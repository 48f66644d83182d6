package tree

import (
	"context"
	"fmt"

	"github.com/sdejongh/codecompass/pkg/ignore"
	"github.com/sdejongh/codecompass/pkg/logging"
	"github.com/sdejongh/codecompass/pkg/storage"
)

// Build walks base top-down and returns the root directory node holding every
// entry the matcher keeps. Ignored directories are never descended into.
// Failing to list the root is an error; an unreadable subdirectory stays in
// the tree as an empty directory.
func Build(ctx context.Context, base storage.Backend, matcher *ignore.Matcher) (*Node, error) {
	return build(ctx, base, matcher, logging.NewNullLogger())
}

func build(ctx context.Context, base storage.Backend, matcher *ignore.Matcher, logger logging.Logger) (*Node, error) {
	root := NewDir("", "")

	entries, err := base.ReadDir(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list base root: %w", err)
	}

	b := &builder{base: base, matcher: matcher, logger: logger}
	if err := b.fill(ctx, root, entries); err != nil {
		return nil, err
	}
	return root, nil
}

type builder struct {
	base    storage.Backend
	matcher *ignore.Matcher
	logger  logging.Logger
}

func (b *builder) fill(ctx context.Context, dir *Node, entries []storage.FileInfo) error {
	for _, entry := range entries {
		relPath := joinRel(dir.RelPath, entry.Name)
		kind := KindFile
		if entry.IsDir {
			kind = KindDir
		}
		if b.matcher.ShouldIgnoreEntry(relPath, entry.IsDir) {
			b.logger.Debug(ctx, "Ignored", logging.Fields{"path": relPath, "kind": kind.String()})
			continue
		}

		if !entry.IsDir {
			dir.Add(NewFile(entry.Name, relPath, entry.Size))
			continue
		}

		child := NewDir(entry.Name, relPath)
		dir.Add(child)
		if entry.Symlink {
			// Linked directories are listed but never walked
			continue
		}
		if err := b.descend(ctx, child); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) descend(ctx context.Context, dir *Node) error {
	entries, err := b.base.ReadDir(ctx, dir.RelPath)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		b.logger.Warn(ctx, "Cannot read directory, keeping it empty", logging.Fields{
			"path":  dir.RelPath,
			"error": err.Error(),
		})
		return nil
	}
	return b.fill(ctx, dir, entries)
}
