package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sdejongh/codecompass/internal/platform"
	"github.com/sdejongh/codecompass/pkg/ignore"
)

// DefaultDebounce is used when no debounce window is configured
const DefaultDebounce = 500 * time.Millisecond

// ChangeEvent describes the last change seen in a debounce window
type ChangeEvent struct {
	Root       string // watched root the change belongs to
	Path       string // slash-separated path relative to Root
	ChangeType string // "create", "write", "remove", "rename"
}

// Watcher watches project roots and reports settled changes.
// Paths the matcher ignores are neither watched nor reported.
type Watcher struct {
	watcher  *fsnotify.Watcher
	matcher  *ignore.Matcher
	debounce time.Duration
	onChange func(ChangeEvent)

	mu    sync.Mutex
	roots []string
	skip  []string
}

// New creates a watcher; onChange runs on its own goroutine after each
// debounce window
func New(matcher *ignore.Matcher, debounce time.Duration, onChange func(ChangeEvent)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		watcher:  w,
		matcher:  matcher,
		debounce: debounce,
		onChange: onChange,
	}, nil
}

// Skip excludes a file or directory from watching and reporting, e.g. the
// report directory or log file of the run being watched. Call it before AddRoot.
func (w *Watcher) Skip(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	w.mu.Lock()
	w.skip = append(w.skip, platform.NormalizePath(abs))
	w.mu.Unlock()
	return nil
}

func (w *Watcher) skipped(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, s := range w.skip {
		if path == s || strings.HasPrefix(path, s+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// AddRoot watches root and every non-ignored directory below it
func (w *Watcher) AddRoot(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	w.mu.Lock()
	w.roots = append(w.roots, abs)
	w.mu.Unlock()

	return w.addTree(abs, abs)
}

func (w *Watcher) addTree(root, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Vanished or unreadable entries are skipped
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.skipped(path) {
			return filepath.SkipDir
		}
		rel, err := platform.SlashRel(root, path)
		if err != nil {
			return nil
		}
		if rel != "" && w.matcher.ShouldIgnoreEntry(rel, true) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// rootOf returns the watched root containing path
func (w *Watcher) rootOf(path string) string {
	w.mu.Lock()
	defer w.mu.Unlock()

	best := ""
	for _, root := range w.roots {
		if (path == root || strings.HasPrefix(path, root+string(filepath.Separator))) && len(root) > len(best) {
			best = root
		}
	}
	return best
}

// Run processes events until ctx is cancelled or the watcher fails
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var mu sync.Mutex
	var last ChangeEvent
	debouncer := NewDebouncer(w.debounce, func() {
		mu.Lock()
		event := last
		mu.Unlock()
		if w.onChange != nil {
			w.onChange(event)
		}
	})
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			changeType := opToChangeType(event.Op)
			if changeType == "" {
				continue
			}

			root := w.rootOf(event.Name)
			if root == "" || w.skipped(event.Name) {
				continue
			}
			rel, err := platform.SlashRel(root, event.Name)
			if err != nil {
				continue
			}

			isDir := false
			if info, err := os.Stat(event.Name); err == nil {
				isDir = info.IsDir()
			}
			if rel != "" && w.matcher.ShouldIgnoreEntry(rel, isDir) {
				continue
			}

			if isDir && event.Op.Has(fsnotify.Create) {
				_ = w.addTree(root, event.Name)
			}

			mu.Lock()
			last = ChangeEvent{Root: root, Path: rel, ChangeType: changeType}
			mu.Unlock()
			debouncer.Trigger()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

func opToChangeType(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "write"
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	default:
		return ""
	}
}
