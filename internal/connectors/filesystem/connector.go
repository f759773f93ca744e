package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/logger"
)

// ErrClosed is returned by Watch after Close.
var ErrClosed = errors.New("filesystem: connector closed")

const changeBuffer = 64

// Connector reads note files below a root directory.
// Hidden files and directories are skipped.
type Connector struct {
	root       string
	extensions []string

	mu       sync.Mutex
	watchers []*fsnotify.Watcher
	closed   bool
}

// New creates a connector for root. When extensions are given (with the
// dot, e.g. ".md") only matching files are read.
func New(root string, extensions ...string) *Connector {
	exts := make([]string, len(extensions))
	for i, e := range extensions {
		exts[i] = strings.ToLower(e)
	}
	return &Connector{root: filepath.Clean(root), extensions: exts}
}

// Root returns the watched directory.
func (c *Connector) Root() string {
	return c.root
}

// Validate checks that the root exists and is a directory.
func (c *Connector) Validate() error {
	info, err := os.Stat(c.root)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, c.root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, c.root)
	}
	return nil
}

// ResourceID maps a file path to a stable resource identifier: the
// slash-separated path relative to the root.
func (c *Connector) ResourceID(path string) string {
	rel, err := filepath.Rel(c.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// FullSync walks the root and emits every readable note file.
// Both channels are closed when the walk ends.
func (c *Connector) FullSync(ctx context.Context) (<-chan domain.RawDocument, <-chan error) {
	docs := make(chan domain.RawDocument)
	errs := make(chan error, 1)

	go func() {
		defer close(docs)
		defer close(errs)

		err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if c.skip(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !c.wanted(path) {
				return nil
			}

			raw, err := readRaw(path)
			if err != nil {
				logger.Warn("Skipping %s: %v", path, err)
				return nil
			}
			select {
			case docs <- *raw:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})
		if err != nil {
			errs <- fmt.Errorf("walking %s: %w", c.root, err)
		}
	}()

	return docs, errs
}

// Watch emits changes to note files until ctx is cancelled or Close is
// called. New subdirectories are watched as they appear.
func (c *Connector) Watch(ctx context.Context) (<-chan domain.RawDocumentChange, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.mu.Unlock()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := c.addRecursive(w, c.root); err != nil {
		w.Close()
		return nil, err
	}

	c.mu.Lock()
	c.watchers = append(c.watchers, w)
	c.mu.Unlock()

	changes := make(chan domain.RawDocumentChange, changeBuffer)
	go func() {
		defer close(changes)
		defer w.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Create) && isDir(event.Name) {
					if !c.skip(event.Name) {
						if err := c.addRecursive(w, event.Name); err != nil {
							logger.Warn("Watching %s: %v", event.Name, err)
						}
					}
					continue
				}
				change := c.handleFsEvent(event)
				if change == nil {
					continue
				}
				select {
				case changes <- *change:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("Watch error on %s: %v", c.root, err)
			}
		}
	}()

	return changes, nil
}

// handleFsEvent converts a filesystem event into a change, or nil when the
// event is not about a note file.
func (c *Connector) handleFsEvent(event fsnotify.Event) *domain.RawDocumentChange {
	if c.skip(event.Name) || !c.wanted(event.Name) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return &domain.RawDocumentChange{
			Type: domain.ChangeDeleted,
			Document: domain.RawDocument{
				URI:      event.Name,
				MIMEType: domain.MIMETypeForExtension(filepath.Ext(event.Name)),
			},
		}
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		if isDir(event.Name) {
			return nil
		}
		raw, err := readRaw(event.Name)
		if err != nil {
			logger.Debug("Ignoring %s on %s: %v", event.Op, event.Name, err)
			return nil
		}
		changeType := domain.ChangeUpdated
		if event.Has(fsnotify.Create) {
			changeType = domain.ChangeCreated
		}
		return &domain.RawDocumentChange{Type: changeType, Document: *raw}
	default:
		return nil
	}
}

// Close stops all watchers.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	var errs []error
	for _, w := range c.watchers {
		errs = append(errs, w.Close())
	}
	c.watchers = nil
	return errors.Join(errs...)
}

func (c *Connector) addRecursive(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if c.skip(path) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// skip reports whether path is hidden relative to the root.
func (c *Connector) skip(path string) bool {
	rel, err := filepath.Rel(c.root, path)
	if err != nil {
		return isHidden(path)
	}
	return isHidden(rel)
}

func (c *Connector) wanted(path string) bool {
	if len(c.extensions) == 0 {
		return true
	}
	return slices.Contains(c.extensions, strings.ToLower(filepath.Ext(path)))
}

// isHidden reports whether any path element starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for part := range strings.SplitSeq(filepath.ToSlash(path), "/") {
		if part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func readRaw(path string) (*domain.RawDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &domain.RawDocument{
		URI:      path,
		MIMEType: domain.MIMETypeForExtension(filepath.Ext(path)),
		Content:  content,
	}, nil
}
