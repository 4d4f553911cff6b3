package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-runs validation whenever a component document changes.
// Events are debounced so editor write bursts trigger a single run.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
}

// New creates a watcher over root and every subdirectory.
func New(root string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", root, err)
	}

	return &Watcher{fsw: fsw, debounce: 200 * time.Millisecond}, nil
}

// Watch blocks until ctx is cancelled, invoking onChange with the changed
// file path after each debounced write or create event on a .md file.
func (w *Watcher) Watch(ctx context.Context, onChange func(path string) error) error {
	var (
		timer   *time.Timer
		pending string
	)
	fire := make(chan string, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			if !strings.HasSuffix(ev.Name, ".md") {
				continue
			}
			pending = ev.Name
			if timer != nil {
				timer.Stop()
			}
			name := pending
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- name:
				default:
				}
			})
		case name := <-fire:
			if err := onChange(name); err != nil {
				return err
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch error: %w", err)
		}
	}
}

// Close releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
