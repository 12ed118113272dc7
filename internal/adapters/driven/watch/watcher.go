// Package watch re-extracts file-backed sources when their files change.
package watch

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/semantica/internal/core/domain"
	"github.com/custodia-labs/semantica/internal/core/ports/driving"
	"github.com/custodia-labs/semantica/internal/core/services"
	"github.com/custodia-labs/semantica/internal/logger"
)

// SourceWatcher watches the files behind registered sources and runs
// extraction whenever one is written. Unchanged content hashes are absorbed
// by the source's version chain, so noisy editors cost nothing but a read.
type SourceWatcher struct {
	sources driving.SourceService
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	byPath  map[string]string // absolute file path -> source id
	done    chan struct{}
	started bool
}

// NewSourceWatcher creates a watcher over the given source service.
func NewSourceWatcher(sources driving.SourceService) *SourceWatcher {
	return &SourceWatcher{
		sources: sources,
		byPath:  make(map[string]string),
		done:    make(chan struct{}),
	}
}

// Start lists the registered sources, watches every file-backed one and
// begins dispatching re-extraction. Call Stop to clean up.
func (w *SourceWatcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = watcher

	sources, err := w.sources.List(ctx)
	if err != nil {
		watcher.Close()
		return err
	}

	watched := 0
	for _, source := range sources {
		if err := w.add(source.ID, source.URI); err != nil {
			logger.Warn("watching source %s: %v", source.ID, err)
			continue
		}
		watched++
	}

	w.started = true
	go w.loop(ctx)
	logger.Info("watching %d file-backed sources", watched)
	return nil
}

// Add registers one more source with the running watcher.
func (w *SourceWatcher) Add(sourceID, uri string) error {
	return w.add(sourceID, uri)
}

// Stop shuts down the watcher.
func (w *SourceWatcher) Stop() {
	if w.watcher != nil {
		w.watcher.Close()
	}
	if w.started {
		<-w.done
	}
}

func (w *SourceWatcher) add(sourceID, uri string) error {
	path := services.FilePath(uri)
	if path == "" {
		return domain.ErrUnsupportedType
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	if err := w.watcher.Add(abs); err != nil {
		return err
	}

	w.mu.Lock()
	w.byPath[abs] = sourceID
	w.mu.Unlock()
	return nil
}

func (w *SourceWatcher) loop(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.handle(ctx, event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error: %v", err)
		}
	}
}

func (w *SourceWatcher) handle(ctx context.Context, path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}

	w.mu.Lock()
	sourceID, ok := w.byPath[abs]
	w.mu.Unlock()
	if !ok {
		return
	}

	outcome, err := w.sources.ExtractFromURI(ctx, sourceID)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Warn("re-extracting source %s: %v", sourceID, err)
		}
		return
	}
	if outcome.Changed {
		logger.Info("source %s changed, now at version %d", sourceID, outcome.Version)
	}
}
