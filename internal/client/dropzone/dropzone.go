// Package dropzone turns a local directory into a drop target: files that
// appear in it are uploaded to a venture, one batch per burst of activity.
package dropzone

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/genio/internal/client/models"
	"github.com/dmitrijs2005/genio/internal/logging"
	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 500 * time.Millisecond

// Uploader receives each settled batch.
type Uploader interface {
	UploadFiles(ctx context.Context, ventureID string, payloads []models.Payload) ([]string, error)
}

// BatchFunc observes the outcome of each submitted batch.
type BatchFunc func(names []string, tokens []string, err error)

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

func WithBatchFunc(fn BatchFunc) Option {
	return func(w *Watcher) { w.onBatch = fn }
}

// Watcher watches one directory for one venture. Each path is submitted at
// most once; files present before Watch are ignored.
type Watcher struct {
	dir       string
	ventureID string
	up        Uploader
	debounce  time.Duration
	onBatch   BatchFunc
	log       logging.Logger
	ctx       context.Context

	fs       *fsnotify.Watcher
	done     chan struct{}
	loop     sync.WaitGroup
	flushing sync.WaitGroup
	once     sync.Once

	mu      sync.Mutex
	pending map[string]struct{}
	seen    map[string]struct{}
	timer   *time.Timer
	stopped bool
}

// Watch starts watching dir. Batches are submitted with a context detached
// from ctx's cancellation; call Stop to end the watch.
func Watch(ctx context.Context, dir, ventureID string, up Uploader, log logging.Logger, opts ...Option) (*Watcher, error) {
	st, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w := &Watcher{
		dir:       dir,
		ventureID: ventureID,
		up:        up,
		debounce:  DefaultDebounce,
		log:       log.With("component", "dropzone", "dir", dir, "venture", ventureID),
		ctx:       context.WithoutCancel(ctx),
		fs:        fw,
		done:      make(chan struct{}),
		pending:   make(map[string]struct{}),
		seen:      make(map[string]struct{}),
	}
	for _, o := range opts {
		o(w)
	}

	w.loop.Add(1)
	go w.watchLoop()

	w.log.Info(ctx, "watching for dropped files")
	return w, nil
}

// Stop ends the watch. A batch still waiting for its debounce is discarded;
// a batch already being submitted finishes before Stop returns.
func (w *Watcher) Stop() {
	w.once.Do(func() {
		w.mu.Lock()
		w.stopped = true
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()

		close(w.done)
		w.fs.Close()
		w.loop.Wait()
		w.flushing.Wait()

		w.log.Info(w.ctx, "watch stopped")
	})
}

func (w *Watcher) Dir() string { return w.dir }

func (w *Watcher) watchLoop() {
	defer w.loop.Done()

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.queue(event.Name)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn(w.ctx, "file watcher error", "err", err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) queue(path string) {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	if _, ok := w.seen[path]; ok {
		return
	}
	w.pending[path] = struct{}{}

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.flushing.Add(1)
	defer w.flushing.Done()

	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	sort.Strings(paths)

	var payloads []models.Payload
	var names []string
	for _, p := range paths {
		pl, err := models.PayloadFromPath(p)
		if err != nil {
			// directories and files removed again before the batch settled
			w.log.Debug(w.ctx, "skipping", "path", p, "err", err)
			continue
		}
		payloads = append(payloads, pl)
		names = append(names, pl.Name)
	}
	if len(payloads) == 0 {
		return
	}

	w.mu.Lock()
	for _, p := range payloads {
		w.seen[p.Path] = struct{}{}
	}
	w.mu.Unlock()

	tokens, err := w.up.UploadFiles(w.ctx, w.ventureID, payloads)
	if err != nil {
		w.log.Warn(w.ctx, "batch rejected", "files", len(payloads), "err", err)
	} else {
		w.log.Info(w.ctx, "batch submitted", "files", len(payloads))
	}
	if w.onBatch != nil {
		w.onBatch(names, tokens, err)
	}
}
