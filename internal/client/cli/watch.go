package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/genio/internal/client/dropzone"
	"github.com/dmitrijs2005/genio/internal/filex"
)

// dropDirName is the parent of default drop directories.
const dropDirName = "genio-drop"

// Watch uploads every file dropped into a directory. Without a directory
// argument one is created under genio-drop/<venture id>.
func (a *App) Watch(ctx context.Context, args []string) error {
	v, err := a.ventureAt(args, "watch <n> [dir]")
	if err != nil {
		return err
	}

	a.mu.Lock()
	existing, ok := a.watchers[v.ID]
	a.mu.Unlock()
	if ok {
		a.sayf("Already watching %s", existing.Dir())
		return nil
	}

	var dir string
	if len(args) > 1 {
		dir = args[1]
	} else {
		dir, err = filex.EnsureSubDir(a.dropRoot, filepath.Join(dropDirName, v.ID))
		if err != nil {
			return err
		}
	}

	name := v.Name
	w, err := dropzone.Watch(ctx, dir, v.ID, a.controller, a.log, dropzone.WithBatchFunc(func(names, tokens []string, err error) {
		if err != nil {
			a.say(errorStyle.Render(fmt.Sprintf("drop into %q rejected: %v", name, err)))
			return
		}
		a.sayf("Dropped into %q: %s", name, strings.Join(names, ", "))
	}))
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	a.mu.Lock()
	a.watchers[v.ID] = w
	a.mu.Unlock()

	a.sayf("Watching %s for %q", w.Dir(), v.Name)
	return nil
}

func (a *App) Unwatch(ctx context.Context, args []string) error {
	v, err := a.ventureAt(args, "unwatch <n>")
	if err != nil {
		return err
	}
	if !a.stopWatcher(v.ID) {
		a.sayf("%q is not being watched", v.Name)
		return nil
	}
	a.sayf("Stopped watching for %q", v.Name)
	return nil
}

func (a *App) stopWatcher(ventureID string) bool {
	a.mu.Lock()
	w, ok := a.watchers[ventureID]
	delete(a.watchers, ventureID)
	a.mu.Unlock()

	if ok {
		w.Stop()
	}
	return ok
}

func (a *App) stopWatchers() {
	a.mu.Lock()
	ws := a.watchers
	a.watchers = make(map[string]*dropzone.Watcher)
	a.mu.Unlock()

	for _, w := range ws {
		w.Stop()
	}
}
