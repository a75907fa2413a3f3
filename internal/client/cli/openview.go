package cli

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/genio/internal/client/models"
	"github.com/dmitrijs2005/genio/internal/client/repositories/ventures"
)

type fileState struct {
	name   string
	status models.FileStatus
}

// openView follows one venture and reports every file status change.
type openView struct {
	ventureID   string
	unsubscribe func()

	mu     sync.Mutex
	closed bool
	last   map[string]fileState
}

func snapshotFiles(v models.Venture) map[string]fileState {
	m := make(map[string]fileState, len(v.Files))
	for _, f := range v.Files {
		m[f.Token] = fileState{name: f.Payload.Name, status: f.Status}
	}
	return m
}

// openVenture replaces the current view with one following v.
func (a *App) openVenture(v models.Venture) {
	a.closeView()

	ov := &openView{ventureID: v.ID, last: snapshotFiles(v)}
	ov.mu.Lock()
	ov.unsubscribe = a.repo.Subscribe(func(id string) {
		if id == ov.ventureID {
			a.refreshView(ov)
		}
	})
	ov.mu.Unlock()

	a.mu.Lock()
	a.view = ov
	a.mu.Unlock()
}

func (a *App) refreshView(ov *openView) {
	ov.mu.Lock()
	defer ov.mu.Unlock()
	if ov.closed {
		return
	}

	v, err := a.repo.Get(ov.ventureID)
	if errors.Is(err, ventures.ErrNotFound) {
		a.say(noticeStyle.Render("venture was deleted"))
		ov.closed = true
		ov.unsubscribe()
		return
	}
	if err != nil {
		return
	}

	next := snapshotFiles(v)
	for _, f := range v.Files {
		prev, seen := ov.last[f.Token]
		switch {
		case !seen:
			a.say(noticeStyle.Render("+ ") + f.Payload.Name + " " + statusBadge(f.Status))
		case prev.status != f.Status:
			line := fmt.Sprintf("%s: %s -> %s", f.Payload.Name, statusBadge(prev.status), statusBadge(f.Status))
			if f.Status == models.FileError && f.Error != "" {
				line += " " + errorStyle.Render(f.Error)
			}
			a.say(line)
		}
	}
	for token, prev := range ov.last {
		if _, ok := next[token]; !ok {
			a.say(noticeStyle.Render("- ") + prev.name + " removed")
		}
	}
	ov.last = next
}

func (a *App) closeView() {
	a.mu.Lock()
	ov := a.view
	a.view = nil
	a.mu.Unlock()
	if ov == nil {
		return
	}

	ov.mu.Lock()
	wasClosed := ov.closed
	ov.closed = true
	ov.mu.Unlock()
	if !wasClosed {
		ov.unsubscribe()
	}
}

func (a *App) openVentureID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.view == nil {
		return ""
	}
	return a.view.ventureID
}
