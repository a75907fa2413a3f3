package ventures

import (
	"strings"
	"sync"

	"github.com/dmitrijs2005/genio/internal/client/models"
)

type listener struct {
	id int
	fn func(string)
}

// MemoryRepository is a Repository kept entirely in process memory.
type MemoryRepository struct {
	mu        sync.RWMutex
	order     []string
	ventures  map[string]*models.Venture
	nextSubID int
	listeners []listener
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{ventures: make(map[string]*models.Venture)}
}

func (r *MemoryRepository) Add(v models.Venture) error {
	if strings.TrimSpace(v.Name) == "" {
		return ErrInvalidName
	}

	r.mu.Lock()
	if _, ok := r.ventures[v.ID]; ok {
		r.mu.Unlock()
		return ErrDuplicateID
	}
	c := v.Clone()
	r.ventures[v.ID] = &c
	r.order = append(r.order, v.ID)
	r.mu.Unlock()

	r.notify(v.ID)
	return nil
}

func (r *MemoryRepository) Update(id string, patch Patch) error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return ErrInvalidName
	}

	r.mu.Lock()
	v, ok := r.ventures[id]
	if !ok {
		r.mu.Unlock()
		return ErrNotFound
	}
	if patch.Name != nil {
		v.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		v.Description = *patch.Description
	}
	r.mu.Unlock()

	r.notify(id)
	return nil
}

func (r *MemoryRepository) Remove(id string) {
	r.mu.Lock()
	if _, ok := r.ventures[id]; !ok {
		r.mu.Unlock()
		return
	}
	delete(r.ventures, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	r.notify(id)
}

func (r *MemoryRepository) UpdateFiles(id string, transform FilesTransform) error {
	r.mu.Lock()
	v, ok := r.ventures[id]
	if !ok {
		r.mu.Unlock()
		return ErrNotFound
	}

	current := make([]models.AttachedFile, len(v.Files))
	copy(current, v.Files)
	next := transform(current)

	// keep our own backing array
	v.Files = make([]models.AttachedFile, len(next))
	copy(v.Files, next)
	r.mu.Unlock()

	r.notify(id)
	return nil
}

func (r *MemoryRepository) Get(id string) (models.Venture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.ventures[id]
	if !ok {
		return models.Venture{}, ErrNotFound
	}
	return v.Clone(), nil
}

func (r *MemoryRepository) List() []models.Venture {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Venture, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.ventures[id].Clone())
	}
	return out
}

func (r *MemoryRepository) Subscribe(fn func(ventureID string)) func() {
	r.mu.Lock()
	r.nextSubID++
	id := r.nextSubID
	r.listeners = append(r.listeners, listener{id: id, fn: fn})
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, l := range r.listeners {
			if l.id == id {
				r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
				return
			}
		}
	}
}

// notify runs outside the lock so listeners may read the repository.
func (r *MemoryRepository) notify(id string) {
	r.mu.RLock()
	ls := make([]listener, len(r.listeners))
	copy(ls, r.listeners)
	r.mu.RUnlock()

	for _, l := range ls {
		l.fn(id)
	}
}
