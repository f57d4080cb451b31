package listing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nextmeal/backoffice/internal/domain"
)

// Handle vista de cualquier recurso.
type Handle interface {
	Reload(ctx context.Context) error
	SetSearch(term string)
	SettleSearch()
	SetPage(page int)
	SetSort(field string, desc bool)
	Snapshot() any
	Close()
}

// Factory crea la vista de un recurso.
type Factory func() Handle

// Registry vistas abiertas por sesión y recurso. Cada sesión tiene a lo sumo una vista por recurso.
// Las sesiones que dejan de usarse se liberan con SweepIdle.
type Registry struct {
	factories map[string]Factory
	now       func() time.Time

	mu      sync.Mutex
	views   map[string]map[string]Handle
	lastUse map[string]time.Time
}

// NewRegistry registro con las fábricas por nombre de recurso.
func NewRegistry(factories map[string]Factory) *Registry {
	return &Registry{
		factories: factories,
		now:       time.Now,
		views:     make(map[string]map[string]Handle),
		lastUse:   make(map[string]time.Time),
	}
}

// Resources recursos con vista.
func (r *Registry) Resources() []string {
	out := make([]string, 0, len(r.factories))
	for name := range r.factories {
		out = append(out, name)
	}
	return out
}

// Open devuelve la vista de la sesión, creándola y cargándola la primera vez.
func (r *Registry) Open(ctx context.Context, sid, resource string) (Handle, error) {
	factory, ok := r.factories[resource]
	if !ok {
		return nil, fmt.Errorf("%w: vista %q", domain.ErrNotFound, resource)
	}
	r.mu.Lock()
	h, ok := r.views[sid][resource]
	if !ok {
		h = factory()
		if r.views[sid] == nil {
			r.views[sid] = make(map[string]Handle)
		}
		r.views[sid][resource] = h
	}
	r.lastUse[sid] = r.now()
	r.mu.Unlock()
	if !ok {
		if err := h.Reload(ctx); err != nil {
			r.forget(sid, resource, h)
			return nil, err
		}
	}
	return h, nil
}

func (r *Registry) forget(sid, resource string, h Handle) {
	r.mu.Lock()
	if r.views[sid][resource] == h {
		delete(r.views[sid], resource)
		if len(r.views[sid]) == 0 {
			delete(r.views, sid)
			delete(r.lastUse, sid)
		}
	}
	r.mu.Unlock()
	h.Close()
}

// Refresh recarga la vista del recurso si la sesión la tiene abierta.
func (r *Registry) Refresh(ctx context.Context, sid, resource string) error {
	r.mu.Lock()
	h, ok := r.views[sid][resource]
	if ok {
		r.lastUse[sid] = r.now()
	}
	r.mu.Unlock()
	if !ok {
		return nil
	}
	return h.Reload(ctx)
}

// Drop cierra todas las vistas de la sesión.
func (r *Registry) Drop(sid string) {
	r.mu.Lock()
	views := r.views[sid]
	delete(r.views, sid)
	delete(r.lastUse, sid)
	r.mu.Unlock()
	for _, h := range views {
		h.Close()
	}
}

// SweepIdle cierra las vistas de las sesiones sin uso desde antes de cutoff y devuelve
// cuántas sesiones se liberaron.
func (r *Registry) SweepIdle(cutoff time.Time) int {
	r.mu.Lock()
	var idle []map[string]Handle
	for sid, used := range r.lastUse {
		if used.Before(cutoff) {
			idle = append(idle, r.views[sid])
			delete(r.views, sid)
			delete(r.lastUse, sid)
		}
	}
	r.mu.Unlock()
	for _, views := range idle {
		for _, h := range views {
			h.Close()
		}
	}
	return len(idle)
}

// Len número de sesiones con vistas abiertas.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}
