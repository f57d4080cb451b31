package listing

import (
	"context"
	"sync"
	"time"
)

// Loader obtiene la lista completa desde la fuente.
type Loader[T any] func(ctx context.Context) ([]T, error)

// State fotografía de una vista para presentarla.
type State[T any] struct {
	Search   string    `json:"buscar"`
	Applied  string    `json:"busqueda_aplicada"`
	Pending  bool      `json:"busqueda_pendiente"`
	Sort     string    `json:"orden,omitempty"`
	Desc     bool      `json:"descendente"`
	LoadedAt time.Time `json:"cargado"`
	Page[T]
}

// View estado de una pantalla de listado: la lista tal como se obtuvo por última vez, el
// término escrito, el término asentado tras el debounce, la página y el orden.
// Tras cada mutación se recarga desde la fuente.
type View[T any] struct {
	load      Loader[T]
	spec      Spec[T]
	size      int
	debouncer *Debouncer

	mu       sync.Mutex
	raw      []T
	search   string
	applied  string
	page     int
	sort     string
	desc     bool
	loadedAt time.Time
}

// NewView crea la vista vacía; llamar a Reload para poblarla.
func NewView[T any](load Loader[T], spec Spec[T], size int, debounce time.Duration) *View[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &View[T]{
		load:      load,
		spec:      spec,
		size:      size,
		debouncer: NewDebouncer(debounce),
		page:      1,
	}
}

// Reload vuelve a pedir la lista. Si falla, la lista anterior se conserva.
func (v *View[T]) Reload(ctx context.Context) error {
	items, err := v.load(ctx)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.raw = items
	v.loadedAt = time.Now()
	v.mu.Unlock()
	return nil
}

// SetSearch registra el término escrito; se aplica cuando se asienta.
func (v *View[T]) SetSearch(term string) {
	v.mu.Lock()
	v.search = term
	v.mu.Unlock()
	v.debouncer.Trigger(func() {
		v.mu.Lock()
		if v.applied != term {
			v.applied = term
			v.page = 1
		}
		v.mu.Unlock()
	})
}

// SettleSearch aplica ya el término pendiente.
func (v *View[T]) SettleSearch() {
	v.debouncer.Flush()
}

// SetPage cambia de página; se acota al calcular el estado.
func (v *View[T]) SetPage(page int) {
	v.mu.Lock()
	v.page = page
	v.mu.Unlock()
}

// SetSort cambia el campo y sentido de orden. Un campo desconocido deja el orden original.
func (v *View[T]) SetSort(field string, desc bool) {
	v.mu.Lock()
	v.sort = field
	v.desc = desc
	v.mu.Unlock()
}

// Items lista completa tal como se obtuvo.
func (v *View[T]) Items() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]T(nil), v.raw...)
}

// State calcula la página actual.
func (v *View[T]) State() State[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	p := Apply(v.raw, Query{Search: v.applied, Page: v.page, Sort: v.sort, Desc: v.desc}, v.spec, v.size)
	v.page = p.Page
	return State[T]{
		Search:   v.search,
		Applied:  v.applied,
		Pending:  v.search != v.applied,
		Sort:     v.sort,
		Desc:     v.desc,
		LoadedAt: v.loadedAt,
		Page:     p,
	}
}

// Close descarta búsquedas pendientes.
func (v *View[T]) Close() {
	v.debouncer.Stop()
}

// Snapshot estado actual para presentar, sin el tipo concreto.
func (v *View[T]) Snapshot() any {
	return v.State()
}
