package listing

import (
	"sync"
	"time"
)

// DefaultDebounce tiempo de asentamiento del término de búsqueda.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer ejecuta solo la última función disparada tras delay sin nuevos disparos.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
	fn    func()
}

// NewDebouncer crea un debouncer. delay <= 0 ejecuta de inmediato.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger programa fn y cancela la anterior pendiente.
func (d *Debouncer) Trigger(fn func()) {
	if d.delay <= 0 {
		fn()
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.fn = fn
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		f := d.fn
		d.fn = nil
		d.mu.Unlock()
		if f != nil {
			f()
		}
	})
}

// Flush ejecuta ya la función pendiente, si la hay.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	f := d.fn
	d.fn = nil
	d.mu.Unlock()
	if f != nil {
		f()
	}
}

// Pending indica si hay una función esperando.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fn != nil
}

// Stop descarta la función pendiente.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	d.fn = nil
	d.mu.Unlock()
}
