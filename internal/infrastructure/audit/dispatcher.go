// Package audit entrega los eventos de auditoría en segundo plano para no frenar las peticiones.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nextmeal/backoffice/internal/application/ports"
	"github.com/nextmeal/backoffice/internal/domain/entity"
	"github.com/nextmeal/backoffice/internal/domain/repository"
)

var _ ports.AuditSink = (*Dispatcher)(nil)

// QueueSize eventos en espera antes de empezar a descartar.
const QueueSize = 100

// Dispatcher cola con un único worker. Sin repositorio, los eventos solo se registran en el log.
type Dispatcher struct {
	repo    repository.AuditRepository
	log     zerolog.Logger
	timeout time.Duration

	queue chan entity.AuditEvent
	done  chan struct{}
	once  sync.Once
}

// NewDispatcher arranca el worker. repo puede ser nil.
func NewDispatcher(repo repository.AuditRepository, log zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		repo:    repo,
		log:     log,
		timeout: 5 * time.Second,
		queue:   make(chan entity.AuditEvent, QueueSize),
		done:    make(chan struct{}),
	}
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		d.write(ev)
	}
}

func (d *Dispatcher) write(ev entity.AuditEvent) {
	d.log.Info().
		Str("recurso", ev.Resource).
		Int64("id", ev.ResourceID).
		Str("accion", ev.Action).
		Int64("usuario", ev.UserID).
		Msg("auditoría")
	if d.repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	if err := d.repo.Save(ctx, &ev); err != nil {
		d.log.Error().Err(err).Str("evento", ev.ID.String()).Msg("no se pudo guardar el evento de auditoría")
	}
}

// Record encola el evento. Con la cola llena se descarta: la auditoría nunca frena una petición.
func (d *Dispatcher) Record(ev entity.AuditEvent) {
	defer func() {
		// cola cerrada durante el apagado
		if recover() != nil {
			d.log.Warn().Str("recurso", ev.Resource).Msg("auditoría detenida, evento descartado")
		}
	}()
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	select {
	case d.queue <- ev:
	default:
		d.log.Warn().Str("recurso", ev.Resource).Msg("cola de auditoría llena, evento descartado")
	}
}

// Close deja de aceptar eventos y espera a que se escriban los encolados o a que venza ctx.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.once.Do(func() { close(d.queue) })
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
