package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nextmeal/backoffice/internal/application/ports"
	"github.com/nextmeal/backoffice/internal/domain/entity"
	"github.com/nextmeal/backoffice/internal/domain/repository"
)

// recorder registra las mutaciones en la auditoría con el usuario del contexto.
type recorder struct {
	sink     ports.AuditSink
	resource string
}

func newRecorder(sink ports.AuditSink, resource string) recorder {
	if sink == nil {
		sink = ports.NopAudit{}
	}
	return recorder{sink: sink, resource: resource}
}

func (r recorder) record(ctx context.Context, id int64, action, detail string) {
	r.recordAmount(ctx, id, action, detail, nil)
}

func (r recorder) recordAmount(ctx context.Context, id int64, action, detail string, amount *decimal.Decimal) {
	r.sink.Record(entity.AuditEvent{
		ID:         uuid.New(),
		UserID:     repository.ActorFrom(ctx),
		Resource:   r.resource,
		ResourceID: id,
		Action:     action,
		Detail:     detail,
		Amount:     amount,
		CreatedAt:  time.Now(),
	})
}

// statusOrDefault solo para altas: un registro nuevo nace activo.
func statusOrDefault(s string) entity.Estado {
	if s == "" {
		return entity.EstadoActivo
	}
	return entity.Estado(s)
}

// keepStatus para ediciones: sin estado explícito se conserva el actual. Cambiarlo es
// tarea de ToggleStatus.
func keepStatus(ctx context.Context, requested string, current func(context.Context) (entity.Estado, error)) (entity.Estado, error) {
	if requested != "" {
		return entity.Estado(requested), nil
	}
	return current(ctx)
}
