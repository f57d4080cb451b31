package ports

import "github.com/nextmeal/backoffice/internal/domain/entity"

// AuditSink recibe eventos de auditoría. Record no bloquea ni falla: si el destino no
// acepta el evento, se descarta.
type AuditSink interface {
	Record(ev entity.AuditEvent)
}

// NopAudit descarta todos los eventos.
type NopAudit struct{}

func (NopAudit) Record(entity.AuditEvent) {}
