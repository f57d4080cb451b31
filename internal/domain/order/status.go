// Package order define la máquina de estados de los pedidos.
//
//	pendiente ──► preparacion ──► terminado
//	    │              │
//	    └──────┬───────┘
//	           ▼
//	       cancelado
//
// terminado y cancelado son finales: no hay transición que salga de ellos.
package order

import (
	"fmt"

	"github.com/nextmeal/backoffice/internal/domain"
)

// Status estado de un pedido.
type Status string

const (
	StatusPending   Status = "pendiente"
	StatusPreparing Status = "preparacion"
	StatusCompleted Status = "terminado"
	StatusCancelled Status = "cancelado"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusCompleted, StatusCancelled},
	StatusCompleted: nil,
	StatusCancelled: nil,
}

// Valid indica si el estado pertenece al conjunto conocido.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal indica si el estado no admite más transiciones.
func (s Status) IsTerminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// Label texto para mostrar en el tablero.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pendientes"
	case StatusPreparing:
		return "En preparación"
	case StatusCompleted:
		return "Terminados"
	case StatusCancelled:
		return "Cancelados"
	default:
		return string(s)
	}
}

// InitialStatus estado con el que nace un pedido.
func InitialStatus() Status {
	return StatusPending
}

// NextStates estados legales a partir de s; es lo único que ofrece el control de cambio de estado.
func NextStates(s Status) []Status {
	next := transitions[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransition valida el paso from → to. Las transiciones no-op también se rechazan.
func CanTransition(from, to Status) error {
	if !from.Valid() {
		return fmt.Errorf("%w: estado actual desconocido %q", domain.ErrInvalidInput, from)
	}
	if !to.Valid() {
		return fmt.Errorf("%w: estado destino desconocido %q", domain.ErrInvalidInput, to)
	}
	if from.IsTerminal() {
		return fmt.Errorf("%w: %s", domain.ErrTerminalState, from)
	}
	for _, s := range transitions[from] {
		if s == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, from, to)
}

// Columns columnas fijas del tablero kanban, en orden de presentación.
func Columns() []Status {
	return []Status{StatusPending, StatusPreparing, StatusCompleted, StatusCancelled}
}

// CanDrag indica si una tarjeta del tablero se puede arrastrar.
func CanDrag(s Status) bool {
	return s.Valid() && !s.IsTerminal()
}
