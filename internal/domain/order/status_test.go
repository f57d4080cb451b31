package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nextmeal/backoffice/internal/domain"
	"github.com/nextmeal/backoffice/internal/domain/order"
)

func TestCanTransition_SoloTransicionesLegales(t *testing.T) {
	legal := map[order.Status]map[order.Status]bool{
		order.StatusPending:   {order.StatusPreparing: true, order.StatusCancelled: true},
		order.StatusPreparing: {order.StatusCompleted: true, order.StatusCancelled: true},
	}

	for _, from := range order.Columns() {
		for _, to := range order.Columns() {
			err := order.CanTransition(from, to)
			if legal[from][to] {
				assert.NoError(t, err, "%s → %s debe permitirse", from, to)
			} else {
				assert.Error(t, err, "%s → %s debe rechazarse", from, to)
			}
		}
	}
}

func TestCanTransition_EstadosFinales(t *testing.T) {
	for _, from := range []order.Status{order.StatusCompleted, order.StatusCancelled} {
		for _, to := range order.Columns() {
			err := order.CanTransition(from, to)
			assert.ErrorIs(t, err, domain.ErrTerminalState, "%s no admite salida a %s", from, to)
		}
	}
}

func TestCanTransition_NoOpRechazado(t *testing.T) {
	assert.ErrorIs(t, order.CanTransition(order.StatusPending, order.StatusPending), domain.ErrInvalidTransition)
	assert.ErrorIs(t, order.CanTransition(order.StatusPreparing, order.StatusPreparing), domain.ErrInvalidTransition)
}

func TestCanTransition_RetrocesoRechazado(t *testing.T) {
	assert.ErrorIs(t, order.CanTransition(order.StatusPreparing, order.StatusPending), domain.ErrInvalidTransition)
	assert.ErrorIs(t, order.CanTransition(order.StatusPending, order.StatusCompleted), domain.ErrInvalidTransition)
}

func TestCanTransition_EstadoDesconocido(t *testing.T) {
	assert.ErrorIs(t, order.CanTransition("enviado", order.StatusPending), domain.ErrInvalidInput)
	assert.ErrorIs(t, order.CanTransition(order.StatusPending, "enviado"), domain.ErrInvalidInput)
}

func TestNextStates(t *testing.T) {
	assert.Equal(t, []order.Status{order.StatusPreparing, order.StatusCancelled}, order.NextStates(order.StatusPending))
	assert.Equal(t, []order.Status{order.StatusCompleted, order.StatusCancelled}, order.NextStates(order.StatusPreparing))
	assert.Empty(t, order.NextStates(order.StatusCompleted))
	assert.Empty(t, order.NextStates(order.StatusCancelled))
}

func TestCanDrag(t *testing.T) {
	assert.True(t, order.CanDrag(order.StatusPending))
	assert.True(t, order.CanDrag(order.StatusPreparing))
	assert.False(t, order.CanDrag(order.StatusCompleted))
	assert.False(t, order.CanDrag(order.StatusCancelled))
}
