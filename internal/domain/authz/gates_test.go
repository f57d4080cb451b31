package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextmeal/backoffice/internal/domain/authz"
	"github.com/nextmeal/backoffice/internal/domain/entity"
)

func TestGates_SinPermisoDeshabilitadoNoOculto(t *testing.T) {
	gates := authz.Gates(employee(), authz.ResourceProducts)

	create, ok := authz.Find(gates, authz.ElementCreate)
	require.True(t, ok)
	assert.True(t, create.Visible)
	assert.False(t, create.Enabled)
	assert.NotEmpty(t, create.Tooltip)
}

func TestGates_EliminarSoloAdmin(t *testing.T) {
	del, _ := authz.Find(authz.Gates(employee(), authz.ResourceClients), authz.ElementDelete)
	assert.False(t, del.Visible)
	assert.False(t, del.Enabled)

	admin := authz.Policy{UserID: 1, RoleID: authz.AdminRoleID}
	del, _ = authz.Find(authz.Gates(admin, authz.ResourceClients), authz.ElementDelete)
	assert.True(t, del.Visible)
	assert.True(t, del.Enabled)
}

func TestItemGates_PedidoTerminado(t *testing.T) {
	p := employee(entity.Permission{Resource: "pedidos", Action: "editar", Active: true})

	open := authz.ItemGates(p, authz.ResourceOrders, "preparacion")
	edit, _ := authz.Find(open, authz.ElementEdit)
	assert.True(t, edit.Enabled)

	done := authz.ItemGates(p, authz.ResourceOrders, "terminado")
	edit, _ = authz.Find(done, authz.ElementEdit)
	status, _ := authz.Find(done, authz.ElementStatus)
	assert.False(t, edit.Enabled)
	assert.False(t, status.Enabled)
	assert.NotEmpty(t, status.Tooltip)
}

func TestMenu(t *testing.T) {
	items := authz.Menu(employee())
	paths := make([]string, 0, len(items))
	for _, it := range items {
		paths = append(paths, it.Path)
	}
	assert.Contains(t, paths, "/pedidos")
	assert.NotContains(t, paths, "/usuarios")

	admin := authz.Menu(authz.Policy{UserID: 1, RoleID: authz.AdminRoleID})
	assert.Len(t, admin, 8)
	assert.Nil(t, authz.Menu(authz.Anonymous()))
}
