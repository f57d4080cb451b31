package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextmeal/backoffice/internal/application/dto"
	"github.com/nextmeal/backoffice/internal/application/forms"
	"github.com/nextmeal/backoffice/internal/application/listing"
	"github.com/nextmeal/backoffice/internal/application/ports"
	"github.com/nextmeal/backoffice/internal/application/usecase"
	"github.com/nextmeal/backoffice/internal/domain"
	"github.com/nextmeal/backoffice/internal/domain/entity"
	"github.com/nextmeal/backoffice/internal/domain/repository"
	"github.com/nextmeal/backoffice/internal/infrastructure/backend"
	"github.com/nextmeal/backoffice/internal/infrastructure/backend/backendtest"
)

// auditLog sumidero en memoria.
type auditLog struct {
	mu     sync.Mutex
	events []entity.AuditEvent
}

func (a *auditLog) Record(ev entity.AuditEvent) {
	a.mu.Lock()
	a.events = append(a.events, ev)
	a.mu.Unlock()
}

func (a *auditLog) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.events))
	for _, ev := range a.events {
		out = append(out, ev.Resource+":"+ev.Action)
	}
	return out
}

type fixture struct {
	srv    *backendtest.Server
	client *backend.Client
	audit  *auditLog
	ctx    context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := backendtest.New(t)
	return &fixture{
		srv:    srv,
		client: backend.New(backend.Config{BaseURL: srv.URL}, zerolog.Nop()),
		audit:  &auditLog{},
		ctx:    repository.WithActor(context.Background(), 1),
	}
}

func (f *fixture) clients() *usecase.ClientUseCase {
	return usecase.NewClientUseCase(backend.NewClientRepository(f.client), 5, f.audit)
}

func (f *fixture) orders() *usecase.OrderUseCase {
	return usecase.NewOrderUseCase(
		backend.NewOrderRepository(f.client),
		backend.NewProductRepository(f.client),
		backend.NewClientRepository(f.client),
		5, f.audit, zerolog.Nop(),
	)
}

func (f *fixture) sales(receipts ports.ReceiptGenerator) *usecase.SaleUseCase {
	return usecase.NewSaleUseCase(
		backend.NewSaleRepository(f.client),
		backend.NewOrderRepository(f.client),
		backend.NewClientRepository(f.client),
		backend.NewProductRepository(f.client),
		receipts, 5, f.audit,
	)
}

func validClient(name string) dto.ClientRequest {
	return dto.ClientRequest{
		FullName:       name,
		DocumentType:   "CC",
		DocumentNumber: "1020304050",
		Email:          "cliente@correo.co",
		Phone:          "3001234567",
		Address:        "Calle 10 # 20-30",
	}
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve *forms.ValidationError
	require.True(t, errors.As(err, &ve), "se esperaba ValidationError, llegó %v", err)
	return ve.Fields
}

// ── Clientes ─────────────────────────────────────────────────────────────────

func TestClientes_CrearYRecargarDesdeElBackend(t *testing.T) {
	f := newFixture(t)
	uc := f.clients()

	created, err := uc.Create(f.ctx, validClient("Ana Gómez"))
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoActivo, created.Status)

	page, err := uc.List(f.ctx, listing.Query{Search: "GÓMEZ"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, created.ID, page.Items[0].ID)
	assert.Equal(t, []string{"clientes:crear"}, f.audit.actions())
}

func TestClientes_PasoInvalidoNoLlamaAlBackend(t *testing.T) {
	f := newFixture(t)
	uc := f.clients()
	in := validClient("Ana Gómez")
	in.Email = "sin-arroba"

	require.NoError(t, uc.ValidateStep(in, forms.ClientStepPersonal))
	fields := fieldErrors(t, uc.ValidateStep(in, forms.ClientStepContact))
	assert.Contains(t, fields, "correo")

	_, err := uc.Create(f.ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, f.srv.Total())
}

func TestClientes_CambiarEstadoDosVecesVuelveAlOriginal(t *testing.T) {
	f := newFixture(t)
	c := f.srv.AddClient(entity.Client{FullName: "Luis", Status: entity.EstadoActivo})
	uc := f.clients()

	next, err := uc.ToggleStatus(f.ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoInactivo, next)

	next, err = uc.ToggleStatus(f.ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoActivo, next)

	stored, _ := f.srv.Client(c.ID)
	assert.Equal(t, entity.EstadoActivo, stored.Status)
}

func TestClientes_PaginasDeCinco(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 6; i++ {
		f.srv.AddClient(entity.Client{FullName: fmt.Sprintf("Cliente %d", i)})
	}
	page, err := f.clients().List(f.ctx, listing.Query{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 1)
}

func TestClientes_EditarInactivoSinEstadoLoConserva(t *testing.T) {
	f := newFixture(t)
	c := f.srv.AddClient(entity.Client{FullName: "Luis", Status: entity.EstadoInactivo})
	uc := f.clients()

	updated, err := uc.Update(f.ctx, c.ID, validClient("Luis Pérez"))
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoInactivo, updated.Status)

	stored, _ := f.srv.Client(c.ID)
	assert.Equal(t, entity.EstadoInactivo, stored.Status)
	assert.Equal(t, "Luis Pérez", stored.FullName)
}

// ── Productos ────────────────────────────────────────────────────────────────

func TestProductos_NombreDuplicadoSeRechazaSinEnviar(t *testing.T) {
	f := newFixture(t)
	f.srv.AddProduct(entity.Product{Name: "Limonada", Price: price("5000"), CategoryID: 1, Status: entity.EstadoActivo})
	uc := usecase.NewProductUseCase(backend.NewProductRepository(f.client), 5, f.audit)

	_, err := uc.Create(f.ctx, dto.ProductRequest{Name: "limonada ", Price: price("6000"), CategoryID: 1})
	assert.Contains(t, fieldErrors(t, err), "nombre")
	assert.Equal(t, 0, f.srv.Count("POST /productos"))

	_, err = uc.Create(f.ctx, dto.ProductRequest{Name: "Limonada de coco", Price: price("6000"), CategoryID: 1})
	require.NoError(t, err)
}

func TestProductos_ReactivarConNombreOcupado(t *testing.T) {
	f := newFixture(t)
	f.srv.AddProduct(entity.Product{Name: "Arepa", Price: price("3000"), Status: entity.EstadoActivo})
	old := f.srv.AddProduct(entity.Product{Name: "Arepa", Price: price("2500"), Status: entity.EstadoInactivo})
	uc := usecase.NewProductUseCase(backend.NewProductRepository(f.client), 5, f.audit)

	_, err := uc.ToggleStatus(f.ctx, old.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, f.srv.Count("PATCH /productos/{id}/estado"))
}

func TestProductos_EditarInactivoSinEstadoLoConserva(t *testing.T) {
	f := newFixture(t)
	p := f.srv.AddProduct(entity.Product{Name: "Té frío", Price: price("4000"), CategoryID: 1, Status: entity.EstadoInactivo})
	uc := usecase.NewProductUseCase(backend.NewProductRepository(f.client), 5, f.audit)

	_, err := uc.Update(f.ctx, p.ID, dto.ProductRequest{Name: "Té frío", Price: price("4500"), CategoryID: 1})
	require.NoError(t, err)

	stored, _ := f.srv.Product(p.ID)
	assert.Equal(t, entity.EstadoInactivo, stored.Status)
	assert.True(t, price("4500").Equal(stored.Price))
}

// ── Categorías ───────────────────────────────────────────────────────────────

type stubEncoder struct{ calls int }

func (s *stubEncoder) Encode(_ context.Context, image string) (string, error) {
	s.calls++
	if image == "roto" {
		return "", errors.New("imagen ilegible")
	}
	return "data:image/jpeg;base64,AAAA", nil
}

func TestCategorias_BebidasAparecePrimeroTrasCrear(t *testing.T) {
	f := newFixture(t)
	f.srv.AddCategory(entity.Category{Name: "Postres", Status: entity.EstadoActivo})
	enc := &stubEncoder{}
	uc := usecase.NewCategoryUseCase(backend.NewCategoryRepository(f.client), enc, 5, f.audit)

	created, err := uc.Create(f.ctx, dto.CategoryRequest{Name: "Bebidas", Description: "Frías y calientes", Image: "iVBORw0KGgo="})
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,AAAA", created.Image)
	assert.Equal(t, 1, enc.calls)

	page, err := uc.List(f.ctx, listing.Query{Search: "bebi"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Bebidas", page.Items[0].Name)

	page, err = uc.List(f.ctx, listing.Query{Sort: "nombre"})
	require.NoError(t, err)
	assert.Equal(t, "Bebidas", page.Items[0].Name)
}

func TestCategorias_SinImagenNoSeCodifica(t *testing.T) {
	f := newFixture(t)
	enc := &stubEncoder{}
	uc := usecase.NewCategoryUseCase(backend.NewCategoryRepository(f.client), enc, 5, f.audit)

	c, err := uc.Create(f.ctx, dto.CategoryRequest{Name: "Sopas"})
	require.NoError(t, err)
	assert.Empty(t, c.Image)
	assert.Equal(t, 0, enc.calls)

	_, err = uc.Create(f.ctx, dto.CategoryRequest{Name: "Rotas", Image: "roto"})
	assert.Contains(t, fieldErrors(t, err), "imagen")
}

func TestCategorias_EditarSinImagenConservaLaActual(t *testing.T) {
	f := newFixture(t)
	c := f.srv.AddCategory(entity.Category{Name: "Sopas", Image: "data:image/jpeg;base64,BBBB"})
	uc := usecase.NewCategoryUseCase(backend.NewCategoryRepository(f.client), nil, 5, f.audit)

	updated, err := uc.Update(f.ctx, c.ID, dto.CategoryRequest{Name: "Sopas y cremas"})
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,BBBB", updated.Image)
}

func TestCategorias_EditarInactivaSinEstadoLaConserva(t *testing.T) {
	f := newFixture(t)
	c := f.srv.AddCategory(entity.Category{Name: "Sopas", Status: entity.EstadoInactivo})
	uc := usecase.NewCategoryUseCase(backend.NewCategoryRepository(f.client), nil, 5, f.audit)

	_, err := uc.Update(f.ctx, c.ID, dto.CategoryRequest{Name: "Sopas y cremas"})
	require.NoError(t, err)

	stored, _ := f.srv.Category(c.ID)
	assert.Equal(t, entity.EstadoInactivo, stored.Status)
}

func TestCategorias_QuitarImagenAlEditar(t *testing.T) {
	f := newFixture(t)
	c := f.srv.AddCategory(entity.Category{Name: "Sopas", Image: "data:image/jpeg;base64,BBBB", Status: entity.EstadoActivo})
	enc := &stubEncoder{}
	uc := usecase.NewCategoryUseCase(backend.NewCategoryRepository(f.client), enc, 5, f.audit)

	updated, err := uc.Update(f.ctx, c.ID, dto.CategoryRequest{Name: "Sopas", RemoveImage: true})
	require.NoError(t, err)
	assert.Empty(t, updated.Image)
	assert.Equal(t, 0, enc.calls)

	stored, _ := f.srv.Category(c.ID)
	assert.Empty(t, stored.Image)
	assert.Equal(t, entity.EstadoActivo, stored.Status)
}

// ── Pedidos ──────────────────────────────────────────────────────────────────

func seedOrder(f *fixture, id int64, status string) entity.Order {
	c := f.srv.AddClient(entity.Client{FullName: "Marta"})
	return f.srv.AddOrder(entity.Order{ID: id, ClientID: c.ID, ShippingAddress: "Cra 1", Status: status, Total: price("20000")})
}

func TestPedidos_TableroCancelarYLuegoNoSeArrastra(t *testing.T) {
	f := newFixture(t)
	seedOrder(f, 7, "pendiente")
	uc := f.orders()

	moved, err := uc.MoveCard(f.ctx, dto.MoveCardRequest{ID: 7, Estado: "cancelado"})
	require.NoError(t, err)
	assert.Equal(t, "cancelado", moved.Status)

	cols, err := uc.Board(f.ctx, "")
	require.NoError(t, err)
	require.Len(t, cols, 4)
	assert.Empty(t, cols[0].Cards)
	require.Len(t, cols[3].Cards, 1)
	assert.Equal(t, int64(7), cols[3].Cards[0].ID)
	assert.False(t, cols[3].Draggable)

	_, err = uc.MoveCard(f.ctx, dto.MoveCardRequest{ID: 7, Estado: "pendiente"})
	assert.ErrorIs(t, err, domain.ErrTerminalState)
	assert.Equal(t, 1, f.srv.Count("PATCH /pedidos/{id}/estado"), "el segundo arrastre no llega al backend")
}

func TestPedidos_TransicionIlegalSinLlamadaHTTP(t *testing.T) {
	f := newFixture(t)
	seedOrder(f, 1, "pendiente")
	uc := f.orders()

	_, err := uc.ChangeStatus(f.ctx, 1, "terminado")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = uc.ChangeStatus(f.ctx, 1, "pendiente")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "el no-op también se rechaza")
	assert.Equal(t, 0, f.srv.Count("PATCH /pedidos/{id}/estado"))

	next, err := uc.NextStates(f.ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"preparacion", "cancelado"}, next.Options)
	assert.False(t, next.Terminal)
}

func TestPedidos_TerminadoNoSeEditaNiElimina(t *testing.T) {
	f := newFixture(t)
	o := seedOrder(f, 3, "terminado")
	uc := f.orders()

	_, err := uc.Update(f.ctx, o.ID, dto.OrderRequest{ClientID: o.ClientID, ShippingAddress: "Otra", Items: []dto.OrderLineRequest{{ProductID: 1, Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrTerminalState)
	assert.ErrorIs(t, uc.Delete(f.ctx, o.ID), domain.ErrTerminalState)
	assert.Equal(t, 0, f.srv.Count("PUT /pedidos/{id}")+f.srv.Count("DELETE /pedidos/{id}"))

	next, err := uc.NextStates(f.ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, next.Terminal)
	assert.Empty(t, next.Options)
}

func TestPedidos_CrearConPreciosDelCatalogo(t *testing.T) {
	f := newFixture(t)
	c := f.srv.AddClient(entity.Client{FullName: "Marta"})
	burger := f.srv.AddProduct(entity.Product{Name: "Hamburguesa", Price: price("18500"), Status: entity.EstadoActivo})
	soda := f.srv.AddProduct(entity.Product{Name: "Gaseosa", Price: price("4000.50"), Status: entity.EstadoActivo})
	uc := f.orders()

	created, err := uc.Create(f.ctx, dto.OrderRequest{
		ClientID:        c.ID,
		ShippingAddress: "Calle 5",
		Items: []dto.OrderLineRequest{
			{ProductID: burger.ID, Quantity: 2},
			{ProductID: soda.ID, Quantity: 1},
			{ProductID: burger.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "pendiente", created.Status)
	assert.True(t, price("59500.50").Equal(created.Total), "total %s", created.Total)
	assert.Len(t, created.Items, 2)
}

func TestPedidos_ClienteInexistente(t *testing.T) {
	f := newFixture(t)
	p := f.srv.AddProduct(entity.Product{Name: "Arepa", Price: price("3000"), Status: entity.EstadoActivo})

	_, err := f.orders().Create(f.ctx, dto.OrderRequest{
		ClientID: 99, ShippingAddress: "Calle 5",
		Items: []dto.OrderLineRequest{{ProductID: p.ID, Quantity: 1}},
	})
	assert.Contains(t, fieldErrors(t, err), "id_cliente")
	assert.Equal(t, 0, f.srv.Count("POST /pedidos"))
}

func TestPedidos_TableroFiltrado(t *testing.T) {
	f := newFixture(t)
	c := f.srv.AddClient(entity.Client{FullName: "Marta"})
	f.srv.AddOrder(entity.Order{ClientID: c.ID, ShippingAddress: "Laureles", Status: "pendiente"})
	f.srv.AddOrder(entity.Order{ClientID: c.ID, ShippingAddress: "Envigado", Status: "preparacion"})

	cols, err := f.orders().Board(f.ctx, "envig")
	require.NoError(t, err)
	assert.Empty(t, cols[0].Cards)
	assert.Len(t, cols[1].Cards, 1)
}

// ── Ventas ───────────────────────────────────────────────────────────────────

func TestVentas_SinPedidosTerminados(t *testing.T) {
	f := newFixture(t)
	seedOrder(f, 1, "pendiente")
	uc := f.sales(nil)

	form, err := uc.Form(f.ctx)
	require.NoError(t, err)
	resp := form.Response()
	assert.Equal(t, forms.SalePlaceholder, resp.Placeholder)
	assert.Empty(t, resp.Options)
	assert.False(t, resp.CanSubmit)

	_, err = uc.Create(f.ctx, dto.SaleRequest{OrderID: 1, PaymentMethod: entity.PaymentCash})
	assert.ErrorIs(t, err, domain.ErrOrderNotCompleted)
	assert.Equal(t, 0, f.srv.Count("POST /ventas"))
}

func TestVentas_CrearContraPedidoTerminado(t *testing.T) {
	f := newFixture(t)
	seedOrder(f, 4, "terminado")
	uc := f.sales(nil)

	_, err := uc.Create(f.ctx, dto.SaleRequest{OrderID: 4, PaymentMethod: "cheque"})
	assert.Contains(t, fieldErrors(t, err), "metodo_pago")

	s, err := uc.Create(f.ctx, dto.SaleRequest{OrderID: 4, PaymentMethod: entity.PaymentTransfer})
	require.NoError(t, err)
	assert.True(t, price("20000").Equal(s.Total))

	updated, err := uc.Update(f.ctx, s.ID, dto.SaleRequest{PaymentMethod: entity.PaymentCash})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCash, updated.PaymentMethod)
	assert.Equal(t, []string{"ventas:crear", "ventas:editar"}, f.audit.actions())
}

type stubReceipts struct{ got ports.ReceiptData }

func (s *stubReceipts) Generate(data ports.ReceiptData) ([]byte, error) {
	s.got = data
	return []byte("%PDF-1.4"), nil
}

func TestVentas_ComprobanteReuneLosDatos(t *testing.T) {
	f := newFixture(t)
	p := f.srv.AddProduct(entity.Product{Name: "Arepa", Price: price("3000")})
	c := f.srv.AddClient(entity.Client{FullName: "Marta"})
	o := f.srv.AddOrder(entity.Order{ClientID: c.ID, Status: "terminado", Total: price("6000"),
		Items: []entity.OrderItem{{ProductID: p.ID, Quantity: 2, UnitPrice: price("3000")}}})
	s := f.srv.AddSale(entity.Sale{OrderID: o.ID, PaymentMethod: entity.PaymentCash, Total: price("6000")})
	rec := &stubReceipts{}

	pdf, err := f.sales(rec).Receipt(f.ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(pdf))
	require.NotNil(t, rec.got.Client)
	assert.Equal(t, "Marta", rec.got.Client.FullName)
	assert.Equal(t, "Arepa", rec.got.Products[p.ID].Name)
}

// ── Usuarios ─────────────────────────────────────────────────────────────────

func TestUsuarios_EliminarInexistenteEsExito(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewUserUseCase(backend.NewUserRepository(f.client), 5, f.audit)
	assert.NoError(t, uc.Delete(f.ctx, 404))
}

func TestUsuarios_CrearExigeContrasena(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewUserUseCase(backend.NewUserRepository(f.client), 5, f.audit)

	_, err := uc.Create(f.ctx, dto.UserRequest{Name: "Pia", Email: "pia@nextmeal.co", RoleID: 2})
	assert.Contains(t, fieldErrors(t, err), "password")

	u, err := uc.Create(f.ctx, dto.UserRequest{Name: "Pia", Email: "pia@nextmeal.co", Password: "secreta", RoleID: 2})
	require.NoError(t, err)
	assert.Empty(t, u.Password)
}

func TestUsuarios_EditarInactivoSinEstadoLoConserva(t *testing.T) {
	f := newFixture(t)
	u := f.srv.AddUser(entity.User{Name: "Pia", Email: "pia@nextmeal.co", RoleID: 2, Status: entity.EstadoInactivo}, "secreta")
	uc := usecase.NewUserUseCase(backend.NewUserRepository(f.client), 5, f.audit)

	_, err := uc.Update(f.ctx, u.ID, dto.UserRequest{Name: "Pia Ruiz", Email: "pia@nextmeal.co", RoleID: 2})
	require.NoError(t, err)

	stored, _ := f.srv.User(u.ID)
	assert.Equal(t, entity.EstadoInactivo, stored.Status)
	assert.Equal(t, "Pia Ruiz", stored.Name)
}

// ── Roles ────────────────────────────────────────────────────────────────────

func TestRoles_GuardarMatrizSoloEnviaDiferencias(t *testing.T) {
	f := newFixture(t)
	f.srv.AddRole(entity.Role{ID: 2, Name: "Empleado"})
	f.srv.AddPermission(entity.Permission{RoleID: 2, Resource: "pedidos", Action: "crear", Active: true})
	f.srv.AddPermission(entity.Permission{RoleID: 2, Resource: "clientes", Action: "editar", Active: true})
	uc := usecase.NewRoleUseCase(backend.NewRoleRepository(f.client), backend.NewPermissionRepository(f.client), 5, f.audit)

	m, err := uc.Matrix(f.ctx, 2)
	require.NoError(t, err)
	assert.True(t, m.Matrix["pedidos"]["crear"])
	assert.False(t, m.Matrix["ventas"]["crear"])
	assert.Len(t, m.Matrix, 5)

	out, err := uc.SaveMatrix(f.ctx, 2, dto.PermissionMatrix{
		"pedidos":  {"crear": true},
		"clientes": {"editar": false},
		"ventas":   {"crear": true, "editar": false},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.srv.Count("POST /permiso"))
	assert.Equal(t, 1, f.srv.Count("PUT /permiso/{id}"))
	assert.True(t, out.Matrix["ventas"]["crear"])
	assert.False(t, out.Matrix["clientes"]["editar"])
	assert.True(t, out.Matrix["pedidos"]["crear"])
}

func TestRoles_MatrizConRecursoDesconocido(t *testing.T) {
	f := newFixture(t)
	f.srv.AddRole(entity.Role{ID: 2, Name: "Empleado"})
	uc := usecase.NewRoleUseCase(backend.NewRoleRepository(f.client), backend.NewPermissionRepository(f.client), 5, f.audit)

	_, err := uc.SaveMatrix(f.ctx, 2, dto.PermissionMatrix{"usuarios": {"crear": true}, "ventas": {"eliminar": true}})
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "usuarios")
	assert.Contains(t, fields, "ventas.eliminar")
	assert.Equal(t, 0, f.srv.Total())
}

func TestRoles_AdministradorNoSeElimina(t *testing.T) {
	f := newFixture(t)
	f.srv.AddRole(entity.Role{ID: 1, Name: "Administrador"})
	uc := usecase.NewRoleUseCase(backend.NewRoleRepository(f.client), backend.NewPermissionRepository(f.client), 5, f.audit)

	assert.ErrorIs(t, uc.Delete(f.ctx, 1), domain.ErrConflict)
	assert.Equal(t, 0, f.srv.Total())
}
