package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/nextmeal/backoffice/internal/application/dto"
	"github.com/nextmeal/backoffice/internal/application/listing"
	"github.com/nextmeal/backoffice/internal/application/session"
	"github.com/nextmeal/backoffice/internal/application/usecase"
	"github.com/nextmeal/backoffice/internal/domain/authz"
	"github.com/nextmeal/backoffice/internal/domain/entity"
	"github.com/nextmeal/backoffice/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sessions   *session.Manager
	Clients    *usecase.ClientUseCase
	Products   *usecase.ProductUseCase
	Categories *usecase.CategoryUseCase
	Orders     *usecase.OrderUseCase
	Sales      *usecase.SaleUseCase
	Users      *usecase.UserUseCase
	Roles      *usecase.RoleUseCase
	Views      *listing.Registry
	Audit      repository.AuditRepository // nil = auditoría no persistida
	JWTSecret  string
	StoreName  string
	Log        zerolog.Logger
}

// Router registra las rutas de la API.
//
// Permisos: GET pide "ver", POST "crear", PUT y PATCH .../estado "editar". DELETE, usuarios,
// roles y auditoría son solo para el administrador.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok", Store: deps.StoreName})
	})

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.Sessions, deps.Views)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/recuperar-password", authHandler.RequestPasswordReset)
	authGroup.Post("/restablecer-password", authHandler.ResetPassword)

	// Rutas protegidas (requieren Bearer Token)
	var expired func(string)
	if deps.Views != nil {
		expired = deps.Views.Drop
	}
	protected := api.Group("/", AuthMiddleware(deps.Sessions, deps.JWTSecret, expired))

	protected.Get("/auth/sesion", authHandler.Session)
	protected.Post("/auth/logout", authHandler.Logout)

	// Layout
	protected.Get("/ui/menu", Menu)
	protected.Get("/ui/gates/:recurso", Gates)

	// Vistas con estado por sesión
	viewHandler := NewViewHandler(deps.Views)
	protected.Get("/vistas/:recurso", viewHandler.Get)
	protected.Patch("/vistas/:recurso", viewHandler.Update)
	protected.Post("/vistas/:recurso/recargar", viewHandler.Reload)

	// Clientes
	clients := NewResourceHandler[entity.Client, dto.ClientRequest](deps.Clients, authz.ResourceClients, "Cliente eliminado exitosamente", deps.Views, deps.Log)
	g := protected.Group("/" + authz.ResourceClients)
	g.Post("/validar", RequirePermission(authz.ResourceClients, authz.ActionCreate), clients.ValidateStep)
	mountCRUD(g, authz.ResourceClients, clients, true)

	// Productos
	products := NewResourceHandler[entity.Product, dto.ProductRequest](deps.Products, authz.ResourceProducts, "Producto eliminado exitosamente", deps.Views, deps.Log)
	mountCRUD(protected.Group("/"+authz.ResourceProducts), authz.ResourceProducts, products, true)

	// Categorías
	categories := NewResourceHandler[entity.Category, dto.CategoryRequest](deps.Categories, authz.ResourceCategories, "Categoría eliminada exitosamente", deps.Views, deps.Log)
	mountCRUD(protected.Group("/"+authz.ResourceCategories), authz.ResourceCategories, categories, true)

	// Pedidos: las rutas fijas van antes de /:id
	orders := NewResourceHandler[entity.Order, dto.OrderRequest](deps.Orders, authz.ResourceOrders, "Pedido eliminado exitosamente", deps.Views, deps.Log)
	orderHandler := NewOrderHandler(deps.Orders, deps.Views, deps.Log)
	g = protected.Group("/" + authz.ResourceOrders)
	canView := RequirePermission(authz.ResourceOrders, authz.ActionView)
	canCreate := RequirePermission(authz.ResourceOrders, authz.ActionCreate)
	canEdit := RequirePermission(authz.ResourceOrders, authz.ActionEdit)
	g.Get("/tablero", canView, orderHandler.Board)
	g.Post("/tablero/mover", canEdit, orderHandler.MoveCard)
	g.Post("/borrador", canCreate, orderHandler.Draft)
	g.Post("/validar", canCreate, orders.ValidateStep)
	g.Get("/:id/siguientes-estados", canView, orderHandler.NextStates)
	g.Patch("/:id/estado", canEdit, orderHandler.ChangeStatus)
	mountCRUD(g, authz.ResourceOrders, orders, false)

	// Ventas
	sales := NewResourceHandler[entity.Sale, dto.SaleRequest](deps.Sales, authz.ResourceSales, "Venta eliminada exitosamente", deps.Views, deps.Log)
	saleHandler := NewSaleHandler(deps.Sales)
	g = protected.Group("/" + authz.ResourceSales)
	g.Get("/formulario", RequirePermission(authz.ResourceSales, authz.ActionCreate), saleHandler.Form)
	g.Get("/:id/comprobante", RequirePermission(authz.ResourceSales, authz.ActionView), saleHandler.Receipt)
	mountCRUD(g, authz.ResourceSales, sales, false)

	// Solo administrador
	users := NewResourceHandler[entity.User, dto.UserRequest](deps.Users, authz.ResourceUsers, "Usuario eliminado exitosamente", deps.Views, deps.Log)
	mountCRUD(protected.Group("/"+authz.ResourceUsers, RequireAdmin()), authz.ResourceUsers, users, true)

	roles := NewResourceHandler[entity.Role, dto.RoleRequest](deps.Roles, authz.ResourceRoles, "Rol eliminado exitosamente", deps.Views, deps.Log)
	roleHandler := NewRoleHandler(deps.Roles)
	g = protected.Group("/"+authz.ResourceRoles, RequireAdmin())
	g.Get("/:id/permisos", roleHandler.Matrix)
	g.Put("/:id/permisos", roleHandler.SaveMatrix)
	mountCRUD(g, authz.ResourceRoles, roles, false)

	auditHandler := NewAuditHandler(deps.Audit)
	protected.Get("/auditoria", RequireAdmin(), auditHandler.List)
}

// crudRoutes lo cumple cualquier *ResourceHandler.
type crudRoutes interface {
	List(c *fiber.Ctx) error
	Get(c *fiber.Ctx) error
	Create(c *fiber.Ctx) error
	Update(c *fiber.Ctx) error
	Delete(c *fiber.Ctx) error
	ToggleStatus(c *fiber.Ctx) error
}

func mountCRUD(g fiber.Router, resource string, h crudRoutes, withStatus bool) {
	g.Get("/", RequirePermission(resource, authz.ActionView), h.List)
	g.Post("/", RequirePermission(resource, authz.ActionCreate), h.Create)
	g.Get("/:id", RequirePermission(resource, authz.ActionView), h.Get)
	g.Put("/:id", RequirePermission(resource, authz.ActionEdit), h.Update)
	if withStatus {
		g.Patch("/:id/estado", RequirePermission(resource, authz.ActionEdit), h.ToggleStatus)
	}
	g.Delete("/:id", RequireAdmin(), h.Delete)
}
