package usecase

import (
	"time"

	"github.com/nextmeal/backoffice/internal/application/listing"
	"github.com/nextmeal/backoffice/internal/domain/authz"
)

// ViewSet casos de uso con lista propia.
type ViewSet struct {
	Clients    *ClientUseCase
	Products   *ProductUseCase
	Categories *CategoryUseCase
	Orders     *OrderUseCase
	Sales      *SaleUseCase
	Users      *UserUseCase
	Roles      *RoleUseCase
}

// NewViewRegistry registro de vistas por sesión, una fábrica por recurso.
func NewViewRegistry(set ViewSet, pageSize int, debounce time.Duration) *listing.Registry {
	return listing.NewRegistry(map[string]listing.Factory{
		authz.ResourceClients: func() listing.Handle {
			return listing.NewView(set.Clients.Loader(), ClientSpec, pageSize, debounce)
		},
		authz.ResourceProducts: func() listing.Handle {
			return listing.NewView(set.Products.Loader(), ProductSpec, pageSize, debounce)
		},
		authz.ResourceCategories: func() listing.Handle {
			return listing.NewView(set.Categories.Loader(), CategorySpec, pageSize, debounce)
		},
		authz.ResourceOrders: func() listing.Handle {
			return listing.NewView(set.Orders.Loader(), OrderSpec, pageSize, debounce)
		},
		authz.ResourceSales: func() listing.Handle {
			return listing.NewView(set.Sales.Loader(), SaleSpec, pageSize, debounce)
		},
		authz.ResourceUsers: func() listing.Handle {
			return listing.NewView(set.Users.Loader(), UserSpec, pageSize, debounce)
		},
		authz.ResourceRoles: func() listing.Handle {
			return listing.NewView(set.Roles.Loader(), RoleSpec, pageSize, debounce)
		},
	})
}
