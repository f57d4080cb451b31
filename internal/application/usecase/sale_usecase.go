package usecase

import (
	"cmp"
	"context"
	"fmt"
	"strconv"

	"github.com/nextmeal/backoffice/internal/application/dto"
	"github.com/nextmeal/backoffice/internal/application/forms"
	"github.com/nextmeal/backoffice/internal/application/listing"
	"github.com/nextmeal/backoffice/internal/application/ports"
	"github.com/nextmeal/backoffice/internal/domain"
	"github.com/nextmeal/backoffice/internal/domain/entity"
	"github.com/nextmeal/backoffice/internal/domain/order"
	"github.com/nextmeal/backoffice/internal/domain/repository"
)

// SaleSpec búsqueda por número de venta, pedido y método de pago.
var SaleSpec = listing.Spec[entity.Sale]{
	Haystack: func(s entity.Sale) string {
		return listing.Join(strconv.FormatInt(s.ID, 10), strconv.FormatInt(s.OrderID, 10), s.PaymentMethod)
	},
	Sorts: map[string]func(a, b entity.Sale) int{
		"id":    func(a, b entity.Sale) int { return cmp.Compare(a.ID, b.ID) },
		"fecha": func(a, b entity.Sale) int { return a.SoldAt.Compare(b.SoldAt) },
		"total": func(a, b entity.Sale) int { return a.Total.Cmp(b.Total) },
	},
}

// SaleUseCase ventas. Solo se registran contra pedidos terminados.
type SaleUseCase struct {
	sales    repository.SaleRepository
	orders   repository.OrderRepository
	clients  repository.ClientRepository
	products repository.ProductRepository
	receipts ports.ReceiptGenerator
	pageSize int
	audit    recorder
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	sales repository.SaleRepository,
	orders repository.OrderRepository,
	clients repository.ClientRepository,
	products repository.ProductRepository,
	receipts ports.ReceiptGenerator,
	pageSize int,
	audit ports.AuditSink,
) *SaleUseCase {
	return &SaleUseCase{
		sales:    sales,
		orders:   orders,
		clients:  clients,
		products: products,
		receipts: receipts,
		pageSize: pageSize,
		audit:    newRecorder(audit, "ventas"),
	}
}

func (uc *SaleUseCase) List(ctx context.Context, q listing.Query) (listing.Page[entity.Sale], error) {
	items, err := uc.sales.FetchAll(ctx)
	if err != nil {
		return listing.Page[entity.Sale]{}, err
	}
	return listing.Apply(items, q, SaleSpec, uc.pageSize), nil
}

// Loader fuente de la vista de ventas.
func (uc *SaleUseCase) Loader() listing.Loader[entity.Sale] {
	return uc.sales.FetchAll
}

func (uc *SaleUseCase) Get(ctx context.Context, id int64) (*entity.Sale, error) {
	return uc.sales.FetchByID(ctx, id)
}

// Form formulario con los pedidos terminados como opciones.
func (uc *SaleUseCase) Form(ctx context.Context) (*forms.SaleForm, error) {
	completed, err := uc.orders.FetchByStatus(ctx, string(order.StatusCompleted))
	if err != nil {
		return nil, err
	}
	return forms.NewSaleForm(completed), nil
}

// Create registra la venta; el total es el del pedido elegido.
func (uc *SaleUseCase) Create(ctx context.Context, in dto.SaleRequest) (*entity.Sale, error) {
	form, err := uc.Form(ctx)
	if err != nil {
		return nil, err
	}
	form.Select(in.OrderID, in.PaymentMethod)
	if err := uc.check(form, in); err != nil {
		return nil, err
	}
	opt, _ := form.Selected()
	s := entity.Sale{OrderID: opt.OrderID, PaymentMethod: in.PaymentMethod, Total: opt.Total}
	created, err := uc.sales.Create(ctx, &s)
	if err != nil {
		return nil, err
	}
	uc.audit.recordAmount(ctx, created.ID, "crear", fmt.Sprintf("pedido #%d", created.OrderID), &created.Total)
	return created, nil
}

// Update cambia el método de pago o el pedido, que también debe estar terminado.
func (uc *SaleUseCase) Update(ctx context.Context, id int64, in dto.SaleRequest) (*entity.Sale, error) {
	current, err := uc.sales.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	form, err := uc.Form(ctx)
	if err != nil {
		return nil, err
	}
	if in.OrderID == 0 {
		in.OrderID = current.OrderID
	}
	if in.OrderID == current.OrderID {
		// el pedido ya vendido puede no figurar entre los terminados sin venta
		if !entity.ValidPaymentMethod(in.PaymentMethod) {
			return nil, &forms.ValidationError{Fields: map[string]string{"metodo_pago": "Seleccione efectivo o transferencia"}}
		}
		current.PaymentMethod = in.PaymentMethod
	} else {
		form.Select(in.OrderID, in.PaymentMethod)
		if err := uc.check(form, in); err != nil {
			return nil, err
		}
		opt, _ := form.Selected()
		current.OrderID = opt.OrderID
		current.Total = opt.Total
		current.PaymentMethod = in.PaymentMethod
	}
	updated, err := uc.sales.Update(ctx, current)
	if err != nil {
		return nil, err
	}
	uc.audit.recordAmount(ctx, id, "editar", updated.PaymentMethod, &updated.Total)
	return updated, nil
}

func (uc *SaleUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.sales.Delete(ctx, id); err != nil {
		return err
	}
	uc.audit.record(ctx, id, "eliminar", "")
	return nil
}

// Receipt PDF del comprobante con el pedido, el cliente y los productos vendidos.
func (uc *SaleUseCase) Receipt(ctx context.Context, id int64) ([]byte, error) {
	if uc.receipts == nil {
		return nil, fmt.Errorf("comprobantes no configurados")
	}
	s, err := uc.sales.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	o, err := uc.orders.FetchByID(ctx, s.OrderID)
	if err != nil {
		return nil, err
	}
	data := ports.ReceiptData{Sale: *s, Order: *o, Products: map[int64]entity.Product{}}
	if c, err := uc.clients.FetchByID(ctx, o.ClientID); err == nil {
		data.Client = c
	} else if !IsNotFound(err) {
		return nil, err
	}
	catalog, err := uc.products.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range catalog {
		data.Products[p.ID] = p
	}
	return uc.receipts.Generate(data)
}

// check distingue el pedido no terminado del resto de errores de campo.
func (uc *SaleUseCase) check(form *forms.SaleForm, in dto.SaleRequest) error {
	if in.OrderID > 0 {
		if _, ok := form.Selected(); !ok {
			return fmt.Errorf("%w: pedido #%d", domain.ErrOrderNotCompleted, in.OrderID)
		}
	}
	return form.Validate()
}
