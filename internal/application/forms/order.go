package forms

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nextmeal/backoffice/internal/application/dto"
	"github.com/nextmeal/backoffice/internal/domain"
	"github.com/nextmeal/backoffice/internal/domain/entity"
	"github.com/nextmeal/backoffice/internal/domain/order"
)

// Pasos del formulario de pedido.
const (
	OrderStepCustomer = 1
	OrderStepProducts = 2
)

// OrderForm cliente y envío → productos.
var OrderForm = NewValidator(
	Field[dto.OrderRequest]{Name: "id_cliente", Step: OrderStepCustomer, Check: Positive(
		func(r dto.OrderRequest) int64 { return r.ClientID }, "Seleccione un cliente"),
	},
	Field[dto.OrderRequest]{Name: "direccion_envio", Step: OrderStepCustomer, Check: Required(
		func(r dto.OrderRequest) string { return r.ShippingAddress }, "La dirección de envío es obligatoria"),
	},
	Field[dto.OrderRequest]{Name: "detalles", Step: OrderStepProducts, Check: func(r dto.OrderRequest) string {
		if len(r.Items) == 0 {
			return "Agregue al menos un producto"
		}
		for _, it := range r.Items {
			if it.ProductID <= 0 || it.Quantity <= 0 {
				return "Cada producto debe tener una cantidad mayor que cero"
			}
		}
		return ""
	}},
)

// DraftLine línea del borrador con el precio tomado del catálogo.
type DraftLine struct {
	ProductID int64           `json:"id_producto"`
	Name      string          `json:"nombre"`
	Quantity  int             `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderDraft pedido en construcción. El total se recalcula tras cada cambio.
type OrderDraft struct {
	ClientID        int64
	ShippingAddress string
	lines           []DraftLine
}

// Add agrega cantidad del producto; si ya está, suma a la línea existente.
func (d *OrderDraft) Add(p entity.Product, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: cantidad %d", domain.ErrInvalidInput, qty)
	}
	if p.Status == entity.EstadoInactivo {
		return fmt.Errorf("%w: el producto %q está inactivo", domain.ErrInvalidInput, p.Name)
	}
	for i := range d.lines {
		if d.lines[i].ProductID == p.ID {
			d.lines[i].Quantity += qty
			d.lines[i].Subtotal = lineTotal(d.lines[i])
			return nil
		}
	}
	l := DraftLine{ProductID: p.ID, Name: p.Name, Quantity: qty, UnitPrice: p.Price}
	l.Subtotal = lineTotal(l)
	d.lines = append(d.lines, l)
	return nil
}

// SetQuantity ajusta la cantidad; qty <= 0 quita la línea.
func (d *OrderDraft) SetQuantity(productID int64, qty int) error {
	for i := range d.lines {
		if d.lines[i].ProductID != productID {
			continue
		}
		if qty <= 0 {
			d.Remove(productID)
			return nil
		}
		d.lines[i].Quantity = qty
		d.lines[i].Subtotal = lineTotal(d.lines[i])
		return nil
	}
	return fmt.Errorf("%w: producto %d no está en el pedido", domain.ErrNotFound, productID)
}

// Remove quita la línea del producto, si existe.
func (d *OrderDraft) Remove(productID int64) {
	for i := range d.lines {
		if d.lines[i].ProductID == productID {
			d.lines = append(d.lines[:i], d.lines[i+1:]...)
			return
		}
	}
}

// Lines copia de las líneas actuales.
func (d *OrderDraft) Lines() []DraftLine {
	return append([]DraftLine(nil), d.lines...)
}

// Total Σ cantidad × precio unitario.
func (d *OrderDraft) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.lines {
		total = total.Add(lineTotal(l))
	}
	return total
}

// Order pedido listo para enviar, en estado inicial.
func (d *OrderDraft) Order() entity.Order {
	items := make([]entity.OrderItem, 0, len(d.lines))
	for _, l := range d.lines {
		items = append(items, entity.OrderItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  lineTotal(l),
		})
	}
	return entity.Order{
		ClientID:        d.ClientID,
		ShippingAddress: d.ShippingAddress,
		Status:          string(order.InitialStatus()),
		Total:           d.Total(),
		Items:           items,
	}
}

func lineTotal(l DraftLine) decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// DraftFromRequest arma el borrador con los precios del catálogo.
func DraftFromRequest(in dto.OrderRequest, catalog []entity.Product) (*OrderDraft, error) {
	byID := make(map[int64]entity.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}
	d := &OrderDraft{ClientID: in.ClientID, ShippingAddress: in.ShippingAddress}
	for _, it := range in.Items {
		p, ok := byID[it.ProductID]
		if !ok {
			return nil, &ValidationError{Fields: map[string]string{"detalles": fmt.Sprintf("El producto %d no existe", it.ProductID)}}
		}
		if err := d.Add(p, it.Quantity); err != nil {
			return nil, &ValidationError{Fields: map[string]string{"detalles": fmt.Sprintf("No se puede agregar %q", p.Name)}}
		}
	}
	return d, nil
}
