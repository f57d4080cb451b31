package forms

import (
	"fmt"

	"github.com/nextmeal/backoffice/internal/application/dto"
	"github.com/nextmeal/backoffice/internal/domain/entity"
	"github.com/nextmeal/backoffice/internal/domain/order"
)

// SalePlaceholder opción vacía del selector de pedidos.
const SalePlaceholder = "Seleccionar pedido"

// SaleForm formulario de venta: solo ofrece pedidos terminados.
type SaleForm struct {
	options       []dto.SaleOption
	OrderID       int64
	PaymentMethod string
}

// NewSaleForm construye las opciones a partir de los pedidos del filtro estado=terminado.
// Cualquier pedido en otro estado se descarta.
func NewSaleForm(completed []entity.Order) *SaleForm {
	f := &SaleForm{options: []dto.SaleOption{}}
	for _, o := range completed {
		if order.Status(o.Status) != order.StatusCompleted {
			continue
		}
		f.options = append(f.options, dto.SaleOption{
			OrderID: o.ID,
			Label:   fmt.Sprintf("Pedido #%d - $%s", o.ID, o.Total.StringFixed(2)),
			Total:   o.Total,
		})
	}
	return f
}

// Options pedidos seleccionables (sin el placeholder).
func (f *SaleForm) Options() []dto.SaleOption {
	return append([]dto.SaleOption{}, f.options...)
}

// Select elige pedido y método de pago.
func (f *SaleForm) Select(orderID int64, paymentMethod string) {
	f.OrderID = orderID
	f.PaymentMethod = paymentMethod
}

// Selected opción elegida, si es una de las ofrecidas.
func (f *SaleForm) Selected() (dto.SaleOption, bool) {
	for _, o := range f.options {
		if o.OrderID == f.OrderID {
			return o, true
		}
	}
	return dto.SaleOption{}, false
}

// CanSubmit hay un pedido terminado elegido y un método de pago válido.
func (f *SaleForm) CanSubmit() bool {
	_, ok := f.Selected()
	return ok && entity.ValidPaymentMethod(f.PaymentMethod)
}

// Validate errores por campo del envío.
func (f *SaleForm) Validate() error {
	errs := map[string]string{}
	if _, ok := f.Selected(); !ok {
		errs["id_pedido"] = "Seleccione un pedido terminado"
	}
	if !entity.ValidPaymentMethod(f.PaymentMethod) {
		errs["metodo_pago"] = "Seleccione efectivo o transferencia"
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// Response estado del formulario para la vista.
func (f *SaleForm) Response() dto.SaleFormResponse {
	return dto.SaleFormResponse{
		Placeholder:    SalePlaceholder,
		Options:        f.Options(),
		PaymentMethods: []string{entity.PaymentCash, entity.PaymentTransfer},
		CanSubmit:      f.CanSubmit(),
	}
}
