// Package pdf genera el comprobante de venta.
//
// Layout de la página A5:
//
//	┌───────────────────────────────────────────────┐
//	│  NextMeal            │  Venta N° + Fecha      │
//	│  ───────────────────────────────────────────  │
//	│  CLIENTE: nombre, documento, dirección envío  │
//	│  ───────────────────────────────────────────  │
//	│  Cant | Producto | P.Unit | Subtotal          │
//	│  ───────────────────────────────────────────  │
//	│  Método de pago          TOTAL                │
//	│  QR de verificación                           │
//	└───────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/nextmeal/backoffice/internal/application/ports"
	"github.com/nextmeal/backoffice/internal/domain/entity"
)

var _ ports.ReceiptGenerator = (*ReceiptGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 196, Green: 64, Blue: 24}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ReceiptGenerator comprobante de venta con Maroto v2.
type ReceiptGenerator struct {
	business string
}

// NewReceiptGenerator business aparece en el encabezado.
func NewReceiptGenerator(business string) *ReceiptGenerator {
	if business == "" {
		business = "NextMeal"
	}
	return &ReceiptGenerator{business: business}
}

// Generate arma el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) Generate(data ports.ReceiptData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Comprobante de venta %d", data.Sale.ID), true).
		WithAuthor(g.business, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(g.headerRow(data.Sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(data.Client, data.Order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(itemsHeaderRow())
	m.AddRows(itemRows(data.Order.Items, data.Products)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(data.Sale))
	m.AddRows(qrRow(data.Sale))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *ReceiptGenerator) headerRow(s entity.Sale) core.Row {
	fecha := "—"
	if !s.SoldAt.IsZero() {
		fecha = s.SoldAt.Format("02/01/2006 15:04")
	}
	return row.New(16).Add(
		col.New(6).Add(
			text.New(g.business, props.Text{Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1}),
			text.New("Comprobante de venta", props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(6).Add(
			text.New(fmt.Sprintf("Venta N° %d", s.ID), props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1}),
			text.New("Fecha: "+fecha, props.Text{Size: 8, Align: align.Right, Top: 9, Color: colorGray}),
		),
	)
}

func clientRow(c *entity.Client, o entity.Order) core.Row {
	name, doc := "Cliente no registrado", "—"
	if c != nil {
		name = c.FullName
		doc = strings.TrimSpace(c.DocumentType + " " + c.DocumentNumber)
	}
	return row.New(16).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 5}),
			text.New(fmt.Sprintf("Doc: %s   |   Pedido #%d   |   Envío: %s", nonEmpty(doc, "—"), o.ID, nonEmpty(o.ShippingAddress, "—")),
				props.Text{Size: 7.5, Top: 11, Color: colorGray}),
		),
	)
}

func itemsHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 1.5, Left: 1, Right: 1,
		}))
	}
	return row.New(7).Add(
		h("Cant.", 2, align.Center),
		h("Producto", 5, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func itemRows(items []entity.OrderItem, products map[int64]entity.Product) []core.Row {
	out := make([]core.Row, 0, len(items))
	for _, it := range items {
		name := fmt.Sprintf("Producto %d", it.ProductID)
		if p, ok := products[it.ProductID]; ok {
			name = p.Name
		}
		out = append(out, row.New(6).Add(
			col.New(2).Add(text.New(fmt.Sprint(it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(Money(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(Money(it.LineSubtotal()), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

func totalRow(s entity.Sale) core.Row {
	return row.New(12).Add(
		col.New(6).Add(text.New("Pago: "+paymentLabel(s.PaymentMethod), props.Text{Size: 9, Top: 3})),
		col.New(6).Add(text.New("TOTAL "+Money(s.Total), props.Text{
			Style: fontstyle.Bold, Size: 12, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

func qrRow(s entity.Sale) core.Row {
	ref := fmt.Sprintf("NEXTMEAL|VENTA|%d|PEDIDO|%d|%s", s.ID, s.OrderID, s.Total.StringFixed(2))
	return row.New(34).Add(
		col.New(4).Add(code.NewQr(ref, props.Rect{Percent: 90, Center: true})),
		col.New(8).Add(
			text.New("Gracias por tu compra.", props.Text{Style: fontstyle.Bold, Size: 10, Top: 8, Left: 3}),
			text.New("Conserva este comprobante para cualquier reclamo.", props.Text{Size: 7.5, Top: 16, Left: 3, Color: colorGray}),
		),
	)
}

func paymentLabel(m string) string {
	switch m {
	case entity.PaymentCash:
		return "Efectivo"
	case entity.PaymentTransfer:
		return "Transferencia"
	default:
		return nonEmpty(m, "—")
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// Money formato de pesos: "$25.000" o "$4.000,50" si hay centavos.
func Money(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	whole := d.Truncate(0)
	cents := d.Sub(whole).Mul(decimal.NewFromInt(100)).Round(0)
	out := "$" + sign + thousands(whole.StringFixed(0))
	if !cents.IsZero() {
		out += "," + fmt.Sprintf("%02d", cents.IntPart())
	}
	return out
}

// thousands inserta puntos de miles: "1000000" → "1.000.000".
func thousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
