package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pago de una venta. Una venta solo transiciona
// pendiente -> pagado; nunca al revés y nunca se borra.
const (
	PaymentStatusPending = "pendiente"
	PaymentStatusPaid    = "pagado"
)

// Tipos de comprobante.
const (
	DocTypeBoleta  = "boleta"
	DocTypeFactura = "factura" // requiere cliente con RUC válido
)

// Condiciones de pago.
const (
	PaymentTermsCash   = "contado"
	PaymentTermsCredit = "credito" // solo clientes distribuidores
)

// Sale es la cabecera de una venta confirmada.
type Sale struct {
	ID            string
	ClientID      string
	Date          time.Time
	DueDate       *time.Time // solo crédito
	DocType       string
	DocNumber     string
	PaymentStatus string
	PaidAt        *time.Time
	Total         decimal.Decimal
	CreatedAt     time.Time
	CreatedBy     string
}

// SaleItem es una línea de venta. Una línea plana referencia un producto
// concreto; una línea padre de kit es documental (precio 0 implícito en el
// total) y sus hijas llevan ParentLineID.
type SaleItem struct {
	ID           string
	SaleID       string
	ProductID    string
	Qty          decimal.Decimal
	UnitPrice    decimal.Decimal
	DiscountPct  decimal.Decimal
	ParentLineID *string
	IsKitParent  bool
}

// ExtendedPrice devuelve el importe de la línea con descuento aplicado.
// Las líneas padre de kit no aportan al total (documentales).
func (i *SaleItem) ExtendedPrice() decimal.Decimal {
	if i.IsKitParent {
		return decimal.Zero
	}
	d := i.DiscountPct
	if d.LessThan(decimal.Zero) {
		d = decimal.Zero
	}
	hundred := decimal.NewFromInt(100)
	if d.GreaterThan(hundred) {
		d = hundred
	}
	factor := hundred.Sub(d).Div(hundred)
	return i.Qty.Mul(i.UnitPrice).Mul(factor)
}
