package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo del catálogo (producto simple o kit/juego).
// El stock nunca vive aquí: se deriva siempre del libro de movimientos.
type Product struct {
	ID         string
	SKU        string // código único
	Name       string
	Unit       string // und, jgo, par...
	SupplierID string
	IsKit      bool

	// Precios (los consumen ventas y reportes, no el motor de inventario)
	ListPrice decimal.Decimal
	MarginPct decimal.Decimal
	LastCost  decimal.Decimal

	// Servicio recurrente: si ServiceRecurring es true, cada unidad vendida
	// genera un contrato de servicio con este intervalo.
	ServiceRecurring      bool
	ServiceIntervalMonths int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BasePrice devuelve el precio base de venta: precio de lista si existe;
// sin margen, el último costo; con margen, el último costo recargado.
func (p *Product) BasePrice() decimal.Decimal {
	if p.ListPrice.GreaterThan(decimal.Zero) {
		return p.ListPrice
	}
	if p.MarginPct.IsZero() && p.LastCost.GreaterThan(decimal.Zero) {
		return p.LastCost
	}
	if p.MarginPct.GreaterThan(decimal.Zero) && p.LastCost.GreaterThan(decimal.Zero) {
		factor := decimal.NewFromInt(1).Add(p.MarginPct.Div(decimal.NewFromInt(100)))
		return p.LastCost.Mul(factor).Round(2)
	}
	return decimal.Zero
}
