package dto

import "github.com/shopspring/decimal"

// SubmitOrderLine una línea de la venta propuesta: plana (producto
// concreto) o kit (con componentes ya resueltos por el resolvedor).
type SubmitOrderLine struct {
	ProductID   string          `json:"product_id" validate:"required"`
	Qty         decimal.Decimal `json:"qty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	DiscountPct decimal.Decimal `json:"discount_pct"`

	IsKit      bool                `json:"is_kit,omitempty"`
	Components []ResolvedComponent `json:"components,omitempty"` // salida de ResolveKit
}

// SubmitOrderRequest body para POST /api/sales.
type SubmitOrderRequest struct {
	ClientID     string            `json:"client_id" validate:"required"`
	DocType      string            `json:"doc_type" validate:"required,oneof=boleta factura"`
	DocNumber    string            `json:"doc_number,omitempty"`
	PaymentTerms string            `json:"payment_terms" validate:"required,oneof=contado credito"`
	PayNow       bool              `json:"pay_now"`
	Date         string            `json:"date,omitempty"`     // YYYY-MM-DD
	DueDate      string            `json:"due_date,omitempty"` // solo crédito
	Lines        []SubmitOrderLine `json:"lines" validate:"required,min=1"`
}

// SaleItemResponse una línea persistida de la venta.
type SaleItemResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	Qty          decimal.Decimal `json:"qty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	DiscountPct  decimal.Decimal `json:"discount_pct"`
	ParentLineID string          `json:"parent_line_id,omitempty"`
	IsKitParent  bool            `json:"is_kit_parent,omitempty"`
}

// SaleResponse cabecera (y opcionalmente detalle) de una venta.
type SaleResponse struct {
	ID            string             `json:"id"`
	ClientID      string             `json:"client_id"`
	Date          string             `json:"date"`
	DueDate       string             `json:"due_date,omitempty"`
	DocType       string             `json:"doc_type"`
	DocNumber     string             `json:"doc_number,omitempty"`
	PaymentStatus string             `json:"payment_status"`
	PaidAt        string             `json:"paid_at,omitempty"`
	Total         decimal.Decimal    `json:"total"`
	Items         []SaleItemResponse `json:"items,omitempty"`
}

// MarkPaidRequest body para POST /api/sales/:id/pay.
type MarkPaidRequest struct {
	PaidDate string `json:"paid_date,omitempty"` // YYYY-MM-DD, hoy por defecto
}
