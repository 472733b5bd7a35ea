package dto

import "github.com/shopspring/decimal"

// RegisterMovementRequest body para POST /api/inventory/movements.
// IN y OUT exigen cantidad positiva; ADJUST admite cantidad con signo.
type RegisterMovementRequest struct {
	ProductID    string          `json:"product_id" validate:"required"`
	Date         string          `json:"date,omitempty"` // YYYY-MM-DD, hoy por defecto
	Type         string          `json:"type" validate:"required,oneof=IN OUT ADJUST"`
	Quantity     decimal.Decimal `json:"quantity"`
	Note         string          `json:"note,omitempty"`
	OriginModule string          `json:"origin_module,omitempty"`
	OriginType   string          `json:"origin_type,omitempty"`
	OriginRefID  string          `json:"origin_ref_id,omitempty"`
}

// BalancesRequest body para POST /api/inventory/balances (lectura en lote).
type BalancesRequest struct {
	ProductIDs []string `json:"product_ids" validate:"required,min=1,dive,required"`
}

// BalanceResponse saldo derivado de un producto.
type BalanceResponse struct {
	ProductID string          `json:"product_id"`
	Balance   decimal.Decimal `json:"balance"`
}

// MovementResponse una entrada del kardex.
type MovementResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	Date         string          `json:"date"`
	Type         string          `json:"type"`
	Quantity     decimal.Decimal `json:"quantity"`
	Note         string          `json:"note,omitempty"`
	OriginModule string          `json:"origin_module,omitempty"`
	OriginRefID  string          `json:"origin_ref_id,omitempty"`
}
