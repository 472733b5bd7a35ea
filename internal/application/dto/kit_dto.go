package dto

import "github.com/shopspring/decimal"

// ResolveKitRequest body para POST /api/kits/:kitProductId/resolve.
// Selections mapea cada línea del BOM (kit_item_id) al producto concreto
// elegido (base o sustituto). Las líneas opcionales pueden omitirse.
type ResolveKitRequest struct {
	KitQty     decimal.Decimal   `json:"kit_qty"`
	Selections map[string]string `json:"selections" validate:"required"`
}

// ResolvedComponent una demanda concreta resultante de expandir el kit.
type ResolvedComponent struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ResolveKitResponse expansión plana del kit.
type ResolveKitResponse struct {
	KitProductID string              `json:"kit_product_id"`
	KitQty       decimal.Decimal     `json:"kit_qty"`
	Components   []ResolvedComponent `json:"components"`
}
