package entity

import "github.com/shopspring/decimal"

// KitItem es una línea de la lista de materiales (BOM) de un producto kit:
// un componente base, cantidad por unidad de kit y si la línea es obligatoria.
type KitItem struct {
	ID           string
	KitProductID string
	ComponentID  string // producto base de la línea
	Qty          decimal.Decimal
	GroupCode    string
	Required     bool
	Subs         []KitItemSub
}

// KitItemSub es un sustituto admitido para una línea del kit, con su razón
// de cantidad respecto al componente base (1 por defecto).
type KitItemSub struct {
	ID        string
	KitItemID string
	ProductID string
	QtyRatio  decimal.Decimal
}

// RatioFor devuelve la razón de cantidad del producto elegido para la línea:
// 1 si es el componente base, la razón del sustituto si está registrado,
// y ok=false si el producto no pertenece a la línea.
func (it *KitItem) RatioFor(productID string) (decimal.Decimal, bool) {
	if productID == it.ComponentID {
		return decimal.NewFromInt(1), true
	}
	for _, s := range it.Subs {
		if s.ProductID == productID {
			if s.QtyRatio.IsZero() {
				return decimal.NewFromInt(1), true
			}
			return s.QtyRatio, true
		}
	}
	return decimal.Zero, false
}
