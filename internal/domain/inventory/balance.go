// Package inventory contiene la lógica pura del libro de inventario:
// el saldo de un producto es siempre el pliegue con signo de sus
// movimientos, nunca un valor almacenado.
package inventory

import (
	"github.com/shopspring/decimal"
	"github.com/hidrosur/comercial-api/internal/domain/entity"
)

// Balance pliega una secuencia de movimientos en el saldo actual.
// Es conmutativo: el orden de reproducción no afecta el resultado
// (IN suma, OUT resta, ADJUST aplica su signo).
func Balance(movements []*entity.StockMovement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		total = total.Add(m.SignedQuantity())
	}
	return total
}

// BalanceByProduct pliega movimientos de varios productos en un mapa
// productID -> saldo. Útil para conciliación y replay del libro.
func BalanceByProduct(movements []*entity.StockMovement) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, m := range movements {
		out[m.ProductID] = out[m.ProductID].Add(m.SignedQuantity())
	}
	return out
}
