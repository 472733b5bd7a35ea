package inventory

import (
	"context"

	"github.com/shopspring/decimal"
)

// BalanceCache es el puerto del caché de saldos derivados. El saldo nunca
// se muta a mano: cada movimiento nuevo invalida la entrada y la próxima
// lectura recalcula contra el libro.
type BalanceCache interface {
	Get(ctx context.Context, productID string) (decimal.Decimal, bool)
	Set(ctx context.Context, productID string, balance decimal.Decimal)
	Invalidate(ctx context.Context, productIDs ...string)
}
