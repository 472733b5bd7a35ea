package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/hidrosur/comercial-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia del libro de
// movimientos (DIP). El libro es append-only: no hay Update; Delete
// existe solo como compensación de saga y borra por referencia de origen.
type MovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)

	// BalanceOf calcula el saldo actual como agregado sobre todos los
	// movimientos del producto (el saldo nunca se almacena).
	BalanceOf(productID string) (decimal.Decimal, error)
	BalancesOf(productIDs []string) (map[string]decimal.Decimal, error)

	// ExistsByOrigin indica si ya hay movimientos con esa referencia de
	// origen (guardia de idempotencia para commits reintentados).
	ExistsByOrigin(module, refID string) (bool, error)
	DeleteByOrigin(module, refID string) error
}
