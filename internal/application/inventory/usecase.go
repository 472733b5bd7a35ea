package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/hidrosur/comercial-api/internal/domain"
	"github.com/hidrosur/comercial-api/internal/domain/entity"
	"github.com/hidrosur/comercial-api/internal/domain/repository"
)

// UseCase expone el libro de inventario: registrar movimientos
// (append-only) y leer saldos derivados y kardex.
type UseCase struct {
	movementRepo repository.MovementRepository
	productRepo  repository.ProductRepository
	cache        BalanceCache // opcional; nil = sin caché
}

// NewUseCase construye el caso de uso.
func NewUseCase(movementRepo repository.MovementRepository, productRepo repository.ProductRepository, cache BalanceCache) *UseCase {
	return &UseCase{movementRepo: movementRepo, productRepo: productRepo, cache: cache}
}

// MovementInput entrada para registrar un movimiento.
type MovementInput struct {
	ProductID string
	Date      time.Time
	Type      string
	Quantity  decimal.Decimal
	Note      string
	Origin    entity.MovementOrigin
	UserID    string
}

// RegisterMovement valida y apenda un movimiento al libro. IN/OUT exigen
// cantidad positiva; ADJUST exige cantidad distinta de cero (con signo).
// Un OUT nuevo nunca deja el saldo por debajo de cero; los saldos
// negativos históricos se toleran pero no se introducen.
func (uc *UseCase) RegisterMovement(ctx context.Context, input MovementInput) (string, error) {
	if !entity.ValidMovementType(input.Type) || input.ProductID == "" {
		return "", domain.ErrInvalidInput
	}
	switch input.Type {
	case entity.MovementTypeIN, entity.MovementTypeOUT:
		if !input.Quantity.GreaterThan(decimal.Zero) {
			return "", domain.ErrInvalidInput
		}
	case entity.MovementTypeADJUST:
		if input.Quantity.IsZero() {
			return "", domain.ErrInvalidInput
		}
	}

	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil {
		return "", err
	}
	if product == nil {
		return "", domain.ErrNotFound
	}

	if input.Type == entity.MovementTypeOUT {
		balance, err := uc.movementRepo.BalanceOf(input.ProductID)
		if err != nil {
			return "", err
		}
		if balance.LessThan(input.Quantity) {
			return "", &domain.StockShortageError{
				ProductID: input.ProductID,
				Requested: input.Quantity,
				Available: balance,
			}
		}
	}

	now := time.Now()
	date := input.Date
	if date.IsZero() {
		date = now
	}
	mov := &entity.StockMovement{
		ID:        uuid.New().String(),
		ProductID: input.ProductID,
		Date:      date,
		Type:      input.Type,
		Quantity:  input.Quantity,
		Note:      input.Note,
		Origin:    input.Origin,
		CreatedAt: now,
		CreatedBy: input.UserID,
	}
	if err := uc.movementRepo.Create(mov); err != nil {
		return "", err
	}
	if uc.cache != nil {
		uc.cache.Invalidate(ctx, input.ProductID)
	}
	return mov.ID, nil
}

// GetBalance devuelve el saldo derivado de un producto, con caché si hay.
func (uc *UseCase) GetBalance(ctx context.Context, productID string) (decimal.Decimal, error) {
	if productID == "" {
		return decimal.Zero, domain.ErrInvalidInput
	}
	if uc.cache != nil {
		if bal, ok := uc.cache.Get(ctx, productID); ok {
			return bal, nil
		}
	}
	bal, err := uc.movementRepo.BalanceOf(productID)
	if err != nil {
		return decimal.Zero, err
	}
	if uc.cache != nil {
		uc.cache.Set(ctx, productID, bal)
	}
	return bal, nil
}

// GetBalances lectura en lote de saldos (un solo agregado en DB).
func (uc *UseCase) GetBalances(ctx context.Context, productIDs []string) (map[string]decimal.Decimal, error) {
	if len(productIDs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	balances, err := uc.movementRepo.BalancesOf(productIDs)
	if err != nil {
		return nil, err
	}
	// Productos sin movimientos aparecen con saldo cero
	for _, id := range productIDs {
		if _, ok := balances[id]; !ok {
			balances[id] = decimal.Zero
		}
	}
	return balances, nil
}

// ListKardex lista los movimientos de un producto en un rango de fechas.
func (uc *UseCase) ListKardex(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movementRepo.ListByProduct(productID, from, to, limit, offset)
}
