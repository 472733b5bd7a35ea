package kit

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/hidrosur/comercial-api/internal/domain"
	"github.com/hidrosur/comercial-api/internal/domain/repository"
)

// ResolverUseCase expande un kit en demanda concreta de componentes según
// la lista de materiales y la elección de sustitutos del caller. Puro
// respecto al inventario: nunca toca el libro de movimientos.
type ResolverUseCase struct {
	productRepo repository.ProductRepository
	kitRepo     repository.KitRepository
}

// NewResolverUseCase construye el resolvedor.
func NewResolverUseCase(productRepo repository.ProductRepository, kitRepo repository.KitRepository) *ResolverUseCase {
	return &ResolverUseCase{productRepo: productRepo, kitRepo: kitRepo}
}

// ResolvedComponent una demanda concreta: producto elegido, cantidad total
// y precio unitario sugerido.
type ResolvedComponent struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Resolve expande kitQty unidades del kit. selections mapea cada línea del
// BOM al producto elegido (base o sustituto). Una línea obligatoria sin
// elección falla con ErrIncompleteKit; una opcional ausente se omite
// (nunca se asume la base en silencio). La cantidad por línea es
// qty_por_kit * razón_del_elegido * kitQty.
func (uc *ResolverUseCase) Resolve(ctx context.Context, kitProductID string, kitQty decimal.Decimal, selections map[string]string) ([]ResolvedComponent, error) {
	if kitProductID == "" || !kitQty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	kitProduct, err := uc.productRepo.GetByID(kitProductID)
	if err != nil {
		return nil, err
	}
	if kitProduct == nil {
		return nil, domain.ErrNotFound
	}
	if !kitProduct.IsKit {
		return nil, domain.ErrInvalidInput
	}

	items, err := uc.kitRepo.ListItems(kitProductID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrIncompleteKit
	}

	var out []ResolvedComponent
	for _, it := range items {
		chosenID, ok := selections[it.ID]
		if !ok || chosenID == "" {
			if it.Required {
				return nil, domain.ErrIncompleteKit
			}
			continue // opcional omitida explícitamente
		}
		ratio, ok := it.RatioFor(chosenID)
		if !ok {
			// El producto elegido no es la base ni un sustituto registrado
			return nil, domain.ErrInvalidInput
		}
		chosen, err := uc.productRepo.GetByID(chosenID)
		if err != nil {
			return nil, err
		}
		if chosen == nil {
			return nil, domain.ErrNotFound
		}
		out = append(out, ResolvedComponent{
			ProductID: chosenID,
			Quantity:  it.Qty.Mul(ratio).Mul(kitQty),
			UnitPrice: chosen.BasePrice(),
		})
	}
	return out, nil
}
