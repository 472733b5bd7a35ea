package kit_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hidrosur/comercial-api/internal/application/kit"
	"github.com/hidrosur/comercial-api/internal/domain"
	"github.com/hidrosur/comercial-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.products[id], nil
}

func (r *fakeProductRepo) GetByIDs(ids []string) (map[string]*entity.Product, error) {
	out := map[string]*entity.Product{}
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (r *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

type fakeKitRepo struct {
	items map[string][]*entity.KitItem
}

func (r *fakeKitRepo) ListItems(kitProductID string) ([]*entity.KitItem, error) {
	return r.items[kitProductID], nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Armado de prueba: un kit con una línea obligatoria A (qty 2, sustituto
// A-sub con razón 0.5) y una línea opcional B (qty 1).
func newResolver() *kit.ResolverUseCase {
	products := &fakeProductRepo{products: map[string]*entity.Product{
		"kit-1": {ID: "kit-1", SKU: "KIT-1", IsKit: true},
		"A":     {ID: "A", SKU: "A", ListPrice: dec("100")},
		"A-sub": {ID: "A-sub", SKU: "A-SUB", LastCost: dec("40"), MarginPct: dec("25")},
		"B":     {ID: "B", SKU: "B", ListPrice: dec("30")},
	}}
	kits := &fakeKitRepo{items: map[string][]*entity.KitItem{
		"kit-1": {
			{
				ID: "line-a", KitProductID: "kit-1", ComponentID: "A",
				Qty: dec("2"), Required: true,
				Subs: []entity.KitItemSub{{ID: "s1", KitItemID: "line-a", ProductID: "A-sub", QtyRatio: dec("0.5")}},
			},
			{
				ID: "line-b", KitProductID: "kit-1", ComponentID: "B",
				Qty: dec("1"), Required: false,
			},
		},
	}}
	return kit.NewResolverUseCase(products, kits)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// Elegir el sustituto con razón 0.5 para 3 kits: 2 * 0.5 * 3 = 3 unidades.
// La opcional omitida no aparece en la demanda.
func TestResolve_SustitutoConRazonYOpcionalOmitida(t *testing.T) {
	uc := newResolver()
	got, err := uc.Resolve(context.Background(), "kit-1", dec("3"), map[string]string{
		"line-a": "A-sub",
	})
	require.NoError(t, err)
	require.Len(t, got, 1, "solo la línea obligatoria debe generar demanda")

	assert.Equal(t, "A-sub", got[0].ProductID)
	assert.True(t, got[0].Quantity.Equal(dec("3")), "2 * 0.5 * 3 debe dar 3, dio %s", got[0].Quantity)
	// Precio base del sustituto: último costo 40 con margen 25% = 50
	assert.True(t, got[0].UnitPrice.Equal(dec("50")), "precio base debe ser 50, dio %s", got[0].UnitPrice)
}

func TestResolve_ComponenteBaseMasOpcional(t *testing.T) {
	uc := newResolver()
	got, err := uc.Resolve(context.Background(), "kit-1", dec("2"), map[string]string{
		"line-a": "A",
		"line-b": "B",
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "A", got[0].ProductID)
	assert.True(t, got[0].Quantity.Equal(dec("4")), "2 * 1 * 2 debe dar 4")
	assert.Equal(t, "B", got[1].ProductID)
	assert.True(t, got[1].Quantity.Equal(dec("2")))
}

// Una línea obligatoria sin elección nunca se asume: falla completo.
func TestResolve_ObligatoriaSinEleccionFalla(t *testing.T) {
	uc := newResolver()
	_, err := uc.Resolve(context.Background(), "kit-1", dec("1"), map[string]string{
		"line-b": "B",
	})
	assert.ErrorIs(t, err, domain.ErrIncompleteKit)
}

func TestResolve_EleccionFueraDeLaLineaFalla(t *testing.T) {
	uc := newResolver()
	_, err := uc.Resolve(context.Background(), "kit-1", dec("1"), map[string]string{
		"line-a": "B", // B no es base ni sustituto de line-a
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResolve_ProductoNoKitFalla(t *testing.T) {
	uc := newResolver()
	_, err := uc.Resolve(context.Background(), "A", dec("1"), map[string]string{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResolve_KitSinBOMFalla(t *testing.T) {
	products := &fakeProductRepo{products: map[string]*entity.Product{
		"kit-x": {ID: "kit-x", IsKit: true},
	}}
	uc := kit.NewResolverUseCase(products, &fakeKitRepo{items: map[string][]*entity.KitItem{}})
	_, err := uc.Resolve(context.Background(), "kit-x", dec("1"), map[string]string{})
	assert.ErrorIs(t, err, domain.ErrIncompleteKit)
}

func TestResolve_KitInexistenteFalla(t *testing.T) {
	uc := newResolver()
	_, err := uc.Resolve(context.Background(), "no-existe", dec("1"), map[string]string{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
