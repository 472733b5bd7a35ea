package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/hidrosur/comercial-api/internal/domain/entity"
	"github.com/hidrosur/comercial-api/internal/domain/inventory"
)

func mov(productID, typ string, qty string) *entity.StockMovement {
	return &entity.StockMovement{
		ProductID: productID,
		Type:      typ,
		Quantity:  decimal.RequireFromString(qty),
	}
}

// El saldo es el pliegue con signo: IN suma, OUT resta, ADJUST aplica su signo.
func TestBalance_PliegueConSigno(t *testing.T) {
	movements := []*entity.StockMovement{
		mov("p1", entity.MovementTypeIN, "10"),
		mov("p1", entity.MovementTypeOUT, "3"),
		mov("p1", entity.MovementTypeADJUST, "-2"),
		mov("p1", entity.MovementTypeADJUST, "0.5"),
	}
	got := inventory.Balance(movements)
	assert.True(t, got.Equal(decimal.RequireFromString("5.5")),
		"10 - 3 - 2 + 0.5 debe dar 5.5, dio %s", got)
}

func TestBalance_SinMovimientosEsCero(t *testing.T) {
	assert.True(t, inventory.Balance(nil).IsZero(), "sin movimientos el saldo es cero")
}

// El pliegue es conmutativo: reproducir el libro en cualquier orden da el
// mismo saldo.
func TestBalance_OrdenDeReproduccionNoImporta(t *testing.T) {
	movements := []*entity.StockMovement{
		mov("p1", entity.MovementTypeIN, "7"),
		mov("p1", entity.MovementTypeOUT, "4"),
		mov("p1", entity.MovementTypeIN, "2.25"),
		mov("p1", entity.MovementTypeADJUST, "-1"),
	}
	want := inventory.Balance(movements)

	reversed := make([]*entity.StockMovement, len(movements))
	for i, m := range movements {
		reversed[len(movements)-1-i] = m
	}
	assert.True(t, inventory.Balance(reversed).Equal(want),
		"el saldo debe ser igual con el libro invertido")

	shuffled := []*entity.StockMovement{movements[2], movements[0], movements[3], movements[1]}
	assert.True(t, inventory.Balance(shuffled).Equal(want),
		"el saldo debe ser igual con el libro permutado")
}

// Los saldos negativos históricos se toleran en el cálculo: el pliegue no
// recorta a cero.
func TestBalance_NegativoHistoricoSePreserva(t *testing.T) {
	movements := []*entity.StockMovement{
		mov("p1", entity.MovementTypeIN, "1"),
		mov("p1", entity.MovementTypeADJUST, "-4"),
	}
	got := inventory.Balance(movements)
	assert.True(t, got.Equal(decimal.NewFromInt(-3)), "el saldo negativo debe reportarse tal cual")
}

func TestBalanceByProduct_SeparaPorProducto(t *testing.T) {
	movements := []*entity.StockMovement{
		mov("p1", entity.MovementTypeIN, "10"),
		mov("p2", entity.MovementTypeIN, "4"),
		mov("p1", entity.MovementTypeOUT, "6"),
		mov("p2", entity.MovementTypeADJUST, "1"),
	}
	got := inventory.BalanceByProduct(movements)
	assert.True(t, got["p1"].Equal(decimal.NewFromInt(4)), "p1 debe quedar en 4")
	assert.True(t, got["p2"].Equal(decimal.NewFromInt(5)), "p2 debe quedar en 5")
}
