package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario. Conjunto cerrado: todo consumidor
// debe manejar los tres de forma exhaustiva.
const (
	MovementTypeIN     = "IN"     // entrada
	MovementTypeOUT    = "OUT"    // salida
	MovementTypeADJUST = "ADJUST" // ajuste (cantidad con signo)
)

// ValidMovementType indica si el tipo pertenece al conjunto cerrado.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeIN, MovementTypeOUT, MovementTypeADJUST:
		return true
	}
	return false
}

// Módulos de origen conocidos para MovementOrigin.Module.
const (
	OriginModuleSale        = "sale"
	OriginModulePurchase    = "purchase"
	OriginModuleMaintenance = "maintenance"
)

// MovementOrigin referencia al documento que generó el movimiento.
// RefID funciona como clave de idempotencia: un commit reintentado
// nunca duplica movimientos de la misma venta.
type MovementOrigin struct {
	Module  string
	RefType string
	RefID   string
}

// StockMovement es un hecho inmutable del libro de inventario. Nunca se
// edita ni se borra; las correcciones son nuevos ADJUST con nota.
// IN y OUT llevan cantidad positiva; ADJUST lleva cantidad con signo.
type StockMovement struct {
	ID        string
	ProductID string
	Date      time.Time
	Type      string
	Quantity  decimal.Decimal
	Note      string
	Origin    MovementOrigin
	CreatedAt time.Time
	CreatedBy string
}

// SignedQuantity devuelve el efecto del movimiento sobre el saldo:
// IN suma, OUT resta, ADJUST aplica su cantidad con signo.
func (m *StockMovement) SignedQuantity() decimal.Decimal {
	if m.Type == MovementTypeOUT {
		return m.Quantity.Neg()
	}
	return m.Quantity
}
