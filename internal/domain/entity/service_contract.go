package entity

import "time"

// Estados derivados de un contrato de servicio. Se calculan siempre en
// lectura a partir de NextServiceDate; nunca se persisten.
const (
	ContractStatusPending = "pendiente"
	ContractStatusDueSoon = "por_vencer"
	ContractStatusOverdue = "vencido"
)

// ServiceContract es una obligación de servicio recurrente por unidad
// instalada. Se crea desde una venta (una por unidad vendida) o a mano,
// y nunca se elimina.
type ServiceContract struct {
	ID              string
	ClientID        string
	ProductID       string
	SaleID          string // vacío si fue creado manualmente
	UnitIndex       int    // 1..n dentro de la misma venta
	StartDate       time.Time
	LastServiceDate *time.Time
	NextServiceDate time.Time
	IntervalMonths  int
	CreatedAt       time.Time
}

// ServiceContractNote es un registro inmutable del historial del contrato:
// una atención (Changed=true, avanza el cronograma) o una observación
// libre (Changed=false). Espeja la disciplina append-only del libro.
type ServiceContractNote struct {
	ID         string
	ContractID string
	Note       string
	Changed    bool
	CreatedAt  time.Time
	CreatedBy  string
}
