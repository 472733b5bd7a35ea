package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrIncompleteKit       = errors.New("configuración de kit incompleta")
	ErrInvalidDocumentType = errors.New("tipo de comprobante inválido para el cliente")
	ErrAlreadyPaid         = errors.New("la venta ya fue pagada")
)

// StockShortageError detalla un faltante de stock: producto, cantidad
// pedida y saldo disponible. Unwrap a ErrInsufficientStock para que los
// handlers lo mapeen con errors.Is.
type StockShortageError struct {
	ProductID string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *StockShortageError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s: pedido %s, disponible %s",
		e.ProductID, e.Requested.String(), e.Available.String())
}

func (e *StockShortageError) Unwrap() error { return ErrInsufficientStock }
