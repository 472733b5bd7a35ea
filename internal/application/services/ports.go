package services

import (
	"context"

	"github.com/hidrosur/comercial-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con el repo de
// contratos atado a la tx. Atender un contrato escribe cronograma y nota
// juntos; o entran ambos o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(contractRepo repository.ServiceContractRepository) error) error
}
