package repository

import "github.com/hidrosur/comercial-api/internal/domain/entity"

// ServiceContractRepository define el puerto de persistencia de contratos
// de servicio recurrente y su historial append-only de notas.
type ServiceContractRepository interface {
	Create(contract *entity.ServiceContract) error
	GetByID(id string) (*entity.ServiceContract, error)
	UpdateSchedule(contract *entity.ServiceContract) error
	ListOrderedByNextDate(limit, offset int) ([]*entity.ServiceContract, error)
	DeleteBySale(saleID string) error

	CreateNote(note *entity.ServiceContractNote) error
	ListNotes(contractID string) ([]*entity.ServiceContractNote, error)
}
