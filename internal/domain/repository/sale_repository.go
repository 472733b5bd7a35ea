package repository

import "github.com/hidrosur/comercial-api/internal/domain/entity"

// SaleRepository define el puerto de persistencia de ventas. Las líneas
// son inmutables una vez creadas; la cabecera solo transiciona de estado.
// Los Delete existen únicamente como compensación de saga.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	UpdatePaymentStatus(sale *entity.Sale) error
	Delete(id string) error

	CreateItem(item *entity.SaleItem) error
	ListItems(saleID string) ([]*entity.SaleItem, error)
	DeleteItems(saleID string) error
}
