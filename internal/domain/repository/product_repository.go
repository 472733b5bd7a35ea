package repository

import "github.com/hidrosur/comercial-api/internal/domain/entity"

// ProductRepository define el puerto de lectura del catálogo (colaborador
// externo al motor: aquí solo se consulta, el CRUD vive fuera).
type ProductRepository interface {
	GetByID(id string) (*entity.Product, error)
	GetByIDs(ids []string) (map[string]*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
}

// ClientRepository define el puerto de lectura del directorio de clientes
// (elegibilidad de crédito e identificadores tributarios).
type ClientRepository interface {
	GetByID(id string) (*entity.Client, error)
}
