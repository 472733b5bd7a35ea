package repository

import "github.com/hidrosur/comercial-api/internal/domain/entity"

// KitRepository define el puerto de lectura de la lista de materiales
// de un kit, con sus sustitutos ya cargados por línea.
type KitRepository interface {
	ListItems(kitProductID string) ([]*entity.KitItem, error)
}
