package postgres

import (
	"context"
	"fmt"

	"github.com/hidrosur/comercial-api/internal/domain/entity"
	"github.com/hidrosur/comercial-api/internal/domain/repository"
)

var _ repository.KitRepository = (*KitRepo)(nil)

// KitRepo implementación del puerto KitRepository sobre PostgreSQL (usable con pool o tx).
type KitRepo struct {
	q Querier
}

// NewKitRepository construye el adaptador de listas de materiales. Pasar pool o tx (Querier).
func NewKitRepository(q Querier) *KitRepo {
	return &KitRepo{q: q}
}

// ListItems carga la lista de materiales de un kit con los sustitutos de
// cada línea (dos consultas, sin N+1).
func (r *KitRepo) ListItems(kitProductID string) ([]*entity.KitItem, error) {
	query := `
		SELECT id, kit_product_id, component_id, qty, COALESCE(group_code, ''), required
		FROM kit_items WHERE kit_product_id = $1 ORDER BY group_code, id`
	rows, err := r.q.Query(context.Background(), query, kitProductID)
	if err != nil {
		return nil, fmt.Errorf("list kit items: %w", err)
	}
	defer rows.Close()

	var items []*entity.KitItem
	byID := map[string]*entity.KitItem{}
	for rows.Next() {
		var it entity.KitItem
		if err := rows.Scan(&it.ID, &it.KitProductID, &it.ComponentID, &it.Qty, &it.GroupCode, &it.Required); err != nil {
			return nil, fmt.Errorf("scan kit item: %w", err)
		}
		items = append(items, &it)
		byID[it.ID] = &it
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	subQuery := `
		SELECT s.id, s.kit_item_id, s.product_id, COALESCE(s.qty_ratio, 1)
		FROM kit_item_subs s
		JOIN kit_items i ON i.id = s.kit_item_id
		WHERE i.kit_product_id = $1`
	subRows, err := r.q.Query(context.Background(), subQuery, kitProductID)
	if err != nil {
		return nil, fmt.Errorf("list kit subs: %w", err)
	}
	defer subRows.Close()

	for subRows.Next() {
		var s entity.KitItemSub
		if err := subRows.Scan(&s.ID, &s.KitItemID, &s.ProductID, &s.QtyRatio); err != nil {
			return nil, fmt.Errorf("scan kit sub: %w", err)
		}
		if it, ok := byID[s.KitItemID]; ok {
			it.Subs = append(it.Subs, s)
		}
	}
	return items, subRows.Err()
}
