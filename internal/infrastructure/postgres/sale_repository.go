package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/hidrosur/comercial-api/internal/domain"
	"github.com/hidrosur/comercial-api/internal/domain/entity"
	"github.com/hidrosur/comercial-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL
// (usable con pool o tx). Los Delete existen solo como compensación.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de una venta.
func (r *SaleRepo) Create(s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, client_id, date, due_date, doc_type, doc_number, payment_status, paid_at, total, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, NULLIF($11, ''))`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.ClientID, s.Date, s.DueDate, s.DocType, s.DocNumber,
		s.PaymentStatus, s.PaidAt, s.Total, s.CreatedAt, s.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una venta.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `
		SELECT id, client_id, date, due_date, doc_type, COALESCE(doc_number, ''), payment_status, paid_at, total, created_at, COALESCE(created_by, '')
		FROM sales WHERE id = $1`
	var s entity.Sale
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.ClientID, &s.Date, &s.DueDate, &s.DocType, &s.DocNumber,
		&s.PaymentStatus, &s.PaidAt, &s.Total, &s.CreatedAt, &s.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &s, nil
}

// UpdatePaymentStatus actualiza estado de pago y fecha de pago de la cabecera.
func (r *SaleRepo) UpdatePaymentStatus(s *entity.Sale) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE sales SET payment_status = $2, paid_at = $3 WHERE id = $1`,
		s.ID, s.PaymentStatus, s.PaidAt,
	)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra la cabecera. Solo lo invoca la compensación de saga.
func (r *SaleRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de venta.
func (r *SaleRepo) CreateItem(it *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, qty, unit_price, discount_pct, parent_line_id, is_kit_parent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		it.ID, it.SaleID, it.ProductID, it.Qty, it.UnitPrice, it.DiscountPct,
		it.ParentLineID, it.IsKitParent,
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// ListItems lista las líneas de una venta, padres antes que hijas.
func (r *SaleRepo) ListItems(saleID string) ([]*entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, qty, unit_price, COALESCE(discount_pct, 0), parent_line_id, is_kit_parent
		FROM sale_items WHERE sale_id = $1
		ORDER BY parent_line_id NULLS FIRST, id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()

	var out []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Qty, &it.UnitPrice, &it.DiscountPct, &it.ParentLineID, &it.IsKitParent); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

// DeleteItems borra las líneas de una venta. Solo compensación de saga.
func (r *SaleRepo) DeleteItems(saleID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM sale_items WHERE sale_id = $1`, saleID)
	if err != nil {
		return fmt.Errorf("delete sale items: %w", err)
	}
	return nil
}
