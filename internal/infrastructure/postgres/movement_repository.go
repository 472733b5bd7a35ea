package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/hidrosur/comercial-api/internal/domain"
	"github.com/hidrosur/comercial-api/internal/domain/entity"
	"github.com/hidrosur/comercial-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del puerto MovementRepository sobre
// PostgreSQL (usable con pool o tx). El libro es append-only: no hay
// UPDATE; DELETE existe solo como compensación y borra por origen.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, product_id, date, type, quantity,
	COALESCE(note, ''), COALESCE(origin_module, ''), COALESCE(origin_ref_type, ''), COALESCE(origin_ref_id, ''),
	created_at, COALESCE(created_by, '')`

// Create persiste un movimiento nuevo. Nunca modifica los existentes.
func (r *MovementRepo) Create(m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, date, type, quantity, note, origin_module, origin_ref_type, origin_ref_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), $10, NULLIF($11, ''))`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.ProductID, m.Date, m.Type, m.Quantity, m.Note,
		m.Origin.Module, m.Origin.RefType, m.Origin.RefID,
		m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByProduct lista el kardex de un producto, más reciente primero,
// con filtro opcional de rango de fechas.
func (r *MovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE product_id = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY date DESC, created_at DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, productID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// BalanceOf calcula el saldo actual agregando todos los movimientos del
// producto. El saldo nunca se almacena.
func (r *MovementRepo) BalanceOf(productID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE type WHEN 'OUT' THEN -quantity ELSE quantity END), 0)
		FROM stock_movements WHERE product_id = $1`
	var balance decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, productID).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("balance of %s: %w", productID, err)
	}
	return balance, nil
}

// BalancesOf calcula los saldos de varios productos en una sola pasada.
// Productos sin movimientos no aparecen en el mapa (saldo cero).
func (r *MovementRepo) BalancesOf(productIDs []string) (map[string]decimal.Decimal, error) {
	query := `
		SELECT product_id, COALESCE(SUM(CASE type WHEN 'OUT' THEN -quantity ELSE quantity END), 0)
		FROM stock_movements WHERE product_id = ANY($1)
		GROUP BY product_id`
	rows, err := r.q.Query(context.Background(), query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("balances: %w", err)
	}
	defer rows.Close()

	out := make(map[string]decimal.Decimal, len(productIDs))
	for rows.Next() {
		var id string
		var balance decimal.Decimal
		if err := rows.Scan(&id, &balance); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		out[id] = balance
	}
	return out, rows.Err()
}

// ExistsByOrigin indica si ya hay movimientos con esa referencia de
// origen (guardia de idempotencia).
func (r *MovementRepo) ExistsByOrigin(module, refID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM stock_movements WHERE origin_module = $1 AND origin_ref_id = $2)`
	var exists bool
	if err := r.q.QueryRow(context.Background(), query, module, refID).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists by origin: %w", err)
	}
	return exists, nil
}

// DeleteByOrigin borra los movimientos de una referencia de origen.
// Solo lo invoca la compensación de saga; el libro no se edita por otra vía.
func (r *MovementRepo) DeleteByOrigin(module, refID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM stock_movements WHERE origin_module = $1 AND origin_ref_id = $2`,
		module, refID,
	)
	if err != nil {
		return fmt.Errorf("delete by origin: %w", err)
	}
	return nil
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := row.Scan(
		&m.ID, &m.ProductID, &m.Date, &m.Type, &m.Quantity, &m.Note,
		&m.Origin.Module, &m.Origin.RefType, &m.Origin.RefID,
		&m.CreatedAt, &m.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
