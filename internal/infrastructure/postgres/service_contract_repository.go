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

var _ repository.ServiceContractRepository = (*ServiceContractRepo)(nil)

// ServiceContractRepo implementación del puerto ServiceContractRepository
// sobre PostgreSQL (usable con pool o tx).
type ServiceContractRepo struct {
	q Querier
}

// NewServiceContractRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServiceContractRepository(q Querier) *ServiceContractRepo {
	return &ServiceContractRepo{q: q}
}

const contractColumns = `id, client_id, product_id, COALESCE(sale_id, ''), unit_index,
	start_date, last_service_date, next_service_date, interval_months, created_at`

// Create persiste un contrato de servicio.
func (r *ServiceContractRepo) Create(c *entity.ServiceContract) error {
	query := `
		INSERT INTO service_contracts (id, client_id, product_id, sale_id, unit_index, start_date, last_service_date, next_service_date, interval_months, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.ClientID, c.ProductID, c.SaleID, c.UnitIndex,
		c.StartDate, c.LastServiceDate, c.NextServiceDate, c.IntervalMonths, c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert contract: %w", err)
	}
	return nil
}

// GetByID obtiene un contrato por ID.
func (r *ServiceContractRepo) GetByID(id string) (*entity.ServiceContract, error) {
	query := `SELECT ` + contractColumns + ` FROM service_contracts WHERE id = $1`
	c, err := scanContract(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contract: %w", err)
	}
	return c, nil
}

// UpdateSchedule actualiza última y próxima fecha de servicio.
func (r *ServiceContractRepo) UpdateSchedule(c *entity.ServiceContract) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE service_contracts SET last_service_date = $2, next_service_date = $3 WHERE id = $1`,
		c.ID, c.LastServiceDate, c.NextServiceDate,
	)
	if err != nil {
		return fmt.Errorf("update contract schedule: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListOrderedByNextDate lista contratos por próxima fecha de servicio
// ascendente (los más urgentes primero) con paginación.
func (r *ServiceContractRepo) ListOrderedByNextDate(limit, offset int) ([]*entity.ServiceContract, error) {
	query := `SELECT ` + contractColumns + `
		FROM service_contracts ORDER BY next_service_date ASC, id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	defer rows.Close()

	var out []*entity.ServiceContract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteBySale borra los contratos generados por una venta. Solo
// compensación de saga.
func (r *ServiceContractRepo) DeleteBySale(saleID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM service_contracts WHERE sale_id = $1`, saleID)
	if err != nil {
		return fmt.Errorf("delete contracts by sale: %w", err)
	}
	return nil
}

// CreateNote persiste una entrada del historial del contrato.
func (r *ServiceContractRepo) CreateNote(n *entity.ServiceContractNote) error {
	query := `
		INSERT INTO service_contract_notes (id, contract_id, note, changed, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))`
	_, err := r.q.Exec(context.Background(), query,
		n.ID, n.ContractID, n.Note, n.Changed, n.CreatedAt, n.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert contract note: %w", err)
	}
	return nil
}

// ListNotes lista el historial del contrato, más reciente primero.
func (r *ServiceContractRepo) ListNotes(contractID string) ([]*entity.ServiceContractNote, error) {
	query := `
		SELECT id, contract_id, note, changed, created_at, COALESCE(created_by, '')
		FROM service_contract_notes WHERE contract_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, contractID)
	if err != nil {
		return nil, fmt.Errorf("list contract notes: %w", err)
	}
	defer rows.Close()

	var out []*entity.ServiceContractNote
	for rows.Next() {
		var n entity.ServiceContractNote
		if err := rows.Scan(&n.ID, &n.ContractID, &n.Note, &n.Changed, &n.CreatedAt, &n.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan contract note: %w", err)
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

func scanContract(row pgx.Row) (*entity.ServiceContract, error) {
	var c entity.ServiceContract
	err := row.Scan(
		&c.ID, &c.ClientID, &c.ProductID, &c.SaleID, &c.UnitIndex,
		&c.StartDate, &c.LastServiceDate, &c.NextServiceDate, &c.IntervalMonths, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
