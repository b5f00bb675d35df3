package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-ledger/internal/domain/entity"
	"github.com/jhoicas/almacen-ledger/internal/domain/repository"
)

var _ repository.PurchaseRequestRepository = (*PurchaseRequestRepo)(nil)

// PurchaseRequestRepo persistencia de solicitudes de compra sobre PostgreSQL.
type PurchaseRequestRepo struct {
	q Querier
}

// NewPurchaseRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRequestRepository(q Querier) *PurchaseRequestRepo {
	return &PurchaseRequestRepo{q: q}
}

const purchaseColumns = `id, company_id, product_id, item_name, item_code, ordered_quantity, unit_cost,
	status, received_quantity, returned_quantity, damaged_quantity, target_category, notes,
	created_at, updated_at, closed_at, closed_by`

// Create persiste una solicitud nueva.
func (r *PurchaseRequestRepo) Create(ctx context.Context, request *entity.PurchaseRequest) error {
	query := `
		INSERT INTO purchase_requests (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		request.ID, request.CompanyID, request.ProductID, request.ItemName, request.ItemCode,
		request.OrderedQuantity, request.UnitCost, request.Status,
		request.ReceivedQuantity, request.ReturnedQuantity, request.DamagedQuantity,
		request.TargetCategory, nullable(request.Notes),
		request.CreatedAt, request.UpdatedAt, request.ClosedAt, request.ClosedBy,
	)
	if err != nil {
		return fmt.Errorf("create purchase request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID.
func (r *PurchaseRequestRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseRequest, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchase_requests WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetByIDForUpdate obtiene la solicitud y bloquea la fila (SELECT FOR UPDATE).
func (r *PurchaseRequestRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.PurchaseRequest, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchase_requests WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// Update persiste estado y cantidades de conciliación.
func (r *PurchaseRequestRepo) Update(ctx context.Context, request *entity.PurchaseRequest) error {
	query := `
		UPDATE purchase_requests
		SET product_id = $2, status = $3, received_quantity = $4, returned_quantity = $5,
		    damaged_quantity = $6, target_category = $7, notes = $8, updated_at = $9,
		    closed_at = $10, closed_by = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		request.ID, request.ProductID, request.Status,
		request.ReceivedQuantity, request.ReturnedQuantity, request.DamagedQuantity,
		request.TargetCategory, nullable(request.Notes), request.UpdatedAt,
		request.ClosedAt, request.ClosedBy,
	)
	if err != nil {
		return fmt.Errorf("update purchase request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update purchase request: fila no encontrada")
	}
	return nil
}

// ListByCompany lista solicitudes de la empresa, con filtro opcional por estado.
func (r *PurchaseRequestRepo) ListByCompany(ctx context.Context, companyID, status string, limit, offset int) ([]*entity.PurchaseRequest, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchase_requests WHERE company_id = $1`
	args := []any{companyID}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, status)
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseRequest
	for rows.Next() {
		request, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, request)
	}
	return list, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PurchaseRequestRepo) scanOne(row pgx.Row) (*entity.PurchaseRequest, error) {
	request, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return request, nil
}

func (r *PurchaseRequestRepo) scanRow(row rowScanner) (*entity.PurchaseRequest, error) {
	var p entity.PurchaseRequest
	var itemName, itemCode, notes *string
	if err := row.Scan(
		&p.ID, &p.CompanyID, &p.ProductID, &itemName, &itemCode,
		&p.OrderedQuantity, &p.UnitCost, &p.Status,
		&p.ReceivedQuantity, &p.ReturnedQuantity, &p.DamagedQuantity,
		&p.TargetCategory, &notes,
		&p.CreatedAt, &p.UpdatedAt, &p.ClosedAt, &p.ClosedBy,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan purchase request: %w", err)
	}
	if itemName != nil {
		p.ItemName = *itemName
	}
	if itemCode != nil {
		p.ItemCode = *itemCode
	}
	if notes != nil {
		p.Notes = *notes
	}
	return &p, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
