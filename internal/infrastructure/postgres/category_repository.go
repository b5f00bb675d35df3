package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-ledger/internal/domain"
	"github.com/jhoicas/almacen-ledger/internal/domain/entity"
	"github.com/jhoicas/almacen-ledger/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo persistencia de categorías de bodega. PK compuesta
// (company_id, code); las categorías nunca se borran, el libro las referencia.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create agrega una categoría al conjunto de la empresa.
func (r *CategoryRepo) Create(ctx context.Context, category *entity.WarehouseCategory) error {
	query := `
		INSERT INTO warehouse_categories (company_id, code, name, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(ctx, query, category.CompanyID, category.Code, category.Name, category.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create warehouse category: %w", err)
	}
	return nil
}

// Get obtiene una categoría por empresa y código.
func (r *CategoryRepo) Get(ctx context.Context, companyID, code string) (*entity.WarehouseCategory, error) {
	query := `
		SELECT company_id, code, name, created_at
		FROM warehouse_categories WHERE company_id = $1 AND code = $2`
	var c entity.WarehouseCategory
	err := r.q.QueryRow(ctx, query, companyID, code).Scan(&c.CompanyID, &c.Code, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse category: %w", err)
	}
	return &c, nil
}

// ListByCompany lista las categorías de la empresa.
func (r *CategoryRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.WarehouseCategory, error) {
	query := `
		SELECT company_id, code, name, created_at
		FROM warehouse_categories WHERE company_id = $1 ORDER BY code`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list warehouse categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.WarehouseCategory
	for rows.Next() {
		var c entity.WarehouseCategory
		if err := rows.Scan(&c.CompanyID, &c.Code, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan warehouse category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
