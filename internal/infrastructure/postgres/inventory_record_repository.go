package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-ledger/internal/domain/entity"
	"github.com/jhoicas/almacen-ledger/internal/domain/repository"
)

var _ repository.InventoryRecordRepository = (*InventoryRecordRepo)(nil)

// InventoryRecordRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryRecordRepo struct {
	q Querier
}

// NewInventoryRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRecordRepository(q Querier) *InventoryRecordRepo {
	return &InventoryRecordRepo{q: q}
}

// Get obtiene la cantidad actual de un producto en una categoría.
// Fila inexistente se lee como cantidad 0.
func (r *InventoryRecordRepo) Get(ctx context.Context, productID, categoryCode string) (*entity.InventoryRecord, error) {
	query := `
		SELECT product_id, category_code, quantity, updated_at
		FROM inventory_records WHERE product_id = $1 AND category_code = $2`
	var rec entity.InventoryRecord
	err := r.q.QueryRow(ctx, query, productID, categoryCode).Scan(
		&rec.ProductID, &rec.CategoryCode, &rec.Quantity, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.InventoryRecord{ProductID: productID, CategoryCode: categoryCode, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return &rec, nil
}

// GetForUpdate obtiene la fila y la bloquea (SELECT FOR UPDATE). Si la fila
// no existe la materializa en cero y la bloquea: dos escritores concurrentes
// sobre una (producto, categoría) nueva se serializan en el lock de fila en
// vez de leer 0 ambos y pisarse el delta en el upsert.
func (r *InventoryRecordRepo) GetForUpdate(ctx context.Context, productID, categoryCode string) (*entity.InventoryRecord, error) {
	query := `
		SELECT product_id, category_code, quantity, updated_at
		FROM inventory_records WHERE product_id = $1 AND category_code = $2
		FOR UPDATE`
	var rec entity.InventoryRecord
	err := r.q.QueryRow(ctx, query, productID, categoryCode).Scan(
		&rec.ProductID, &rec.CategoryCode, &rec.Quantity, &rec.UpdatedAt,
	)
	if err == nil {
		return &rec, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get inventory record for update: %w", err)
	}

	insert := `
		INSERT INTO inventory_records (product_id, category_code, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (product_id, category_code) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, productID, categoryCode); err != nil {
		return nil, fmt.Errorf("init inventory record: %w", err)
	}
	err = r.q.QueryRow(ctx, query, productID, categoryCode).Scan(
		&rec.ProductID, &rec.CategoryCode, &rec.Quantity, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get inventory record for update: %w", err)
	}
	return &rec, nil
}

// Upsert inserta o actualiza la cantidad (por producto y categoría).
func (r *InventoryRecordRepo) Upsert(ctx context.Context, record *entity.InventoryRecord) error {
	query := `
		INSERT INTO inventory_records (product_id, category_code, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, category_code)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(ctx, query, record.ProductID, record.CategoryCode, record.Quantity)
	if err != nil {
		return fmt.Errorf("upsert inventory record: %w", err)
	}
	return nil
}

// ListByProduct lista las filas de un producto en todas sus categorías.
func (r *InventoryRecordRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT product_id, category_code, quantity, updated_at
		FROM inventory_records WHERE product_id = $1
		ORDER BY category_code`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list inventory records: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryRecord
	for rows.Next() {
		var rec entity.InventoryRecord
		if err := rows.Scan(&rec.ProductID, &rec.CategoryCode, &rec.Quantity, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory record: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}

// ListLowStock devuelve los productos de la empresa cuyo stock total es menor
// que su safe_stock (> 0), ordenados por déficit descendente.
func (r *InventoryRecordRepo) ListLowStock(ctx context.Context, companyID string) ([]repository.LowStockItem, error) {
	query := `
		SELECT p.id, p.sku, p.name,
		       COALESCE(SUM(ir.quantity), 0) AS total_stock,
		       p.safe_stock,
		       p.safe_stock - COALESCE(SUM(ir.quantity), 0) AS deficit
		FROM products p
		LEFT JOIN inventory_records ir ON ir.product_id = p.id
		WHERE p.company_id = $1 AND p.safe_stock > 0
		GROUP BY p.id, p.sku, p.name, p.safe_stock
		HAVING COALESCE(SUM(ir.quantity), 0) < p.safe_stock
		ORDER BY deficit DESC`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	var list []repository.LowStockItem
	for rows.Next() {
		var it repository.LowStockItem
		if err := rows.Scan(&it.ProductID, &it.SKU, &it.ProductName, &it.TotalStock, &it.SafeStock, &it.Deficit); err != nil {
			return nil, fmt.Errorf("scan low stock item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}
