package repository

import (
	"context"

	"github.com/jhoicas/almacen-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// LowStockItem producto cuyo stock agregado está por debajo de su umbral de
// stock seguro, con el déficit ya calculado.
type LowStockItem struct {
	ProductID   string
	SKU         string
	ProductName string
	TotalStock  decimal.Decimal
	SafeStock   decimal.Decimal
	Deficit     decimal.Decimal
}

// InventoryRecordRepository define el puerto de persistencia para el estado
// actual de cantidades por (producto, categoría).
// Una fila inexistente se lee como cantidad 0, nunca como error.
type InventoryRecordRepository interface {
	Get(ctx context.Context, productID, categoryCode string) (*entity.InventoryRecord, error)
	// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE) dentro de la
	// transacción en curso; serializa los read-modify-write concurrentes
	// sobre el mismo (producto, categoría).
	GetForUpdate(ctx context.Context, productID, categoryCode string) (*entity.InventoryRecord, error)
	Upsert(ctx context.Context, record *entity.InventoryRecord) error
	ListByProduct(ctx context.Context, productID string) ([]*entity.InventoryRecord, error)
	// ListLowStock devuelve los productos de la empresa cuyo stock total es
	// menor que su safe_stock (> 0), ordenados por déficit descendente.
	ListLowStock(ctx context.Context, companyID string) ([]LowStockItem, error)
}
