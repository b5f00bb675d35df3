package repository

import (
	"context"

	"github.com/jhoicas/almacen-ledger/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para las categorías de
// bodega (conjunto cerrado por empresa).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.WarehouseCategory) error
	Get(ctx context.Context, companyID, code string) (*entity.WarehouseCategory, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.WarehouseCategory, error)
}
