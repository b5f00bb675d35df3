package repository

import (
	"context"

	"github.com/jhoicas/almacen-ledger/internal/domain/entity"
)

// PurchaseRequestRepository define el puerto de persistencia para solicitudes
// de compra.
type PurchaseRequestRepository interface {
	Create(ctx context.Context, request *entity.PurchaseRequest) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseRequest, error)
	// GetByIDForUpdate bloquea la fila de la solicitud dentro de la
	// transacción en curso; evita que dos cierres concurrentes lean el mismo
	// estado WAITING_FOR_RECEIVED.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.PurchaseRequest, error)
	// Update persiste estado y cantidades de conciliación.
	Update(ctx context.Context, request *entity.PurchaseRequest) error
	ListByCompany(ctx context.Context, companyID, status string, limit, offset int) ([]*entity.PurchaseRequest, error)
}
