package repository

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-ledger/internal/domain/entity"
)

// LedgerRepository define el puerto de persistencia del libro de inventario.
// Solo admite inserciones y lecturas: los asientos nunca se editan ni se
// borran; las correcciones se registran como asientos compensatorios.
type LedgerRepository interface {
	// Append persiste un asiento. Genera el ID si viene vacío.
	Append(ctx context.Context, entry *entity.LedgerEntry) error
	// ListByProduct lista asientos de un producto en un rango de fechas,
	// ordenados por fecha ascendente.
	ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error)
	// ListByCategory lista asientos cuya categoría origen o destino coincide,
	// acotados a la empresa, ordenados por fecha ascendente.
	ListByCategory(ctx context.Context, companyID, categoryCode string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error)
}
