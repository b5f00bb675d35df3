package ledger

import (
	"context"

	"github.com/jhoicas/almacen-ledger/internal/domain/entity"
	"github.com/jhoicas/almacen-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para los motores:
// si fn devuelve error, ningún delta ni asiento queda persistido.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		recordRepo repository.InventoryRecordRepository,
		ledgerRepo repository.LedgerRepository,
		purchaseRepo repository.PurchaseRequestRepository,
	) error) error
}

// ProjectionCache cachea la proyección de stock actual por producto.
// Best-effort: un fallo de caché nunca hace fallar la operación; los motores
// invalidan el producto afectado después de cada commit.
type ProjectionCache interface {
	GetStock(ctx context.Context, productID string) (map[string]decimal.Decimal, bool)
	SetStock(ctx context.Context, productID string, stock map[string]decimal.Decimal)
	InvalidateProduct(ctx context.Context, productID string)
}

// KardexGenerator genera el PDF del kardex (historial de movimientos) de un
// producto.
type KardexGenerator interface {
	GenerateKardexPDF(ctx context.Context, product *entity.Product, entries []*entity.LedgerEntry) ([]byte, error)
}
