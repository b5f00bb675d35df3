package ledger

import (
	"time"

	"github.com/jhoicas/almacen-ledger/internal/domain"
	"github.com/jhoicas/almacen-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// applyDelta aplica un delta con signo sobre el registro de inventario.
// Devuelve ErrNegativeStock si el resultado quedaría por debajo de cero; el
// caller debe abortar la transacción completa (el TxRunner hace el rollback).
func applyDelta(record *entity.InventoryRecord, delta decimal.Decimal, now time.Time) error {
	next := record.Quantity.Add(delta)
	if next.IsNegative() {
		return domain.ErrNegativeStock
	}
	record.Quantity = next
	record.UpdatedAt = now
	return nil
}
