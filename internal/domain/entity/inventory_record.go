package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRecord cantidad actual de un producto en una categoría de bodega.
// Clave: (ProductID, CategoryCode). Invariante: Quantity >= 0 en todo momento.
// Se crea con la primera recepción en la categoría y nunca se elimina
// físicamente (puede quedar en 0).
type InventoryRecord struct {
	ProductID    string
	CategoryCode string
	Quantity     decimal.Decimal
	UpdatedAt    time.Time
}
