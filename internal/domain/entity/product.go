package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo. El núcleo de inventario
// lo referencia por ID y nunca lo posee; el CRUD vive en el módulo de catálogo.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	UnitMeasure string
	Cost        decimal.Decimal // costo unitario
	Price       decimal.Decimal // precio de venta
	SafeStock   decimal.Decimal // umbral de stock seguro; 0 = sin alerta de quiebre
	SupplierRef string          // referencia opcional al proveedor
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
