package entity

import "time"

// WarehouseCategory representa una partición nombrada del stock físico
// (ej. "ready_for_sale", "research", "returned"). Conjunto finito definido
// por el administrador de cada empresa; el resto del sistema la referencia
// por código.
type WarehouseCategory struct {
	Code      string
	CompanyID string
	Name      string
	CreatedAt time.Time
}
