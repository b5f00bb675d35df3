package ledger

import (
	"github.com/jhoicas/almacen-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

// Reconciliation cantidades de cierre de una solicitud de compra: lo ordenado
// contra lo efectivamente recibido, devuelto y dañado.
//
// El cumplimiento parcial es legal: Received + Returned + Damaged no tiene que
// igualar Ordered. Received = 0 también es un cierre válido (recepción
// totalmente dañada o devuelta); solo lo recibido entra al inventario.
type Reconciliation struct {
	Ordered  decimal.Decimal
	Received decimal.Decimal
	Returned decimal.Decimal
	Damaged  decimal.Decimal
}

// Validate verifica los invariantes aritméticos del cierre:
// Received, Returned y Damaged >= 0.
func (r Reconciliation) Validate() error {
	if r.Received.IsNegative() || r.Returned.IsNegative() || r.Damaged.IsNegative() {
		return domain.ErrInvalidInput
	}
	return nil
}

// Accounted devuelve el total conciliado: Received + Returned + Damaged.
func (r Reconciliation) Accounted() decimal.Decimal {
	return r.Received.Add(r.Returned).Add(r.Damaged)
}

// Outstanding devuelve lo ordenado menos lo conciliado. Negativo significa que
// el proveedor entregó de más.
func (r Reconciliation) Outstanding() decimal.Decimal {
	return r.Ordered.Sub(r.Accounted())
}
