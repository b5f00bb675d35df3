package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de asiento del libro de inventario.
const (
	EntryKindReceipt       = "RECEIPT"        // recepción de compra (externo -> categoría)
	EntryKindTransferOut   = "TRANSFER_OUT"   // salida de la categoría origen de un traslado
	EntryKindTransferIn    = "TRANSFER_IN"    // entrada en la categoría destino de un traslado
	EntryKindAdjustment    = "ADJUSTMENT"     // ajuste manual, con signo
	EntryKindSaleDeduction = "SALE_DEDUCTION" // salida por venta (categoría -> externo)
	EntryKindReturn        = "RETURN"         // devolución al proveedor, sin efecto en stock
	EntryKindDamage        = "DAMAGE"         // mercancía dañada en recepción
)

// LedgerEntry hecho inmutable que describe un cambio de cantidad.
// Append-only: nunca se edita ni se borra después de creado; las correcciones
// se registran como asientos ADJUSTMENT compensatorios.
//
// Convención de atribución: una cantidad negativa afecta SourceCategory y una
// positiva afecta DestCategory. Categoría nil significa "externo" (recepción
// de compra, venta). Un asiento con ambas categorías nil (DAMAGE, RETURN) no
// tiene efecto en stock; documenta el hecho para la auditoría.
type LedgerEntry struct {
	ID             string
	GroupID        string // compartido por las dos mitades de un traslado
	CompanyID      string
	ProductID      string
	Kind           string
	SourceCategory *string
	DestCategory   *string
	Quantity       decimal.Decimal // con signo
	Reason         string
	CreatedAt      time.Time
	CreatedBy      string
}

// AppliesTo devuelve la categoría cuyo stock modificó este asiento según la
// convención de atribución, o nil si el asiento no tiene efecto en stock.
func (e *LedgerEntry) AppliesTo() *string {
	if e.Quantity.IsNegative() {
		return e.SourceCategory
	}
	if e.Quantity.IsPositive() {
		return e.DestCategory
	}
	return nil
}

// ValidEntryKind indica si kind es uno de los tipos de asiento conocidos.
func ValidEntryKind(kind string) bool {
	switch kind {
	case EntryKindReceipt, EntryKindTransferOut, EntryKindTransferIn,
		EntryKindAdjustment, EntryKindSaleDeduction, EntryKindReturn, EntryKindDamage:
		return true
	}
	return false
}
