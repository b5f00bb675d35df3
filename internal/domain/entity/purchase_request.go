package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una solicitud de compra.
const (
	PurchaseStatusPending            = "PENDING"
	PurchaseStatusApproved           = "APPROVED"
	PurchaseStatusWaitingForReceived = "WAITING_FOR_RECEIVED"
	PurchaseStatusClosed             = "CLOSED"
	PurchaseStatusRejected           = "REJECTED"
)

// PurchaseRequest representa una orden de aprovisionamiento. Se crea y edita
// en el flujo de intake; el cierre (conciliación de cantidades recibidas,
// devueltas y dañadas) pasa exclusivamente por el motor de conciliación.
type PurchaseRequest struct {
	ID               string
	CompanyID        string
	ProductID        *string // nil si el ítem aún no está catalogado
	ItemName         string  // nombre libre para ítems sin catalogar
	ItemCode         string
	OrderedQuantity  decimal.Decimal
	UnitCost         decimal.Decimal
	Status           string
	ReceivedQuantity decimal.Decimal
	ReturnedQuantity decimal.Decimal
	DamagedQuantity  decimal.Decimal
	TargetCategory   *string // categoría donde se posteó la recepción
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ClosedAt         *time.Time
	ClosedBy         *string
}

// ValidPurchaseStatus indica si s es un estado conocido.
func ValidPurchaseStatus(s string) bool {
	switch s {
	case PurchaseStatusPending, PurchaseStatusApproved, PurchaseStatusWaitingForReceived,
		PurchaseStatusClosed, PurchaseStatusRejected:
		return true
	}
	return false
}

// CanTransition indica si el cambio de estado from -> to pertenece a la
// máquina de estados normal del intake. El cierre forzado desde
// PENDING/APPROVED no pasa por aquí: es una operación explícita de
// administrador en el motor de conciliación.
func CanTransition(from, to string) bool {
	switch from {
	case PurchaseStatusPending:
		return to == PurchaseStatusApproved || to == PurchaseStatusRejected
	case PurchaseStatusApproved:
		return to == PurchaseStatusWaitingForReceived || to == PurchaseStatusRejected
	case PurchaseStatusWaitingForReceived:
		return to == PurchaseStatusClosed
	}
	return false
}

// IsTerminal indica si el estado no admite más transiciones.
func IsTerminal(status string) bool {
	return status == PurchaseStatusClosed || status == PurchaseStatusRejected
}
