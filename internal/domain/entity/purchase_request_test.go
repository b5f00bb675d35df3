package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/almacen-ledger/internal/domain/entity"
)

func TestCanTransition_MaquinaDeEstadosNormal(t *testing.T) {
	valid := [][2]string{
		{entity.PurchaseStatusPending, entity.PurchaseStatusApproved},
		{entity.PurchaseStatusPending, entity.PurchaseStatusRejected},
		{entity.PurchaseStatusApproved, entity.PurchaseStatusWaitingForReceived},
		{entity.PurchaseStatusApproved, entity.PurchaseStatusRejected},
		{entity.PurchaseStatusWaitingForReceived, entity.PurchaseStatusClosed},
	}
	for _, tr := range valid {
		assert.True(t, entity.CanTransition(tr[0], tr[1]), "%s -> %s debe ser válido", tr[0], tr[1])
	}

	invalid := [][2]string{
		{entity.PurchaseStatusPending, entity.PurchaseStatusClosed}, // el cierre forzado no pasa por aquí
		{entity.PurchaseStatusPending, entity.PurchaseStatusWaitingForReceived},
		{entity.PurchaseStatusClosed, entity.PurchaseStatusApproved},
		{entity.PurchaseStatusRejected, entity.PurchaseStatusPending},
		{entity.PurchaseStatusWaitingForReceived, entity.PurchaseStatusRejected},
	}
	for _, tr := range invalid {
		assert.False(t, entity.CanTransition(tr[0], tr[1]), "%s -> %s debe ser inválido", tr[0], tr[1])
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, entity.IsTerminal(entity.PurchaseStatusClosed))
	assert.True(t, entity.IsTerminal(entity.PurchaseStatusRejected))
	assert.False(t, entity.IsTerminal(entity.PurchaseStatusPending))
	assert.False(t, entity.IsTerminal(entity.PurchaseStatusWaitingForReceived))
}

func TestValidEntryKind(t *testing.T) {
	for _, k := range []string{"RECEIPT", "TRANSFER_OUT", "TRANSFER_IN", "ADJUSTMENT", "SALE_DEDUCTION", "RETURN", "DAMAGE"} {
		assert.True(t, entity.ValidEntryKind(k))
	}
	assert.False(t, entity.ValidEntryKind("TRANSFER"))
	assert.False(t, entity.ValidEntryKind(""))
}
