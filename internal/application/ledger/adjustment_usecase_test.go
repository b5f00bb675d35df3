package ledger

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-ledger/internal/domain"
	"github.com/jhoicas/almacen-ledger/internal/domain/entity"
	"github.com/jhoicas/almacen-ledger/pkg/logger"
)

type adjustmentFixture struct {
	uc         *AdjustmentUseCase
	recordRepo *fakeRecordRepo
	ledgerRepo *fakeLedgerRepo
	cache      *fakeCache
}

func newAdjustmentFixture() *adjustmentFixture {
	recordRepo := newFakeRecordRepo()
	ledgerRepo := &fakeLedgerRepo{}
	purchaseRepo := newFakePurchaseRepo()
	cache := newFakeCache()
	productRepo := newFakeProductRepo(&entity.Product{
		ID:        testProductID,
		CompanyID: testCompanyID,
		SKU:       "SKU-001",
		Name:      "Tornillo 3/8",
	})
	uc := NewAdjustmentUseCase(
		&fakeTxRunner{recordRepo: recordRepo, ledgerRepo: ledgerRepo, purchaseRepo: purchaseRepo},
		productRepo,
		newFakeCategoryRepo(testCompanyID, "ready_for_sale", "research"),
		cache,
		logger.Nop(),
	)
	return &adjustmentFixture{uc: uc, recordRepo: recordRepo, ledgerRepo: ledgerRepo, cache: cache}
}

func (fx *adjustmentFixture) adjust(qty int64, reason string) (*entity.LedgerEntry, error) {
	return fx.uc.RegisterAdjustment(context.Background(), AdjustmentInput{
		CompanyID: testCompanyID,
		UserID:    testUserID,
		ProductID: testProductID,
		Category:  "ready_for_sale",
		Quantity:  decimal.NewFromInt(qty),
		Reason:    reason,
	})
}

// Un ajuste positivo suma stock y deja un asiento ADJUSTMENT con la categoría
// en destino.
func TestRegisterAdjustment_Positivo(t *testing.T) {
	fx := newAdjustmentFixture()
	fx.recordRepo.set(testProductID, "ready_for_sale", decimal.NewFromInt(10))

	entry, err := fx.adjust(3, "conteo físico encontró 3 unidades extra")
	require.NoError(t, err)

	assert.True(t, fx.recordRepo.quantity(testProductID, "ready_for_sale").Equal(decimal.NewFromInt(13)))
	assert.Equal(t, entity.EntryKindAdjustment, entry.Kind)
	require.NotNil(t, entry.DestCategory)
	assert.Equal(t, "ready_for_sale", *entry.DestCategory)
	assert.Nil(t, entry.SourceCategory)
	assert.NotEmpty(t, entry.ID)
}

// Un ajuste negativo resta stock con la categoría en origen.
func TestRegisterAdjustment_Negativo(t *testing.T) {
	fx := newAdjustmentFixture()
	fx.recordRepo.set(testProductID, "ready_for_sale", decimal.NewFromInt(10))

	entry, err := fx.adjust(-4, "merma por vencimiento")
	require.NoError(t, err)

	assert.True(t, fx.recordRepo.quantity(testProductID, "ready_for_sale").Equal(decimal.NewFromInt(6)))
	require.NotNil(t, entry.SourceCategory)
	assert.Equal(t, "ready_for_sale", *entry.SourceCategory)
	assert.Nil(t, entry.DestCategory)
	assert.True(t, entry.Quantity.Equal(decimal.NewFromInt(-4)))
}

// Un ajuste que dejaría la categoría en negativo se rechaza con el disponible.
func TestRegisterAdjustment_NoPermiteNegativo(t *testing.T) {
	fx := newAdjustmentFixture()
	fx.recordRepo.set(testProductID, "ready_for_sale", decimal.NewFromInt(3))

	_, err := fx.adjust(-5, "merma")
	require.Error(t, err)

	var insErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insErr)
	assert.True(t, insErr.Available.Equal(decimal.NewFromInt(3)))

	assert.True(t, fx.recordRepo.quantity(testProductID, "ready_for_sale").Equal(decimal.NewFromInt(3)))
	assert.Empty(t, fx.ledgerRepo.entries)
}

// Cantidad cero o motivo vacío se rechazan: un ajuste sin motivo no audita nada.
func TestRegisterAdjustment_EntradasInvalidas(t *testing.T) {
	fx := newAdjustmentFixture()

	_, err := fx.adjust(0, "motivo")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = fx.adjust(5, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// El descuento por venta resta de la categoría y deja SALE_DEDUCTION con la
// referencia de la venta.
func TestRegisterSaleDeduction_DescuentaYReferencia(t *testing.T) {
	fx := newAdjustmentFixture()
	fx.recordRepo.set(testProductID, "ready_for_sale", decimal.NewFromInt(10))

	entry, err := fx.uc.RegisterSaleDeduction(context.Background(), SaleDeductionInput{
		CompanyID: testCompanyID,
		UserID:    testUserID,
		ProductID: testProductID,
		Category:  "ready_for_sale",
		Quantity:  decimal.NewFromInt(2),
		SaleRef:   "FACT-0042",
	})
	require.NoError(t, err)

	assert.True(t, fx.recordRepo.quantity(testProductID, "ready_for_sale").Equal(decimal.NewFromInt(8)))
	assert.Equal(t, entity.EntryKindSaleDeduction, entry.Kind)
	assert.True(t, entry.Quantity.Equal(decimal.NewFromInt(-2)))
	assert.Equal(t, "FACT-0042", entry.Reason)
	require.NotNil(t, entry.SourceCategory)
	assert.Equal(t, "ready_for_sale", *entry.SourceCategory)
}

// Vender más de lo que hay en la categoría falla con el disponible reportado.
func TestRegisterSaleDeduction_StockInsuficiente(t *testing.T) {
	fx := newAdjustmentFixture()
	fx.recordRepo.set(testProductID, "ready_for_sale", decimal.NewFromInt(1))

	_, err := fx.uc.RegisterSaleDeduction(context.Background(), SaleDeductionInput{
		CompanyID: testCompanyID,
		UserID:    testUserID,
		ProductID: testProductID,
		Category:  "ready_for_sale",
		Quantity:  decimal.NewFromInt(2),
		SaleRef:   "FACT-0042",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, fx.ledgerRepo.entries)
}

// La cantidad de una venta debe ser positiva.
func TestRegisterSaleDeduction_CantidadNoPositiva(t *testing.T) {
	fx := newAdjustmentFixture()

	_, err := fx.uc.RegisterSaleDeduction(context.Background(), SaleDeductionInput{
		CompanyID: testCompanyID,
		UserID:    testUserID,
		ProductID: testProductID,
		Category:  "ready_for_sale",
		Quantity:  decimal.NewFromInt(-2),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Tras un ajuste exitoso se invalida la proyección cacheada.
func TestRegisterAdjustment_InvalidaCache(t *testing.T) {
	fx := newAdjustmentFixture()
	fx.recordRepo.set(testProductID, "ready_for_sale", decimal.NewFromInt(10))

	_, err := fx.adjust(1, "conteo")
	require.NoError(t, err)
	assert.Equal(t, []string{testProductID}, fx.cache.invalidated)
}
