package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-ledger/internal/domain/entity"
	"github.com/jhoicas/almacen-ledger/pkg/logger"
)

// consistencyFixture comparte los fakes entre los tres motores de escritura
// para poder reconstruir el stock desde el libro completo.
type consistencyFixture struct {
	reconciliationUC *ReconciliationUseCase
	transferUC       *TransferUseCase
	adjustmentUC     *AdjustmentUseCase
	recordRepo       *fakeRecordRepo
	ledgerRepo       *fakeLedgerRepo
	purchaseRepo     *fakePurchaseRepo
}

func newConsistencyFixture() *consistencyFixture {
	recordRepo := newFakeRecordRepo()
	ledgerRepo := &fakeLedgerRepo{}
	purchaseRepo := newFakePurchaseRepo()
	cache := newFakeCache()
	txRunner := &fakeTxRunner{recordRepo: recordRepo, ledgerRepo: ledgerRepo, purchaseRepo: purchaseRepo}
	productRepo := newFakeProductRepo(&entity.Product{
		ID:        testProductID,
		CompanyID: testCompanyID,
		SKU:       "SKU-001",
		Name:      "Tornillo 3/8",
	})
	categoryRepo := newFakeCategoryRepo(testCompanyID, "ready_for_sale", "research", "damaged")

	return &consistencyFixture{
		reconciliationUC: NewReconciliationUseCase(txRunner, categoryRepo, cache, logger.Nop(), "damaged"),
		transferUC:       NewTransferUseCase(txRunner, productRepo, categoryRepo, cache, logger.Nop()),
		adjustmentUC:     NewAdjustmentUseCase(txRunner, productRepo, categoryRepo, cache, logger.Nop()),
		recordRepo:       recordRepo,
		ledgerRepo:       ledgerRepo,
		purchaseRepo:     purchaseRepo,
	}
}

// sumByCategory reconstruye el stock por categoría desde los asientos usando
// la convención de atribución (negativo afecta origen, positivo destino).
func sumByCategory(entries []*entity.LedgerEntry) map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	for _, e := range entries {
		cat := e.AppliesTo()
		if cat == nil {
			continue
		}
		sums[*cat] = sums[*cat].Add(e.Quantity)
	}
	return sums
}

// El libro es la fuente de verdad: después de una secuencia mixta de
// operaciones, la suma de deltas de los asientos por categoría debe coincidir
// exactamente con la cantidad almacenada en cada registro de inventario.
func TestAsientos_SumaDeDeltasIgualaElStock(t *testing.T) {
	fx := newConsistencyFixture()
	ctx := context.Background()

	// Recepción de compra: 50 ordenados, 40 buenos, 5 devueltos, 5 dañados.
	productID := testProductID
	fx.purchaseRepo.put(&entity.PurchaseRequest{
		ID:              testRequestID,
		CompanyID:       testCompanyID,
		ProductID:       &productID,
		ItemName:        "Tornillo 3/8",
		OrderedQuantity: decimal.NewFromInt(50),
		Status:          entity.PurchaseStatusWaitingForReceived,
		CreatedAt:       time.Now(),
	})
	err := fx.reconciliationUC.CloseRequest(ctx, CloseInput{
		CompanyID:        testCompanyID,
		UserID:           testUserID,
		Role:             entity.RoleBodeguero,
		RequestID:        testRequestID,
		ReceivedQuantity: decimal.NewFromInt(40),
		ReturnedQuantity: decimal.NewFromInt(5),
		DamagedQuantity:  decimal.NewFromInt(5),
		TargetCategory:   "ready_for_sale",
		Notes:            "recepción parcial",
	})
	require.NoError(t, err)

	// Traslado de 10 unidades a investigación.
	_, err = fx.transferUC.Transfer(ctx, TransferInput{
		CompanyID:    testCompanyID,
		UserID:       testUserID,
		ProductID:    testProductID,
		FromCategory: "ready_for_sale",
		ToCategory:   "research",
		Quantity:     decimal.NewFromInt(10),
		Reason:       "muestras de laboratorio",
	})
	require.NoError(t, err)

	// Ajuste negativo por merma en investigación.
	_, err = fx.adjustmentUC.RegisterAdjustment(ctx, AdjustmentInput{
		CompanyID: testCompanyID,
		UserID:    testUserID,
		ProductID: testProductID,
		Category:  "research",
		Quantity:  decimal.NewFromInt(-3),
		Reason:    "merma en pruebas",
	})
	require.NoError(t, err)

	// Venta de 7 unidades desde la categoría de venta.
	_, err = fx.adjustmentUC.RegisterSaleDeduction(ctx, SaleDeductionInput{
		CompanyID: testCompanyID,
		UserID:    testUserID,
		ProductID: testProductID,
		Category:  "ready_for_sale",
		Quantity:  decimal.NewFromInt(7),
		SaleRef:   "FACT-0099",
	})
	require.NoError(t, err)

	// RECEIPT, DAMAGE, RETURN, TRANSFER_OUT, TRANSFER_IN, ADJUSTMENT,
	// SALE_DEDUCTION: siete asientos.
	require.Len(t, fx.ledgerRepo.entries, 7)

	sums := sumByCategory(fx.ledgerRepo.entries)
	for _, cat := range []string{"ready_for_sale", "research", "damaged"} {
		stored := fx.recordRepo.quantity(testProductID, cat)
		assert.True(t, sums[cat].Equal(stored),
			"categoría %s: suma de asientos %s != stock almacenado %s", cat, sums[cat], stored)
	}

	// Y los valores esperados de la secuencia, para fijar la aritmética.
	assert.True(t, fx.recordRepo.quantity(testProductID, "ready_for_sale").Equal(decimal.NewFromInt(23)))
	assert.True(t, fx.recordRepo.quantity(testProductID, "research").Equal(decimal.NewFromInt(7)))
	assert.True(t, fx.recordRepo.quantity(testProductID, "damaged").Equal(decimal.NewFromInt(5)))

	// El RETURN no tiene efecto en stock: no atribuye categoría.
	returns := fx.ledgerRepo.byKind(entity.EntryKindReturn)
	require.Len(t, returns, 1)
	assert.Nil(t, returns[0].AppliesTo())
}
