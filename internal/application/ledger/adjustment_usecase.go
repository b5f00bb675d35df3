package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-ledger/internal/domain"
	"github.com/jhoicas/almacen-ledger/internal/domain/entity"
	ledgerdom "github.com/jhoicas/almacen-ledger/internal/domain/ledger"
	"github.com/jhoicas/almacen-ledger/internal/domain/repository"
	"github.com/jhoicas/almacen-ledger/pkg/logger"
)

// AdjustmentUseCase registra ajustes manuales y descuentos por venta sobre una
// categoría. Ambos pasan por el mismo camino transaccional que los traslados:
// bloqueo de fila, validación de no-negatividad y asiento en el libro.
type AdjustmentUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	cache        ProjectionCache
	log          *logger.Logger
}

// NewAdjustmentUseCase construye el caso de uso.
func NewAdjustmentUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	cache ProjectionCache,
	log *logger.Logger,
) *AdjustmentUseCase {
	return &AdjustmentUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
		log:          log,
	}
}

// AdjustmentInput entrada para un ajuste manual con signo.
type AdjustmentInput struct {
	CompanyID string
	UserID    string
	ProductID string
	Category  string
	Quantity  decimal.Decimal // con signo; nunca cero
	Reason    string
}

// RegisterAdjustment aplica un delta con signo sobre (producto, categoría) y
// deja el asiento ADJUSTMENT. Reason es obligatoria: un ajuste sin motivo no
// sirve para auditoría.
func (uc *AdjustmentUseCase) RegisterAdjustment(ctx context.Context, input AdjustmentInput) (*entity.LedgerEntry, error) {
	if input.Quantity.IsZero() || input.Reason == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.apply(ctx, input, entity.EntryKindAdjustment)
}

// SaleDeductionInput entrada para descontar stock vendido.
type SaleDeductionInput struct {
	CompanyID string
	UserID    string
	ProductID string
	Category  string
	Quantity  decimal.Decimal // positiva; se descuenta
	SaleRef   string
}

// RegisterSaleDeduction descuenta la cantidad vendida de la categoría indicada
// y deja el asiento SALE_DEDUCTION referenciando la venta. Falla con
// InsufficientStockError si la categoría no alcanza.
func (uc *AdjustmentUseCase) RegisterSaleDeduction(ctx context.Context, input SaleDeductionInput) (*entity.LedgerEntry, error) {
	if !input.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	return uc.apply(ctx, AdjustmentInput{
		CompanyID: input.CompanyID,
		UserID:    input.UserID,
		ProductID: input.ProductID,
		Category:  input.Category,
		Quantity:  input.Quantity.Neg(),
		Reason:    input.SaleRef,
	}, entity.EntryKindSaleDeduction)
}

func (uc *AdjustmentUseCase) apply(ctx context.Context, input AdjustmentInput, kind string) (*entity.LedgerEntry, error) {
	if input.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}

	categories, err := uc.categoryRepo.ListByCompany(ctx, input.CompanyID)
	if err != nil {
		return nil, err
	}
	set := ledgerdom.NewCategorySet(categories)
	category, err := set.Resolve(input.Category)
	if err != nil {
		return nil, err
	}

	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != input.CompanyID {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	catStr := category.String()
	entry := &entity.LedgerEntry{
		GroupID:   uuid.New().String(),
		CompanyID: input.CompanyID,
		ProductID: input.ProductID,
		Kind:      kind,
		Quantity:  input.Quantity,
		Reason:    input.Reason,
		CreatedAt: now,
		CreatedBy: input.UserID,
	}
	if input.Quantity.IsNegative() {
		entry.SourceCategory = &catStr
	} else {
		entry.DestCategory = &catStr
	}

	err = uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		ledgerRepo repository.LedgerRepository,
		_ repository.PurchaseRequestRepository,
	) error {
		record, err := recordRepo.GetForUpdate(ctx, input.ProductID, catStr)
		if err != nil {
			return err
		}
		if input.Quantity.IsNegative() && record.Quantity.LessThan(input.Quantity.Neg()) {
			return &domain.InsufficientStockError{
				ProductID: input.ProductID,
				Category:  catStr,
				Requested: input.Quantity.Neg(),
				Available: record.Quantity,
			}
		}
		if err := applyDelta(record, input.Quantity, now); err != nil {
			return err
		}
		if err := recordRepo.Upsert(ctx, record); err != nil {
			return err
		}
		return ledgerRepo.Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	uc.cache.InvalidateProduct(ctx, input.ProductID)
	return entry, nil
}
