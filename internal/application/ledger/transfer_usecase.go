package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-ledger/internal/domain"
	"github.com/jhoicas/almacen-ledger/internal/domain/entity"
	ledgerdom "github.com/jhoicas/almacen-ledger/internal/domain/ledger"
	"github.com/jhoicas/almacen-ledger/internal/domain/repository"
	"github.com/jhoicas/almacen-ledger/pkg/logger"
)

// TransferUseCase mueve cantidad de un producto entre dos categorías de bodega
// como una sola operación atómica: decrementa origen, incrementa destino y
// registra el par TRANSFER_OUT/TRANSFER_IN con un GroupID compartido, todo
// dentro de una transacción con bloqueo de filas (SELECT FOR UPDATE).
type TransferUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	cache        ProjectionCache
	log          *logger.Logger
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	cache ProjectionCache,
	log *logger.Logger,
) *TransferUseCase {
	return &TransferUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
		log:          log,
	}
}

// TransferInput entrada para un traslado entre categorías.
type TransferInput struct {
	CompanyID    string
	UserID       string
	ProductID    string
	FromCategory string
	ToCategory   string
	Quantity     decimal.Decimal
	Reason       string
}

// TransferResult identificadores del traslado ejecutado.
type TransferResult struct {
	GroupID    string
	OutEntryID string
	InEntryID  string
}

// Transfer valida el comando, resuelve las categorías contra el conjunto
// cerrado de la empresa y ejecuta el traslado. Falla con
// InsufficientStockError (con la cantidad disponible) si el origen no
// alcanza; cualquier fallo a mitad de camino deja el inventario intacto.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	if input.ProductID == "" || !input.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}

	// Resolver ambas categorías contra el conjunto cerrado de la empresa.
	set, err := uc.categorySet(ctx, input.CompanyID)
	if err != nil {
		return nil, err
	}
	from, err := set.Resolve(input.FromCategory)
	if err != nil {
		return nil, err
	}
	to, err := set.Resolve(input.ToCategory)
	if err != nil {
		return nil, err
	}
	if from == to {
		return nil, domain.ErrInvalidInput
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
	groupID := uuid.New().String()
	var result TransferResult

	err = uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		ledgerRepo repository.LedgerRepository,
		_ repository.PurchaseRequestRepository,
	) error {
		// Bloquea ambas filas en orden estable de categoría: dos traslados
		// cruzados sobre el mismo producto no pueden interbloquearse.
		locked := make(map[ledgerdom.CategoryCode]*entity.InventoryRecord, 2)
		first, second := from, to
		if second < first {
			first, second = second, first
		}
		for _, cat := range []ledgerdom.CategoryCode{first, second} {
			rec, err := recordRepo.GetForUpdate(ctx, input.ProductID, cat.String())
			if err != nil {
				return err
			}
			locked[cat] = rec
		}
		origin, dest := locked[from], locked[to]

		if origin.Quantity.LessThan(input.Quantity) {
			return &domain.InsufficientStockError{
				ProductID: input.ProductID,
				Category:  from.String(),
				Requested: input.Quantity,
				Available: origin.Quantity,
			}
		}
		if err := applyDelta(origin, input.Quantity.Neg(), now); err != nil {
			return err
		}
		if err := applyDelta(dest, input.Quantity, now); err != nil {
			return err
		}
		if err := recordRepo.Upsert(ctx, origin); err != nil {
			return err
		}
		if err := recordRepo.Upsert(ctx, dest); err != nil {
			return err
		}

		fromStr, toStr := from.String(), to.String()
		outEntry := &entity.LedgerEntry{
			GroupID:        groupID,
			CompanyID:      input.CompanyID,
			ProductID:      input.ProductID,
			Kind:           entity.EntryKindTransferOut,
			SourceCategory: &fromStr,
			DestCategory:   &toStr,
			Quantity:       input.Quantity.Neg(),
			Reason:         input.Reason,
			CreatedAt:      now,
			CreatedBy:      input.UserID,
		}
		if err := ledgerRepo.Append(ctx, outEntry); err != nil {
			return err
		}
		inEntry := &entity.LedgerEntry{
			GroupID:        groupID,
			CompanyID:      input.CompanyID,
			ProductID:      input.ProductID,
			Kind:           entity.EntryKindTransferIn,
			SourceCategory: &fromStr,
			DestCategory:   &toStr,
			Quantity:       input.Quantity,
			Reason:         input.Reason,
			CreatedAt:      now,
			CreatedBy:      input.UserID,
		}
		if err := ledgerRepo.Append(ctx, inEntry); err != nil {
			return err
		}

		result = TransferResult{GroupID: groupID, OutEntryID: outEntry.ID, InEntryID: inEntry.ID}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNegativeStock) {
			// Invariante violado antes del commit: el rollback ya ocurrió,
			// pero indica un bug o una carrera fuera del aislamiento declarado.
			uc.log.Error().
				Str("product_id", input.ProductID).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("traslado abortado: stock negativo detectado antes del commit")
		}
		return nil, err
	}

	uc.cache.InvalidateProduct(ctx, input.ProductID)
	return &result, nil
}

func (uc *TransferUseCase) categorySet(ctx context.Context, companyID string) (ledgerdom.CategorySet, error) {
	categories, err := uc.categoryRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return ledgerdom.CategorySet{}, err
	}
	return ledgerdom.NewCategorySet(categories), nil
}
