package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-ledger/internal/application/dto"
	"github.com/jhoicas/almacen-ledger/internal/domain"
	"github.com/jhoicas/almacen-ledger/internal/domain/entity"
	ledgerdom "github.com/jhoicas/almacen-ledger/internal/domain/ledger"
	"github.com/jhoicas/almacen-ledger/internal/domain/repository"
	"github.com/jhoicas/almacen-ledger/pkg/logger"
)

// ProjectionUseCase consultas de solo lectura derivadas del inventario y del
// libro: stock actual por producto, productos bajo stock seguro e historial de
// movimientos. El stock por producto pasa por la caché (read-through).
type ProjectionUseCase struct {
	recordRepo   repository.InventoryRecordRepository
	ledgerRepo   repository.LedgerRepository
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	cache        ProjectionCache
	log          *logger.Logger
}

// NewProjectionUseCase construye el caso de uso.
func NewProjectionUseCase(
	recordRepo repository.InventoryRecordRepository,
	ledgerRepo repository.LedgerRepository,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	cache ProjectionCache,
	log *logger.Logger,
) *ProjectionUseCase {
	return &ProjectionUseCase{
		recordRepo:   recordRepo,
		ledgerRepo:   ledgerRepo,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
		log:          log,
	}
}

// CurrentStock devuelve el stock actual del producto desglosado por categoría
// más el total agregado. Las categorías sin fila se reportan en 0 para que el
// desglose siempre cubra el conjunto completo de la empresa.
func (uc *ProjectionUseCase) CurrentStock(ctx context.Context, companyID, productID string) (*dto.StockProjectionResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	byCategory, hit := uc.cache.GetStock(ctx, productID)
	if !hit {
		records, err := uc.recordRepo.ListByProduct(ctx, productID)
		if err != nil {
			return nil, err
		}
		byCategory = make(map[string]decimal.Decimal, len(records))
		for _, r := range records {
			byCategory[r.CategoryCode] = r.Quantity
		}
		uc.cache.SetStock(ctx, productID, byCategory)
	}

	categories, err := uc.categoryRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := &dto.StockProjectionResponse{
		ProductID:  productID,
		SKU:        product.SKU,
		Categories: make(map[string]decimal.Decimal, len(categories)),
		Total:      decimal.Zero,
	}
	for _, c := range categories {
		qty, ok := byCategory[c.Code]
		if !ok {
			qty = decimal.Zero
		}
		resp.Categories[c.Code] = qty
		resp.Total = resp.Total.Add(qty)
	}
	return resp, nil
}

// LowStock lista los productos de la empresa cuyo stock total está por debajo
// de su umbral de stock seguro, ordenados por déficit descendente.
func (uc *ProjectionUseCase) LowStock(ctx context.Context, companyID string) ([]dto.LowStockItemResponse, error) {
	items, err := uc.recordRepo.ListLowStock(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.LowStockItemResponse{
			ProductID:   it.ProductID,
			SKU:         it.SKU,
			ProductName: it.ProductName,
			TotalStock:  it.TotalStock,
			SafeStock:   it.SafeStock,
			Deficit:     it.Deficit,
		})
	}
	return out, nil
}

// MovementHistory lista asientos del libro filtrados por producto o por
// categoría, con rango de fechas opcional y paginación. Orden ascendente por
// fecha de creación.
func (uc *ProjectionUseCase) MovementHistory(ctx context.Context, companyID string, filter dto.HistoryFilter) ([]dto.LedgerEntryResponse, error) {
	filter.DefaultPage()
	if filter.ProductID == "" && filter.Category == "" {
		return nil, domain.ErrInvalidInput
	}

	switch {
	case filter.ProductID != "":
		product, err := uc.productRepo.GetByID(ctx, filter.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if product.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
		rows, err := uc.ledgerRepo.ListByProduct(ctx, filter.ProductID, filter.From, filter.To, filter.Limit, filter.Offset)
		if err != nil {
			return nil, err
		}
		return toEntryResponses(rows), nil
	default:
		categories, err := uc.categoryRepo.ListByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}
		code, err := ledgerdom.NewCategorySet(categories).Resolve(filter.Category)
		if err != nil {
			return nil, err
		}
		rows, err := uc.ledgerRepo.ListByCategory(ctx, companyID, code.String(), filter.From, filter.To, filter.Limit, filter.Offset)
		if err != nil {
			return nil, err
		}
		return toEntryResponses(rows), nil
	}
}

func toEntryResponses(entries []*entity.LedgerEntry) []dto.LedgerEntryResponse {
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.LedgerEntryResponse{
			ID:             e.ID,
			GroupID:        e.GroupID,
			ProductID:      e.ProductID,
			Kind:           e.Kind,
			SourceCategory: e.SourceCategory,
			DestCategory:   e.DestCategory,
			Quantity:       e.Quantity,
			Reason:         e.Reason,
			CreatedAt:      e.CreatedAt,
			CreatedBy:      e.CreatedBy,
		})
	}
	return out
}
