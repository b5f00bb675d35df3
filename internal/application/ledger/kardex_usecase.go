package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-ledger/internal/domain"
	"github.com/jhoicas/almacen-ledger/internal/domain/repository"
	"github.com/jhoicas/almacen-ledger/pkg/logger"
)

// KardexUseCase genera el kardex en PDF de un producto: sus movimientos del
// libro en un rango de fechas, listos para imprimir o archivar.
type KardexUseCase struct {
	ledgerRepo  repository.LedgerRepository
	productRepo repository.ProductRepository
	generator   KardexGenerator
	log         *logger.Logger
}

// NewKardexUseCase construye el caso de uso.
func NewKardexUseCase(
	ledgerRepo repository.LedgerRepository,
	productRepo repository.ProductRepository,
	generator KardexGenerator,
	log *logger.Logger,
) *KardexUseCase {
	return &KardexUseCase{
		ledgerRepo:  ledgerRepo,
		productRepo: productRepo,
		generator:   generator,
		log:         log,
	}
}

// kardexMaxEntries tope de asientos por reporte; más allá el PDF deja de ser
// útil y conviene exportar por rangos.
const kardexMaxEntries = 1000

// GenerateKardex arma el PDF con los movimientos del producto en [from, to].
func (uc *KardexUseCase) GenerateKardex(ctx context.Context, companyID, productID string, from, to *time.Time) ([]byte, error) {
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

	entries, err := uc.ledgerRepo.ListByProduct(ctx, productID, from, to, kardexMaxEntries, 0)
	if err != nil {
		return nil, err
	}

	pdf, err := uc.generator.GenerateKardexPDF(ctx, product, entries)
	if err != nil {
		uc.log.Error().Err(err).Str("product_id", productID).Msg("error generando PDF del kardex")
		return nil, err
	}
	return pdf, nil
}
