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

// ReconciliationUseCase cierra solicitudes de compra: postea lo recibido en la
// categoría destino, registra faltantes (RETURN) y daños (DAMAGE) en el libro
// y deja la solicitud en CLOSED, todo en una sola transacción.
//
// DamagedCategory opcional: si viene configurada, lo dañado también entra como
// stock en esa categoría (trazable/desechable); si no, queda solo en el libro,
// como hace el sistema de origen.
type ReconciliationUseCase struct {
	txRunner        TxRunner
	categoryRepo    repository.CategoryRepository
	cache           ProjectionCache
	log             *logger.Logger
	damagedCategory string
}

// NewReconciliationUseCase construye el caso de uso.
func NewReconciliationUseCase(
	txRunner TxRunner,
	categoryRepo repository.CategoryRepository,
	cache ProjectionCache,
	log *logger.Logger,
	damagedCategory string,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		txRunner:        txRunner,
		categoryRepo:    categoryRepo,
		cache:           cache,
		log:             log,
		damagedCategory: damagedCategory,
	}
}

// CloseInput entrada para cerrar una solicitud de compra.
type CloseInput struct {
	CompanyID        string
	UserID           string
	Role             string
	RequestID        string
	ReceivedQuantity decimal.Decimal
	ReturnedQuantity decimal.Decimal
	DamagedQuantity  decimal.Decimal
	TargetCategory   string
	Notes            string
}

// CloseRequest cierra una solicitud en WAITING_FOR_RECEIVED. Un segundo cierre
// de la misma solicitud falla con InvalidStateTransitionError y no produce
// ningún cambio de inventario.
func (uc *ReconciliationUseCase) CloseRequest(ctx context.Context, input CloseInput) error {
	return uc.close(ctx, input, map[string]bool{
		entity.PurchaseStatusWaitingForReceived: true,
	})
}

// ForceClose cierra directamente desde PENDING o APPROVED. Operación explícita
// reservada al rol admin; nunca es un fallback implícito de CloseRequest.
func (uc *ReconciliationUseCase) ForceClose(ctx context.Context, input CloseInput) error {
	if input.Role != entity.RoleAdmin {
		return domain.ErrForbidden
	}
	return uc.close(ctx, input, map[string]bool{
		entity.PurchaseStatusPending:  true,
		entity.PurchaseStatusApproved: true,
	})
}

func (uc *ReconciliationUseCase) close(ctx context.Context, input CloseInput, allowedFrom map[string]bool) error {
	rec := ledgerdom.Reconciliation{
		Received: input.ReceivedQuantity,
		Returned: input.ReturnedQuantity,
		Damaged:  input.DamagedQuantity,
	}
	if err := rec.Validate(); err != nil {
		return err
	}

	categories, err := uc.categoryRepo.ListByCompany(ctx, input.CompanyID)
	if err != nil {
		return err
	}
	set := ledgerdom.NewCategorySet(categories)
	target, err := set.Resolve(input.TargetCategory)
	if err != nil {
		return err
	}

	// Categoría de dañados: si está configurada pero no existe en la empresa,
	// se degrada a registro solo en el libro para no bloquear el cierre.
	damagedCat := ""
	if uc.damagedCategory != "" && input.DamagedQuantity.IsPositive() {
		if set.Contains(uc.damagedCategory) {
			damagedCat = uc.damagedCategory
		} else {
			uc.log.Warn().
				Str("company_id", input.CompanyID).
				Str("damaged_category", uc.damagedCategory).
				Msg("categoría de dañados configurada no existe en la empresa; se registra solo en el libro")
		}
	}

	now := time.Now()
	groupID := uuid.New().String()
	targetStr := target.String()
	var productID string

	err = uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		ledgerRepo repository.LedgerRepository,
		purchaseRepo repository.PurchaseRequestRepository,
	) error {
		// Bloquea la fila de la solicitud: el estado se verifica bajo lock
		// para que dos cierres concurrentes no lean ambos WAITING_FOR_RECEIVED.
		request, err := purchaseRepo.GetByIDForUpdate(ctx, input.RequestID)
		if err != nil {
			return err
		}
		if request == nil {
			return domain.ErrNotFound
		}
		if request.CompanyID != input.CompanyID {
			return domain.ErrForbidden
		}
		if !allowedFrom[request.Status] {
			return &domain.InvalidStateTransitionError{
				RequestID: request.ID,
				From:      request.Status,
				To:        entity.PurchaseStatusClosed,
			}
		}
		if request.ProductID == nil {
			return domain.ErrUnresolvedProduct
		}
		productID = *request.ProductID
		rec.Ordered = request.OrderedQuantity

		// Lo recibido entra a la categoría destino. received = 0 es un cierre
		// legal (recepción totalmente dañada o devuelta); en ese caso no se
		// escribe ningún asiento RECEIPT de delta cero.
		if input.ReceivedQuantity.IsPositive() {
			record, err := recordRepo.GetForUpdate(ctx, productID, targetStr)
			if err != nil {
				return err
			}
			if err := applyDelta(record, input.ReceivedQuantity, now); err != nil {
				return err
			}
			if err := recordRepo.Upsert(ctx, record); err != nil {
				return err
			}
			receipt := &entity.LedgerEntry{
				GroupID:      groupID,
				CompanyID:    input.CompanyID,
				ProductID:    productID,
				Kind:         entity.EntryKindReceipt,
				DestCategory: &targetStr,
				Quantity:     input.ReceivedQuantity,
				Reason:       input.Notes,
				CreatedAt:    now,
				CreatedBy:    input.UserID,
			}
			if err := ledgerRepo.Append(ctx, receipt); err != nil {
				return err
			}
		}

		if input.DamagedQuantity.IsPositive() {
			damage := &entity.LedgerEntry{
				GroupID:   groupID,
				CompanyID: input.CompanyID,
				ProductID: productID,
				Kind:      entity.EntryKindDamage,
				Quantity:  input.DamagedQuantity,
				Reason:    input.Notes,
				CreatedAt: now,
				CreatedBy: input.UserID,
			}
			if damagedCat != "" {
				record, err := recordRepo.GetForUpdate(ctx, productID, damagedCat)
				if err != nil {
					return err
				}
				if err := applyDelta(record, input.DamagedQuantity, now); err != nil {
					return err
				}
				if err := recordRepo.Upsert(ctx, record); err != nil {
					return err
				}
				dc := damagedCat
				damage.DestCategory = &dc
			}
			if err := ledgerRepo.Append(ctx, damage); err != nil {
				return err
			}
		}

		// Lo devuelto nunca entró al inventario: solo queda el hecho.
		if input.ReturnedQuantity.IsPositive() {
			ret := &entity.LedgerEntry{
				GroupID:   groupID,
				CompanyID: input.CompanyID,
				ProductID: productID,
				Kind:      entity.EntryKindReturn,
				Quantity:  input.ReturnedQuantity,
				Reason:    input.Notes,
				CreatedAt: now,
				CreatedBy: input.UserID,
			}
			if err := ledgerRepo.Append(ctx, ret); err != nil {
				return err
			}
		}

		request.Status = entity.PurchaseStatusClosed
		request.ReceivedQuantity = input.ReceivedQuantity
		request.ReturnedQuantity = input.ReturnedQuantity
		request.DamagedQuantity = input.DamagedQuantity
		request.TargetCategory = &targetStr
		if input.Notes != "" {
			request.Notes = input.Notes
		}
		request.ClosedAt = &now
		closedBy := input.UserID
		request.ClosedBy = &closedBy
		request.UpdatedAt = now
		return purchaseRepo.Update(ctx, request)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNegativeStock) {
			uc.log.Error().
				Str("request_id", input.RequestID).
				Str("target", targetStr).
				Msg("cierre abortado: stock negativo detectado antes del commit")
		}
		return err
	}

	uc.cache.InvalidateProduct(ctx, productID)
	return nil
}
