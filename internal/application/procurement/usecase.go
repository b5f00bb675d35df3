// Package procurement gestiona el ciclo de vida de las solicitudes de compra
// previo al cierre: creación, aprobación, paso a espera de recepción y
// rechazo. El cierre con conciliación de cantidades pertenece al motor del
// paquete ledger.
package procurement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-ledger/internal/application/dto"
	"github.com/jhoicas/almacen-ledger/internal/domain"
	"github.com/jhoicas/almacen-ledger/internal/domain/entity"
	"github.com/jhoicas/almacen-ledger/internal/domain/repository"
	"github.com/jhoicas/almacen-ledger/pkg/logger"
)

// UseCase flujo de intake de solicitudes de compra.
type UseCase struct {
	purchaseRepo repository.PurchaseRequestRepository
	productRepo  repository.ProductRepository
	log          *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	purchaseRepo repository.PurchaseRequestRepository,
	productRepo repository.ProductRepository,
	log *logger.Logger,
) *UseCase {
	return &UseCase{purchaseRepo: purchaseRepo, productRepo: productRepo, log: log}
}

// Create registra una solicitud nueva en PENDING. Si trae ProductID debe
// existir y pertenecer a la empresa; si no, debe traer al menos ItemName.
func (uc *UseCase) Create(ctx context.Context, companyID, userID string, req dto.CreatePurchaseRequest) (*entity.PurchaseRequest, error) {
	if !req.OrderedQuantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if req.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	itemName := req.ItemName
	if req.ProductID != nil {
		product, err := uc.productRepo.GetByID(ctx, *req.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if product.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
		if itemName == "" {
			itemName = product.Name
		}
	} else if itemName == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	request := &entity.PurchaseRequest{
		ID:               uuid.New().String(),
		CompanyID:        companyID,
		ProductID:        req.ProductID,
		ItemName:         itemName,
		ItemCode:         req.ItemCode,
		OrderedQuantity:  req.OrderedQuantity,
		UnitCost:         req.UnitCost,
		Status:           entity.PurchaseStatusPending,
		ReceivedQuantity: decimal.Zero,
		ReturnedQuantity: decimal.Zero,
		DamagedQuantity:  decimal.Zero,
		Notes:            req.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.purchaseRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("request_id", request.ID).
		Str("company_id", companyID).
		Str("created_by", userID).
		Msg("solicitud de compra creada")
	return request, nil
}

// Approve pasa la solicitud de PENDING a APPROVED.
func (uc *UseCase) Approve(ctx context.Context, companyID, id string) (*entity.PurchaseRequest, error) {
	return uc.transition(ctx, companyID, id, entity.PurchaseStatusApproved)
}

// MarkWaiting pasa la solicitud de APPROVED a WAITING_FOR_RECEIVED (la orden
// ya fue enviada al proveedor).
func (uc *UseCase) MarkWaiting(ctx context.Context, companyID, id string) (*entity.PurchaseRequest, error) {
	return uc.transition(ctx, companyID, id, entity.PurchaseStatusWaitingForReceived)
}

// Reject rechaza la solicitud desde PENDING o APPROVED.
func (uc *UseCase) Reject(ctx context.Context, companyID, id string) (*entity.PurchaseRequest, error) {
	return uc.transition(ctx, companyID, id, entity.PurchaseStatusRejected)
}

func (uc *UseCase) transition(ctx context.Context, companyID, id, to string) (*entity.PurchaseRequest, error) {
	request, err := uc.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, domain.ErrNotFound
	}
	if request.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if !entity.CanTransition(request.Status, to) {
		return nil, &domain.InvalidStateTransitionError{
			RequestID: request.ID,
			From:      request.Status,
			To:        to,
		}
	}

	request.Status = to
	request.UpdatedAt = time.Now()
	if err := uc.purchaseRepo.Update(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// ResolveProduct asocia un producto del catálogo a una solicitud creada con
// ítem libre. Solo tiene sentido antes del cierre.
func (uc *UseCase) ResolveProduct(ctx context.Context, companyID, id, productID string) (*entity.PurchaseRequest, error) {
	request, err := uc.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, domain.ErrNotFound
	}
	if request.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if entity.IsTerminal(request.Status) {
		return nil, &domain.InvalidStateTransitionError{
			RequestID: request.ID,
			From:      request.Status,
			To:        request.Status,
		}
	}

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

	request.ProductID = &product.ID
	request.UpdatedAt = time.Now()
	if err := uc.purchaseRepo.Update(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// Get devuelve una solicitud de la empresa.
func (uc *UseCase) Get(ctx context.Context, companyID, id string) (*entity.PurchaseRequest, error) {
	request, err := uc.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, domain.ErrNotFound
	}
	if request.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return request, nil
}

// List lista las solicitudes de la empresa, con filtro opcional por estado.
func (uc *UseCase) List(ctx context.Context, companyID, status string, page dto.PageRequest) ([]*entity.PurchaseRequest, error) {
	if status != "" && !entity.ValidPurchaseStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	return uc.purchaseRepo.ListByCompany(ctx, companyID, status, page.Limit, page.Offset)
}
