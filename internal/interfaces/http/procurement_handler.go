package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-ledger/internal/application/dto"
	"github.com/jhoicas/almacen-ledger/internal/application/ledger"
	"github.com/jhoicas/almacen-ledger/internal/application/procurement"
	"github.com/jhoicas/almacen-ledger/internal/domain/entity"
)

// ProcurementHandler maneja el intake de solicitudes de compra y su cierre
// conciliado (protegido).
type ProcurementHandler struct {
	intakeUC         *procurement.UseCase
	reconciliationUC *ledger.ReconciliationUseCase
}

// NewProcurementHandler construye el handler.
func NewProcurementHandler(intakeUC *procurement.UseCase, reconciliationUC *ledger.ReconciliationUseCase) *ProcurementHandler {
	return &ProcurementHandler{intakeUC: intakeUC, reconciliationUC: reconciliationUC}
}

// Create godoc
// @Summary      Crear solicitud de compra (queda en PENDING)
// @Tags         procurement
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "product_id opcional; item_name para ítems sin catalogar"
// @Success      201   {object}  dto.PurchaseRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchase-requests [post]
func (h *ProcurementHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreatePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	request, err := h.intakeUC.Create(c.Context(), companyID, userID, in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPurchaseRequestResponse(request))
}

// Approve godoc
// @Summary      Aprobar solicitud (PENDING -> APPROVED)
// @Tags         procurement
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.PurchaseRequestResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-requests/{id}/approve [post]
func (h *ProcurementHandler) Approve(c *fiber.Ctx) error {
	return h.runTransition(c, h.intakeUC.Approve)
}

// MarkWaiting godoc
// @Summary      Marcar orden enviada (APPROVED -> WAITING_FOR_RECEIVED)
// @Tags         procurement
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.PurchaseRequestResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-requests/{id}/mark-waiting [post]
func (h *ProcurementHandler) MarkWaiting(c *fiber.Ctx) error {
	return h.runTransition(c, h.intakeUC.MarkWaiting)
}

// Reject godoc
// @Summary      Rechazar solicitud (PENDING/APPROVED -> REJECTED)
// @Tags         procurement
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.PurchaseRequestResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-requests/{id}/reject [post]
func (h *ProcurementHandler) Reject(c *fiber.Ctx) error {
	return h.runTransition(c, h.intakeUC.Reject)
}

// ResolveProduct godoc
// @Summary      Asociar producto del catálogo a una solicitud de ítem libre
// @Tags         procurement
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  object{product_id=string}  true  "producto a asociar"
// @Success      200   {object}  dto.PurchaseRequestResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchase-requests/{id}/resolve-product [post]
func (h *ProcurementHandler) ResolveProduct(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in struct {
		ProductID string `json:"product_id"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	request, err := h.intakeUC.ResolveProduct(c.Context(), companyID, c.Params("id"), in.ProductID)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(toPurchaseRequestResponse(request))
}

// Close godoc
// @Summary      Cerrar solicitud conciliando lo recibido, devuelto y dañado
// @Tags         procurement
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la solicitud"
// @Param        body  body  dto.ClosePurchaseRequest  true  "cantidades y categoría destino"
// @Success      200   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/purchase-requests/{id}/close [post]
func (h *ProcurementHandler) Close(c *fiber.Ctx) error {
	return h.runClose(c, h.reconciliationUC.CloseRequest)
}

// ForceClose godoc
// @Summary      Cierre forzado desde PENDING/APPROVED (solo admin)
// @Tags         procurement
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la solicitud"
// @Param        body  body  dto.ClosePurchaseRequest  true  "cantidades y categoría destino"
// @Success      200   {object}  map[string]string
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-requests/{id}/force-close [post]
func (h *ProcurementHandler) ForceClose(c *fiber.Ctx) error {
	return h.runClose(c, h.reconciliationUC.ForceClose)
}

// Get godoc
// @Summary      Obtener una solicitud de compra
// @Tags         procurement
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.PurchaseRequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-requests/{id} [get]
func (h *ProcurementHandler) Get(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	request, err := h.intakeUC.Get(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(toPurchaseRequestResponse(request))
}

// List godoc
// @Summary      Listar solicitudes de compra de la empresa
// @Tags         procurement
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado"
// @Success      200  {array}  dto.PurchaseRequestResponse
// @Router       /api/purchase-requests [get]
func (h *ProcurementHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit"), Offset: c.QueryInt("offset")}
	requests, err := h.intakeUC.List(c.Context(), companyID, c.Query("status"), page)
	if err != nil {
		return mapDomainError(c, err)
	}
	out := make([]dto.PurchaseRequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, toPurchaseRequestResponse(r))
	}
	return c.JSON(fiber.Map{"total": len(out), "requests": out})
}

func (h *ProcurementHandler) runTransition(c *fiber.Ctx, fn func(ctx context.Context, companyID, id string) (*entity.PurchaseRequest, error)) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	request, err := fn(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(toPurchaseRequestResponse(request))
}

func (h *ProcurementHandler) runClose(c *fiber.Ctx, fn func(ctx context.Context, input ledger.CloseInput) error) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ClosePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := fn(c.Context(), ledger.CloseInput{
		CompanyID:        companyID,
		UserID:           userID,
		Role:             GetRole(c),
		RequestID:        c.Params("id"),
		ReceivedQuantity: in.ReceivedQuantity,
		ReturnedQuantity: in.ReturnedQuantity,
		DamagedQuantity:  in.DamagedQuantity,
		TargetCategory:   in.TargetCategory,
		Notes:            in.Notes,
	})
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "solicitud cerrada"})
}

func toPurchaseRequestResponse(r *entity.PurchaseRequest) dto.PurchaseRequestResponse {
	return dto.PurchaseRequestResponse{
		ID:               r.ID,
		ProductID:        r.ProductID,
		ItemName:         r.ItemName,
		ItemCode:         r.ItemCode,
		OrderedQuantity:  r.OrderedQuantity,
		UnitCost:         r.UnitCost,
		Status:           r.Status,
		ReceivedQuantity: r.ReceivedQuantity,
		ReturnedQuantity: r.ReturnedQuantity,
		DamagedQuantity:  r.DamagedQuantity,
		TargetCategory:   r.TargetCategory,
		Notes:            r.Notes,
		CreatedAt:        r.CreatedAt,
		ClosedAt:         r.ClosedAt,
	}
}
