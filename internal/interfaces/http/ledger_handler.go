package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-ledger/internal/application/dto"
	"github.com/jhoicas/almacen-ledger/internal/application/ledger"
)

// LedgerHandler maneja las operaciones de escritura del libro: traslados,
// ajustes y descuentos por venta (protegido).
type LedgerHandler struct {
	transferUC   *ledger.TransferUseCase
	adjustmentUC *ledger.AdjustmentUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(transferUC *ledger.TransferUseCase, adjustmentUC *ledger.AdjustmentUseCase) *LedgerHandler {
	return &LedgerHandler{transferUC: transferUC, adjustmentUC: adjustmentUC}
}

// Transfer godoc
// @Summary      Trasladar cantidad entre categorías de bodega
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "product_id, from_category, to_category, quantity"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ledger/transfers [post]
func (h *LedgerHandler) Transfer(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.transferUC.Transfer(c.Context(), ledger.TransferInput{
		CompanyID:    companyID,
		UserID:       userID,
		ProductID:    in.ProductID,
		FromCategory: in.FromCategory,
		ToCategory:   in.ToCategory,
		Quantity:     in.Quantity,
		Reason:       in.Reason,
	})
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferResponse{
		GroupID:    result.GroupID,
		OutEntryID: result.OutEntryID,
		InEntryID:  result.InEntryID,
	})
}

// Adjust godoc
// @Summary      Registrar ajuste manual de inventario (cantidad con signo)
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "product_id, category, quantity (con signo), reason"
// @Success      201   {object}  dto.LedgerEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ledger/adjustments [post]
func (h *LedgerHandler) Adjust(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.adjustmentUC.RegisterAdjustment(c.Context(), ledger.AdjustmentInput{
		CompanyID: companyID,
		UserID:    userID,
		ProductID: in.ProductID,
		Category:  in.Category,
		Quantity:  in.Quantity,
		Reason:    in.Reason,
	})
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toLedgerEntryResponse(entry))
}

// SaleDeduction godoc
// @Summary      Descontar stock vendido de una categoría
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaleDeductionRequest  true  "product_id, category, quantity, reference"
// @Success      201   {object}  dto.LedgerEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ledger/sale-deductions [post]
func (h *LedgerHandler) SaleDeduction(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.SaleDeductionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.adjustmentUC.RegisterSaleDeduction(c.Context(), ledger.SaleDeductionInput{
		CompanyID: companyID,
		UserID:    userID,
		ProductID: in.ProductID,
		Category:  in.Category,
		Quantity:  in.Quantity,
		SaleRef:   in.Reference,
	})
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toLedgerEntryResponse(entry))
}
