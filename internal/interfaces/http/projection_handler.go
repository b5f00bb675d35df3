package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-ledger/internal/application/dto"
	"github.com/jhoicas/almacen-ledger/internal/application/ledger"
	"github.com/jhoicas/almacen-ledger/internal/domain/entity"
)

// ProjectionHandler consultas de solo lectura: stock, quiebres y historial
// (protegido).
type ProjectionHandler struct {
	projectionUC *ledger.ProjectionUseCase
	kardexUC     *ledger.KardexUseCase
}

// NewProjectionHandler construye el handler.
func NewProjectionHandler(projectionUC *ledger.ProjectionUseCase, kardexUC *ledger.KardexUseCase) *ProjectionHandler {
	return &ProjectionHandler{projectionUC: projectionUC, kardexUC: kardexUC}
}

// Stock godoc
// @Summary      Stock actual de un producto por categoría
// @Tags         projections
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockProjectionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/stock/{id} [get]
func (h *ProjectionHandler) Stock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.projectionUC.CurrentStock(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(resp)
}

// LowStock godoc
// @Summary      Productos bajo su umbral de stock seguro
// @Tags         projections
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockItemResponse
// @Router       /api/ledger/low-stock [get]
func (h *ProjectionHandler) LowStock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	items, err := h.projectionUC.LowStock(c.Context(), companyID)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(items), "items": items})
}

// Entries godoc
// @Summary      Historial de asientos por producto o categoría
// @Tags         projections
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "ID del producto"
// @Param        category    query  string  false  "Código de categoría"
// @Param        from        query  string  false  "Fecha inicial (RFC3339)"
// @Param        to          query  string  false  "Fecha final (RFC3339)"
// @Success      200  {array}  dto.LedgerEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/entries [get]
func (h *ProjectionHandler) Entries(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	filter := dto.HistoryFilter{
		ProductID: c.Query("product_id"),
		Category:  c.Query("category"),
	}
	filter.Limit = c.QueryInt("limit")
	filter.Offset = c.QueryInt("offset")
	var err error
	if filter.From, err = parseTimeQuery(c, "from"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
	}
	if filter.To, err = parseTimeQuery(c, "to"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
	}

	entries, err := h.projectionUC.MovementHistory(c.Context(), companyID, filter)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(entries), "entries": entries})
}

// Kardex godoc
// @Summary      Kardex del producto en PDF
// @Tags         projections
// @Security     Bearer
// @Produce      application/pdf
// @Param        id    path   string  true   "ID del producto"
// @Param        from  query  string  false  "Fecha inicial (RFC3339)"
// @Param        to    query  string  false  "Fecha final (RFC3339)"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/kardex/{id} [get]
func (h *ProjectionHandler) Kardex(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
	}

	pdf, err := h.kardexUC.GenerateKardex(c.Context(), companyID, c.Params("id"), from, to)
	if err != nil {
		return mapDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="kardex.pdf"`)
	return c.Send(pdf)
}

func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toLedgerEntryResponse(e *entity.LedgerEntry) dto.LedgerEntryResponse {
	return dto.LedgerEntryResponse{
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
	}
}
