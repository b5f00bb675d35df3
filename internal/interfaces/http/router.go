package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-ledger/internal/application/auth"
	"github.com/jhoicas/almacen-ledger/internal/application/catalog"
	"github.com/jhoicas/almacen-ledger/internal/application/ledger"
	"github.com/jhoicas/almacen-ledger/internal/application/procurement"
	"github.com/jhoicas/almacen-ledger/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.UseCase
	CompanyUC        *catalog.CompanyUseCase
	ProductUC        *catalog.ProductUseCase
	CategoryUC       *catalog.CategoryUseCase
	TransferUC       *ledger.TransferUseCase
	AdjustmentUC     *ledger.AdjustmentUseCase
	ProjectionUC     *ledger.ProjectionUseCase
	KardexUC         *ledger.KardexUseCase
	ReconciliationUC *ledger.ReconciliationUseCase
	ProcurementUC    *procurement.UseCase
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público para el alta inicial)
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	// Categorías de bodega (protegido; crear es solo admin)
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", RequireRole(entity.RoleAdmin), categoryHandler.Create)
	categories.Get("/", categoryHandler.List)

	// Libro de inventario (protegido)
	ledgerGroup := protected.Group("/ledger")
	ledgerHandler := NewLedgerHandler(deps.TransferUC, deps.AdjustmentUC)
	projectionHandler := NewProjectionHandler(deps.ProjectionUC, deps.KardexUC)
	ledgerGroup.Post("/transfers", ledgerHandler.Transfer)
	ledgerGroup.Post("/adjustments", ledgerHandler.Adjust)
	ledgerGroup.Post("/sale-deductions", ledgerHandler.SaleDeduction)
	ledgerGroup.Get("/stock/:id", projectionHandler.Stock)
	ledgerGroup.Get("/low-stock", projectionHandler.LowStock)
	ledgerGroup.Get("/entries", projectionHandler.Entries)
	ledgerGroup.Get("/kardex/:id", projectionHandler.Kardex)

	// Solicitudes de compra (protegido)
	purchases := protected.Group("/purchase-requests")
	procurementHandler := NewProcurementHandler(deps.ProcurementUC, deps.ReconciliationUC)
	purchases.Post("/", procurementHandler.Create)
	purchases.Get("/", procurementHandler.List)
	purchases.Get("/:id", procurementHandler.Get)
	purchases.Post("/:id/approve", procurementHandler.Approve)
	purchases.Post("/:id/mark-waiting", procurementHandler.MarkWaiting)
	purchases.Post("/:id/reject", procurementHandler.Reject)
	purchases.Post("/:id/resolve-product", procurementHandler.ResolveProduct)
	purchases.Post("/:id/close", procurementHandler.Close)
	purchases.Post("/:id/force-close", RequireRole(entity.RoleAdmin), procurementHandler.ForceClose)
}
