package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/nexus-ledger/internal/application/finance"
	"github.com/jhoicas/nexus-ledger/internal/application/inventory"
	"github.com/jhoicas/nexus-ledger/internal/application/usecase"
	"github.com/jhoicas/nexus-ledger/internal/domain/entity"
	"github.com/jhoicas/nexus-ledger/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC        *usecase.ProductUseCase
	WarehouseUC      *usecase.WarehouseUseCase
	DepartmentUC     *usecase.DepartmentUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	StockQuery       *inventory.StockQueryUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	PartnerUC        *finance.PartnerUseCase
	Tracker          *finance.BalanceTracker
	Analyzer         *finance.AgingAnalyzer
	StatementPDF     finance.StatementRenderer
	JWTSecret        string
}

// Router registra las rutas de la API.
// Lecturas: cualquier usuario autenticado. Escrituras de inventario: almacen. Escrituras de finanzas: finanzas.
// Catálogo y cuentas: admin.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	admin := RequireRole(jwt.RoleAdmin)
	warehouseOps := RequireRole(jwt.RoleWarehouse)
	financeOps := RequireRole(jwt.RoleFinance)

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", admin, productHandler.Create)
	products.Put("/:id", admin, productHandler.Update)
	products.Delete("/:id", admin, productHandler.Delete)

	// Warehouses y departamentos
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC, deps.DepartmentUC)
	warehouses := api.Group("/warehouses")
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Post("/", admin, warehouseHandler.Create)
	warehouses.Put("/:id", admin, warehouseHandler.Update)
	warehouses.Delete("/:id", admin, warehouseHandler.Delete)

	departments := api.Group("/departments")
	departments.Get("/", warehouseHandler.ListDepartments)
	departments.Get("/:id", warehouseHandler.GetDepartment)
	departments.Post("/", admin, warehouseHandler.CreateDepartment)
	departments.Put("/:id", admin, warehouseHandler.UpdateDepartment)

	// Inventory
	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.StockQuery, deps.Replenishment)
	invGroup.Post("/movements", warehouseOps, inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/movements/:id", inventoryHandler.GetMovement)
	invGroup.Get("/positions", inventoryHandler.ListPositions)
	invGroup.Post("/reservations", warehouseOps, inventoryHandler.Reserve)
	invGroup.Post("/reservations/release", warehouseOps, inventoryHandler.Release)
	invGroup.Get("/replenishment", inventoryHandler.GetReplenishmentList)

	// Vendors y clients
	partnerHandler := NewPartnerHandler(deps.PartnerUC)
	financialHandler := NewFinancialHandler(deps.Tracker, deps.Analyzer, deps.StatementPDF)

	vendors := api.Group("/vendors")
	vendors.Get("/", partnerHandler.ListVendors)
	vendors.Get("/:id", partnerHandler.GetVendor)
	vendors.Post("/", admin, partnerHandler.CreateVendor)
	vendors.Put("/:id", admin, partnerHandler.UpdateVendor)
	vendors.Get("/:id/commission", financialHandler.Commission)
	accountRoutes(vendors, financialHandler, entity.EntityTypeVendor, financeOps)

	clients := api.Group("/clients")
	clients.Get("/", partnerHandler.ListClients)
	clients.Get("/:id", partnerHandler.GetClient)
	clients.Post("/", admin, partnerHandler.CreateClient)
	clients.Put("/:id", admin, partnerHandler.UpdateClient)
	clients.Get("/:id/credit-check", financialHandler.CreditCheck)
	clients.Post("/:id/validate-order", financialHandler.ValidateOrder)
	accountRoutes(clients, financialHandler, entity.EntityTypeClient, financeOps)

	// Finance
	fin := api.Group("/finance")
	fin.Get("/transactions", financialHandler.ListTransactions)
	fin.Get("/summary", financialHandler.Summary)
	fin.Get("/alerts", financialHandler.Alerts)
	fin.Get("/aging", financialHandler.AgingReport)
}

// accountRoutes rutas de saldo compartidas por proveedores y clientes.
func accountRoutes(g fiber.Router, h *FinancialHandler, entityType entity.EntityType, writers fiber.Handler) {
	g.Post("/:id/invoices", writers, h.PostInvoice(entityType))
	g.Post("/:id/payments", writers, h.PostPayment(entityType))
	g.Post("/:id/notes", writers, h.PostNote(entityType))
	g.Get("/:id/statement", h.Statement(entityType))
	g.Get("/:id/statement/pdf", h.StatementPDF(entityType))
	g.Get("/:id/balance-check", h.VerifyBalance(entityType))
}
