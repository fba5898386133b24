package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/puntoventa-api/internal/application/audit"
	"github.com/jhoicas/puntoventa-api/internal/application/sales"
	"github.com/jhoicas/puntoventa-api/internal/application/usecase"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SaleEngine *sales.Engine
	ReceiptUC  *sales.ReceiptUseCase
	ItemUC     *usecase.ItemUseCase
	CustomerUC *usecase.CustomerUseCase
	SupplierUC *usecase.SupplierUseCase
	PurchaseUC *usecase.PurchaseUseCase
	ReportUC   *usecase.ReportUseCase
	UserUC     *usecase.UserUseCase
	AuditUC    *audit.ListUseCase
	JWTSecret  string
}

// Router registra las rutas de la API. Todo salvo auth requiere Bearer Token;
// editar o anular ventas, borrar recursos, reportes y audit trail exigen
// además rol manager.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	managerOnly := RequireRole(entity.RoleManager)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.UserUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Sales (protegido; update/delete solo manager)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleEngine, deps.ReceiptUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)
	salesGroup.Put("/:id", managerOnly, saleHandler.Update)
	salesGroup.Delete("/:id", managerOnly, saleHandler.Delete)

	// Items (protegido; ajuste de stock y borrado solo manager)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Post("/:id/stock", managerOnly, itemHandler.AdjustStock)
	items.Delete("/:id", managerOnly, itemHandler.Delete)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", managerOnly, customerHandler.Delete)

	// Suppliers (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", managerOnly, supplierHandler.Delete)

	// Purchase orders (protegido; borrado solo manager)
	purchases := protected.Group("/purchase-orders")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Put("/:id", purchaseHandler.Update)
	purchases.Post("/:id/receive", purchaseHandler.Receive)
	purchases.Post("/:id/cancel", purchaseHandler.Cancel)
	purchases.Delete("/:id", managerOnly, purchaseHandler.Delete)

	// Reports (protegido, solo manager)
	reports := protected.Group("/reports", managerOnly)
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/sales", reportHandler.Sales)
	reports.Get("/inventory", reportHandler.Inventory)

	// Audit trail (protegido, solo manager)
	auditHandler := NewAuditHandler(deps.AuditUC)
	protected.Get("/audit", managerOnly, auditHandler.List)
}
