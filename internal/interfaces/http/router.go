package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/stockops"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	CreateUC    *stockops.CreateUseCase
	LifecycleUC *stockops.LifecycleUseCase
	QueryUC     *stockops.QueryUseCase
	AdjustUC    *stockops.AdjustmentUseCase
	SlipUC      *stockops.SlipUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Solo quien opera bodega puede mover stock; los vendedores consultan.
	warehouseOnly := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)

	// Warehouses (protegido)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseOnly, warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Get("/:id/locations", warehouseHandler.ListLocations)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", warehouseOnly, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Operations (protegido; las transiciones exigen rol de bodega)
	operations := protected.Group("/operations")
	operationHandler := NewOperationHandler(deps.CreateUC, deps.LifecycleUC, deps.QueryUC, deps.SlipUC)
	operations.Post("/receptions", warehouseOnly, operationHandler.CreateReception)
	operations.Post("/transfers", warehouseOnly, operationHandler.CreateTransfer)
	operations.Post("/purchases", warehouseOnly, operationHandler.CreatePurchase)
	operations.Get("/", operationHandler.List)
	operations.Get("/:id", operationHandler.GetByID)
	operations.Get("/:id/movements", operationHandler.Movements)
	operations.Get("/:id/slip", operationHandler.Slip)
	operations.Post("/:id/confirm", warehouseOnly, operationHandler.Confirm)
	operations.Post("/:id/validate", warehouseOnly, operationHandler.Validate)
	operations.Post("/:id/cancel", warehouseOnly, operationHandler.Cancel)
	operations.Post("/:id/comments", operationHandler.AddComment)

	// Stock (protegido; los ajustes exigen rol de bodega)
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.QueryUC, deps.AdjustUC)
	stock.Get("/variants/:id", stockHandler.VariantSnapshot)
	stock.Get("/products/:id", stockHandler.ProductSnapshot)
	stock.Get("/items/:id", stockHandler.ItemHistory)
	stock.Post("/discovered", warehouseOnly, stockHandler.RegisterDiscovered)
	stock.Post("/discovered/:id/confirm", warehouseOnly, stockHandler.ConfirmDiscovered)
}
