// Package http expone la API sobre Fiber: rutas, middleware de auth y handlers.
package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/netxel/inventario-api/internal/application/auth"
	"github.com/netxel/inventario-api/internal/application/inventory"
	"github.com/netxel/inventario-api/internal/application/product"
	"github.com/netxel/inventario-api/internal/application/store"
	"github.com/netxel/inventario-api/internal/domain/entity"
	"github.com/netxel/inventario-api/internal/infrastructure/pdf"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	StoreUC          *store.UseCase
	ProductUC        *product.UseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	MovementQuery    *inventory.MovementQueryUseCase
	PDFGen           *pdf.MarotoPDFGenerator
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.StoreUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	protected.Post("/auth/logout", authHandler.Logout)

	// Stores (protegido)
	stores := protected.Group("/stores")
	storeHandler := NewStoreHandler(deps.StoreUC)
	stores.Post("/", storeHandler.Create)
	stores.Get("/", storeHandler.List)
	stores.Get("/current", storeHandler.Current) // antes de /:id para no capturar "current"
	stores.Get("/:id", storeHandler.GetByID)
	stores.Put("/:id", storeHandler.Update)
	stores.Delete("/:id", RequireRole(entity.RoleOwner), storeHandler.Delete)
	stores.Post("/:id/select", storeHandler.Select)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.PDFGen)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Post("/bulk", productHandler.BulkImport)
	products.Get("/barcode/:code", productHandler.GetByBarcode)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleOwner), productHandler.Delete)
	products.Get("/:id/barcode.png", productHandler.BarcodePNG)
	products.Get("/:id/label", productHandler.Label)

	// Inventory movements (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.MovementQuery, deps.ProductUC, deps.StoreUC, deps.PDFGen)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Post("/movements/batch", inventoryHandler.RegisterBatch)
	invGroup.Get("/movements", inventoryHandler.List)
	invGroup.Get("/movements/:id", inventoryHandler.GetByID)
	invGroup.Patch("/movements/:id", inventoryHandler.UpdateStatus)
	invGroup.Get("/movements/:id/packing-list", inventoryHandler.PackingList)
	invGroup.Get("/stats", inventoryHandler.Stats)
	invGroup.Get("/carriers", inventoryHandler.Carriers)
}
