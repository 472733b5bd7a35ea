package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hidrosur/comercial-api/internal/application/inventory"
	"github.com/hidrosur/comercial-api/internal/application/kit"
	"github.com/hidrosur/comercial-api/internal/application/sales"
	"github.com/hidrosur/comercial-api/internal/application/services"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	InventoryUC *inventory.UseCase
	KitResolver *kit.ResolverUseCase
	SalesUC     *sales.UseCase
	ServicesUC  *services.UseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Todas las rutas de negocio exigen
// Bearer Token; los roles acotan quién opera cada área (admin pasa siempre).
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Inventario (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	invGroup.Post("/movements", RequireRole("almacen"), inventoryHandler.RegisterMovement)
	invGroup.Get("/balances/:productId", inventoryHandler.GetBalance)
	invGroup.Post("/balances", inventoryHandler.GetBalances)
	invGroup.Get("/kardex/:productId", inventoryHandler.GetKardex)

	// Kits (protegido)
	kits := protected.Group("/kits")
	kitHandler := NewKitHandler(deps.KitResolver)
	kits.Post("/:kitProductId/resolve", kitHandler.Resolve)

	// Ventas (protegido)
	salesGroup := protected.Group("/sales")
	salesHandler := NewSalesHandler(deps.SalesUC)
	salesGroup.Post("/", RequireRole("ventas"), salesHandler.SubmitOrder)
	salesGroup.Get("/:id", salesHandler.GetSale)
	salesGroup.Post("/:id/pay", RequireRole("ventas"), salesHandler.MarkPaid)

	// Contratos de servicio (protegido)
	contracts := protected.Group("/service-contracts")
	servicesHandler := NewServicesHandler(deps.ServicesUC)
	contracts.Post("/", RequireRole("ventas", "tecnico"), servicesHandler.Create)
	contracts.Get("/", servicesHandler.List)
	contracts.Get("/:id", servicesHandler.GetByID)
	contracts.Get("/:id/status", servicesHandler.Status)
	contracts.Post("/:id/attend", RequireRole("tecnico"), servicesHandler.Attend)
	contracts.Post("/:id/notes", RequireRole("ventas", "tecnico"), servicesHandler.AddNote)
	contracts.Get("/:id/notes", servicesHandler.ListNotes)
}
