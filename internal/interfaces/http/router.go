package http

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/Maiar0/inventory-web-backend/internal/application/auth"
	"github.com/Maiar0/inventory-web-backend/internal/application/catalog"
	"github.com/Maiar0/inventory-web-backend/internal/application/documents"
	"github.com/Maiar0/inventory-web-backend/internal/application/inventory"
	"github.com/Maiar0/inventory-web-backend/internal/application/usecase"
	"github.com/Maiar0/inventory-web-backend/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	NavUC       *usecase.NavUseCase
	ProductUC   *usecase.ProductUseCase
	AssetUC     *usecase.AssetUseCase
	CatalogUC   *catalog.CatalogUseCase
	LedgerUC    *inventory.LedgerUseCase
	AdjustUC    *inventory.AdjustmentUseCase
	Composer    *documents.Composer
	Reader      *documents.Reader
	DocumentPDF *documents.PDFUseCase
	JWTSecret   string
	AppName     string
	// Opcionales
	HTTPMetrics    HTTPObserver
	MetricsHandler http.Handler
	AssetDir       string
}

// documentRoutes prefijo de ruta y roles que pueden crear cada tipo.
var documentRoutes = []struct {
	path    string
	kind    entity.DocumentKind
	creator []entity.Role
}{
	{"/invoices", entity.KindInvoice, []entity.Role{entity.RoleAdmin}},
	{"/orders", entity.KindOrder, []entity.Role{entity.RoleUser, entity.RoleAdmin}},
	{"/returns", entity.KindReturn, []entity.Role{entity.RoleUser, entity.RoleAdmin}},
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.HTTPMetrics != nil {
		app.Use(Metrics(deps.HTTPMetrics))
	}
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}
	if deps.AssetDir != "" {
		app.Static("/images", deps.AssetDir)
	}

	api := app.Group("/api")

	// Auth (público, con límite por IP)
	authGroup := api.Group("/auth", limiter.New(limiter.Config{Max: 20, Expiration: time.Minute}))
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)

	protected.Get("/nav", NewNavHandler(deps.NavUC).Get)

	users := protected.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)

	catalogGroup := protected.Group("/catalog")
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	catalogGroup.Get("/", catalogHandler.GetPage)
	catalogGroup.Get("/:id", catalogHandler.GetOne)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.LedgerUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/movements", productHandler.Movements)
	products.Post("/", adminOnly, productHandler.Create)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.AdjustUC)
	invGroup.Get("/adjustments", inventoryHandler.ListAdjustments)
	invGroup.Get("/adjustments/:id", inventoryHandler.GetAdjustment)
	invGroup.Post("/adjustments", adminOnly, inventoryHandler.CreateAdjustment)

	for _, r := range documentRoutes {
		h := NewDocumentHandler(r.kind, deps.Composer, deps.Reader, deps.DocumentPDF)
		g := protected.Group(r.path)
		g.Get("/", h.List)
		g.Get("/:id", h.Get)
		g.Get("/:id/items", h.Items)
		g.Get("/:id/pdf", h.PDF)
		g.Post("/", RequireStoredRole(deps.AuthUC, r.creator...), h.Create)
		g.Patch("/:id/status", adminOnly, h.UpdateStatus)
		g.Delete("/:id", adminOnly, h.Delete)
	}

	assets := protected.Group("/assets")
	assetHandler := NewAssetHandler(deps.AssetUC)
	assets.Get("/", assetHandler.List)
	assets.Post("/upload", adminOnly, assetHandler.Upload)
}
