package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sangkips/pharmacy-pos/internal/config"
	domainRepo "github.com/sangkips/pharmacy-pos/internal/domain/repository"
	"github.com/sangkips/pharmacy-pos/internal/presentation/http/handler"
	"github.com/sangkips/pharmacy-pos/internal/presentation/http/middleware"
	"github.com/sangkips/pharmacy-pos/pkg/utils"
	"github.com/sangkips/pharmacy-pos/pkg/validation"
	"go.uber.org/zap"
)

// Permissions checked on top of authentication.
const (
	PermissionManageCatalog = "manage-catalog"
	PermissionDayClose      = "day-close"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Customer *handler.CustomerHandler
	Hold     *handler.HoldHandler
	DayClose *handler.DayCloseHandler
	Invoice  *handler.InvoiceHandler
	Catalog  *handler.CatalogHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.UserRateLimiter
	Logger          *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.UseJSONNames(v)
	}

	router := gin.New()
	router.MaxMultipartMemory = deps.Cfg.Upload.MaxSize

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		registerPOSRoutes(protected, h, deps)
		registerDayCloseRoutes(protected, h)
		registerCatalogRoutes(protected, h)
		registerPrinterRoutes(protected, h)
	}

	return router
}

func registerPOSRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	pos := protected.Group("/pos")
	{
		pos.GET("/session", h.Checkout.Session)

		cart := pos.Group("/cart")
		{
			cart.GET("", h.Cart.Get)
			cart.PUT("", h.Cart.Replace)
			cart.DELETE("", h.Cart.Clear)
			cart.POST("/lines", h.Cart.AddLine)
			cart.DELETE("/lines", h.Cart.RemoveLine)
		}

		customer := pos.Group("/customer")
		{
			customer.GET("/lookup", h.Customer.Lookup)
			customer.PUT("", h.Customer.Set)
			customer.DELETE("", h.Customer.Reset)
		}

		checkout := pos.Group("/checkout")
		{
			checkout.GET("/summary", h.Checkout.Summary)
			checkout.PUT("/adjustments", h.Checkout.SetAdjustments)
			checkout.PUT("/payment-method", h.Checkout.SelectPaymentMethod)
			checkout.POST("/payment/open", h.Checkout.OpenPayment)
			checkout.POST("/payment/close", h.Checkout.ClosePayment)
		}

		orders := pos.Group("/orders")
		{
			// Order submission replays the stored response for a repeated key
			orders.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
				Repo:   deps.IdempotencyRepo,
				Logger: deps.Logger,
			}), h.Checkout.PlaceOrder)
			orders.GET("/next-id", h.Checkout.NextOrderID)
			orders.POST("/next", h.Checkout.NextOrder)
		}

		holds := pos.Group("/holds")
		{
			holds.GET("", h.Hold.List)
			holds.POST("", h.Hold.Hold)
			holds.POST("/:id/retrieve", h.Hold.Retrieve)
			holds.DELETE("/:id", h.Hold.Delete)
		}

		invoices := pos.Group("/invoices")
		{
			invoices.GET("/last", h.Invoice.Last)
			invoices.GET("/last/pdf", h.Invoice.PDF)
			invoices.POST("/last/print", h.Invoice.Print)
		}
	}
}

func registerDayCloseRoutes(protected *gin.RouterGroup, h *Handlers) {
	dayClose := protected.Group("/pos/day-close")
	{
		dayClose.GET("", h.DayClose.Summary)
		dayClose.POST("", middleware.RequirePermission(PermissionDayClose), h.DayClose.Close)
	}
}

func registerCatalogRoutes(protected *gin.RouterGroup, h *Handlers) {
	catalog := protected.Group("/catalog/:resource")
	manage := middleware.RequirePermission(PermissionManageCatalog)
	{
		catalog.GET("", h.Catalog.List)
		catalog.GET("/export", h.Catalog.Export)
		catalog.GET("/:id", h.Catalog.Get)
		catalog.POST("", manage, h.Catalog.Create)
		catalog.POST("/import", manage, h.Catalog.Import)
		catalog.PUT("/:id", manage, h.Catalog.Update)
		catalog.DELETE("/:id", manage, h.Catalog.Delete)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printerGroup := protected.Group("/printer")
	{
		printerGroup.GET("/status", h.Invoice.PrinterStatus)
		printerGroup.POST("/test", h.Invoice.TestPrint)
	}
}
