package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"restaurant-engine/internal/handler/api"
	"restaurant-engine/internal/handler/middleware"
	"restaurant-engine/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Orders  *api.OrderHandler
	Tables  *api.TableHandler
	Stock   *api.StockHandler
	Pricing *api.PricingHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, h Handlers) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, h)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		orders := apiGroup.Group("/orders")
		{
			addRoutes(orders, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Orders.Create},
				{Method: http.MethodGet, Path: "", Handler: h.Orders.List},
				{Method: http.MethodPost, Path: "/consolidate", Handler: h.Orders.Consolidate},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Orders.Get},
				{Method: http.MethodPut, Path: "/:id/items", Handler: h.Orders.ModifyItems},
				{Method: http.MethodPost, Path: "/:id/state", Handler: h.Orders.ChangeState},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Orders.Cancel},
				{Method: http.MethodPost, Path: "/:id/split", Handler: h.Orders.Split},
			})
		}

		tables := apiGroup.Group("/tables")
		{
			addRoutes(tables, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Tables.List},
				{Method: http.MethodPost, Path: "/assign", Handler: h.Tables.Assign},
				{Method: http.MethodGet, Path: "/rotation-alerts", Handler: h.Tables.RotationAlerts},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Tables.Get},
				{Method: http.MethodPost, Path: "/:id/release", Handler: h.Tables.Release},
				{Method: http.MethodPost, Path: "/:id/state", Handler: h.Tables.ChangeState},
			})
		}

		stock := apiGroup.Group("/stock")
		{
			addRoutes(stock, []route{
				{Method: http.MethodPost, Path: "/availability", Handler: h.Stock.Availability},
				{Method: http.MethodPost, Path: "/holds", Handler: h.Stock.Hold},
				{Method: http.MethodPost, Path: "/holds/:id/confirm", Handler: h.Stock.Confirm},
				{Method: http.MethodPost, Path: "/holds/:id/release", Handler: h.Stock.Release},
			})
		}

		pricing := apiGroup.Group("/pricing")
		{
			addRoutes(pricing, []route{
				{Method: http.MethodPost, Path: "/totals", Handler: h.Pricing.Compute},
				{Method: http.MethodPost, Path: "/quote", Handler: h.Pricing.Quote},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
