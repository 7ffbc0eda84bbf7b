package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"adPilot/internal/rest"
)

func SetupChannelRoutes(api *echo.Group, handler *rest.ChannelHandler) {
	reco := api.Group("/recommend/channel")

	reco.POST("", handler.Recommend)
	reco.GET("/brand/:brand_id", handler.ByBrand)
	reco.GET("/performance/:channel", handler.Performance)
	reco.POST("/learn", handler.Learn)
	reco.GET("/insights", handler.Insights)
	reco.GET("/best", handler.Best)
}

func SetupAdRoutes(api *echo.Group, handler *rest.AdHandler) {
	ads := api.Group("/ads")

	ads.POST("/performance", handler.Track)
	ads.GET("/recommendations", handler.Recommendations)
	ads.GET("/channels", handler.Channels)
	ads.GET("/patterns", handler.Patterns)
	ads.GET("/insights", handler.Insights)
	ads.GET("/whats-working", handler.WhatsWorking)
	ads.GET("/leaderboard", handler.Leaderboard)
	ads.GET("/aggregate", handler.Aggregate)
	ads.GET("/:id", handler.GetByID)
}

// SetupABTestRoutes registers the test routes. Ending a test needs the
// admin chain when one is given.
func SetupABTestRoutes(api *echo.Group, handler *rest.ABTestHandler, adminChain ...echo.MiddlewareFunc) {
	tests := api.Group("/abtests")

	tests.POST("", handler.Create)
	tests.GET("", handler.List)
	tests.GET("/:id", handler.Get)
	tests.GET("/:id/variant", handler.Variant)
	tests.POST("/:id/events", handler.RecordEvent)
	tests.GET("/:id/results", handler.Results)
	tests.POST("/:id/end", handler.End, adminChain...)
}

func SetupFeedbackRoutes(api *echo.Group, handler *rest.FeedbackHandler) {
	fb := api.Group("/feedback")

	fb.POST("", handler.Submit)
	fb.POST("/batch", handler.SubmitBatch)
	fb.GET("/ad/:id", handler.ByAd)
	fb.GET("/channel/:channel", handler.ByChannel)
}

func SetupCatalogRoutes(api *echo.Group, handler *rest.CatalogHandler) {
	brands := api.Group("/brands")

	brands.POST("", handler.CreateBrand)
	brands.GET("/:id", handler.GetBrand)
	brands.POST("/:id/products", handler.CreateProduct)
	brands.GET("/:id/products", handler.ListProducts)
	brands.POST("/:id/audience", handler.ImportAudience)
	brands.GET("/:id/audience", handler.AnalyzeAudience)

	api.GET("/products/:id", handler.GetProduct)
}

func SetupSustainabilityRoutes(api *echo.Group, handler *rest.SustainabilityHandler) {
	api.GET("/sustainability/metrics", handler.Metrics)
}

func SetupAdminRoutes(api *echo.Group, handler *rest.AdminHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	admin := api.Group("/admin", authRequired, adminOnly)

	admin.GET("/channels/stats", handler.Stats)
	admin.PUT("/channels/:channel/stats", handler.SeedStats)
	admin.DELETE("/channels/stats", handler.ResetStats)
	admin.DELETE("/ads/performance", handler.ResetAds)
}

func SetupOpsRoutes(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
}
