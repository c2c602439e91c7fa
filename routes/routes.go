package routes

import (
	"fmt"
	"time"

	"recicleaqui/config"
	"recicleaqui/handlers"
	"recicleaqui/middleware"
	"recicleaqui/models"
	"recicleaqui/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterDiscardRoutes registers the discard and offer endpoints. Every
// route requires authentication.
func RegisterDiscardRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	client := middleware.RequireRole(models.RoleClient)
	collector := middleware.RequireRole(models.RoleCollector)

	api := r.Group("/api/discards")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.POST("", client, hb.RegisterDiscardHandler)
		api.GET("/mine", client, hb.ListMyDiscardsHandler)
		api.POST("/eligible-points", hb.EligiblePointsHandler)
		api.GET("/pending-pickup", collector, hb.PendingPickupHandler)
		api.GET("/pending-pickup/nearby", collector, hb.NearbyPendingPickupHandler)
		api.GET("/:discardId", hb.GetDiscardHandler)
		api.POST("/:discardId/cancel", client, hb.CancelDiscardHandler)
		api.POST("/:discardId/complete", collector, hb.CompleteDiscardHandler)

		api.POST("/:discardId/offers", collector, hb.CreateOfferHandler)
		api.POST("/offers/:offerId/accept", client, hb.AcceptOfferHandler)
		api.POST("/offers/:offerId/reject", client, hb.RejectOfferHandler)
	}
}

// RegisterCollectorRoutes registers collector search and point management.
func RegisterCollectorRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/collectors")
	{
		api.GET("/search", hb.SearchCollectorsHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(models.RoleCollector))
		protected.GET("/me/points", hb.ListMyPointsHandler)
		protected.POST("/me/points", hb.CreatePointHandler)
		protected.PATCH("/points/:pointId/active", hb.SetPointActiveHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

func corsConfig(cfg config.Config) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	origins := cfg.AllowedOrigins()
	if len(origins) == 1 && origins[0] == "*" {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
		cc.AllowCredentials = true
	}
	return cc
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, cfg config.Config) {
	r.Use(cors.New(corsConfig(cfg)))

	RegisterHealthRoute(r, hb)
	RegisterDiscardRoutes(r, hb)
	RegisterCollectorRoutes(r, hb)
}

// NewRouter builds the gin engine with the global middleware chain and
// every route.
func NewRouter(cfg config.Config, hb *handlers.HandlerBundle, logger *zap.Logger) (*gin.Engine, error) {
	if err := handlers.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxyList()); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(gin.Recovery())
	r.Use(utils.ErrorHandler())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	RegisterRoutes(r, hb, cfg)
	return r, nil
}
