package httptransport

import (
	"log/slog"

	"github.com/ErlanBelekov/shiptrack/internal/transport/http/handler"
	"github.com/ErlanBelekov/shiptrack/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

// Deps is everything the router wires together.
type Deps struct {
	Auth         *handler.AuthHandler
	Verification *handler.VerificationHandler
	Shipments    *handler.ShipmentHandler
	Admin        *handler.AdminHandler
	Catalog      *handler.CatalogHandler

	Tokens middleware.TokenVerifier
	Users  middleware.UserFinder

	// RateLimiter may be nil, which disables rate limiting.
	RateLimiter    middleware.HitCounter
	RateLimitMax   int
	AllowedOrigins []string

	// TrustedProxies are the only peers whose X-Forwarded-For is honoured
	// by ClientIP. Nil means the TCP peer address is always used.
	TrustedProxies []string
}

func NewRouter(logger *slog.Logger, d Deps) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		logger.Error("invalid trusted proxies, trusting none", "error", err)
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(middleware.CORS(d.AllowedOrigins))
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authMW := middleware.Auth(d.Tokens, d.Users, logger)
	adminMW := middleware.RequireAdmin()
	limited := middleware.RateLimit(d.RateLimiter, d.RateLimitMax, logger)

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", limited, d.Auth.Register)
	auth.POST("/login", limited, d.Auth.Login)
	auth.GET("/me", authMW, d.Auth.Me)

	verification := api.Group("/verification", authMW, limited)
	verification.POST("/generate", d.Verification.Generate)
	verification.POST("/verify", d.Verification.Verify)

	// Public shipment routes
	api.GET("/shipments/track/:trackingId", d.Shipments.Track)
	api.POST("/shipments/:trackingId/verify", limited, d.Shipments.Verify)

	// Protected shipment routes
	shipments := api.Group("/shipments", authMW)
	shipments.POST("", d.Shipments.Create)
	shipments.GET("", d.Shipments.List)
	shipments.POST("/:trackingId/event", d.Shipments.AppendEvent)

	api.GET("/services", d.Catalog.ListServices)
	api.POST("/subscriptions", limited, d.Catalog.Subscribe)

	admin := api.Group("/admin", authMW, adminMW)
	admin.GET("/users", d.Admin.ListUsers)
	admin.PATCH("/users/:id", d.Admin.UpdateUser)
	admin.GET("/shipments", d.Admin.ListShipments)
	admin.POST("/shipments", d.Admin.CreateShipment)
	admin.DELETE("/shipments/:id", d.Admin.DeleteShipment)

	return r
}
