package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/mufashe/mufashe-api/internal/config"
	"github.com/mufashe/mufashe-api/internal/http/handler"
	httpmiddleware "github.com/mufashe/mufashe-api/internal/http/middleware"
	"github.com/mufashe/mufashe-api/internal/middleware"
	"github.com/mufashe/mufashe-api/internal/telemetry"
)

// Banner is served at the root path.
const Banner = "Mufashe API running"

// NewRouter wires Gin routes and middleware.
func NewRouter(cfg config.Config, logger *zap.Logger, authHandler *handler.AuthHandler, consultHandler *handler.ConsultHandler, resourceHandler *handler.ResourceHandler, authMiddleware *httpmiddleware.Auth, tracing *telemetry.Provider) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg))
	r.Use(otelgin.Middleware(cfg.ServiceName, otelgin.WithTracerProvider(tracing.TracerProvider())))

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, Banner)
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/google", authHandler.Google)
			auth.GET("/me", authMiddleware.ValidateJWT, authHandler.Me)
		}

		api.POST("/consult", authMiddleware.OptionalJWT, consultHandler.Ask)
		api.GET("/consultations", authMiddleware.ValidateJWT, consultHandler.History)

		resources := api.Group("/resources")
		{
			resources.GET("", resourceHandler.List)
			resources.POST("/seed", resourceHandler.Seed)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	})

	return r
}
