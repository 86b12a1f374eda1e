package routes

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"todoboard/internal/adapter/cache"
	"todoboard/internal/adapter/http/handler"
	"todoboard/internal/adapter/http/middleware"
	"todoboard/internal/adapter/telemetry"
	"todoboard/pkg/config"
	"todoboard/pkg/logging"
)

// RouterConfig collects everything the router mounts. Nil optional fields
// (cache, rate limiter, metrics) simply skip that middleware.
type RouterConfig struct {
	AuthHandler *handler.AuthHandler
	TodoHandler *handler.TodoHandler
	AuthGateway gin.HandlerFunc

	Logger        *logging.Logger
	Metrics       *telemetry.AppMetrics
	RateLimiter   *middleware.RateLimiter
	HTTPSEnforcer *middleware.HTTPSEnforcer
	ResponseCache *cache.ResponseCache

	ServiceName string
}

func SetupRouter(cfg *config.Config, rc RouterConfig) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(middleware.RequestID())

	if rc.HTTPSEnforcer != nil {
		router.Use(rc.HTTPSEnforcer.Middleware())
	}

	router.Use(otelgin.Middleware(rc.ServiceName))

	if rc.Logger != nil {
		router.Use(middleware.RequestLogging(rc.Logger))
	}

	if rc.Metrics != nil {
		router.Use(middleware.Metrics(rc.Metrics))
	}

	if cfg.RateLimitEnabled && rc.RateLimiter != nil {
		router.Use(rc.RateLimiter.Middleware())
	}

	mountRoutes(router, rc)

	return router
}

// SetupRouterForTests skips telemetry and throttling so handler suites
// exercise only routing, the gateway and the handlers.
func SetupRouterForTests(rc RouterConfig) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	mountRoutes(router, rc)

	return router
}

func mountRoutes(router *gin.Engine, rc RouterConfig) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", rc.AuthHandler.Register)
		auth.POST("/login", rc.AuthHandler.Login)
		auth.POST("/logout", rc.AuthGateway, rc.AuthHandler.Logout)
	}

	todos := router.Group("/user/:userId/todo")
	todos.Use(rc.AuthGateway)

	if rc.ResponseCache != nil {
		todos.Use(rc.ResponseCache.Middleware())
	}

	{
		todos.POST("", rc.TodoHandler.Create)
		todos.GET("", rc.TodoHandler.List)
		todos.GET("/:todoId", rc.TodoHandler.GetByID)
		todos.PATCH("/:todoId", rc.TodoHandler.Update)
		todos.DELETE("/:todoId", rc.TodoHandler.Delete)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
