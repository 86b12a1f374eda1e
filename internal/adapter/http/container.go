package http

import (
	"github.com/gin-gonic/gin"

	"todoboard/internal/adapter/cache"
	"todoboard/internal/adapter/database"
	"todoboard/internal/adapter/database/repository"
	"todoboard/internal/adapter/http/handler"
	"todoboard/internal/adapter/http/middleware"
	"todoboard/internal/adapter/telemetry"
	"todoboard/internal/adapter/token"
	"todoboard/internal/core/port"
	"todoboard/internal/core/service"
	"todoboard/internal/core/util"
	"todoboard/pkg/config"
	"todoboard/pkg/logging"
)

// Container holds every constructed component, wired once at startup.
type Container struct {
	UserRepo port.UserRepository
	TodoRepo port.TodoRepository

	TokenService port.TokenService
	AuthUseCase  port.AuthService
	TodoUseCase  port.TodoService

	AuthHandler *handler.AuthHandler
	TodoHandler *handler.TodoHandler

	AuthGateway   gin.HandlerFunc
	ResponseCache *cache.ResponseCache
}

func NewContainer(db *database.DB, cfg *config.Config, logger *logging.Logger, metrics *telemetry.AppMetrics) *Container {
	userRepo := repository.NewUserRepository(db)
	todoRepo := repository.NewTodoRepository(db)

	tokenSvc := token.NewJWTService(cfg.JWTSecret)
	cursorCodec := util.NewCursorCodec(cfg.CursorSecret)

	authSvc := service.NewAuthService(userRepo, tokenSvc)
	todoSvc := service.NewTodoService(todoRepo, userRepo, cursorCodec)

	var responseCache *cache.ResponseCache

	if cfg.CacheEnabled {
		store := cache.NewMemoryStore()

		if cfg.RedisAddr != "" {
			store = cache.NewRedisStore(cfg.RedisAddr)
		}

		responseCache = cache.NewResponseCache(store, logger, metrics)
	}

	return &Container{
		UserRepo: userRepo,
		TodoRepo: todoRepo,

		TokenService: tokenSvc,
		AuthUseCase:  authSvc,
		TodoUseCase:  todoSvc,

		AuthHandler: handler.NewAuthHandler(authSvc, metrics),
		TodoHandler: handler.NewTodoHandler(todoSvc, responseCache, metrics),

		AuthGateway:   middleware.AuthGateway(userRepo, tokenSvc),
		ResponseCache: responseCache,
	}
}
