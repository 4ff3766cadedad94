package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/myway/panel-api/internal/middleware"
)

const APIVersion = "1.0"

// Handler registers its routes on a group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type AuthHandler interface {
	RegisterRoutes(public, protected *gin.RouterGroup)
}

type StreamHandler interface {
	Handler
	RegisterStreamRoutes(*gin.RouterGroup)
}

type ImportHandler interface {
	Handler
	RegisterImportRoute(r *gin.RouterGroup, middleware ...gin.HandlerFunc)
}

type HealthHandler interface {
	RegisterRoutes(gin.IRoutes)
}

type MetricsHandler interface {
	Middleware() gin.HandlerFunc
	Handler() gin.HandlerFunc
}

type Handlers struct {
	Auth          AuthHandler
	Patients      Handler
	Queue         Handler
	Collections   StreamHandler
	Documents     Handler
	Backup        ImportHandler
	Notifications Handler
	Health        HealthHandler
	Metrics       MetricsHandler
}

type RouterConfig struct {
	RateLimitEnabled bool
	RateLimit        middleware.RateLimiterConfig
	CORS             middleware.CORSConfig
	Security         middleware.SecurityConfig
	Validation       middleware.ValidationConfig
	RequestTimeout   time.Duration
	MaxBodyBytes     int64
	MaxImportBytes   int64
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
	config   RouterConfig
}

func NewRouter(auth *middleware.AuthMiddleware, handlers Handlers, config RouterConfig) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	r := &Router{
		engine:   engine,
		auth:     auth,
		handlers: handlers,
		config:   config,
	}

	// ErrorHandler sits outside Validation so validation errors are rendered
	// before the generic mapping sees them.
	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.ErrorHandler(),
		middleware.Validation(config.Validation),
	)
	if handlers.Metrics != nil {
		engine.Use(handlers.Metrics.Middleware())
	}
	engine.Use(
		middleware.SecurityHeaders(config.Security),
		middleware.CORS(config.CORS),
	)

	if config.RateLimitEnabled {
		engine.Use(middleware.NewRateLimiter(config.RateLimit).RateLimit())
	}

	return r
}

func (r *Router) Setup() {
	if r.handlers.Metrics != nil {
		r.engine.GET("/metrics", r.handlers.Metrics.Handler())
	}

	api := r.engine.Group("/api/v1")
	api.Use(middleware.Version(APIVersion))

	if r.handlers.Health != nil {
		r.handlers.Health.RegisterRoutes(api)
	}

	timeout := middleware.Timeout(middleware.TimeoutConfig{Duration: r.config.RequestTimeout})

	public := api.Group("")
	public.Use(timeout, middleware.BodyLimit(r.config.MaxBodyBytes))

	protected := api.Group("")
	protected.Use(r.auth.Authenticate(), timeout, middleware.BodyLimit(r.config.MaxBodyBytes))

	r.handlers.Auth.RegisterRoutes(public, protected)
	for _, h := range []Handler{
		r.handlers.Patients,
		r.handlers.Queue,
		r.handlers.Collections,
		r.handlers.Documents,
		r.handlers.Backup,
		r.handlers.Notifications,
	} {
		h.RegisterRoutes(protected)
	}

	// Imports carry the whole dataset and get their own body limit.
	imports := api.Group("")
	imports.Use(r.auth.Authenticate(), timeout)
	r.handlers.Backup.RegisterImportRoute(imports, middleware.BodyLimit(r.config.MaxImportBytes))

	// Streams stay open for as long as the client listens.
	streams := api.Group("")
	streams.Use(r.auth.Authenticate())
	r.handlers.Collections.RegisterStreamRoutes(streams)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
