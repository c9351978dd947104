package handlers

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"homeboy/internal/logger"
	"homeboy/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//go:embed templates/*.html static
var assets embed.FS

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	token    string
	metrics  http.Handler
}

// Option customises a Handler.
type Option func(*Handler)

// WithToken protects /api/v1 with a static bearer token.
func WithToken(token string) Option {
	return func(h *Handler) { h.token = token }
}

// WithMetrics serves the given handler under /metrics.
func WithMetrics(m http.Handler) Option {
	return func(h *Handler) { h.metrics = m }
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	h := &Handler{services: services, log: log}
	for _, o := range opts {
		o(h)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.SetHTMLTemplate(template.Must(template.ParseFS(assets, "templates/*.html")))
	static, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	router.StaticFS("/static", http.FS(static))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)
	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics))
	}

	h.registerPageRoutes(router)
	h.registerAPIRoutes(router)

	return router
}

func (h *Handler) registerPageRoutes(r *gin.Engine) {
	r.GET("/", h.index)
	r.POST("/config", h.pageAuthMiddleware, h.submitConfigForm)
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.tokenMiddleware)
	{
		api.GET("/config", h.getConfig)
		api.PUT("/config", h.putConfig)
		api.GET("/state", h.getState)
		api.GET("/sensors", h.getSensors)
		api.POST("/refresh", h.refresh)
	}
}
