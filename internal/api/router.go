package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avandersen/prosecheck/internal/metrics"
)

// newRouter assembles the middleware chain and the route tree
func newRouter(cfg Config, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(
		requestID(),
		requestLogging(log, "/healthz", "/metrics"),
		recovery(log),
	)

	h := &handlers{
		checker: cfg.Checker,
		store:   cfg.Store,
		metrics: cfg.Metrics,
		log:     log,
	}

	registerSystemRoutes(engine, h, cfg.Metrics)

	v1 := engine.Group("/api/v1")
	registerCheckRoutes(v1, h)
	registerDocumentRoutes(v1, h)

	return engine
}

func registerSystemRoutes(engine *gin.Engine, h *handlers, m *metrics.Metrics) {
	engine.GET("/healthz", h.health)
	if m != nil {
		engine.GET("/metrics", gin.WrapH(m.Handler()))
	}
}

func registerCheckRoutes(g *gin.RouterGroup, h *handlers) {
	g.POST("/check", h.check)
}

func registerDocumentRoutes(g *gin.RouterGroup, h *handlers) {
	g.POST("/documents", h.createDocument)
	g.GET("/documents", h.listDocuments)
	g.GET("/documents/:id", h.getDocument)
	g.PUT("/documents/:id", h.updateDocument)
	g.DELETE("/documents/:id", h.deleteDocument)
	g.POST("/documents/:id/check", h.checkDocument)
	g.GET("/documents/:id/errors", h.listDocumentErrors)
}
