// Package router assembles the HTTP surface of the exporter.
package router

import (
	"net/http"
	"time"

	applogger "github.com/cartloom/exporter/internal/infrastructure/logger"
	"github.com/cartloom/exporter/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Config holds router configuration
type Config struct {
	Env            string
	TrustedProxies []string
}

// Handlers groups the route handlers wired into the router
type Handlers struct {
	Export     *handler.ExportHandler
	ExportType *handler.ExportTypeHandler
}

// New builds the gin engine with logging, recovery and all routes registered
func New(cfg Config, handlers Handlers, logger *zap.Logger) (*gin.Engine, error) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(applogger.GinMiddleware(logger))
	engine.Use(applogger.Recovery(logger))

	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	v1 := engine.Group("/api/v1")
	handlers.Export.RegisterRoutes(v1)
	handlers.ExportType.RegisterRoutes(v1)

	return engine, nil
}
