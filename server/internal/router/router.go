package router

import (
	"html/template"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/navid-fn/coinboard/server/internal/handler"
	"github.com/sirupsen/logrus"
)

type Config struct {
	PageHandler *handler.PageHandler
	WSHandler   *handler.WSHandler
	Templates   *template.Template
	Logger      *logrus.Logger
}

func NewRouter(cfg *Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(cfg.Logger))
	router.SetHTMLTemplate(cfg.Templates)

	router.GET("/healthz", cfg.PageHandler.Health)
	router.GET("/ws", cfg.WSHandler.Serve)

	pages := router.Group("/", cfg.PageHandler.Session)
	registerPageRoutes(pages, cfg.PageHandler)

	return router
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"status":  c.Writer.Status(),
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"latency": time.Since(start),
		})
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Debug("request served")
		}
	}
}
