package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/portaria/internal/server/handlers"
)

// New wires the Gin engine with the register routes. sessions loads the
// operator session for every route except the health check.
func New(entry *handlers.EntryHandler, exit *handlers.ExitHandler, sessions gin.HandlerFunc, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	app := r.Group("/", sessions)
	app.GET("/entry", entry.Draft)
	app.PUT("/entry/draft", entry.UpdateDraft)
	app.POST("/entry", entry.Submit)

	exitGroup := app.Group("/exit")
	exitGroup.POST("/login", exit.Login)
	exitGroup.POST("/logout", exit.Logout)

	staff := exitGroup.Group("", handlers.RequireLogin())
	staff.GET("", exit.Overview)
	staff.POST("/checkout", exit.Checkout)
	staff.GET("/export", exit.Export)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
