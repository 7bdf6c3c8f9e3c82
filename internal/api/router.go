// Package api assembles the HTTP surface of the backtester.
package api

import (
	"os"

	"github.com/gin-gonic/gin"

	"github.com/rustyeddy/backtest/internal/api/handlers"
	"github.com/rustyeddy/backtest/internal/api/middleware"
	"github.com/rustyeddy/backtest/journal"
)

// NewRouter builds a gin engine with the API routes and middleware applied.
// The journal may be nil for ephemeral servers.
func NewRouter(j journal.Journal) *gin.Engine {
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	backtestHandler := handlers.NewBacktestHandler(j)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/backtest", backtestHandler.RunBacktest)
	}

	return router
}
