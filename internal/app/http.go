package app

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/escoladeimpermeabilizacao-alt/bot-telegram-hotmart/internal/access"
	"github.com/escoladeimpermeabilizacao-alt/bot-telegram-hotmart/internal/webhook"
)

func setupRouter(processor *access.Processor) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	webhook.NewHandler(processor).RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
