package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/smart-flashcard-backend/logger"
	"github.com/vnkhanh/smart-flashcard-backend/services"
	"github.com/vnkhanh/smart-flashcard-backend/ws"
)

// Context keys the router fills before any handler runs.
const (
	ServiceKey     = "flashcard_service"
	HealthStoreKey = "health_store"
	HubKey         = "ws_hub"
	LoggerKey      = "logger"
)

func flashcardService(c *gin.Context) *services.FlashcardService {
	return c.MustGet(ServiceKey).(*services.FlashcardService)
}

func requestLogger(c *gin.Context) *logger.Logger {
	if v, ok := c.Get(LoggerKey); ok {
		if log, ok := v.(*logger.Logger); ok && log != nil {
			return log
		}
	}
	return logger.Nop()
}

func wsHub(c *gin.Context) *ws.Hub {
	if v, ok := c.Get(HubKey); ok {
		if hub, ok := v.(*ws.Hub); ok {
			return hub
		}
	}
	return nil
}
