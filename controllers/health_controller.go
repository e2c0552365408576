package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const Version = "1.0.0"

type HealthStore interface {
	Ping(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}

// GET /health
func HealthCheck(c *gin.Context) {
	store := c.MustGet(HealthStoreKey).(HealthStore)
	log := requestLogger(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	response := gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"db":        "ok",
	}
	if hub := wsHub(c); hub != nil {
		response["websocket"] = hub.Stats()
	}

	if err := store.Ping(ctx); err != nil {
		log.Warn("health: database ping failed", "error", err)
		response["db"] = "error: cannot connect to DB"
		response["status"] = "degraded"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	total, err := store.Count(ctx)
	if err != nil {
		log.Warn("health: count flashcards failed", "error", err)
		response["db"] = "error: cannot count flashcards"
		response["status"] = "degraded"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}
	response["total_flashcards"] = total
	c.JSON(http.StatusOK, response)
}

// GET /
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Smart Flashcard API",
		"version": Version,
		"endpoints": gin.H{
			"POST /flashcard":              "Add a new flashcard",
			"GET /get-subject":             "Get mixed flashcards for a student",
			"GET /analyze-text":            "Classify free text without storing it",
			"GET /subjects":                "List subjects and their keywords",
			"GET /health":                  "Health check",
			"GET /ws/students/:student_id": "Live flashcard events for a student",
		},
	})
}
