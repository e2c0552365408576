package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/smart-flashcard-backend/controllers"
	"github.com/vnkhanh/smart-flashcard-backend/logger"
	"github.com/vnkhanh/smart-flashcard-backend/middleware"
	"github.com/vnkhanh/smart-flashcard-backend/services"
	"github.com/vnkhanh/smart-flashcard-backend/ws"
)

// Deps are handed to the handlers through the gin context.
type Deps struct {
	Service *services.FlashcardService
	Health  controllers.HealthStore
	Hub     *ws.Hub
	Log     *logger.Logger
}

// NewEngine builds a gin engine with the shared middleware stack and all routes.
func NewEngine(corsOrigins []string, d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.Log),
		middleware.Recovery(d.Log),
		cors.New(cors.Config{
			AllowOrigins:     corsOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)
	return SetupRouter(r, d)
}

func SetupRouter(r *gin.Engine, d Deps) *gin.Engine {
	r.Use(
		middleware.Provide(controllers.ServiceKey, d.Service),
		middleware.Provide(controllers.LoggerKey, d.Log),
	)
	if d.Hub != nil {
		r.Use(middleware.Provide(controllers.HubKey, d.Hub))
	}

	r.GET("/", controllers.Root)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if d.Health != nil {
		r.GET("/health", middleware.Provide(controllers.HealthStoreKey, d.Health), controllers.HealthCheck)
	}

	r.POST("/flashcard", controllers.CreateFlashcard)
	r.GET("/get-subject", controllers.GetMixedFlashcards)

	r.GET("/subjects", controllers.GetSubjects)
	r.GET("/analyze-text", controllers.AnalyzeText)

	if d.Hub != nil {
		r.GET("/ws/students/:student_id", d.Hub.HandleStudentWebSocket)
	}
	return r
}
