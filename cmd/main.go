package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/vnkhanh/smart-flashcard-backend/config"
	"github.com/vnkhanh/smart-flashcard-backend/logger"
	"github.com/vnkhanh/smart-flashcard-backend/repos"
	"github.com/vnkhanh/smart-flashcard-backend/routes"
	"github.com/vnkhanh/smart-flashcard-backend/services"
	"github.com/vnkhanh/smart-flashcard-backend/utils"
	"github.com/vnkhanh/smart-flashcard-backend/ws"
)

func main() {
	envErr := godotenv.Load()

	log, err := logger.NewWithOptions(logger.Options{
		Mode:             utils.GetEnv("LOG_MODE", "development", nil),
		DisableRedaction: !utils.GetEnvAsBool("LOG_REDACTION_ENABLED", true, nil),
		HashSalt:         utils.GetEnv("LOG_HASH_SALT", "", nil),
	})
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	if envErr != nil {
		log.Info("no .env file loaded, using process environment")
	}

	cfg := config.Load(log)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg.DB, log)
	if err != nil {
		log.Fatal("database init failed", "driver", cfg.DB.Driver, "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var model services.LabelModel
	if cfg.LLM.Enabled() {
		gemini, err := services.NewGeminiLabelModel(ctx, services.GeminiConfig{
			APIKey:      cfg.LLM.GeminiAPIKey,
			Model:       cfg.LLM.GeminiModel,
			MaxAttempts: cfg.LLM.MaxAttempts,
		})
		if err != nil {
			log.Warn("gemini unavailable, subject escalation disabled", "error", err)
		} else {
			defer gemini.Close()
			model = gemini
			log.Info("gemini escalation enabled", "model", cfg.LLM.GeminiModel, "timeout", cfg.LLM.Timeout.String())
		}
	} else {
		log.Info("GEMINI_API_KEY not set, subject escalation disabled")
	}

	hub := ws.NewHub(log)
	flashcardRepo := repos.NewFlashcardRepo(db, log)
	classifier := services.NewSubjectClassifier(services.DefaultTaxonomy(), model, cfg.LLM.Timeout)
	flashcardService := services.NewFlashcardService(flashcardRepo, classifier, services.NewBalancedSampler(nil), hub, log)

	log.Info("subject classifier ready", "escalation", classifier.EscalationEnabled())

	router := routes.NewEngine(cfg.CORSOrigins, routes.Deps{
		Service: flashcardService,
		Health:  flashcardRepo,
		Hub:     hub,
		Log:     log,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}
	go func() {
		log.Info("Server running", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
