package config

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vnkhanh/smart-flashcard-backend/logger"
	"github.com/vnkhanh/smart-flashcard-backend/models"
	"github.com/vnkhanh/smart-flashcard-backend/services"
	"github.com/vnkhanh/smart-flashcard-backend/utils"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port            string
	AppEnv          string
	LogMode         string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
	DB              DBConfig
	LLM             LLMConfig
}

type DBConfig struct {
	Driver   string
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Path     string
	LogLevel gormlogger.LogLevel
}

type LLMConfig struct {
	GeminiAPIKey string
	GeminiModel  string
	Timeout      time.Duration
	MaxAttempts  int
}

// Enabled reports whether low-confidence escalation has a model to call.
func (c LLMConfig) Enabled() bool { return c.GeminiAPIKey != "" }

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load reads the process environment. Unparseable numbers fall back to defaults.
func Load(log *logger.Logger) Config {
	appEnv := utils.GetEnv("APP_ENV", "development", log)
	logMode := utils.GetEnv("LOG_MODE", "development", log)

	dbLogLevel := gormlogger.Info
	if strings.EqualFold(logMode, "production") || strings.EqualFold(logMode, "prod") {
		dbLogLevel = gormlogger.Warn
	}

	timeoutMS := utils.GetEnvAsInt("LLM_TIMEOUT_MS", int(services.DefaultEscalationTimeout/time.Millisecond), log)
	if timeoutMS <= 0 {
		timeoutMS = int(services.DefaultEscalationTimeout / time.Millisecond)
	}
	shutdownMS := utils.GetEnvAsInt("SHUTDOWN_TIMEOUT_MS", 10000, log)
	if shutdownMS <= 0 {
		shutdownMS = 10000
	}
	attempts := utils.GetEnvAsInt("LLM_MAX_ATTEMPTS", 2, log)
	if attempts < 1 {
		attempts = 1
	}

	return Config{
		Port:            utils.GetEnv("PORT", "8080", log),
		AppEnv:          appEnv,
		LogMode:         logMode,
		CORSOrigins:     utils.GetEnvAsList("CORS_ORIGINS", []string{"http://localhost:5173"}, log),
		ShutdownTimeout: time.Duration(shutdownMS) * time.Millisecond,
		DB: DBConfig{
			Driver:   strings.ToLower(utils.GetEnv("DB_DRIVER", DriverSQLite, log)),
			URL:      utils.GetEnv("DATABASE_URL", "", log),
			Host:     utils.GetEnv("DB_HOST", "localhost", log),
			Port:     utils.GetEnv("DB_PORT", "5432", log),
			User:     utils.GetEnv("DB_USER", "", log),
			Password: utils.GetEnv("DB_PASSWORD", "", log),
			Name:     utils.GetEnv("DB_NAME", "", log),
			SSLMode:  utils.GetEnv("DB_SSLMODE", "disable", log),
			Path:     utils.GetEnv("DB_PATH", "flashcards.db", log),
			LogLevel: dbLogLevel,
		},
		LLM: LLMConfig{
			GeminiAPIKey: utils.GetEnv("GEMINI_API_KEY", "", log),
			GeminiModel:  utils.GetEnv("GEMINI_MODEL", services.DefaultGeminiModel, log),
			Timeout:      time.Duration(timeoutMS) * time.Millisecond,
			MaxAttempts:  attempts,
		},
	}
}

// PostgresDSN builds the key/value DSN unless DATABASE_URL was given.
func (c DBConfig) PostgresDSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode,
	)
}

func (c DBConfig) dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case DriverPostgres:
		return postgres.Open(c.PostgresDSN()), nil
	case DriverSQLite, "sqlite3":
		return sqlite.Open(c.Path), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", c.Driver)
	}
}

// InitDB opens the database, sizes the pool and migrates the schema.
func InitDB(cfg DBConfig, log *logger.Logger) (*gorm.DB, error) {
	dialector, err := cfg.dialector()
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(cfg.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if cfg.Driver == DriverPostgres {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	} else {
		// sqlite serializes writers; one connection avoids "database is locked"
		sqlDB.SetMaxOpenConns(1)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if log != nil {
		log.Info("database connected & migrated", "driver", cfg.Driver)
	}
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Flashcard{})
}
