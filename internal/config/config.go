package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"catalog-transformer/internal/models"
)

type Config struct {
	// Database (optional; run history is disabled when DBHost is empty)
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis
	RedisURL string

	// Server
	Port        string
	Environment string

	// Upload
	MaxUploadBytes int64

	// ColorCodes overrides the built-in color name → SKU code table.
	// Set COLOR_CODES to a JSON object, e.g. {"Teal":"TEL"}.
	ColorCodes map[string]string
}

func Load() *Config {
	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	maxUpload, _ := strconv.ParseInt(getEnv("MAX_UPLOAD_BYTES", "10485760"), 10, 64)

	colorCodes := map[string]string{}
	if raw := os.Getenv("COLOR_CODES"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &colorCodes); err != nil {
			log.Printf("WARNING: Failed to parse COLOR_CODES: %v (using built-in table)", err)
			colorCodes = map[string]string{}
		}
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     dbPort,
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "catalog_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		Port:        getEnv("PORT", "8088"),
		Environment: getEnv("ENVIRONMENT", "development"),

		MaxUploadBytes: maxUpload,

		ColorCodes: colorCodes,
	}
}

// InitDB opens the run-history database. Returns (nil, nil) when no DB_HOST
// is configured; the service then runs without persistence.
func InitDB(cfg *Config) (*gorm.DB, error) {
	if cfg.DBHost == "" {
		return nil, nil
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	var logLevel logger.LogLevel
	if cfg.Environment == "production" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Running auto-migrations...")
	if err := db.AutoMigrate(&models.ConversionRun{}); err != nil {
		return nil, fmt.Errorf("failed to run auto-migrations: %w", err)
	}
	log.Println("Auto-migrations completed successfully")

	return db, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
