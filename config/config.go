package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yeremiapane/buffet-app/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port           string
	GinMode        string
	DBDriver       string
	DBDSN          string
	JWTSecret      string
	JWTTTL         time.Duration
	PublicBaseURL  string
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
	SeedData       bool
	LogFormat      string

	// Event relay; disabled when AMQPURL is empty.
	AMQPURL            string
	AMQPExchange       string
	EventRelayInterval time.Duration

	// EventSettle hides events younger than this from the feed and the
	// relay, so commits that land out of id order are not skipped.
	EventSettle time.Duration
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Println("Warning: .env file not found, using environment only")
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		DBDriver:      strings.ToLower(getEnv("DB_DRIVER", DriverMySQL)),
		DBDSN:         getEnv("DB_DSN", "root:root@tcp(127.0.0.1:3306)/buffet?charset=utf8mb4&parseTime=True&loc=Local"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
		AMQPURL:       os.Getenv("AMQP_URL"),
		AMQPExchange:  getEnv("AMQP_EXCHANGE", "buffet_events"),
	}

	var err error
	if cfg.JWTTTL, err = time.ParseDuration(getEnv("JWT_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	if cfg.RateLimitRPS, err = strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "5"), 64); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}
	if cfg.RateLimitBurst, err = strconv.Atoi(getEnv("RATE_LIMIT_BURST", "10")); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}
	if cfg.EventRelayInterval, err = time.ParseDuration(getEnv("EVENT_RELAY_INTERVAL", "2s")); err != nil || cfg.EventRelayInterval <= 0 {
		return nil, fmt.Errorf("invalid EVENT_RELAY_INTERVAL %q", os.Getenv("EVENT_RELAY_INTERVAL"))
	}
	if cfg.EventSettle, err = time.ParseDuration(getEnv("EVENT_SETTLE", "2s")); err != nil || cfg.EventSettle < 0 {
		return nil, fmt.Errorf("invalid EVENT_SETTLE %q", os.Getenv("EVENT_SETTLE"))
	}
	if cfg.SeedData, err = strconv.ParseBool(getEnv("SEED_DATA", "false")); err != nil {
		return nil, fmt.Errorf("invalid SEED_DATA: %w", err)
	}

	if cfg.JWTSecret == "" {
		if cfg.GinMode == "release" {
			return nil, fmt.Errorf("JWT_SECRET is required in release mode")
		}
		utils.InfoLogger.Println("Warning: JWT_SECRET not set, using development secret")
		cfg.JWTSecret = "dev-secret-change-in-production"
	}

	switch cfg.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	return cfg, nil
}

// InitDB opens the gorm connection for the configured driver.
func InitDB(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case DriverMySQL:
		dialector = mysql.Open(cfg.DBDSN)
	case DriverPostgres:
		dialector = postgres.Open(cfg.DBDSN)
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DBDSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	logLevel := logger.Warn
	if cfg.GinMode == "release" {
		logLevel = logger.Error
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.DBDriver == DriverSQLite {
		// SQLite allows one writer; a single connection also keeps
		// ":memory:" databases from splitting per connection.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	utils.InfoLogger.WithField("driver", cfg.DBDriver).Info("Database connection established")
	return db, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
