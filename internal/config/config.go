package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is the full typed server configuration. Every recognized option is
// a named field with a validation tag; unknown environment variables are
// simply ignored, and a malformed value fails Load instead of silently
// falling back.
type Config struct {
	// Server
	Port string `validate:"required"`
	Env  string `validate:"oneof=development staging production"`

	// Database
	DatabaseURL string `validate:"required"`

	// Redis
	RedisURL string `validate:"required"`

	// JWT
	JWTSecret string `validate:"required,min=16"`

	// Gemini AI
	GeminiAPIKey         string `validate:"required"`
	GeminiRequestsPerMin int    `validate:"min=1"`
	GeminiConcurrentReqs int    `validate:"min=1,max=64"`

	// Session clock cadence. One second in production; tests shrink it.
	TickInterval time.Duration `validate:"min=10ms"`

	// Scoring policy tuning.
	ScoreFullThreshold    int `validate:"min=0,max=100,gtfield=ScoreHalfThreshold"`
	ScoreHalfThreshold    int `validate:"min=0,max=100,gtfield=ScoreQuarterThreshold"`
	ScoreQuarterThreshold int `validate:"min=0,max=100"`
	WeightEasy            int `validate:"min=1"`
	WeightMedium          int `validate:"min=1"`
	WeightHard            int `validate:"min=1"`

	// Resume uploads
	MaxUploadBytes int64 `validate:"min=1024"`

	// Frontend
	FrontendURL string `validate:"required,url"`
}

// Load reads the environment (plus .env when present) into a validated
// Config. Missing required variables still panic the way they always have;
// validation catches values that are present but out of range.
func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Port:                 getEnvOrDefault("PORT", "8080"),
		Env:                  getEnvOrDefault("ENV", "development"),
		DatabaseURL:          mustGetEnv("DATABASE_URL"),
		RedisURL:             mustGetEnv("REDIS_URL"),
		JWTSecret:            mustGetEnv("JWT_SECRET"),
		GeminiAPIKey:         mustGetEnv("GEMINI_API_KEY"),
		GeminiRequestsPerMin: getEnvAsIntOrDefault("GEMINI_REQUESTS_PER_MINUTE", 60),
		GeminiConcurrentReqs: getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),

		TickInterval: time.Duration(getEnvAsIntOrDefault("TICK_INTERVAL_MS", 1000)) * time.Millisecond,

		ScoreFullThreshold:    getEnvAsIntOrDefault("SCORE_FULL_THRESHOLD", 90),
		ScoreHalfThreshold:    getEnvAsIntOrDefault("SCORE_HALF_THRESHOLD", 60),
		ScoreQuarterThreshold: getEnvAsIntOrDefault("SCORE_QUARTER_THRESHOLD", 30),
		WeightEasy:            getEnvAsIntOrDefault("WEIGHT_EASY", 1),
		WeightMedium:          getEnvAsIntOrDefault("WEIGHT_MEDIUM", 3),
		WeightHard:            getEnvAsIntOrDefault("WEIGHT_HARD", 5),

		MaxUploadBytes: int64(getEnvAsIntOrDefault("MAX_UPLOAD_BYTES", 10*1024*1024)),

		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
