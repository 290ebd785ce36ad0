package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv          string
	HTTPAddr        string
	MetricsAddr     string
	DatabaseURL     string
	GeminiKey       string
	UseGemini       bool
	OpenRouterKey   string
	CORSOrigins     []string
	RedisAddr       string
	RedisPass       string
	RedisDB         int
	CacheTTL        time.Duration
	LLMRPS          int
	BackfillWorkers int
	BackfillBatch   int
}

func Load() Config {
	// .env is a convenience for local runs; missing file is fine.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env load failed, continuing with process env")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		HTTPAddr:        env("HTTP_ADDR", ":5000"),
		MetricsAddr:     env("METRICS_ADDR", ""),
		DatabaseURL:     env("DATABASE_URL", "reviews.db"),
		GeminiKey:       env("GEMINI_API_KEY", ""),
		UseGemini:       strings.ToLower(env("USE_GEMINI", "true")) == "true",
		OpenRouterKey:   env("OPENROUTER_API_KEY", ""),
		CORSOrigins:     splitCSV(env("CORS_ORIGINS", "*")),
		RedisAddr:       env("REDIS_ADDR", ""),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		CacheTTL:        time.Duration(atoi("CACHE_TTL_SECONDS", 60)) * time.Second,
		LLMRPS:          atoi("LLM_RPS", 5),
		BackfillWorkers: atoi("BACKFILL_WORKERS", 4),
		BackfillBatch:   atoi("BACKFILL_BATCH", 100),
	}
	if c.GeminiKey == "" && c.OpenRouterKey == "" {
		log.Warn().Msg("no LLM API key configured; submissions will receive fallback feedback")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
