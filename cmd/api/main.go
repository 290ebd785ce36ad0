package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	server "ai_feedback/internal/adapters/http_server"
	"ai_feedback/internal/adapters/llm"
	"ai_feedback/internal/adapters/observability"
	redisad "ai_feedback/internal/adapters/redis"
	"ai_feedback/internal/app"
	"ai_feedback/internal/domain"
	"ai_feedback/internal/shared"
	"ai_feedback/internal/storage/sqldb"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "api")

	observability.Serve(cfg.MetricsAddr)

	// db
	repo, err := sqldb.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database open failed")
	}
	log.Info().Msg("database connection ok")

	// cache (optional)
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		cache = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		log.Info().Str("addr", cfg.RedisAddr).Msg("redis cache enabled")
	}

	// deps
	provider := selectProvider(cfg)
	enricher := app.NewEnricher(provider)
	sub := app.NewSubmissionService(repo, enricher, cache)
	q := app.NewQueryService(repo, cache, cfg.CacheTTL)

	// http
	srv := server.New(cfg.CORSOrigins)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Sub:          sub,
		Q:            q,
		DB:           repo,
		LLMAvailable: enricher.Available(),
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

// selectProvider picks the LLM client from configured credentials: Gemini when
// its key is present (unless USE_GEMINI=false), otherwise OpenRouter, otherwise
// none. When both keys exist, OpenRouter backs up Gemini per call.
func selectProvider(cfg shared.Config) domain.FeedbackProvider {
	var gemini, openrouter domain.FeedbackProvider

	if cfg.GeminiKey != "" && cfg.UseGemini {
		g, err := llm.NewGemini(llm.DefaultGeminiBase, cfg.GeminiKey, cfg.LLMRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("gemini client init failed")
		}
		gemini = g
	}
	if cfg.OpenRouterKey != "" {
		o, err := llm.NewOpenRouter(llm.DefaultOpenRouterBase, cfg.OpenRouterKey, cfg.LLMRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("openrouter client init failed")
		}
		openrouter = o
	}

	switch {
	case gemini != nil && openrouter != nil:
		log.Info().Msg("LLM provider: gemini with openrouter fallback")
		return llm.WithFallback(gemini, openrouter)
	case gemini != nil:
		log.Info().Msg("LLM provider: gemini")
		return gemini
	case openrouter != nil:
		log.Info().Msg("LLM provider: openrouter")
		return openrouter
	default:
		log.Warn().Msg("LLM provider: none (fallback feedback only)")
		return nil
	}
}
