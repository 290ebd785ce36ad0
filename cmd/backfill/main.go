// Command backfill regenerates AI feedback for reviews persisted while the
// LLM provider was unavailable.
package main

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"ai_feedback/internal/adapters/llm"
	"ai_feedback/internal/adapters/observability"
	redisad "ai_feedback/internal/adapters/redis"
	"ai_feedback/internal/app"
	"ai_feedback/internal/domain"
	"ai_feedback/internal/shared"
	"ai_feedback/internal/storage/sqldb"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv, "backfill")

	log.Info().
		Int("workers", cfg.BackfillWorkers).
		Int("batch", cfg.BackfillBatch).
		Msg("backfill starting")

	repo, err := sqldb.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database open failed")
	}
	defer repo.Close()

	provider := buildProvider(cfg)
	if provider == nil {
		log.Fatal().Msg("backfill requires GEMINI_API_KEY or OPENROUTER_API_KEY")
	}

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		cache = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	}

	svc := app.NewBackfillService(repo, app.NewEnricher(provider), cache)

	pending, err := svc.ListPending(ctx, cfg.BackfillBatch)
	if err != nil {
		log.Fatal().Err(err).Msg("list pending reviews failed")
	}
	if len(pending) == 0 {
		log.Info().Msg("nothing to backfill")
		return
	}
	log.Info().Int("count", len(pending)).Msg("pending reviews found")

	sem := semaphore.NewWeighted(int64(cfg.BackfillWorkers))
	var wg sync.WaitGroup

	for _, rv := range pending {
		rv := rv

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(rv domain.Review) {
			defer wg.Done()
			defer sem.Release(1)

			if err := svc.BackfillReview(ctx, rv); err != nil {
				log.Warn().Str("review_id", rv.ID).Err(err).Msg("backfill failed")
				return
			}
			log.Info().Str("review_id", rv.ID).Msg("backfill ok")
		}(rv)
	}

	wg.Wait()
	log.Info().Msg("backfill completed")
}

func buildProvider(cfg shared.Config) domain.FeedbackProvider {
	var gemini, openrouter domain.FeedbackProvider
	if cfg.GeminiKey != "" && cfg.UseGemini {
		if g, err := llm.NewGemini(llm.DefaultGeminiBase, cfg.GeminiKey, cfg.LLMRPS); err == nil {
			gemini = g
		}
	}
	if cfg.OpenRouterKey != "" {
		if o, err := llm.NewOpenRouter(llm.DefaultOpenRouterBase, cfg.OpenRouterKey, cfg.LLMRPS); err == nil {
			openrouter = o
		}
	}
	switch {
	case gemini != nil && openrouter != nil:
		return llm.WithFallback(gemini, openrouter)
	case gemini != nil:
		return gemini
	case openrouter != nil:
		return openrouter
	default:
		return nil
	}
}
