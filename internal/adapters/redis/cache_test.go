package redisad_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	redisad "ai_feedback/internal/adapters/redis"
	"ai_feedback/internal/domain"
)

func TestCache_RoundTripAndDel(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	var missed domain.Review
	ok, err := cache.Get(ctx, "review:missing", &missed)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("expected miss for absent key")
	}

	in := domain.Review{ID: "abc", Rating: 4, Text: "Great service", AISummary: "positive"}
	if err := cache.Set(ctx, "review:abc", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out domain.Review
	ok, err = cache.Get(ctx, "review:abc", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || out.ID != "abc" || out.Rating != 4 || out.Text != "Great service" {
		t.Fatalf("unexpected cached review: %+v", out)
	}

	// entries live under the feedback keyspace in the shared Redis
	if !mr.Exists("feedback:review:abc") {
		t.Fatalf("expected namespaced key in redis, have %v", mr.Keys())
	}

	if err := cache.Del(ctx, "review:abc"); err != nil {
		t.Fatalf("del: %v", err)
	}
	ok, _ = cache.Get(ctx, "review:abc", &out)
	if ok {
		t.Fatalf("expected miss after del")
	}
}
