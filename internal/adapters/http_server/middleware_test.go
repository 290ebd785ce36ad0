package httpserver_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	server "ai_feedback/internal/adapters/http_server"
)

func TestLogger_HealthPollsStayOutOfInfoStream(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf).Level(zerolog.InfoLevel)

	r := chi.NewRouter()
	r.Use(server.Logger(l))
	ok := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }
	r.Get("/health", ok)
	r.Get("/api/admin/reviews", ok)

	ts := httptest.NewServer(r)
	defer ts.Close()

	for _, path := range []string{"/health", "/api/admin/reviews"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
	}

	out := buf.String()
	if strings.Contains(out, `"route":"/health"`) {
		t.Fatalf("health request logged at info level: %s", out)
	}
	if !strings.Contains(out, `"route":"/api/admin/reviews"`) {
		t.Fatalf("expected info log for admin route, got: %s", out)
	}
}
