package observability

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-rules-engine/internal/config"
	"github.com/riskibarqy/fantasy-rules-engine/internal/platform/logging"
)

func TestInitLogger_ShipsErrorLogs(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	requestCount := 0
	var lastAuth, lastBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		requestCount++
		lastAuth = r.Header.Get("Authorization")
		lastBody = string(body)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var stdout bytes.Buffer
	cfg := config.Config{
		BetterStackEnabled:  true,
		BetterStackEndpoint: server.URL,
		BetterStackToken:    "secret-token",
		BetterStackTimeout:  2 * time.Second,
		BetterStackMinLevel: logging.LevelError,
		LogLevel:            logging.LevelInfo,
		LogFormat:           logging.FormatJSON,
		ServiceName:         "fantasy-rules-engine",
		AppEnv:              config.EnvDev,
	}

	logger, shutdown, err := InitLogger(cfg, &stdout)
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}

	logger.ErrorContext(context.Background(), "finalize failed", "gameweek", 7)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown logger: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if requestCount != 1 {
		t.Fatalf("expected 1 shipped entry, got %d", requestCount)
	}
	if lastAuth != "Bearer secret-token" {
		t.Fatalf("unexpected authorization header: %q", lastAuth)
	}
	if !strings.Contains(lastBody, `"gameweek":7`) || !strings.Contains(lastBody, `"service":"fantasy-rules-engine"`) {
		t.Fatalf("unexpected shipped body: %s", lastBody)
	}
	if !strings.Contains(stdout.String(), "finalize failed") {
		t.Fatalf("expected entry on stdout too: %s", stdout.String())
	}
}

func TestInitLogger_RespectsMinLevel(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	requestCount := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requestCount++
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.Config{
		BetterStackEnabled:  true,
		BetterStackEndpoint: server.URL,
		BetterStackTimeout:  2 * time.Second,
		BetterStackMinLevel: logging.LevelError,
		LogLevel:            logging.LevelInfo,
		ServiceName:         "fantasy-rules-engine",
		AppEnv:              config.EnvDev,
	}

	logger, shutdown, err := InitLogger(cfg, io.Discard)
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}

	logger.InfoContext(context.Background(), "gameweek locked", "gameweek", 3)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown logger: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if requestCount != 0 {
		t.Fatalf("expected no request for info log, got %d", requestCount)
	}
}

func TestInitLogger_Disabled(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	logger, shutdown, err := InitLogger(config.Config{LogLevel: logging.LevelInfo, AppEnv: config.EnvDev}, &stdout)
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	logger.Info("squad created", "manager_id", "m-1")
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown logger: %v", err)
	}
	if !strings.Contains(stdout.String(), "betterstack disabled") || !strings.Contains(stdout.String(), "squad created") {
		t.Fatalf("unexpected output: %s", stdout.String())
	}
}

func TestNormalizeBetterStackEndpoint(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":                            "",
		"in.logs.betterstack.com":     "https://in.logs.betterstack.com",
		" http://localhost:9000 ":     "http://localhost:9000",
		"https://in.logs.example.com": "https://in.logs.example.com",
	}
	for in, want := range tests {
		if got := normalizeBetterStackEndpoint(in); got != want {
			t.Fatalf("normalizeBetterStackEndpoint(%q)=%q want=%q", in, got, want)
		}
	}
}
