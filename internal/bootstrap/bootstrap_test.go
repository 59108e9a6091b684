package bootstrap_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"graphsearch/internal/bootstrap"
	"graphsearch/internal/platform/config"
	"graphsearch/internal/platform/logging"
)

func TestNewWiresQueryHandlers(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"answer":"Paris","passages":[{"text":"Paris is in France."}]}`)
	}))
	defer srv.Close()

	cfg := config.Default(t.TempDir())
	cfg.Endpoint = srv.URL
	cfg.LogFile = filepath.Join(t.TempDir(), "logs", "gs.log")
	app, err := bootstrap.New(cfg)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer app.Close()

	out, err := app.QueryCLI.Ask(app.Context(context.Background()), "capital of France")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if out.Answer != "Paris" || len(out.Passages) != 1 {
		t.Fatalf("unexpected output %+v", out)
	}
	tuiOut, err := app.QueryTUI.Ask(context.Background(), "again")
	if err != nil || tuiOut.Answer != "Paris" {
		t.Fatalf("tui handler not wired: %+v %v", tuiOut, err)
	}
}

func TestNewWithLoggerToleratesNilCloser(t *testing.T) {
	t.Parallel()
	app := bootstrap.NewWithLogger(config.Default(t.TempDir()), logging.Discard(), nil)
	if err := app.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
