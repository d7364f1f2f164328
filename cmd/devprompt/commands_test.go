package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/devprompt/devprompt/internal/config"
	"github.com/devprompt/devprompt/internal/interview"
	"github.com/devprompt/devprompt/internal/storage"
)

func TestColorize(t *testing.T) {
	old := noColor
	defer func() { noColor = old }()

	noColor = false
	got := colorize(colorGreen, "ok")
	if got != colorGreen+"ok"+colorReset {
		t.Errorf("colorize = %q", got)
	}

	noColor = true
	if got := colorize(colorGreen, "ok"); got != "ok" {
		t.Errorf("colorize with noColor = %q, want plain text", got)
	}
}

func TestStdinAskerReturnsLine(t *testing.T) {
	var out bytes.Buffer
	asker := newStdinAsker(strings.NewReader("go, python\n"), &out)

	got, err := asker.Ask(context.Background(), "Which languages?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if got != "go, python" {
		t.Errorf("Ask = %q", got)
	}
	if !strings.Contains(out.String(), "Which languages?") {
		t.Error("prompt not written to output")
	}
	if !strings.Contains(out.String(), "> ") {
		t.Error("input marker not written to output")
	}
}

func TestStdinAskerDoneCommand(t *testing.T) {
	asker := newStdinAsker(strings.NewReader("  /done  \n"), io.Discard)

	_, err := asker.Ask(context.Background(), "Anything else?")
	if !errors.Is(err, interview.ErrStop) {
		t.Errorf("err = %v, want ErrStop", err)
	}
}

func TestStdinAskerEOF(t *testing.T) {
	asker := newStdinAsker(strings.NewReader(""), io.Discard)

	_, err := asker.Ask(context.Background(), "Anything?")
	if !errors.Is(err, interview.ErrStop) {
		t.Errorf("err = %v, want ErrStop", err)
	}
}

func TestStdinAskerContextCancelled(t *testing.T) {
	// A reader that never produces a line.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	blocked, _ := io.Pipe()
	asker := newStdinAsker(blocked, io.Discard)

	_, err := asker.Ask(ctx, "Still there?")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

// tagsServer serves GET /api/tags with the given model names.
func tagsServer(t *testing.T, names ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var b strings.Builder
		b.WriteString(`{"models": [`)
		for i, n := range names {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(`{"name": "` + n + `"}`)
		}
		b.WriteString(`]}`)
		w.Write([]byte(b.String()))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func ollamaConfig(baseURL string) config.Config {
	var cfg config.Config
	cfg.Engine.Backend = "ollama"
	cfg.Engine.OllamaBaseURL = baseURL
	return cfg
}

func TestBuildEngineOffline(t *testing.T) {
	srv := tagsServer(t, "llama3.2:latest")
	if eng := buildEngine(context.Background(), ollamaConfig(srv.URL), true); eng != nil {
		t.Error("--offline must yield no engine")
	}
}

func TestBuildEngineModelPresent(t *testing.T) {
	srv := tagsServer(t, "llama3.2:latest")
	if eng := buildEngine(context.Background(), ollamaConfig(srv.URL), false); eng == nil {
		t.Error("expected engine when the server is up and the model is pulled")
	}
}

func TestBuildEngineModelMissing(t *testing.T) {
	// Server up, configured model not pulled. The health check alone would
	// pass, so the model check must force offline mode.
	srv := tagsServer(t, "mistral:latest")
	if eng := buildEngine(context.Background(), ollamaConfig(srv.URL), false); eng != nil {
		t.Error("expected no engine when the configured model is absent")
	}
}

func TestBuildEngineServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	if eng := buildEngine(context.Background(), ollamaConfig(srv.URL), false); eng != nil {
		t.Error("expected no engine when the server is unreachable")
	}
}

func TestBuildEngineOpenAINoKey(t *testing.T) {
	var cfg config.Config
	cfg.Engine.Backend = "openai"
	if eng := buildEngine(context.Background(), cfg, false); eng != nil {
		t.Error("expected no engine without an API key")
	}
}

func TestFindSession(t *testing.T) {
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	sess := storage.Session{
		ID:            "4f9a1b2c-0000-0000-0000-000000000000",
		StartedAt:     time.Now().UTC(),
		FinishedAt:    time.Now().UTC(),
		State:         "complete",
		QuestionCount: 3,
	}
	if err := store.SaveSession(sess); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	got, err := findSession(store, sess.ID)
	if err != nil {
		t.Fatalf("findSession full id: %v", err)
	}
	if got.ID != sess.ID {
		t.Errorf("full id lookup returned %q", got.ID)
	}

	got, err = findSession(store, "4f9a1b2c")
	if err != nil {
		t.Fatalf("findSession prefix: %v", err)
	}
	if got.ID != sess.ID {
		t.Errorf("prefix lookup returned %q", got.ID)
	}

	if _, err := findSession(store, "deadbeef"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("unknown prefix err = %v, want ErrNotFound", err)
	}
}
