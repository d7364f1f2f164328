package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/devprompt/devprompt/internal/catalog"
	"github.com/devprompt/devprompt/internal/composer"
	"github.com/devprompt/devprompt/internal/config"
	"github.com/devprompt/devprompt/internal/engine"
	"github.com/devprompt/devprompt/internal/interview"
	"github.com/devprompt/devprompt/internal/planner"
	"github.com/devprompt/devprompt/internal/project"
	"github.com/devprompt/devprompt/internal/storage"
	"github.com/devprompt/devprompt/internal/vendors"
)

func runInterview(cmd *cobra.Command, args []string) error {
	vendorName, _ := cmd.Flags().GetString("output")
	dir, _ := cmd.Flags().GetString("dir")
	maxQuestions, _ := cmd.Flags().GetInt("max-questions")
	offline, _ := cmd.Flags().GetBool("offline")
	noWelcome, _ := cmd.Flags().GetBool("no-welcome")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg.Log.Level)

	registry := vendors.NewRegistry()
	if vendorName != "" {
		if _, err := registry.Get(vendorName); err != nil {
			return err
		}
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	if maxQuestions <= 0 {
		maxQuestions = cfg.Interview.MaxQuestions
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Project context is best-effort; a scan failure never blocks the interview.
	proj, err := project.Scan(ctx, dir)
	if err != nil {
		slog.Debug("project scan failed", "dir", dir, "error", err)
		proj = nil
	}

	eng := buildEngine(ctx, cfg, offline)
	model := cfg.Engine.ResolvedModel()

	var sel planner.Selector
	if eng != nil {
		sel = planner.NewLLMSelector(eng, model, proj)
	}
	pl := planner.New(cat, sel, cfg.Interview.ResolvedSelectTimeout())

	if !noWelcome {
		printWelcome(proj, eng != nil, maxQuestions)
	}

	asker := newStdinAsker(os.Stdin, os.Stderr)
	session := interview.NewSession(cat)
	loop := interview.NewLoop(pl, asker, maxQuestions)
	snap := loop.Run(ctx, session)

	if snap.Partial {
		printWarning("Interview ended early; generating rules from partial answers.")
	}

	renderer := composer.NewRenderer(eng, model, cat)
	prompt := renderer.Render(ctx, snap, proj)

	var outputPath string
	if vendorName != "" {
		outputPath, err = registry.Write(dir, vendorName, prompt, snap)
		if err != nil {
			return fmt.Errorf("writing rules file: %w", err)
		}
		printSuccess("Wrote %s", outputPath)
	} else {
		fmt.Fprintln(os.Stdout, prompt)
	}

	archiveSession(cfg, session, snap, vendorName, outputPath)
	return nil
}

func setupLogging(level string) {
	logLevel := slog.LevelWarn
	switch {
	case strings.EqualFold(level, "debug"):
		logLevel = slog.LevelDebug
	case strings.EqualFold(level, "info"):
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}

func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if cfg.Interview.CatalogPath != "" {
		return catalog.LoadFile(cfg.Interview.CatalogPath)
	}
	return catalog.LoadDefault()
}

// buildEngine returns the configured LLM backend, or nil when the run should
// degrade to deterministic planning and rendering.
func buildEngine(ctx context.Context, cfg config.Config, offline bool) engine.Engine {
	if offline {
		return nil
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if cfg.Engine.Backend == "openai" {
		if cfg.Engine.APIKey == "" {
			printWarning("No API key configured for the openai backend; running offline. Set DEVPROMPT_API_KEY to enable adaptive questions.")
			return nil
		}
		eng := engine.NewOpenAIEngine(cfg.Engine.OpenAIBaseURL, cfg.Engine.APIKey)
		if !eng.IsRunning(checkCtx) {
			printWarning("openai backend not reachable; running offline with deterministic question order.")
			return nil
		}
		return eng
	}

	eng := engine.NewOllamaEngine(cfg.Engine.OllamaBaseURL)
	if !eng.IsRunning(checkCtx) {
		printWarning("ollama backend not reachable; running offline with deterministic question order.")
		return nil
	}
	// A running server without the model would pass the health check but
	// 404 on every chat call.
	model := cfg.Engine.ResolvedModel()
	if !eng.HasModel(checkCtx, model) {
		printWarning("Model %q is not available in ollama; running offline. Pull it with `ollama pull %s`.", model, model)
		return nil
	}
	return eng
}

func printWelcome(proj *project.Info, adaptive bool, maxQuestions int) {
	fmt.Fprintln(os.Stderr, colorize(colorBold, "devprompt — developer preference interview"))
	fmt.Fprintf(os.Stderr, "Up to %d questions. Answer in your own words, or type /done to finish early.\n", maxQuestions)
	if proj != nil && !proj.Empty() {
		printStatus("Project", "%s", proj.Summary())
	}
	if !adaptive {
		printStatus("Mode", "offline (deterministic question order)")
	}
	fmt.Fprintln(os.Stderr)
}

// archiveSession stores the finished run in the local history database.
// Failures are logged and never surface to the user.
func archiveSession(cfg config.Config, session *interview.Session, snap interview.Snapshot, vendor, outputPath string) {
	if !cfg.Storage.HistoryEnabled {
		return
	}

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		slog.Warn("history: opening store failed", "error", err)
		return
	}
	defer store.Close()

	rec := storage.Session{
		ID:            session.ID,
		StartedAt:     session.StartedAt,
		FinishedAt:    time.Now().UTC(),
		State:         session.State().String(),
		QuestionCount: session.QuestionCount(),
		Vendor:        vendor,
		OutputPath:    outputPath,
	}
	for _, field := range snap.Order {
		if a, ok := snap.Value(field); ok {
			rec.Answers = append(rec.Answers, storage.AnswerRecord{Field: field, Value: a.String()})
		}
	}

	if err := store.SaveSession(rec); err != nil {
		slog.Warn("history: saving session failed", "error", err)
	}
}

// stdinAsker reads answers line by line. A single reader goroutine feeds the
// lines channel so Ask can honor context cancellation mid-read.
type stdinAsker struct {
	lines chan string
	out   io.Writer
}

func newStdinAsker(in io.Reader, out io.Writer) *stdinAsker {
	a := &stdinAsker{lines: make(chan string), out: out}
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			a.lines <- sc.Text()
		}
		close(a.lines)
	}()
	return a
}

func (a *stdinAsker) Ask(ctx context.Context, prompt string) (string, error) {
	fmt.Fprintf(a.out, "%s\n", colorize(colorBold, prompt))
	fmt.Fprint(a.out, "> ")

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-a.lines:
		if !ok {
			return "", interview.ErrStop
		}
		if strings.TrimSpace(line) == "/done" {
			return "", interview.ErrStop
		}
		return line, nil
	}
}
